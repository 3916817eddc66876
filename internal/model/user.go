package model

import "time"

// Role values stored in users.role and carried in the JWT "role" claim.
// The API recognises exactly three roles: regular users book halls,
// owners list halls and decide booking requests, admins oversee both.
const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// ValidRole reports whether s is one of the recognised roles.
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleOwner || s == RoleAdmin
}

// User represents an account in the marketplace.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name shown in listings and activity entries.
//  Email        – unique login identifier, stored lower-cased.
//  PasswordHash – bcrypt hash; never serialized.
//  Role         – one of user/owner/admin.
//  IsActive     – soft enable/disable flag set by admins.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Name         string    `json:"name"`       // users.name
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password_hash
	Role         string    `json:"role"`       // users.role
	IsActive     bool      `json:"is_active"`  // users.is_active
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}
