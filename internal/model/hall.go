package model

import "time"

// Hall status values.  A hall is submitted by its owner in "pending"
// state, becomes bookable once an admin approves it, and can be taken
// off the market by setting it "inactive".
const (
	HallStatusPending  = "pending"
	HallStatusApproved = "approved"
	HallStatusInactive = "inactive"
)

// ValidHallStatus reports whether s is a recognised hall status.
func ValidHallStatus(s string) bool {
	return s == HallStatusPending || s == HallStatusApproved || s == HallStatusInactive
}

// Hall represents a bookable venue listed by an owner.  Only approved
// halls appear in search results and accept bookings.
//
// Fields:
//  ID           – primary key identifier.
//  OwnerID      – user ID of the listing owner.
//  Name         – human readable label for the hall.
//  Location     – free-text address/area used by search filters.
//  Capacity     – maximum number of guests.
//  PricingCents – price per booking in cents; display only, no payment flow.
//  Facilities   – optional JSON array of facility labels.
//  Status       – pending/approved/inactive.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Hall struct {
	ID           uint64    `json:"id"`            // halls.id
	OwnerID      uint64    `json:"owner_id"`      // halls.owner_id
	Name         string    `json:"name"`          // halls.name
	Location     string    `json:"location"`      // halls.location
	Capacity     uint32    `json:"capacity"`      // halls.capacity
	PricingCents uint64    `json:"pricing_cents"` // halls.pricing_cents
	Facilities   []string  `json:"facilities"`    // halls.facilities (JSON column)
	Status       string    `json:"status"`        // halls.status
	CreatedAt    time.Time `json:"created_at"`    // halls.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // halls.updated_at
}
