package model

import "time"

// Activity is an append-only audit entry describing a booking lifecycle
// action.  It is observational only: nothing reads activities back to
// make decisions, and old entries are pruned by a retention job.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – actor who performed the action.
//  Role        – actor role at the time (user, owner or admin), which
//                keeps one account's feeds separate per role.
//  Action      – short action label, e.g. "Booking Created".
//  Description – free-text detail line.
//  HallName    – name of the hall involved, when applicable.
//  CreatedAt   – creation timestamp.
type Activity struct {
	ID          uint64    `json:"id"`          // activities.id
	UserID      uint64    `json:"user_id"`     // activities.user_id
	Role        string    `json:"role"`        // activities.role
	Action      string    `json:"action"`      // activities.action
	Description string    `json:"description"` // activities.description
	HallName    *string   `json:"hall_name"`   // activities.hall_name (nullable)
	CreatedAt   time.Time `json:"created_at"`  // activities.created_at
}
