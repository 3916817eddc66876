package model

import "time"

// Review is feedback left by a requester after a completed stay.  A
// booking qualifies for review once it is approved and its date has
// passed, and it can be reviewed at most once (UNIQUE booking_id).
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – review author (the booking's requester).
//  HallID    – hall being reviewed.
//  BookingID – completed booking this review is tied to; unique.
//  Rating    – 1 to 5 stars.
//  Comment   – optional free text.
//  CreatedAt – creation timestamp.
type Review struct {
	ID        uint64    `json:"id"`         // reviews.id
	UserID    uint64    `json:"user_id"`    // reviews.user_id
	HallID    uint64    `json:"hall_id"`    // reviews.hall_id
	BookingID uint64    `json:"booking_id"` // reviews.booking_id (UNIQUE)
	Rating    uint8     `json:"rating"`     // reviews.rating (1..5)
	Comment   *string   `json:"comment"`    // reviews.comment (nullable)
	CreatedAt time.Time `json:"created_at"` // reviews.created_at
}
