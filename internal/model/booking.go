package model

import "time"

// Booking status values.  "pending" is the only non-terminal state for
// the requester: owners move a pending booking to approved/rejected and
// the requester may cancel while it is pending or approved.  Rejected
// and cancelled bookings never transition again.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// Time slots form a closed enumeration.  Earlier revisions of the API
// accepted free-text slots; only these two values are accepted now.
const (
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// ValidTimeSlot reports whether s is one of the enumerated slots.
func ValidTimeSlot(s string) bool {
	return s == SlotAfternoon || s == SlotEvening
}

// ActiveBookingStatus reports whether s still contends for its slot.
// Pending and approved bookings block the (hall, date, slot) tuple for
// everyone else; rejected and cancelled ones do not.
func ActiveBookingStatus(s string) bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// TerminalBookingStatus reports whether s permits no further transition
// by the requester.
func TerminalBookingStatus(s string) bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

// Booking records a user's request for a hall on a calendar date and
// time slot.  Bookings are never deleted; cancellation is a status.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – requester.
//  HallID      – hall being booked.
//  BookingDate – calendar date, no time component (YYYY-MM-DD). The
//                repository selects the column through DATE_FORMAT so
//                the driver's parseTime setting cannot turn it into an
//                RFC3339 timestamp.
//  TimeSlot    – afternoon or evening.
//  Guests      – positive guest count.
//  Status      – pending/approved/rejected/cancelled.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    `json:"id"`           // bookings.id
	UserID      uint64    `json:"user_id"`      // bookings.user_id
	HallID      uint64    `json:"hall_id"`      // bookings.hall_id
	BookingDate string    `json:"booking_date"` // bookings.booking_date (DATE)
	TimeSlot    string    `json:"time_slot"`    // bookings.time_slot
	Guests      uint32    `json:"guests"`       // bookings.guests
	Status      string    `json:"status"`       // bookings.status
	CreatedAt   time.Time `json:"created_at"`   // bookings.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // bookings.updated_at
}
