// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user lacks the
// required relationship to a resource (a non-owner deciding a booking,
// a requester cancelling someone else's booking), while
// ErrSlotUnavailable signals that a (hall, date, slot) tuple is already
// taken by an active booking.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicateBooking is returned when a requester already holds an
// active booking for the same (hall, date, slot) tuple. Handlers
// should translate this into an HTTP 409 response.
var ErrDuplicateBooking = errors.New("duplicate booking request")

// ErrSlotUnavailable is returned when an active booking by any
// requester already occupies the (hall, date, slot) tuple — including
// when a concurrent reserve wins the race and this one loses. Handlers
// should translate this into an HTTP 400 response, never a 500.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrAlreadyFinalized is returned when a transition is attempted on a
// booking whose status permits no further transitions (cancelled or
// rejected; for the admin path anything other than pending).
var ErrAlreadyFinalized = errors.New("booking already finalized")

// ErrNoCompletedBooking is returned by the review gate when the
// requester has no approved, past-dated booking for the hall.
var ErrNoCompletedBooking = errors.New("no completed booking to review")

// ErrAlreadyReviewed is returned when the qualifying booking already
// has a review. Each booking can be reviewed at most once.
var ErrAlreadyReviewed = errors.New("booking already reviewed")
