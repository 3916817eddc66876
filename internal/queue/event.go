// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingActivityEvent is published on every booking lifecycle
// transition (reserved, approved, rejected, cancelled, admin override).
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type BookingActivityEvent struct {
	BookingID   uint64 `json:"booking_id"`
	ActorID     uint64 `json:"actor_id"`
	ActorRole   string `json:"actor_role"`
	Action      string `json:"action"`
	HallID      uint64 `json:"hall_id"`
	HallName    string `json:"hall_name"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
	Status      string `json:"status"`
	OccurredAt  string `json:"occurred_at"`
}
