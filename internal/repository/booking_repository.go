package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo implements the booking lifecycle on top of database/sql.
// All state transitions run inside transactions; the competing-reserve
// race is closed by locking the hall row (SELECT ... FOR UPDATE) so
// that at most one reserve per hall proceeds at a time, with the
// bookings.active_key unique index as the backstop should two inserts
// ever slip through (key 1062 maps to ErrSlotUnavailable, never a 500).
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// isDuplicateKey reports whether err is a MySQL duplicate-entry error.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// Available reports whether the (hall, date, slot) tuple is free of
// active bookings. Pending and approved bookings both occupy the slot.
func (r *BookingRepo) Available(ctx context.Context, hallID uint64, date, slot string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE hall_id=? AND booking_date=? AND time_slot=? AND status IN ('pending','approved'))`,
		hallID, date, slot).Scan(&taken)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Reserve creates a pending booking for the tuple, or fails with a
// domain error:
//
//	ErrHallNotFound     — the hall does not exist
//	ErrHallNotBookable  — the hall is not approved
//	ErrDuplicateBooking — the same requester already holds an active
//	                      booking for the tuple
//	ErrSlotUnavailable  — another requester holds an active booking,
//	                      or a concurrent reserve won the race
//
// On success the booking is read back so callers see DB-assigned
// timestamps, and the hall name is returned for activity recording.
func (r *BookingRepo) Reserve(ctx context.Context, userID, hallID uint64, date, slot string, guests uint32) (*model.Booking, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	// Lock the hall row so competing reserves for the same hall
	// serialize here instead of racing at the insert.
	var hallName, hallStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT name, status FROM halls WHERE id=? FOR UPDATE`, hallID).
		Scan(&hallName, &hallStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrHallNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if hallStatus != model.HallStatusApproved {
		return nil, "", ErrHallNotBookable
	}

	// Requester idempotence check first so the caller sees 409 rather
	// than 400 when the conflict is their own active booking.
	var mine bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE user_id=? AND hall_id=? AND booking_date=? AND time_slot=? AND status IN ('pending','approved'))`,
		userID, hallID, date, slot).Scan(&mine)
	if err != nil {
		return nil, "", err
	}
	if mine {
		return nil, "", ErrDuplicateBooking
	}

	var taken bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE hall_id=? AND booking_date=? AND time_slot=? AND status IN ('pending','approved'))`,
		hallID, date, slot).Scan(&taken)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrSlotUnavailable
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, hall_id, booking_date, time_slot, guests) VALUES (?,?,?,?,?)`,
		userID, hallID, date, slot, guests)
	if err != nil {
		if isDuplicateKey(err) {
			// Lost a race that slipped past the lock; the slot is taken.
			return nil, "", ErrSlotUnavailable
		}
		return nil, "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, "", err
	}

	var b model.Booking
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, hall_id, DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, guests, status, created_at, updated_at
		 FROM bookings WHERE id=?`, uint64(id)).
		Scan(&b.ID, &b.UserID, &b.HallID, &b.BookingDate, &b.TimeSlot, &b.Guests, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return &b, hallName, nil
}

// Decide sets a booking to approved or rejected on behalf of the hall
// owner. Only the owner of the booked hall may decide; a decision
// overwrites any earlier one, including flipping rejected back to
// approved. Flipping to approved re-contends for the slot, so a 1062
// from the active_key index maps to ErrSlotUnavailable.
//
// Returns the updated booking plus the hall name and requester ID for
// activity recording.
func (r *BookingRepo) Decide(ctx context.Context, ownerID, bookingID uint64, status string) (*model.Booking, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	var b model.Booking
	var hallName string
	var hallOwner uint64
	err = tx.QueryRowContext(ctx,
		`SELECT b.id, b.user_id, b.hall_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.guests, b.status, b.created_at, b.updated_at,
		        h.name, h.owner_id
		 FROM bookings b
		 JOIN halls h ON h.id = b.hall_id
		 WHERE b.id=? FOR UPDATE`, bookingID).
		Scan(&b.ID, &b.UserID, &b.HallID, &b.BookingDate, &b.TimeSlot, &b.Guests, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&hallName, &hallOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrBookingNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if hallOwner != ownerID {
		return nil, "", ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status=? WHERE id=?`, status, bookingID); err != nil {
		if isDuplicateKey(err) {
			return nil, "", ErrSlotUnavailable
		}
		return nil, "", err
	}

	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, hall_id, DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, guests, status, created_at, updated_at
		 FROM bookings WHERE id=?`, bookingID).
		Scan(&b.ID, &b.UserID, &b.HallID, &b.BookingDate, &b.TimeSlot, &b.Guests, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return &b, hallName, nil
}

// Cancel marks a requester's own booking cancelled. Cancelling is
// allowed from pending or approved; a cancelled or rejected booking is
// final. The conditional UPDATE makes the precondition atomic.
//
// Returns the cancelled booking and hall name for activity recording.
func (r *BookingRepo) Cancel(ctx context.Context, userID, bookingID uint64) (*model.Booking, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	var ownerOfBooking uint64
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, status FROM bookings WHERE id=? FOR UPDATE`, bookingID).
		Scan(&ownerOfBooking, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrBookingNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if ownerOfBooking != userID {
		return nil, "", ErrForbidden
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status='cancelled' WHERE id=? AND status IN ('pending','approved')`,
		bookingID)
	if err != nil {
		return nil, "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, "", err
	}
	if n == 0 {
		return nil, "", ErrAlreadyFinalized
	}

	var b model.Booking
	var hallName string
	err = tx.QueryRowContext(ctx,
		`SELECT b.id, b.user_id, b.hall_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.guests, b.status, b.created_at, b.updated_at, h.name
		 FROM bookings b JOIN halls h ON h.id = b.hall_id
		 WHERE b.id=?`, bookingID).
		Scan(&b.ID, &b.UserID, &b.HallID, &b.BookingDate, &b.TimeSlot, &b.Guests, &b.Status, &b.CreatedAt, &b.UpdatedAt, &hallName)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return &b, hallName, nil
}

// AdminUpdateStatus lets an admin override a booking's status, but only
// while it is still pending. Once an owner has decided or the requester
// has cancelled, the admin path refuses with ErrAlreadyFinalized.
func (r *BookingRepo) AdminUpdateStatus(ctx context.Context, bookingID uint64, status string) (*model.Booking, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND status='pending'`, status, bookingID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, "", ErrSlotUnavailable
		}
		return nil, "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, "", err
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE id=?)`, bookingID).Scan(&exists); err != nil {
			return nil, "", err
		}
		if !exists {
			return nil, "", ErrBookingNotFound
		}
		return nil, "", ErrAlreadyFinalized
	}

	var b model.Booking
	var hallName string
	err = tx.QueryRowContext(ctx,
		`SELECT b.id, b.user_id, b.hall_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.guests, b.status, b.created_at, b.updated_at, h.name
		 FROM bookings b JOIN halls h ON h.id = b.hall_id
		 WHERE b.id=?`, bookingID).
		Scan(&b.ID, &b.UserID, &b.HallID, &b.BookingDate, &b.TimeSlot, &b.Guests, &b.Status, &b.CreatedAt, &b.UpdatedAt, &hallName)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return &b, hallName, nil
}

// UserBookingRow is a booking joined with its hall's display fields,
// shaped for the requester's own history view.
type UserBookingRow struct {
	model.Booking
	HallName     string `json:"hall_name"`
	HallLocation string `json:"hall_location"`
}

// ListByUser returns the requester's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]UserBookingRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.hall_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.guests, b.status, b.created_at, b.updated_at,
		        h.name, h.location
		 FROM bookings b JOIN halls h ON h.id = b.hall_id
		 WHERE b.user_id=?
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]UserBookingRow, 0)
	for rows.Next() {
		var row UserBookingRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.HallID, &row.BookingDate, &row.TimeSlot, &row.Guests, &row.Status, &row.CreatedAt, &row.UpdatedAt,
			&row.HallName, &row.HallLocation); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// OwnerBookingRow is a booking joined with requester contact details,
// shaped for the hall owner's incoming-requests view.
type OwnerBookingRow struct {
	model.Booking
	HallName      string `json:"hall_name"`
	RequesterName string `json:"requester_name"`
	RequesterMail string `json:"requester_email"`
}

// ListForOwner returns all bookings against the owner's halls, soonest
// event date first so upcoming requests surface at the top.
func (r *BookingRepo) ListForOwner(ctx context.Context, ownerID uint64) ([]OwnerBookingRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.hall_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.guests, b.status, b.created_at, b.updated_at,
		        h.name, u.name, u.email
		 FROM bookings b
		 JOIN halls h ON h.id = b.hall_id
		 JOIN users u ON u.id = b.user_id
		 WHERE h.owner_id=?
		 ORDER BY b.booking_date ASC, b.created_at ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OwnerBookingRow, 0)
	for rows.Next() {
		var row OwnerBookingRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.HallID, &row.BookingDate, &row.TimeSlot, &row.Guests, &row.Status, &row.CreatedAt, &row.UpdatedAt,
			&row.HallName, &row.RequesterName, &row.RequesterMail); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AdminBookingRow carries the full cross-party view for oversight.
type AdminBookingRow struct {
	model.Booking
	HallName      string `json:"hall_name"`
	OwnerName     string `json:"owner_name"`
	RequesterName string `json:"requester_name"`
}

// ListRecent returns bookings created within the last N days across the
// whole platform, newest first.
func (r *BookingRepo) ListRecent(ctx context.Context, days int) ([]AdminBookingRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.hall_id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.guests, b.status, b.created_at, b.updated_at,
		        h.name, o.name, u.name
		 FROM bookings b
		 JOIN halls h ON h.id = b.hall_id
		 JOIN users o ON o.id = h.owner_id
		 JOIN users u ON u.id = b.user_id
		 WHERE b.created_at >= NOW() - INTERVAL ? DAY
		 ORDER BY b.created_at DESC`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminBookingRow, 0)
	for rows.Next() {
		var row AdminBookingRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.HallID, &row.BookingDate, &row.TimeSlot, &row.Guests, &row.Status, &row.CreatedAt, &row.UpdatedAt,
			&row.HallName, &row.OwnerName, &row.RequesterName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// HallReportRow aggregates lifecycle counts and the review average for
// one hall, feeding the owner report.
type HallReportRow struct {
	HallID    uint64  `json:"hall_id"`
	HallName  string  `json:"hall_name"`
	Total     int64   `json:"total_bookings"`
	Pending   int64   `json:"pending"`
	Approved  int64   `json:"approved"`
	Rejected  int64   `json:"rejected"`
	Cancelled int64   `json:"cancelled"`
	AvgRating float64 `json:"avg_rating"`
	Reviews   int64   `json:"review_count"`
}

// StatsByOwner returns per-hall booking counts and review averages for
// every hall of an owner, including halls with no bookings yet.
func (r *BookingRepo) StatsByOwner(ctx context.Context, ownerID uint64) ([]HallReportRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT h.id, h.name,
		        COUNT(b.id),
		        COALESCE(SUM(b.status='pending'),0),
		        COALESCE(SUM(b.status='approved'),0),
		        COALESCE(SUM(b.status='rejected'),0),
		        COALESCE(SUM(b.status='cancelled'),0),
		        (SELECT COALESCE(AVG(rv.rating),0) FROM reviews rv WHERE rv.hall_id = h.id),
		        (SELECT COUNT(*) FROM reviews rv WHERE rv.hall_id = h.id)
		 FROM halls h
		 LEFT JOIN bookings b ON b.hall_id = h.id
		 WHERE h.owner_id=?
		 GROUP BY h.id, h.name
		 ORDER BY h.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]HallReportRow, 0)
	for rows.Next() {
		var row HallReportRow
		if err := rows.Scan(&row.HallID, &row.HallName, &row.Total, &row.Pending, &row.Approved, &row.Rejected, &row.Cancelled, &row.AvgRating, &row.Reviews); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountByStatus returns booking totals grouped by status.
func (r *BookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int64{
		model.BookingStatusPending:   0,
		model.BookingStatusApproved:  0,
		model.BookingStatusRejected:  0,
		model.BookingStatusCancelled: 0,
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
