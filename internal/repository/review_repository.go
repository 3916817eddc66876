package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// ReviewRepo stores hall reviews. A review is gated on a completed
// stay: the requester must hold an approved booking for the hall whose
// event date is already past, and each booking may carry at most one
// review (UNIQUE on booking_id).
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review after checking the completion gate. The most
// recent qualifying booking is the one the review attaches to. Returns
// ErrNoCompletedBooking when the gate fails and ErrAlreadyReviewed when
// that booking already has a review.
func (r *ReviewRepo) Create(ctx context.Context, userID, hallID uint64, rating uint8, comment *string) (*model.Review, error) {
	var bookingID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM bookings
		 WHERE user_id=? AND hall_id=? AND status='approved' AND booking_date < CURDATE()
		 ORDER BY booking_date DESC, id DESC
		 LIMIT 1`, userID, hallID).Scan(&bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCompletedBooking
	}
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, hall_id, booking_id, rating, comment) VALUES (?,?,?,?,?)`,
		userID, hallID, bookingID, rating, comment)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var rv model.Review
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, hall_id, booking_id, rating, comment, created_at FROM reviews WHERE id=?`,
		uint64(id)).
		Scan(&rv.ID, &rv.UserID, &rv.HallID, &rv.BookingID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// HallReviewRow is a review joined with the author's display name.
type HallReviewRow struct {
	model.Review
	AuthorName string `json:"author_name"`
}

// ListByHall returns a hall's reviews, newest first.
func (r *ReviewRepo) ListByHall(ctx context.Context, hallID uint64) ([]HallReviewRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rv.id, rv.user_id, rv.hall_id, rv.booking_id, rv.rating, rv.comment, rv.created_at, u.name
		 FROM reviews rv JOIN users u ON u.id = rv.user_id
		 WHERE rv.hall_id=?
		 ORDER BY rv.created_at DESC`, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]HallReviewRow, 0)
	for rows.Next() {
		var row HallReviewRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.HallID, &row.BookingID, &row.Rating, &row.Comment, &row.CreatedAt, &row.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// AverageByHall returns the mean rating and review count for a hall.
// A hall with no reviews yields (0, 0) rather than an error.
func (r *ReviewRepo) AverageByHall(ctx context.Context, hallID uint64) (float64, int64, error) {
	var avg sql.NullFloat64
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(rating), COUNT(*) FROM reviews WHERE hall_id=?`, hallID).
		Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}

// OwnerReviewRow adds the hall name so owners can see which of their
// venues a review belongs to.
type OwnerReviewRow struct {
	HallReviewRow
	HallName string `json:"hall_name"`
}

// ListByOwnerHalls returns reviews across all halls of an owner.
func (r *ReviewRepo) ListByOwnerHalls(ctx context.Context, ownerID uint64) ([]OwnerReviewRow, error) {
	return r.queryWithHall(ctx,
		`SELECT rv.id, rv.user_id, rv.hall_id, rv.booking_id, rv.rating, rv.comment, rv.created_at, u.name, h.name
		 FROM reviews rv
		 JOIN users u ON u.id = rv.user_id
		 JOIN halls h ON h.id = rv.hall_id
		 WHERE h.owner_id=?
		 ORDER BY rv.created_at DESC`, ownerID)
}

// ListAll returns every review on the platform for admin moderation.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]OwnerReviewRow, error) {
	return r.queryWithHall(ctx,
		`SELECT rv.id, rv.user_id, rv.hall_id, rv.booking_id, rv.rating, rv.comment, rv.created_at, u.name, h.name
		 FROM reviews rv
		 JOIN users u ON u.id = rv.user_id
		 JOIN halls h ON h.id = rv.hall_id
		 ORDER BY rv.created_at DESC`)
}

func (r *ReviewRepo) queryWithHall(ctx context.Context, q string, args ...interface{}) ([]OwnerReviewRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]OwnerReviewRow, 0)
	for rows.Next() {
		var row OwnerReviewRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.HallID, &row.BookingID, &row.Rating, &row.Comment, &row.CreatedAt, &row.AuthorName, &row.HallName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ErrReviewNotFound is returned when a moderation delete targets a
// review that does not exist.
var ErrReviewNotFound = errors.New("review not found")

// Delete removes a review (admin moderation).
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
