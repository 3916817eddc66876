package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// ActivityRepo records per-user activity entries (bookings placed,
// decisions made, reviews left). Reads are windowed by a retention
// duration; physical deletion happens out of band in a scheduled
// pruner, never on the request path.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Insert appends an activity entry.
func (r *ActivityRepo) Insert(ctx context.Context, a *model.Activity) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (user_id, role, action, description, hall_name) VALUES (?,?,?,?,?)`,
		a.UserID, a.Role, a.Action, a.Description, a.HallName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// ListByUserAndRole returns the user's entries recorded under the given
// role within the retention window, newest first. Role scoping keeps an
// owner's feed separate from the same account acting as a requester.
func (r *ActivityRepo) ListByUserAndRole(ctx context.Context, userID uint64, role string, retention time.Duration) ([]model.Activity, error) {
	cutoff := time.Now().UTC().Add(-retention)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, role, action, description, hall_name, created_at
		 FROM activities
		 WHERE user_id=? AND role=? AND created_at >= ?
		 ORDER BY created_at DESC`, userID, role, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.Action, &a.Description, &a.HallName, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes entries past the retention window and returns
// how many were pruned.
func (r *ActivityRepo) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
