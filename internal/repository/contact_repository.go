package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// ErrMessageNotFound is returned when a contact message lookup fails.
var ErrMessageNotFound = errors.New("message not found")

// ContactRepo stores messages submitted through the public contact
// form; admins read and discard them.
type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// Insert stores a new contact message.
func (r *ContactRepo) Insert(ctx context.Context, m *model.ContactMessage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (name, email, subject, body) VALUES (?,?,?,?)`,
		m.Name, m.Email, m.Subject, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// List returns all messages, newest first.
func (r *ContactRepo) List(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, subject, body, created_at FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes a handled message.
func (r *ContactRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMessageNotFound
	}
	return nil
}
