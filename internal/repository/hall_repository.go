package repository // repository holds data access logic for domain entities

import (
	"context"       // context is used to manage deadlines and cancellation
	"database/sql"  // sql provides DB primitives
	"encoding/json" // json encodes the facilities column
	"errors"        // errors package allows sentinel error definitions
	"strings"       // strings assembles dynamic filter clauses

	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrHallNotBookable is returned when a reserve targets a hall that
// exists but is not in approved status.
var ErrHallNotBookable = errors.New("hall is not open for booking")

// HallRepo provides methods to create, retrieve and search halls.  It
// embeds a database handle to perform queries and commands.
type HallRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

const hallColumns = `id, owner_id, name, location, capacity, pricing_cents, facilities, status, created_at, updated_at`

func scanHall(row interface{ Scan(...interface{}) error }) (*model.Hall, error) {
	var h model.Hall
	var facilities sql.NullString
	if err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Location, &h.Capacity, &h.PricingCents, &facilities, &h.Status, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.Facilities = []string{}
	if facilities.Valid && facilities.String != "" {
		// facilities is a JSON array of labels; a malformed value is
		// treated as empty rather than failing the whole read.
		_ = json.Unmarshal([]byte(facilities.String), &h.Facilities)
	}
	return &h, nil
}

// Create inserts a new hall in pending status.  The hall must have
// OwnerID, Name, Location, Capacity and PricingCents set.  After insert
// the record is read back so timestamps and defaults are populated.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	facJSON, err := json.Marshal(h.Facilities)
	if err != nil {
		return err
	}
	const qInsert = `INSERT INTO halls (owner_id, name, location, capacity, pricing_cents, facilities)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.Location, h.Capacity, h.PricingCents, string(facJSON))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	created, err := r.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = *created
	return nil
}

// GetByID retrieves a hall by its ID regardless of owner.  It returns
// ErrHallNotFound when no row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
	h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

// Update rewrites the owner-editable fields of a hall.  Ownership is
// enforced here: the UPDATE is conditioned on owner_id, and a zero row
// count distinguishes "not yours" from "absent".
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	facJSON, err := json.Marshal(h.Facilities)
	if err != nil {
		return err
	}
	const q = `UPDATE halls SET name=?, location=?, capacity=?, pricing_cents=?, facilities=?
	           WHERE id=? AND owner_id=?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.Location, h.Capacity, h.PricingCents, string(facJSON), h.ID, h.OwnerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		existing, err := r.GetByID(ctx, h.ID)
		if err != nil {
			return err // ErrHallNotFound or infrastructure
		}
		if existing.OwnerID != h.OwnerID {
			return ErrForbidden
		}
		// Row exists and belongs to the owner; the update was a no-op.
	}
	updated, err := r.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = *updated
	return nil
}

// UpdateStatus sets a hall's approval status (admin operation).
func (r *HallRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE halls SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM halls WHERE id=?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrHallNotFound
		}
	}
	return nil
}

// Delete removes a hall.  The caller decides whether the actor may
// delete (owner of the hall or an admin); bookings and reviews cascade.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHallNotFound
	}
	return nil
}

// ListByOwner returns all halls belonging to an owner, newest first.
func (r *HallRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE owner_id = ? ORDER BY created_at DESC`
	return r.queryHalls(ctx, q, ownerID)
}

// ListApproved returns every hall visible to the public browse surface.
func (r *HallRepo) ListApproved(ctx context.Context) ([]*model.Hall, error) {
	const q = `SELECT ` + hallColumns + ` FROM halls WHERE status = 'approved' ORDER BY created_at DESC`
	return r.queryHalls(ctx, q)
}

func (r *HallRepo) queryHalls(ctx context.Context, q string, args ...interface{}) ([]*model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]*model.Hall, 0)
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return halls, nil
}

// AdminHallRow pairs a hall with its owner's contact details for the
// admin oversight listing.
type AdminHallRow struct {
	model.Hall
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

// ListAllWithOwner returns every hall joined with its owner, newest first.
func (r *HallRepo) ListAllWithOwner(ctx context.Context) ([]AdminHallRow, error) {
	const q = `SELECT h.id, h.owner_id, h.name, h.location, h.capacity, h.pricing_cents, h.facilities, h.status, h.created_at, h.updated_at,
	                  u.name, u.email
	           FROM halls h
	           JOIN users u ON u.id = h.owner_id
	           ORDER BY h.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminHallRow, 0)
	for rows.Next() {
		var row AdminHallRow
		var facilities sql.NullString
		if err := rows.Scan(&row.ID, &row.OwnerID, &row.Name, &row.Location, &row.Capacity, &row.PricingCents, &facilities, &row.Status, &row.CreatedAt, &row.UpdatedAt,
			&row.OwnerName, &row.OwnerEmail); err != nil {
			return nil, err
		}
		row.Facilities = []string{}
		if facilities.Valid && facilities.String != "" {
			_ = json.Unmarshal([]byte(facilities.String), &row.Facilities)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchQuery defines the optional filters accepted by hall search.
// Zero values mean "no filter".  Date, when set (YYYY-MM-DD), excludes
// halls that already have an active booking on that calendar day.
type SearchQuery struct {
	Location    string
	MinCapacity uint32
	MaxPrice    uint64
	Date        string
}

// Search returns approved halls matching the query.  Simple filters
// only; no ranking.
func (r *HallRepo) Search(ctx context.Context, q SearchQuery) ([]*model.Hall, error) {
	where := []string{"status = 'approved'"}
	args := []interface{}{}

	if q.Location != "" {
		where = append(where, "LOWER(location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.MinCapacity > 0 {
		where = append(where, "capacity >= ?")
		args = append(args, q.MinCapacity)
	}
	if q.MaxPrice > 0 {
		where = append(where, "pricing_cents <= ?")
		args = append(args, q.MaxPrice)
	}
	if q.Date != "" {
		// A hall is hidden for the requested day when any booking still
		// contends for a slot that day, regardless of slot.
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.hall_id = halls.id
			  AND b.booking_date = ?
			  AND b.status IN ('pending','approved'))`)
		args = append(args, q.Date)
	}

	query := `SELECT ` + hallColumns + ` FROM halls WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`
	return r.queryHalls(ctx, query, args...)
}

// Count returns the total number of halls.  Used by the admin overview.
func (r *HallRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM halls`).Scan(&n)
	return n, err
}
