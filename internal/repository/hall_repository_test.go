package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

var hallCols = []string{"id", "owner_id", "name", "location", "capacity", "pricing_cents", "facilities", "status", "created_at", "updated_at"}

func TestGetHallByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHallRepo(db)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM halls WHERE id = \?`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows(hallCols).
				AddRow(3, 5, "Grand Hall", "Riverside", 300, 2500000, `["parking","stage"]`, "approved", now, now))

		h, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Grand Hall", h.Name)
		assert.Equal(t, []string{"parking", "stage"}, h.Facilities)
	})

	t.Run("Null Facilities Become Empty Slice", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM halls WHERE id = \?`).
			WithArgs(uint64(4)).
			WillReturnRows(sqlmock.NewRows(hallCols).
				AddRow(4, 5, "Bare Hall", "Midtown", 80, 900000, nil, "approved", now, now))

		h, err := repo.GetByID(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, []string{}, h.Facilities)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM halls WHERE id = \?`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows(hallCols))

		_, err := repo.GetByID(context.Background(), 404)
		assert.ErrorIs(t, err, ErrHallNotFound)
	})
}

func TestUpdateHallOwnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHallRepo(db)
	now := time.Now()

	t.Run("Foreign Hall Forbidden", func(t *testing.T) {
		// Zero rows from the owner-scoped UPDATE plus an existing row
		// owned by someone else means the caller is not the owner.
		mock.ExpectExec(`UPDATE halls SET`).
			WithArgs("New Name", "Riverside", uint32(300), uint64(2500000), `["parking"]`, uint64(3), uint64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM halls WHERE id = \?`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows(hallCols).
				AddRow(3, 5, "Grand Hall", "Riverside", 300, 2500000, `["parking"]`, "approved", now, now))

		h := &model.Hall{ID: 3, OwnerID: 99, Name: "New Name", Location: "Riverside", Capacity: 300, PricingCents: 2500000, Facilities: []string{"parking"}}
		err := repo.Update(context.Background(), h)
		assert.ErrorIs(t, err, ErrForbidden)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchHalls(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewHallRepo(db)
	now := time.Now()

	t.Run("All Filters", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM halls WHERE status = 'approved' AND LOWER\(location\) LIKE \? AND capacity >= \? AND pricing_cents <= \? AND NOT EXISTS`).
			WithArgs("%riverside%", uint32(100), uint64(3000000), "2026-09-10").
			WillReturnRows(sqlmock.NewRows(hallCols).
				AddRow(3, 5, "Grand Hall", "Riverside", 300, 2500000, `[]`, "approved", now, now))

		items, err := repo.Search(context.Background(), SearchQuery{
			Location:    "Riverside",
			MinCapacity: 100,
			MaxPrice:    3000000,
			Date:        "2026-09-10",
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, uint64(3), items[0].ID)
	})

	t.Run("No Filters Returns Approved Only", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM halls WHERE status = 'approved' ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(hallCols))

		items, err := repo.Search(context.Background(), SearchQuery{})
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
