package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingCols = []string{"id", "user_id", "hall_id", "booking_date", "time_slot", "guests", "status", "created_at", "updated_at"}

func TestReserve(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, status FROM halls WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "status"}).AddRow("Grand Hall", "approved"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(7), uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(uint64(7), uint64(3), "2026-09-10", "evening", uint32(120)).
			WillReturnResult(sqlmock.NewResult(42, 1))
		// The read-back formats the DATE column server-side so the
		// response carries a plain calendar date even with parseTime=true.
		mock.ExpectQuery(`SELECT id, user_id, hall_id, DATE_FORMAT\(booking_date, '%Y-%m-%d'\)`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "pending", now, now))
		mock.ExpectCommit()

		b, hallName, err := repo.Reserve(context.Background(), 7, 3, "2026-09-10", "evening", 120)
		require.NoError(t, err)
		assert.Equal(t, "Grand Hall", hallName)
		assert.Equal(t, uint64(42), b.ID)
		assert.Equal(t, "pending", b.Status)
		assert.Equal(t, "2026-09-10", b.BookingDate)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Hall Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, status FROM halls WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "status"}))
		mock.ExpectRollback()

		_, _, err := repo.Reserve(context.Background(), 7, 99, "2026-09-10", "evening", 50)
		assert.ErrorIs(t, err, ErrHallNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Hall Not Bookable", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, status FROM halls WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "status"}).AddRow("Grand Hall", "pending"))
		mock.ExpectRollback()

		_, _, err := repo.Reserve(context.Background(), 7, 3, "2026-09-10", "evening", 50)
		assert.ErrorIs(t, err, ErrHallNotBookable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate By Same Requester", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, status FROM halls WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "status"}).AddRow("Grand Hall", "approved"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(7), uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
		mock.ExpectRollback()

		_, _, err := repo.Reserve(context.Background(), 7, 3, "2026-09-10", "evening", 50)
		assert.ErrorIs(t, err, ErrDuplicateBooking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot Taken By Other Requester", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, status FROM halls WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "status"}).AddRow("Grand Hall", "approved"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(7), uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
		mock.ExpectRollback()

		_, _, err := repo.Reserve(context.Background(), 7, 3, "2026-09-10", "evening", 50)
		assert.ErrorIs(t, err, ErrSlotUnavailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lost Insert Race Maps To Slot Unavailable", func(t *testing.T) {
		// Both checks pass but the unique index rejects the insert: a
		// concurrent reserve committed first. The caller must see the
		// same domain error as an ordinary conflict, not a 500.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, status FROM halls WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "status"}).AddRow("Grand Hall", "approved"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(7), uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(3), "2026-09-10", "evening").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO bookings`).
			WithArgs(uint64(7), uint64(3), "2026-09-10", "evening", uint32(50)).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3:2026-09-10:evening' for key 'uq_bookings_active_key'"))
		mock.ExpectRollback()

		_, _, err := repo.Reserve(context.Background(), 7, 3, "2026-09-10", "evening", 50)
		assert.ErrorIs(t, err, ErrSlotUnavailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDecide(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)
	now := time.Now()
	decideCols := append(append([]string{}, bookingCols...), "hall_name", "hall_owner")

	t.Run("Owner Approves", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(decideCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "pending", now, now, "Grand Hall", 5))
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\?`).
			WithArgs("approved", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT id, user_id, hall_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "approved", now, now))
		mock.ExpectCommit()

		b, hallName, err := repo.Decide(context.Background(), 5, 42, "approved")
		require.NoError(t, err)
		assert.Equal(t, "approved", b.Status)
		assert.Equal(t, "Grand Hall", hallName)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non Owner Forbidden", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(decideCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "pending", now, now, "Grand Hall", 5))
		mock.ExpectRollback()

		_, _, err := repo.Decide(context.Background(), 99, 42, "approved")
		assert.ErrorIs(t, err, ErrForbidden)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overwrites Earlier Decision", func(t *testing.T) {
		// A rejected booking can be flipped to approved by a later call.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(decideCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "rejected", now, now, "Grand Hall", 5))
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\?`).
			WithArgs("approved", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT id, user_id, hall_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "approved", now, now))
		mock.ExpectCommit()

		b, _, err := repo.Decide(context.Background(), 5, 42, "approved")
		require.NoError(t, err)
		assert.Equal(t, "approved", b.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Flip To Approved Loses Slot", func(t *testing.T) {
		// Re-approval contends for the slot again; a 1062 from the
		// unique index means someone else holds it now.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(decideCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "rejected", now, now, "Grand Hall", 5))
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\?`).
			WithArgs("approved", uint64(42)).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))
		mock.ExpectRollback()

		_, _, err := repo.Decide(context.Background(), 5, 42, "approved")
		assert.ErrorIs(t, err, ErrSlotUnavailable)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows(decideCols))
		mock.ExpectRollback()

		_, _, err := repo.Decide(context.Background(), 5, 404, "rejected")
		assert.ErrorIs(t, err, ErrBookingNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)
	now := time.Now()
	readBackCols := append(append([]string{}, bookingCols...), "hall_name")

	t.Run("Cancel Pending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT user_id, status FROM bookings WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, "pending"))
		mock.ExpectExec(`UPDATE bookings SET status='cancelled'`).
			WithArgs(uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(readBackCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "cancelled", now, now, "Grand Hall"))
		mock.ExpectCommit()

		b, hallName, err := repo.Cancel(context.Background(), 7, 42)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", b.Status)
		assert.Equal(t, "Grand Hall", hallName)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Own Booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT user_id, status FROM bookings WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, "pending"))
		mock.ExpectRollback()

		_, _, err := repo.Cancel(context.Background(), 8, 42)
		assert.ErrorIs(t, err, ErrForbidden)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Finalized", func(t *testing.T) {
		// The conditional UPDATE touches zero rows for rejected and
		// cancelled bookings, which is the terminal-state signal.
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT user_id, status FROM bookings WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}).AddRow(7, "rejected"))
		mock.ExpectExec(`UPDATE bookings SET status='cancelled'`).
			WithArgs(uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, _, err := repo.Cancel(context.Background(), 7, 42)
		assert.ErrorIs(t, err, ErrAlreadyFinalized)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT user_id, status FROM bookings WHERE id=\? FOR UPDATE`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "status"}))
		mock.ExpectRollback()

		_, _, err := repo.Cancel(context.Background(), 7, 404)
		assert.ErrorIs(t, err, ErrBookingNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)
	now := time.Now()
	readBackCols := append(append([]string{}, bookingCols...), "hall_name")

	t.Run("Pending Booking Updated", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status='pending'`).
			WithArgs("rejected", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT b.id, b.user_id`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows(readBackCols).
				AddRow(42, 7, 3, "2026-09-10", "evening", 120, "rejected", now, now, "Grand Hall"))
		mock.ExpectCommit()

		b, _, err := repo.AdminUpdateStatus(context.Background(), 42, "rejected")
		require.NoError(t, err)
		assert.Equal(t, "rejected", b.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Refuses Decided Booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status='pending'`).
			WithArgs("approved", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
		mock.ExpectRollback()

		_, _, err := repo.AdminUpdateStatus(context.Background(), 42, "approved")
		assert.ErrorIs(t, err, ErrAlreadyFinalized)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status='pending'`).
			WithArgs("approved", uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectRollback()

		_, _, err := repo.AdminUpdateStatus(context.Background(), 404, "approved")
		assert.ErrorIs(t, err, ErrBookingNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)

	t.Run("Free Slot", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(3), "2026-09-10", "afternoon").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))

		free, err := repo.Available(context.Background(), 3, "2026-09-10", "afternoon")
		require.NoError(t, err)
		assert.True(t, free)
	})

	t.Run("Occupied Slot", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(3), "2026-09-10", "afternoon").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))

		free, err := repo.Available(context.Background(), 3, "2026-09-10", "afternoon")
		require.NoError(t, err)
		assert.False(t, free)
	})
}

func TestCountByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBookingRepo(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM bookings GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).
			AddRow("pending", 4).
			AddRow("approved", 10))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), counts["pending"])
	assert.Equal(t, int64(10), counts["approved"])
	// Statuses with no rows still appear with a zero count.
	assert.Equal(t, int64(0), counts["rejected"])
	assert.Equal(t, int64(0), counts["cancelled"])
}
