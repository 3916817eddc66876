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

func TestCreateReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewRepo(db)
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		comment := "Spacious and clean"
		mock.ExpectQuery(`SELECT id FROM bookings`).
			WithArgs(uint64(7), uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec(`INSERT INTO reviews`).
			WithArgs(uint64(7), uint64(3), uint64(42), uint8(5), &comment).
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectQuery(`SELECT id, user_id, hall_id, booking_id, rating, comment, created_at FROM reviews`).
			WithArgs(uint64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "hall_id", "booking_id", "rating", "comment", "created_at"}).
				AddRow(11, 7, 3, 42, 5, comment, now))

		rv, err := repo.Create(context.Background(), 7, 3, 5, &comment)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), rv.BookingID)
		assert.Equal(t, uint8(5), rv.Rating)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Completed Booking", func(t *testing.T) {
		// Pending, rejected and future-dated bookings never qualify;
		// the gate query simply finds nothing.
		mock.ExpectQuery(`SELECT id FROM bookings`).
			WithArgs(uint64(7), uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Create(context.Background(), 7, 3, 4, nil)
		assert.ErrorIs(t, err, ErrNoCompletedBooking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Reviewed", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id FROM bookings`).
			WithArgs(uint64(7), uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec(`INSERT INTO reviews`).
			WithArgs(uint64(7), uint64(3), uint64(42), uint8(4), nil).
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '42' for key 'uq_reviews_booking'"))

		_, err := repo.Create(context.Background(), 7, 3, 4, nil)
		assert.ErrorIs(t, err, ErrAlreadyReviewed)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAverageByHall(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewRepo(db)

	t.Run("With Reviews", func(t *testing.T) {
		mock.ExpectQuery(`SELECT AVG\(rating\), COUNT\(\*\) FROM reviews`).
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))

		avg, count, err := repo.AverageByHall(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, 4.5, avg)
		assert.Equal(t, int64(2), count)
	})

	t.Run("No Reviews", func(t *testing.T) {
		mock.ExpectQuery(`SELECT AVG\(rating\), COUNT\(\*\) FROM reviews`).
			WithArgs(uint64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(nil, 0))

		avg, count, err := repo.AverageByHall(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
		assert.Equal(t, int64(0), count)
	})
}

func TestDeleteReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReviewRepo(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM reviews WHERE id=\?`).
			WithArgs(uint64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 11))
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM reviews WHERE id=\?`).
			WithArgs(uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrReviewNotFound)
	})
}
