package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("Jamie", "jamie@example.com", sqlmock.AnyArg(), "owner").
			WillReturnResult(sqlmock.NewResult(7, 1))

		id, err := repo.Create(context.Background(), "Jamie", "Jamie@Example.com ", "pw", "owner", 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("Jamie", "jamie@example.com", sqlmock.AnyArg(), "user").
			WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'jamie@example.com' for key 'uq_users_email'"))

		_, err := repo.Create(context.Background(), "Jamie", "jamie@example.com", "pw", "user", 4)
		assert.ErrorIs(t, err, ErrEmailExists)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	t.Run("Missing User", func(t *testing.T) {
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs("Jamie", "owner", true, uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))

		err := repo.Update(context.Background(), 404, "Jamie", "owner", true)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("No-op Update Is Not An Error", func(t *testing.T) {
		// MySQL reports zero affected rows when the values are
		// unchanged; existence is checked before failing.
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs("Jamie", "owner", true, uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))

		assert.NoError(t, repo.Update(context.Background(), 7, "Jamie", "owner", true))
	})
}
