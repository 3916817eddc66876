package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

func newAdminBookingHandler(t *testing.T) (*AdminBookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAdminBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewActivityRepo(db),
	), mock
}

func putUpdate(e *echo.Echo, bookingID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, "/v1/admin/bookings/"+bookingID+"/update", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/admin/bookings/:id/update")
	c.SetParamNames("id")
	c.SetParamValues(bookingID)
	return c, rec
}

func TestAdminUpdateStatusMapping(t *testing.T) {
	e := echo.New()

	t.Run("Rejects Unknown Status", func(t *testing.T) {
		h, _ := newAdminBookingHandler(t)
		c, rec := putUpdate(e, "42", `{"status":"confirmed"}`)
		c.Set("user_id", uint64(1))
		c.Set("role", "admin")

		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing Booking Is 404", func(t *testing.T) {
		h, mock := newAdminBookingHandler(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status='pending'`).
			WithArgs("rejected", uint64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
		mock.ExpectRollback()

		c, rec := putUpdate(e, "404", `{"status":"rejected"}`)
		c.Set("user_id", uint64(1))
		c.Set("role", "admin")

		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Already Decided Is 403", func(t *testing.T) {
		// The booking exists but an owner decision (or a cancellation)
		// already landed; the admin override is refused, not errored.
		h, mock := newAdminBookingHandler(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE bookings SET status=\? WHERE id=\? AND status='pending'`).
			WithArgs("rejected", uint64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(uint64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))
		mock.ExpectRollback()

		c, rec := putUpdate(e, "42", `{"status":"rejected"}`)
		c.Set("user_id", uint64(1))
		c.Set("role", "admin")

		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "no longer pending")
	})
}
