package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallbook/hall-booking-marketplace/internal/utils"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"
	e := echo.New()

	t.Run("Valid Token Sets Claims", func(t *testing.T) {
		tok, err := utils.NewAccessToken(secret, 7, "owner", 5)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var gotRole interface{}
		h := JWTAuth(secret)(func(c echo.Context) error {
			gotRole = c.Get("role")
			return okHandler(c)
		})
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "owner", gotRole)
	})

	t.Run("Missing Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := JWTAuth(secret)(okHandler)
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Wrong Secret Rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 7, "user", 5)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := JWTAuth(secret)(okHandler)
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	t.Run("Allowed Role Passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("role", "admin")

		h := RequireRole("admin")(okHandler)
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Disallowed Role Forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("role", "user")

		h := RequireRole("admin")(okHandler)
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Missing Role Forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := RequireRole("owner", "admin")(okHandler)
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
