package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID placed into the
// context by the JWT middleware. The claim may arrive as different
// numeric types depending on how the token was decoded, so every
// plausible shape is handled.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case float64:
		return uint64(v), nil
	case string:
		return strconv.ParseUint(v, 10, 64)
	default:
		return 0, echo.ErrUnauthorized
	}
}

// getRole returns the role claim set by the JWT middleware, or an
// empty string when absent.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
