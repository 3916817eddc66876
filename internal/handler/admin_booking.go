package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// AdminBookingHandler gives platform admins oversight of bookings:
// recent cross-platform listings, status counts and a limited override
// path for requests still pending.
type AdminBookingHandler struct {
	Bookings   *repository.BookingRepo
	Activities *repository.ActivityRepo
}

func NewAdminBookingHandler(b *repository.BookingRepo, a *repository.ActivityRepo) *AdminBookingHandler {
	if b == nil || a == nil {
		panic("nil repository passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: b, Activities: a}
}

// ListRecent handles GET /v1/admin/bookings?days=N (default 7).
func (h *AdminBookingHandler) ListRecent(c echo.Context) error {
	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "days must be a positive integer"})
		}
		days = n
	}
	items, err := h.Bookings.ListRecent(c.Request().Context(), days)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "days": days})
}

type adminUpdateReq struct {
	Status string `json:"status"` // approved | rejected | cancelled
}

// UpdateStatus handles PUT /v1/admin/bookings/:id/update. Admins may
// override a booking only while it is still pending; once an owner has
// decided or the requester cancelled, the override is refused.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req adminUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case model.BookingStatusApproved, model.BookingStatusRejected, model.BookingStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved, rejected or cancelled"})
	}

	b, hallName, err := h.Bookings.AdminUpdateStatus(c.Request().Context(), bookingID, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrAlreadyFinalized):
			// Overriding a decided or cancelled booking is outside the
			// admin's authority, not a malformed request.
			return c.JSON(http.StatusForbidden, echo.Map{"error": "booking no longer pending"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	recordBookingActivity(h.Activities, adminID, model.RoleAdmin, "booking_admin_"+status,
		fmt.Sprintf("Set booking %d at %q to %s", b.ID, hallName, status), b, hallName)

	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Stats handles GET /v1/admin/bookings/stats: totals per status.
func (h *AdminBookingHandler) Stats(c echo.Context) error {
	counts, err := h.Bookings.CountByStatus(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"counts": counts})
}
