package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// OwnerBookingHandler serves the hall owner's side of the lifecycle:
// deciding incoming requests and listing bookings against their halls.
type OwnerBookingHandler struct {
	Bookings   *repository.BookingRepo
	Activities *repository.ActivityRepo
}

func NewOwnerBookingHandler(b *repository.BookingRepo, a *repository.ActivityRepo) *OwnerBookingHandler {
	if b == nil || a == nil {
		panic("nil repository passed to NewOwnerBookingHandler")
	}
	return &OwnerBookingHandler{Bookings: b, Activities: a}
}

type manageReq struct {
	Status string `json:"status"` // approved | rejected
}

// Manage handles PUT /v1/bookings/:id/manage. The hall owner approves
// or rejects a request. A later decision overwrites an earlier one,
// including flipping a rejection to approval; that flip re-contends
// for the slot and fails with 400 when another active booking has
// taken it in the meantime.
func (h *OwnerBookingHandler) Manage(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req manageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != model.BookingStatusApproved && status != model.BookingStatusRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be approved or rejected"})
	}

	b, hallName, err := h.Bookings.Decide(c.Request().Context(), ownerID, bookingID, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
	}

	recordBookingActivity(h.Activities, ownerID, model.RoleOwner, "booking_"+status,
		fmt.Sprintf("Marked request for %s on %s at %q as %s", b.TimeSlot, b.BookingDate, hallName, status), b, hallName)

	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// List handles GET /v1/owner/bookings: every booking against the
// owner's halls with requester contact details, soonest first.
func (h *OwnerBookingHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListForOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
