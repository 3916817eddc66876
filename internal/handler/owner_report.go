package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// OwnerReportHandler serves GET /v1/owner/reports: per-hall booking
// counts broken down by status plus the review average, one row per
// hall the owner manages.
type OwnerReportHandler struct {
	Bookings *repository.BookingRepo
}

func NewOwnerReportHandler(b *repository.BookingRepo) *OwnerReportHandler {
	if b == nil {
		panic("nil repository passed to NewOwnerReportHandler")
	}
	return &OwnerReportHandler{Bookings: b}
}

// Report returns the aggregate rows for the authenticated owner.
func (h *OwnerReportHandler) Report(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.StatsByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load report"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
