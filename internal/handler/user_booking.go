package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/queue"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
	queue_publisher "github.com/hallbook/hall-booking-marketplace/internal/service"
)

// BookingHandler serves the requester side of the booking lifecycle:
// placing a reservation, cancelling it, listing one's own bookings and
// probing slot availability. JWT authentication and role validation
// are performed by middleware before any method here runs.
type BookingHandler struct {
	Bookings   *repository.BookingRepo
	Halls      *repository.HallRepo
	Activities *repository.ActivityRepo
}

func NewBookingHandler(b *repository.BookingRepo, h *repository.HallRepo, a *repository.ActivityRepo) *BookingHandler {
	if b == nil || h == nil || a == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: b, Halls: h, Activities: a}
}

// recordBookingActivity persists an activity entry and publishes the
// matching broker event. Both are best effort: a failure is logged and
// never surfaces to the request that triggered it.
func recordBookingActivity(activities *repository.ActivityRepo, actorID uint64, role, action, description string, b *model.Booking, hallName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a := &model.Activity{
		UserID:      actorID,
		Role:        role,
		Action:      action,
		Description: description,
		HallName:    &hallName,
	}
	if err := activities.Insert(ctx, a); err != nil {
		logrus.WithError(err).Warn("activity: insert failed")
	}

	ev := queue.BookingActivityEvent{
		BookingID:   b.ID,
		ActorID:     actorID,
		ActorRole:   role,
		Action:      action,
		HallID:      b.HallID,
		HallName:    hallName,
		BookingDate: b.BookingDate,
		TimeSlot:    b.TimeSlot,
		Status:      b.Status,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishBookingActivity(pctx, ev)
	}()
}

type bookReq struct {
	HallID      uint64 `json:"hall_id"`
	BookingDate string `json:"booking_date"` // YYYY-MM-DD
	TimeSlot    string `json:"time_slot"`    // afternoon | evening
	Guests      uint32 `json:"guests"`
}

// Book handles POST /v1/bookings. It reserves a (hall, date, slot)
// tuple as a pending booking. Responses: 201 on success, 409 when the
// requester already holds an active booking for the tuple, 400 when
// the slot is taken by someone else or the input is invalid, 404 when
// the hall does not exist.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}
	if !model.ValidTimeSlot(req.TimeSlot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time_slot must be afternoon or evening"})
	}
	day, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date must be YYYY-MM-DD"})
	}
	today, _ := time.Parse("2006-01-02", time.Now().UTC().Format("2006-01-02"))
	if day.Before(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_date is in the past"})
	}
	if req.Guests == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guests must be positive"})
	}

	ctx := c.Request().Context()
	b, hallName, err := h.Bookings.Reserve(ctx, userID, req.HallID, req.BookingDate, req.TimeSlot, req.Guests)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrHallNotBookable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall is not open for booking"})
		case errors.Is(err, repository.ErrDuplicateBooking):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already requested this slot"})
		case errors.Is(err, repository.ErrSlotUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "slot unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	recordBookingActivity(h.Activities, userID, model.RoleUser, "booking_requested",
		fmt.Sprintf("Requested %s on %s at %q", b.TimeSlot, b.BookingDate, hallName), b, hallName)

	return c.JSON(http.StatusCreated, echo.Map{"booking": b, "hall_name": hallName})
}

// Cancel handles PUT /v1/bookings/:id/cancel. Requesters may cancel
// their own pending or approved bookings; rejected and cancelled
// bookings are final.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	b, hallName, err := h.Bookings.Cancel(ctx, userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrAlreadyFinalized):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already finalized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	recordBookingActivity(h.Activities, userID, model.RoleUser, "booking_cancelled",
		fmt.Sprintf("Cancelled %s on %s at %q", b.TimeSlot, b.BookingDate, hallName), b, hallName)

	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// MyBookings handles GET /v1/my-bookings: the requester's own bookings
// with hall details, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Availability handles GET /v1/halls/:id/availability?date=&time_slot=.
// It reports whether the tuple is free of active bookings.
func (h *BookingHandler) Availability(c echo.Context) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	date := c.QueryParam("date")
	slot := c.QueryParam("time_slot")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if !model.ValidTimeSlot(slot) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "time_slot must be afternoon or evening"})
	}

	ctx := c.Request().Context()
	if _, err := h.Halls.GetByID(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	free, err := h.Bookings.Available(ctx, hallID, date, slot)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": free})
}
