package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// ReviewHandler serves review creation (requesters) and moderation
// listings (admins see everything, owners see their own halls).
type ReviewHandler struct {
	Reviews    *repository.ReviewRepo
	Halls      *repository.HallRepo
	Activities *repository.ActivityRepo
}

func NewReviewHandler(r *repository.ReviewRepo, h *repository.HallRepo, a *repository.ActivityRepo) *ReviewHandler {
	if r == nil || h == nil || a == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: r, Halls: h, Activities: a}
}

type reviewReq struct {
	HallID  uint64  `json:"hall_id"`
	Rating  uint8   `json:"rating"` // 1..5
	Comment *string `json:"comment"`
}

// Create handles POST /v1/reviews. Leaving a review requires a
// completed stay: an approved booking for the hall whose date has
// passed, and at most one review per booking.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	if req.Comment != nil {
		trimmed := strings.TrimSpace(*req.Comment)
		if trimmed == "" {
			req.Comment = nil
		} else {
			req.Comment = &trimmed
		}
	}

	ctx := c.Request().Context()
	hall, err := h.Halls.GetByID(ctx, req.HallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	rv, err := h.Reviews.Create(ctx, userID, req.HallID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoCompletedBooking):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "no completed booking for this hall"})
		case errors.Is(err, repository.ErrAlreadyReviewed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}

	// Record best-effort activity for the reviewer's feed.
	go func() {
		actx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		name := hall.Name
		if err := h.Activities.Insert(actx, &model.Activity{
			UserID:      userID,
			Role:        model.RoleUser,
			Action:      "review_left",
			Description: fmt.Sprintf("Rated %q %d/5", hall.Name, rv.Rating),
			HallName:    &name,
		}); err != nil {
			logrus.WithError(err).Warn("activity: insert failed")
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{"review": rv})
}

// ListForModeration handles GET /v1/admin/reviews. Admins receive
// every review on the platform; owners receive reviews of their own
// halls only.
func (h *ReviewHandler) ListForModeration(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	var items []repository.OwnerReviewRow
	if getRole(c) == model.RoleAdmin {
		items, err = h.Reviews.ListAll(ctx)
	} else {
		items, err = h.Reviews.ListByOwnerHalls(ctx, actorID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/admin/reviews/:id (admin moderation).
func (h *ReviewHandler) Delete(c echo.Context) error {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	if err := h.Reviews.Delete(c.Request().Context(), reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete review failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
