package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// ActivityHandler serves the per-user activity feeds. Feeds are scoped
// by the role the account acted under, so an owner who also books
// venues sees two separate timelines. Entries older than the retention
// window never appear; physical pruning runs on a schedule elsewhere.
type ActivityHandler struct {
	Activities *repository.ActivityRepo
	Retention  time.Duration
}

func NewActivityHandler(a *repository.ActivityRepo, retention time.Duration) *ActivityHandler {
	if a == nil {
		panic("nil repository passed to NewActivityHandler")
	}
	return &ActivityHandler{Activities: a, Retention: retention}
}

// MyActivities handles GET /v1/my-activities: entries recorded while
// acting as a requester.
func (h *ActivityHandler) MyActivities(c echo.Context) error {
	return h.list(c, model.RoleUser)
}

// OwnerActivities handles GET /v1/owner/activities: entries recorded
// while acting as a hall owner.
func (h *ActivityHandler) OwnerActivities(c echo.Context) error {
	return h.list(c, model.RoleOwner)
}

func (h *ActivityHandler) list(c echo.Context, role string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Activities.ListByUserAndRole(c.Request().Context(), userID, role, h.Retention)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load activities"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
