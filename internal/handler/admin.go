package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// AdminHandler serves platform administration: user management, hall
// approval, contact inbox and the overview report.
type AdminHandler struct {
	Users    *repository.UserRepo
	Halls    *repository.HallRepo
	Bookings *repository.BookingRepo
	Contacts *repository.ContactRepo
}

func NewAdminHandler(u *repository.UserRepo, h *repository.HallRepo, b *repository.BookingRepo, ct *repository.ContactRepo) *AdminHandler {
	if u == nil || h == nil || b == nil || ct == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: u, Halls: h, Bookings: b, Contacts: ct}
}

// ----- users -----

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": users})
}

// GetUser handles GET /v1/admin/users/:id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

type adminUserReq struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUser handles PUT /v1/admin/users/:id: rename, change role, or
// toggle the active flag. Deactivated accounts cannot log in.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	name := u.Name
	if trimmed := strings.TrimSpace(req.Name); trimmed != "" {
		name = trimmed
	}
	role := u.Role
	if req.Role != "" {
		role = strings.ToLower(strings.TrimSpace(req.Role))
		if !model.ValidRole(role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be user, owner or admin"})
		}
	}
	isActive := u.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	if err := h.Users.Update(ctx, id, name, role, isActive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	u, err = h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// DeleteUser handles DELETE /v1/admin/users/:id. An admin cannot
// delete their own account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == adminID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete own account"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- halls -----

// ListHalls handles GET /v1/admin/halls: every hall with owner details.
func (h *AdminHandler) ListHalls(c echo.Context) error {
	items, err := h.Halls.ListAllWithOwner(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ApproveHall handles PUT /v1/admin/halls/:id/approve: makes the hall
// publicly visible and bookable.
func (h *AdminHandler) ApproveHall(c echo.Context) error {
	return h.setHallStatus(c, model.HallStatusApproved)
}

// DeactivateHall handles PUT /v1/admin/halls/:id/deactivate: pulls the
// hall off the public surface. Existing bookings keep their status.
func (h *AdminHandler) DeactivateHall(c echo.Context) error {
	return h.setHallStatus(c, model.HallStatusInactive)
}

func (h *AdminHandler) setHallStatus(c echo.Context, status string) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if err := h.Halls.UpdateStatus(c.Request().Context(), hallID, status); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hall failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": hallID, "status": status})
}

// ----- contact inbox -----

// ListContacts handles GET /v1/admin/contact.
func (h *AdminHandler) ListContacts(c echo.Context) error {
	items, err := h.Contacts.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load messages"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteContact handles DELETE /v1/admin/contact/:id.
func (h *AdminHandler) DeleteContact(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	if err := h.Contacts.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete message failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- overview -----

// Overview handles GET /v1/admin/overview: platform-wide counts plus
// the most recent registrations.
func (h *AdminHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	userCount, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load overview"})
	}
	hallCount, err := h.Halls.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load overview"})
	}
	bookingCounts, err := h.Bookings.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load overview"})
	}
	recent, err := h.Users.Recent(ctx, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load overview"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":        userCount,
		"halls":        hallCount,
		"bookings":     bookingCounts,
		"recent_users": recent,
	})
}
