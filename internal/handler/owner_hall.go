package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// HallHandler serves hall management for owners plus the shared delete
// path (owner of the hall or an admin).
type HallHandler struct {
	Halls *repository.HallRepo
}

func NewHallHandler(h *repository.HallRepo) *HallHandler {
	if h == nil {
		panic("nil repository passed to NewHallHandler")
	}
	return &HallHandler{Halls: h}
}

type hallReq struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Capacity     uint32   `json:"capacity"`
	PricingCents uint64   `json:"pricing_cents"`
	Facilities   []string `json:"facilities"`
}

func (r *hallReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	if r.Name == "" {
		return "name is required"
	}
	if r.Location == "" {
		return "location is required"
	}
	if r.Capacity == 0 {
		return "capacity must be positive"
	}
	if r.PricingCents == 0 {
		return "pricing_cents must be positive"
	}
	return ""
}

// Create handles POST /v1/halls. New halls start in pending status and
// stay off the public surface until an admin approves them.
func (h *HallHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.Facilities == nil {
		req.Facilities = []string{}
	}

	hall := &model.Hall{
		OwnerID:      ownerID,
		Name:         req.Name,
		Location:     req.Location,
		Capacity:     req.Capacity,
		PricingCents: req.PricingCents,
		Facilities:   req.Facilities,
	}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hall failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"hall": hall})
}

// Update handles PUT /v1/halls/:id. Owners edit their own halls only.
func (h *HallHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if req.Facilities == nil {
		req.Facilities = []string{}
	}

	hall := &model.Hall{
		ID:           hallID,
		OwnerID:      ownerID,
		Name:         req.Name,
		Location:     req.Location,
		Capacity:     req.Capacity,
		PricingCents: req.PricingCents,
		Facilities:   req.Facilities,
	}
	if err := h.Halls.Update(c.Request().Context(), hall); err != nil {
		switch {
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hall failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hall": hall})
}

// Delete handles DELETE /v1/halls/:id. Allowed for the hall's owner or
// any admin; dependent bookings and reviews cascade.
func (h *HallHandler) Delete(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}

	ctx := c.Request().Context()
	hall, err := h.Halls.GetByID(ctx, hallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if hall.OwnerID != actorID && getRole(c) != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Halls.Delete(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete hall failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// MyHalls handles GET /v1/owner/halls.
func (h *HallHandler) MyHalls(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Halls.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
