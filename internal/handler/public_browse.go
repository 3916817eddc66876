package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/model"
	"github.com/hallbook/hall-booking-marketplace/internal/repository"
)

// BrowseHandler serves the public discovery surface: approved hall
// listings, filtered search, per-hall reviews and ratings, and the
// contact form.
type BrowseHandler struct {
	Halls    *repository.HallRepo
	Reviews  *repository.ReviewRepo
	Contacts *repository.ContactRepo
}

func NewBrowseHandler(h *repository.HallRepo, r *repository.ReviewRepo, ct *repository.ContactRepo) *BrowseHandler {
	if h == nil || r == nil || ct == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Halls: h, Reviews: r, Contacts: ct}
}

// ListHalls handles GET /v1/halls: every approved hall, newest first.
func (h *BrowseHandler) ListHalls(c echo.Context) error {
	items, err := h.Halls.ListApproved(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetHall handles GET /v1/halls/:id: one hall plus its review summary.
func (h *BrowseHandler) GetHall(c echo.Context) error {
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
	avg, count, err := h.Reviews.AverageByHall(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hall":         hall,
		"avg_rating":   avg,
		"review_count": count,
	})
}

// Search handles GET /v1/halls/search?location=&capacity=&price=&date=.
// All filters are optional; the date filter hides halls that already
// carry an active booking on that calendar day.
func (h *BrowseHandler) Search(c echo.Context) error {
	var q repository.SearchQuery
	q.Location = strings.TrimSpace(c.QueryParam("location"))
	if raw := c.QueryParam("capacity"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be a positive integer"})
		}
		q.MinCapacity = uint32(n)
	}
	if raw := c.QueryParam("price"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be a positive integer"})
		}
		q.MaxPrice = n
	}
	if raw := c.QueryParam("date"); raw != "" {
		if len(raw) != 10 || raw[4] != '-' || raw[7] != '-' {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		q.Date = raw
	}

	items, err := h.Halls.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// HallReviews handles GET /v1/halls/:id/reviews.
func (h *BrowseHandler) HallReviews(c echo.Context) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Halls.GetByID(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Reviews.ListByHall(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// HallRating handles GET /v1/halls/:id/rating.
func (h *BrowseHandler) HallRating(c echo.Context) error {
	hallID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Halls.GetByID(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	avg, count, err := h.Reviews.AverageByHall(ctx, hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"avg_rating": avg, "review_count": count})
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SubmitContact handles POST /v1/contact (no auth required).
func (h *BrowseHandler) SubmitContact(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Body = strings.TrimSpace(req.Body)
	if req.Name == "" || req.Email == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/body required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	m := &model.ContactMessage{Name: req.Name, Email: req.Email, Subject: strings.TrimSpace(req.Subject), Body: req.Body}
	if err := h.Contacts.Insert(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}
