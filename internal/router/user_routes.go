package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/handler"
	"github.com/hallbook/hall-booking-marketplace/internal/middleware"
	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// RegisterUser registers the requester-side booking lifecycle plus the
// review and activity endpoints. All routes require a JWT with the
// user role.
func RegisterUser(e *echo.Echo, b *handler.BookingHandler, rv *handler.ReviewHandler, act *handler.ActivityHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser))

	// Booking lifecycle: reserve, cancel, own history.
	g.POST("/bookings", b.Book)
	g.PUT("/bookings/:id/cancel", b.Cancel)
	g.GET("/my-bookings", b.MyBookings)

	// Reviews are gated on a completed stay.
	g.POST("/reviews", rv.Create)

	// Activity feed for the requester role.
	g.GET("/my-activities", act.MyActivities)
}
