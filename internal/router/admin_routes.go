package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/handler"
	"github.com/hallbook/hall-booking-marketplace/internal/middleware"
	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// RegisterAdmin registers the platform oversight surface: user
// management, hall approval, booking oversight, review moderation, the
// contact inbox and the overview report. Every route requires a JWT
// with the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, ab *handler.AdminBookingHandler, rv *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	// User management.
	g.GET("/users", a.ListUsers)
	g.GET("/users/:id", a.GetUser)
	g.PUT("/users/:id", a.UpdateUser)
	g.DELETE("/users/:id", a.DeleteUser)

	// Hall approval pipeline.
	g.GET("/halls", a.ListHalls)
	g.PUT("/halls/:id/approve", a.ApproveHall)
	g.PUT("/halls/:id/deactivate", a.DeactivateHall)

	// Booking oversight: recent window, pending-only override, stats.
	g.GET("/bookings", ab.ListRecent)
	g.PUT("/bookings/:id/update", ab.UpdateStatus)
	g.GET("/bookings/stats", ab.Stats)

	// Review moderation.
	g.GET("/reviews", rv.ListForModeration)
	g.DELETE("/reviews/:id", rv.Delete)

	// Contact inbox.
	g.GET("/contact", a.ListContacts)
	g.DELETE("/contact/:id", a.DeleteContact)

	// Platform overview.
	g.GET("/overview", a.Overview)
}
