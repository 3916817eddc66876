package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/handler"
	"github.com/hallbook/hall-booking-marketplace/internal/middleware"
	"github.com/hallbook/hall-booking-marketplace/internal/model"
)

// RegisterOwner registers hall management, booking decisions and the
// owner's reporting surface. All routes require a JWT with the owner
// role except hall deletion, which admins may also perform and is
// therefore registered for both roles.
func RegisterOwner(e *echo.Echo, h *handler.HallHandler, ob *handler.OwnerBookingHandler, rv *handler.ReviewHandler, act *handler.ActivityHandler, rep *handler.OwnerReportHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleOwner))

	// Hall management. New halls await admin approval.
	g.POST("/halls", h.Create)
	g.PUT("/halls/:id", h.Update)
	g.GET("/owner/halls", h.MyHalls)

	// Incoming booking requests.
	g.PUT("/bookings/:id/manage", ob.Manage)
	g.GET("/owner/bookings", ob.List)

	// Owner's view of reviews, activity and reports.
	g.GET("/owner/reviews", rv.ListForModeration)
	g.GET("/owner/activities", act.OwnerActivities)
	g.GET("/owner/reports", rep.Report)

	// Hall deletion is shared between the hall's owner and admins; the
	// handler checks the actual relationship.
	del := e.Group("/v1")
	del.Use(middleware.JWTAuth(jwtSecret))
	del.Use(middleware.RequireRole(model.RoleOwner, model.RoleAdmin))
	del.DELETE("/halls/:id", h.Delete)
}
