package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hallbook/hall-booking-marketplace/internal/handler"
	"github.com/hallbook/hall-booking-marketplace/internal/middleware"
)

// RegisterPublic registers the guest-facing browse endpoints. No JWT or
// role middleware applies; responses contain only approved halls and
// their public review data. The optional cache middleware (nil-safe to
// skip) shields these read-heavy routes behind Redis.
func RegisterPublic(e *echo.Echo, p *handler.BrowseHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}

	// Approved hall listing plus per-hall detail, reviews and rating.
	e.GET("/v1/halls", p.ListHalls, mws...)
	e.GET("/v1/halls/:id", p.GetHall, mws...)
	e.GET("/v1/halls/:id/reviews", p.HallReviews, mws...)
	e.GET("/v1/halls/:id/rating", p.HallRating, mws...)

	// Contact form; writes are never cached.
	e.POST("/v1/contact", p.SubmitContact)
}

// RegisterSearch registers the authenticated discovery endpoints:
// filtered hall search and per-slot availability probing. Any
// authenticated role may call these.
func RegisterSearch(e *echo.Echo, p *handler.BrowseHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/halls/search", p.Search)
	g.GET("/halls/:id/availability", b.Availability)
}
