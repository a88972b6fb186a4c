package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sunvoyage/tour-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated catalog endpoints. Guests can
// browse destinations and tours and check remaining seats before signing up.
// The optional middleware (typically the Redis response cache) is applied to
// the whole group.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/destinations", p.ListDestinations)
	g.GET("/tours", p.ListTours)
	// Tour detail accepts either a numeric id or a slug.
	g.GET("/tours/:id", p.GetTour)
	// Remaining seats are computed from live order rows, so a cached
	// response may lag by up to the cache TTL.
	g.GET("/tours/:id/availability", p.GetTourAvailability)
}
