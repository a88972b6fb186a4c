package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sunvoyage/tour-booking/internal/handler"
	"github.com/sunvoyage/tour-booking/internal/middleware"
)

// RegisterBooking registers the customer-facing order endpoints under /v1.
// All routes require a valid JWT; any authenticated role may place orders.
// The optional middleware (typically the token bucket rate limiter) guards
// the reservation write path.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.Use(mw...)

	g.POST("/tours/:id/orders", h.CreateOrder)
	g.GET("/orders/:id", h.GetOrder)
	// Cancelling releases the order's seats back to the tour.
	g.DELETE("/orders/:id", h.CancelOrder)
	g.GET("/my-orders", h.ListMyOrders)
}
