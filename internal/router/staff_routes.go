package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sunvoyage/tour-booking/internal/handler"
	"github.com/sunvoyage/tour-booking/internal/middleware"
)

// RegisterStaff registers operator endpoints under /v1. All routes require a
// valid JWT and the MANAGER or ADMIN role.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER", "ADMIN"),
	)

	// ---- Orders ----
	g.PATCH("/orders/:id/status", s.SetOrderStatus)
	g.GET("/tours/:id/orders", s.ListOrdersByTour)

	// ---- Tours ----
	// Deleting a tour force-cancels its active orders and removes its
	// reviews in the same transaction.
	g.DELETE("/tours/:id", s.DeleteTour)

	// ---- Destinations ----
	// Destination deletion is refused while any tour still references it.
	g.DELETE("/destinations/:id", s.DeleteDestination)
}
