// This file implements the MANAGER/ADMIN back-office endpoints: order
// status changes, tour cascade deletion, per-tour order listings and
// the destination delete guard. Role enforcement happens in middleware;
// the handlers translate engine errors into status codes.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sunvoyage/tour-booking/internal/booking"
	"github.com/sunvoyage/tour-booking/internal/model"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

// StaffHandler groups the services and repositories behind the
// back-office endpoints.
type StaffHandler struct {
	Orders       booking.OrderService
	Tours        booking.TourService
	OrderRepo    *repository.OrderRepo
	Destinations *repository.DestinationRepo
}

// NewStaffHandler constructs a StaffHandler. All dependencies must be
// non-nil.
func NewStaffHandler(orders booking.OrderService, tours booking.TourService, orderRepo *repository.OrderRepo, destinations *repository.DestinationRepo) *StaffHandler {
	if orders == nil || tours == nil || orderRepo == nil || destinations == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{Orders: orders, Tours: tours, OrderRepo: orderRepo, Destinations: destinations}
}

// SetOrderStatus handles PATCH /v1/orders/:id/status. The body names
// the target status; the allowed transitions follow the order state
// machine, including CANCELLED -> CONFIRMED reinstatement. A
// reinstatement that no longer fits in the tour's capacity is surfaced
// as a distinct "cannot reinstate" outcome with the remaining count,
// and the order stays CANCELLED.
func (h *StaffHandler) SetOrderStatus(c echo.Context) error {
	orderID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target := strings.ToUpper(strings.TrimSpace(body.Status))
	if !model.IsValidStatus(target) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status", "field": "status"})
	}

	order, err := h.Orders.SetStatus(c.Request().Context(), orderID, target)
	if err != nil {
		var invalid *repository.InvalidTransitionError
		var insufficient *repository.InsufficientSeatsError
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.As(err, &insufficient):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "cannot reinstate: insufficient seats",
				"remaining": insufficient.Remaining,
			})
		case errors.As(err, &invalid):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":          "invalid transition",
				"current_status": invalid.From,
				"target_status":  invalid.To,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
		}
	}
	return c.JSON(http.StatusOK, orderResponse(order))
}

// ListOrdersByTour handles GET /v1/tours/:id/orders for staff working a
// tour's book of business.
func (h *StaffHandler) ListOrdersByTour(c echo.Context) error {
	tourID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	details, err := h.OrderRepo.ListByTour(c.Request().Context(), tourID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// DeleteTour handles DELETE /v1/tours/:id. Active orders on the tour
// are force-cancelled and its reviews removed before the tour row goes,
// all in one transaction; the response reports both counts. A failure
// partway returns 409 with nothing applied.
func (h *StaffHandler) DeleteTour(c echo.Context) error {
	tourID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	result, err := h.Tours.Delete(c.Request().Context(), tourID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTourNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		case errors.Is(err, repository.ErrDeleteBlocked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "delete blocked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteDestination handles DELETE /v1/destinations/:id. Deletion is
// blocked entirely while any tour still references the destination.
func (h *StaffHandler) DeleteDestination(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination id"})
	}
	err := h.Destinations.DeleteByID(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDestinationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		case errors.Is(err, repository.ErrDestinationInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": "destination still has tours"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
