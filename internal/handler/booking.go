// Package handler defines the HTTP surface of the booking engine. The
// handlers validate and bind requests, delegate to the booking services
// for anything that touches the seat ledger, and translate engine
// errors into status codes. JWT authentication and role checks happen
// in middleware before any handler here runs.
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

// BookingHandler groups the services and repositories behind the
// customer-facing booking endpoints. Writes go through the
// OrderService; listings read the repositories directly.
type BookingHandler struct {
	Orders    booking.OrderService
	OrderRepo *repository.OrderRepo
}

// NewBookingHandler constructs a BookingHandler. All dependencies must
// be non-nil.
func NewBookingHandler(orders booking.OrderService, orderRepo *repository.OrderRepo) *BookingHandler {
	if orders == nil || orderRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Orders: orders, OrderRepo: orderRepo}
}

// CreateOrder handles POST /v1/tours/:id/orders. The body carries the
// seat quantity and contact details; the authenticated user becomes the
// order's owner. On insufficient capacity it returns 409 with the
// actual remaining count so the client can offer a reduced quantity.
func (h *BookingHandler) CreateOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tourID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	var body struct {
		Quantity     uint32  `json:"quantity"`
		ContactEmail string  `json:"contact_email"`
		ContactPhone *string `json:"contact_phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive", "field": "quantity"})
	}
	body.ContactEmail = strings.TrimSpace(body.ContactEmail)
	if body.ContactEmail == "" || !strings.Contains(body.ContactEmail, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "contact_email is required", "field": "contact_email"})
	}

	order, err := h.Orders.Create(c.Request().Context(), booking.CreateOrderInput{
		TourID:       tourID,
		UserID:       userID,
		Quantity:     body.Quantity,
		ContactEmail: body.ContactEmail,
		ContactPhone: body.ContactPhone,
	})
	if err != nil {
		var insufficient *repository.InsufficientSeatsError
		switch {
		case errors.Is(err, repository.ErrTourNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
		case errors.As(err, &insufficient):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "insufficient seats",
				"remaining": insufficient.Remaining,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
		}
	}
	return c.JSON(http.StatusCreated, orderResponse(order))
}

// CancelOrder handles DELETE /v1/orders/:id. Only the order's owner may
// cancel, and only while the order is PENDING or CONFIRMED. Cancelling
// releases the order's seats exactly once; a repeat cancel reads as an
// invalid transition.
func (h *BookingHandler) CancelOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.Orders.Cancel(c.Request().Context(), orderID, userID)
	if err != nil {
		var invalid *repository.InvalidTransitionError
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.As(err, &invalid):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":          "order cannot be cancelled",
				"current_status": invalid.From,
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel order"})
		}
	}
	return c.JSON(http.StatusOK, orderResponse(order))
}

// GetOrder handles GET /v1/orders/:id. The order's owner and staff may
// view it; anyone else receives 403.
func (h *BookingHandler) GetOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.OrderRepo.GetByID(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}
	if order.UserID != userID && !model.IsStaffRole(getRole(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, orderResponse(order))
}

// ListMyOrders handles GET /v1/my-orders. It returns all orders placed
// by the current user with their tour details, newest first.
func (h *BookingHandler) ListMyOrders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.OrderRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// orderResponse is the fixed response shape for a single order. One
// strongly-typed contract, no client-side shape sniffing.
func orderResponse(o *model.Order) echo.Map {
	return echo.Map{
		"id":                o.ID,
		"tour_id":           o.TourID,
		"user_id":           o.UserID,
		"quantity":          o.Quantity,
		"total_price_cents": o.TotalPriceCents,
		"status":            o.Status,
		"contact_email":     o.ContactEmail,
		"contact_phone":     o.ContactPhone,
		"created_at":        o.CreatedAt,
		"updated_at":        o.UpdatedAt,
	}
}
