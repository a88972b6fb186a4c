package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunvoyage/tour-booking/internal/booking"
	"github.com/sunvoyage/tour-booking/internal/model"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

type stubTourService struct {
	deleteFn       func(tourID uint64) (*booking.DeleteResult, error)
	availabilityFn func(tourID uint64) (*booking.Availability, error)
}

func (s *stubTourService) Delete(_ context.Context, tourID uint64) (*booking.DeleteResult, error) {
	return s.deleteFn(tourID)
}

func (s *stubTourService) Availability(_ context.Context, tourID uint64) (*booking.Availability, error) {
	return s.availabilityFn(tourID)
}

func TestSetOrderStatusOK(t *testing.T) {
	h := &StaffHandler{Orders: &stubOrderService{
		setStatusFn: func(orderID uint64, target string) (*model.Order, error) {
			assert.Equal(t, uint64(42), orderID)
			assert.Equal(t, model.OrderConfirmed, target)
			return sampleOrder(model.OrderConfirmed), nil
		},
	}}

	c, rec := newContext(t, http.MethodPatch, "/v1/orders/42/status", `{"status":"confirmed"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.SetOrderStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)
}

func TestSetOrderStatusUnknownStatus(t *testing.T) {
	h := &StaffHandler{Orders: &stubOrderService{
		setStatusFn: func(uint64, string) (*model.Order, error) {
			t.Fatalf("engine must not be reached")
			return nil, nil
		},
	}}

	c, rec := newContext(t, http.MethodPatch, "/v1/orders/42/status", `{"status":"REFUNDED"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.SetOrderStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetOrderStatusInvalidTransition(t *testing.T) {
	h := &StaffHandler{Orders: &stubOrderService{
		setStatusFn: func(uint64, string) (*model.Order, error) {
			return nil, &repository.InvalidTransitionError{From: model.OrderCompleted, To: model.OrderCancelled}
		},
	}}

	c, rec := newContext(t, http.MethodPatch, "/v1/orders/42/status", `{"status":"CANCELLED"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.SetOrderStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_status":"COMPLETED"`)
	assert.Contains(t, rec.Body.String(), `"target_status":"CANCELLED"`)
}

func TestSetOrderStatusReinstateBlocked(t *testing.T) {
	h := &StaffHandler{Orders: &stubOrderService{
		setStatusFn: func(uint64, string) (*model.Order, error) {
			return nil, &repository.InsufficientSeatsError{Remaining: 0}
		},
	}}

	c, rec := newContext(t, http.MethodPatch, "/v1/orders/42/status", `{"status":"CONFIRMED"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.SetOrderStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot reinstate")
	assert.Contains(t, rec.Body.String(), `"remaining":0`)
}

func TestDeleteTourReportsCounts(t *testing.T) {
	h := &StaffHandler{Tours: &stubTourService{
		deleteFn: func(tourID uint64) (*booking.DeleteResult, error) {
			assert.Equal(t, uint64(7), tourID)
			return &booking.DeleteResult{CancelledOrders: 3, DeletedReviews: 5}, nil
		},
	}}

	c, rec := newContext(t, http.MethodDelete, "/v1/tours/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.DeleteTour(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cancelled_orders":3`)
	assert.Contains(t, rec.Body.String(), `"deleted_reviews":5`)
}

func TestDeleteTourBlocked(t *testing.T) {
	h := &StaffHandler{Tours: &stubTourService{
		deleteFn: func(uint64) (*booking.DeleteResult, error) {
			return nil, repository.ErrDeleteBlocked
		},
	}}

	c, rec := newContext(t, http.MethodDelete, "/v1/tours/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.DeleteTour(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteTourNotFound(t *testing.T) {
	h := &StaffHandler{Tours: &stubTourService{
		deleteFn: func(uint64) (*booking.DeleteResult, error) {
			return nil, repository.ErrTourNotFound
		},
	}}

	c, rec := newContext(t, http.MethodDelete, "/v1/tours/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.DeleteTour(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
