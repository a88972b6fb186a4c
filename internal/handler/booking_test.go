package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunvoyage/tour-booking/internal/booking"
	"github.com/sunvoyage/tour-booking/internal/model"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

// stubOrderService lets each test script the engine's answer without a
// database.
type stubOrderService struct {
	createFn    func(booking.CreateOrderInput) (*model.Order, error)
	cancelFn    func(orderID, userID uint64) (*model.Order, error)
	setStatusFn func(orderID uint64, target string) (*model.Order, error)
}

func (s *stubOrderService) Create(_ context.Context, in booking.CreateOrderInput) (*model.Order, error) {
	return s.createFn(in)
}

func (s *stubOrderService) Cancel(_ context.Context, orderID, userID uint64) (*model.Order, error) {
	return s.cancelFn(orderID, userID)
}

func (s *stubOrderService) SetStatus(_ context.Context, orderID uint64, target string) (*model.Order, error) {
	return s.setStatusFn(orderID, target)
}

func newContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleOrder(status string) *model.Order {
	now := time.Now()
	return &model.Order{
		ID: 42, TourID: 7, UserID: 5, Quantity: 2, TotalPriceCents: 10000,
		Status: status, ContactEmail: "guest@example.com",
		CreatedAt: now, UpdatedAt: now,
	}
}

func TestCreateOrderCreated(t *testing.T) {
	var got booking.CreateOrderInput
	h := &BookingHandler{Orders: &stubOrderService{
		createFn: func(in booking.CreateOrderInput) (*model.Order, error) {
			got = in
			return sampleOrder(model.OrderPending), nil
		},
	}}

	c, rec := newContext(t, http.MethodPost, "/v1/tours/7/orders",
		`{"quantity":2,"contact_email":"guest@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(7), got.TourID)
	assert.Equal(t, uint64(5), got.UserID)
	assert.Equal(t, uint32(2), got.Quantity)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		createFn: func(booking.CreateOrderInput) (*model.Order, error) {
			t.Fatalf("engine must not be reached")
			return nil, nil
		},
	}}

	c, rec := newContext(t, http.MethodPost, "/v1/tours/7/orders",
		`{"quantity":0,"contact_email":"guest@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity")
}

func TestCreateOrderRejectsMissingEmail(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		createFn: func(booking.CreateOrderInput) (*model.Order, error) {
			t.Fatalf("engine must not be reached")
			return nil, nil
		},
	}}

	c, rec := newContext(t, http.MethodPost, "/v1/tours/7/orders",
		`{"quantity":1,"contact_email":"   "}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "contact_email")
}

func TestCreateOrderInsufficientSeatsConflict(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		createFn: func(booking.CreateOrderInput) (*model.Order, error) {
			return nil, &repository.InsufficientSeatsError{Remaining: 1}
		},
	}}

	c, rec := newContext(t, http.MethodPost, "/v1/tours/7/orders",
		`{"quantity":2,"contact_email":"guest@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining":1`)
}

func TestCreateOrderTourMissing(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		createFn: func(booking.CreateOrderInput) (*model.Order, error) {
			return nil, repository.ErrTourNotFound
		},
	}}

	c, rec := newContext(t, http.MethodPost, "/v1/tours/99/orders",
		`{"quantity":1,"contact_email":"guest@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("99")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelOrderOK(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		cancelFn: func(orderID, userID uint64) (*model.Order, error) {
			assert.Equal(t, uint64(42), orderID)
			assert.Equal(t, uint64(5), userID)
			return sampleOrder(model.OrderCancelled), nil
		},
	}}

	c, rec := newContext(t, http.MethodDelete, "/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CancelOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
}

func TestCancelOrderForbiddenForStranger(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		cancelFn: func(uint64, uint64) (*model.Order, error) {
			return nil, repository.ErrForbidden
		},
	}}

	c, rec := newContext(t, http.MethodDelete, "/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(6))

	require.NoError(t, h.CancelOrder(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelOrderTwiceConflicts(t *testing.T) {
	h := &BookingHandler{Orders: &stubOrderService{
		cancelFn: func(uint64, uint64) (*model.Order, error) {
			return nil, &repository.InvalidTransitionError{From: model.OrderCancelled, To: model.OrderCancelled}
		},
	}}

	c, rec := newContext(t, http.MethodDelete, "/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(5))

	require.NoError(t, h.CancelOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"current_status":"CANCELLED"`)
}

func TestGetOrderOwnerAndStaffOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	h := &BookingHandler{
		Orders:    &stubOrderService{},
		OrderRepo: repository.NewOrderRepo(db),
	}

	orderRow := func() *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows([]string{
			"id", "tour_id", "user_id", "quantity", "total_price_cents", "status", "contact_email", "contact_phone", "created_at", "updated_at",
		}).AddRow(42, 7, 5, 2, 10000, model.OrderPending, "guest@example.com", nil, now, now)
	}
	getQ := regexp.QuoteMeta(`FROM orders WHERE id = ?`)

	// Owner sees the order.
	mock.ExpectQuery(getQ).WithArgs(uint64(42)).WillReturnRows(orderRow())
	c, rec := newContext(t, http.MethodGet, "/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(5))
	c.Set("role", model.RoleUser)
	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// A manager sees any order.
	mock.ExpectQuery(getQ).WithArgs(uint64(42)).WillReturnRows(orderRow())
	c, rec = newContext(t, http.MethodGet, "/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(900))
	c.Set("role", model.RoleManager)
	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another customer does not.
	mock.ExpectQuery(getQ).WithArgs(uint64(42)).WillReturnRows(orderRow())
	c, rec = newContext(t, http.MethodGet, "/v1/orders/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(6))
	c.Set("role", model.RoleUser)
	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}
