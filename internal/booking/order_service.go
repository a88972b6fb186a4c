package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunvoyage/tour-booking/internal/model"
	"github.com/sunvoyage/tour-booking/internal/queue"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

// EventPublisher sends lifecycle events to the message broker. Publish
// failures are logged by the implementation and never fail the booking
// request that triggered them.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev queue.OrderEvent) error
	PublishTourDeleted(ctx context.Context, ev queue.TourDeletedEvent) error
}

// CreateOrderInput carries the validated request to place an order.
// Quantity is at least 1 and ContactEmail is non-empty; the handler
// rejects anything else before the engine is reached.
type CreateOrderInput struct {
	TourID       uint64
	UserID       uint64
	Quantity     uint32
	ContactEmail string
	ContactPhone *string
}

// OrderService owns the order state machine and keeps the seat ledger
// correct as a side effect of every transition. Each method is one
// atomic unit: either the status change and its ledger effect both
// persist, or neither does.
type OrderService interface {
	// Create places a PENDING order against a tour, reserving its
	// seats. Fails with ErrTourNotFound or InsufficientSeatsError.
	Create(ctx context.Context, in CreateOrderInput) (*model.Order, error)
	// Cancel is the user-initiated cancellation. Fails with
	// ErrOrderNotFound, ErrForbidden when the caller does not own the
	// order, or InvalidTransitionError when the order is already
	// CANCELLED or COMPLETED.
	Cancel(ctx context.Context, orderID, userID uint64) (*model.Order, error)
	// SetStatus is the staff-driven transition. Reinstating a
	// CANCELLED order to CONFIRMED re-reserves its seats and fails
	// with InsufficientSeatsError when they no longer fit, leaving the
	// order CANCELLED.
	SetStatus(ctx context.Context, orderID uint64, target string) (*model.Order, error)
}

type orderService struct {
	db     *sql.DB
	orders *repository.OrderRepo
	ledger *Ledger
	events EventPublisher
	log    *zap.Logger
}

// NewOrderService constructs the order lifecycle manager.
func NewOrderService(db *sql.DB, orders *repository.OrderRepo, ledger *Ledger, events EventPublisher, log *zap.Logger) OrderService {
	return &orderService{db: db, orders: orders, ledger: ledger, events: events, log: log}
}

func (s *orderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	tour, err := s.ledger.ReserveTx(ctx, tx, in.TourID, in.Quantity)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		TourID:          in.TourID,
		UserID:          in.UserID,
		Quantity:        in.Quantity,
		TotalPriceCents: tour.PriceCents * in.Quantity,
		Status:          model.OrderPending,
		ContactEmail:    in.ContactEmail,
		ContactPhone:    in.ContactPhone,
	}
	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.log.Info("order created",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("tour_id", order.TourID),
		zap.Uint64("user_id", order.UserID),
		zap.Uint32("quantity", order.Quantity))
	_ = s.events.PublishOrderEvent(ctx, s.orderEvent(queue.EventOrderCreated, order, ""))
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID, userID uint64) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := s.orders.LockTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, repository.ErrForbidden
	}
	if !model.IsActiveStatus(order.Status) {
		return nil, &repository.InvalidTransitionError{From: order.Status, To: model.OrderCancelled}
	}

	from := order.Status
	if err := s.orders.UpdateStatusTx(ctx, tx, orderID, model.OrderCancelled); err != nil {
		return nil, err
	}
	if err := s.ledger.ReleaseTx(ctx, tx, order.TourID, order.Quantity); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	order.Status = model.OrderCancelled
	s.log.Info("order cancelled by owner",
		zap.Uint64("order_id", order.ID),
		zap.Uint64("tour_id", order.TourID),
		zap.Uint32("released", order.Quantity))
	_ = s.events.PublishOrderEvent(ctx, s.orderEvent(queue.EventOrderCancelled, order, from))
	return order, nil
}

func (s *orderService) SetStatus(ctx context.Context, orderID uint64, target string) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := s.orders.LockTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(order.Status, target) {
		return nil, &repository.InvalidTransitionError{From: order.Status, To: target}
	}

	from := order.Status
	// Reinstatement re-enters the ledger: the seats were released on
	// cancellation and must fit in what remains now. On failure the
	// rollback leaves the order CANCELLED untouched.
	if from == model.OrderCancelled && target == model.OrderConfirmed {
		if _, err := s.ledger.ReserveTx(ctx, tx, order.TourID, order.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.orders.UpdateStatusTx(ctx, tx, orderID, target); err != nil {
		return nil, err
	}
	if target == model.OrderCancelled {
		if err := s.ledger.ReleaseTx(ctx, tx, order.TourID, order.Quantity); err != nil {
			return nil, err
		}
	}
	// CONFIRMED -> COMPLETED has no ledger effect: the departure
	// consumed the seats, nothing is recycled.
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	order.Status = target
	s.log.Info("order status changed",
		zap.Uint64("order_id", order.ID),
		zap.String("from", from),
		zap.String("to", target))
	_ = s.events.PublishOrderEvent(ctx, s.orderEvent(queue.EventOrderStatusChanged, order, from))
	return order, nil
}

func (s *orderService) orderEvent(eventType string, o *model.Order, from string) queue.OrderEvent {
	return queue.OrderEvent{
		EventID:         uuid.New().String(),
		EventType:       eventType,
		OrderID:         o.ID,
		TourID:          o.TourID,
		UserID:          o.UserID,
		Quantity:        o.Quantity,
		FromStatus:      from,
		Status:          o.Status,
		TotalPriceCents: o.TotalPriceCents,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
}
