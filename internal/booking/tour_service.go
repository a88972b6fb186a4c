package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunvoyage/tour-booking/internal/queue"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

// DeleteResult reports what a tour cascade delete resolved.
type DeleteResult struct {
	CancelledOrders int64 `json:"cancelled_orders"`
	DeletedReviews  int64 `json:"deleted_reviews"`
}

// TourService guards tour deletion and serves availability reads.
type TourService interface {
	// Delete removes a tour, force-cancelling its active orders and
	// deleting its reviews first, all in one transaction. A failure
	// partway rolls everything back and reports ErrDeleteBlocked.
	Delete(ctx context.Context, tourID uint64) (*DeleteResult, error)
	// Availability returns the tour's group size and derived
	// available seat count.
	Availability(ctx context.Context, tourID uint64) (*Availability, error)
}

type tourService struct {
	db      *sql.DB
	tours   *repository.TourRepo
	orders  *repository.OrderRepo
	reviews *repository.ReviewRepo
	ledger  *Ledger
	events  EventPublisher
	log     *zap.Logger
}

// NewTourService constructs the tour lifecycle guard.
func NewTourService(db *sql.DB, tours *repository.TourRepo, orders *repository.OrderRepo, reviews *repository.ReviewRepo, ledger *Ledger, events EventPublisher, log *zap.Logger) TourService {
	return &tourService{db: db, tours: tours, orders: orders, reviews: reviews, ledger: ledger, events: events, log: log}
}

func (s *tourService) Delete(ctx context.Context, tourID uint64) (*DeleteResult, error) {
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

	// Lock the tour row first so no order can be created against it
	// while the cascade runs.
	tour, err := s.tours.LockTx(ctx, tx, tourID)
	if err != nil {
		return nil, err
	}

	// Force-cancel active orders. No seat release applies: the tour
	// and its ledger are being removed.
	cancelled, err := s.orders.CancelActiveByTourTx(ctx, tx, tourID)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel orders: %v", repository.ErrDeleteBlocked, err)
	}
	deletedReviews, err := s.reviews.DeleteByTourTx(ctx, tx, tourID)
	if err != nil {
		return nil, fmt.Errorf("%w: delete reviews: %v", repository.ErrDeleteBlocked, err)
	}
	if err := s.tours.DeleteTx(ctx, tx, tourID); err != nil {
		if errors.Is(err, repository.ErrTourNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: delete tour: %v", repository.ErrDeleteBlocked, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", repository.ErrDeleteBlocked, err)
	}
	committed = true

	s.log.Info("tour deleted",
		zap.Uint64("tour_id", tourID),
		zap.String("slug", tour.Slug),
		zap.Int64("cancelled_orders", cancelled),
		zap.Int64("deleted_reviews", deletedReviews))
	_ = s.events.PublishTourDeleted(ctx, queue.TourDeletedEvent{
		EventID:         uuid.New().String(),
		EventType:       queue.EventTourDeleted,
		TourID:          tourID,
		Slug:            tour.Slug,
		CancelledOrders: cancelled,
		DeletedReviews:  deletedReviews,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	})
	return &DeleteResult{CancelledOrders: cancelled, DeletedReviews: deletedReviews}, nil
}

func (s *tourService) Availability(ctx context.Context, tourID uint64) (*Availability, error) {
	return s.ledger.AvailableSeats(ctx, tourID)
}
