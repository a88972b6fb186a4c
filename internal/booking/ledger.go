// Package booking implements the tour inventory and order lifecycle
// engine: the seat ledger, the order state machine with its ledger side
// effects, and the tour cascade delete guard. All shared state lives in
// the relational store; every multi-step operation runs inside a single
// database transaction so that concurrent requests serialize on the
// tour row instead of racing on stale availability.
package booking

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/sunvoyage/tour-booking/internal/model"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

// Ledger answers "how many seats remain" and "can this request be
// satisfied" for a tour. Availability is always derived as
// groupSize - sum(quantity of PENDING/CONFIRMED orders); no counter is
// stored, so there is nothing to drift out of sync when staff edit a
// tour's group size.
type Ledger struct {
	tours  *repository.TourRepo
	orders *repository.OrderRepo
	log    *zap.Logger
}

// NewLedger returns a Ledger over the given repositories.
func NewLedger(tours *repository.TourRepo, orders *repository.OrderRepo, log *zap.Logger) *Ledger {
	return &Ledger{tours: tours, orders: orders, log: log}
}

// Availability is the derived seat count for a tour as served to
// clients.
type Availability struct {
	TourID         uint64 `json:"tour_id"`
	GroupSize      uint32 `json:"group_size"`
	AvailableSeats uint32 `json:"available_seats"`
}

// AvailableSeatsTx locks the tour row and computes its remaining seats
// inside the caller's transaction. The lock is what prevents two
// concurrent reservations from both observing the same availability:
// the second transaction blocks here until the first commits, then sees
// its order in the aggregate.
func (l *Ledger) AvailableSeatsTx(ctx context.Context, tx *sql.Tx, tourID uint64) (*model.Tour, uint32, error) {
	tour, err := l.tours.LockTx(ctx, tx, tourID)
	if err != nil {
		return nil, 0, err
	}
	held, err := l.orders.SeatsHeldTx(ctx, tx, tourID)
	if err != nil {
		return nil, 0, err
	}
	if held > tour.GroupSize {
		// Active orders exceeding capacity is an invariant violation;
		// it can only come from a write that bypassed the ledger.
		l.log.Error("seat ledger exceeds group size",
			zap.Uint64("tour_id", tourID),
			zap.Uint32("held", held),
			zap.Uint32("group_size", tour.GroupSize))
		return tour, 0, nil
	}
	return tour, tour.GroupSize - held, nil
}

// ReserveTx validates that quantity seats fit in the tour's remaining
// capacity, under the tour row lock. On success the caller inserts or
// reactivates the order in the same transaction, which is what commits
// the reservation. On failure it returns InsufficientSeatsError with
// the actual remaining count and the caller must roll back.
func (l *Ledger) ReserveTx(ctx context.Context, tx *sql.Tx, tourID uint64, quantity uint32) (*model.Tour, error) {
	tour, available, err := l.AvailableSeatsTx(ctx, tx, tourID)
	if err != nil {
		return nil, err
	}
	if quantity > available {
		return nil, &repository.InsufficientSeatsError{Remaining: available}
	}
	return tour, nil
}

// ReleaseTx verifies the ledger after a cancellation freed the order's
// seats. With derived availability the release itself is implicit in
// the status change; this check exists to surface a ledger that was
// already oversubscribed before the cancel, which is logged and never
// silently corrected.
func (l *Ledger) ReleaseTx(ctx context.Context, tx *sql.Tx, tourID uint64, quantity uint32) error {
	tour, err := l.tours.LockTx(ctx, tx, tourID)
	if err != nil {
		return err
	}
	held, err := l.orders.SeatsHeldTx(ctx, tx, tourID)
	if err != nil {
		return err
	}
	if held > tour.GroupSize {
		l.log.Error("seat ledger still oversubscribed after release",
			zap.Uint64("tour_id", tourID),
			zap.Uint32("released", quantity),
			zap.Uint32("held", held),
			zap.Uint32("group_size", tour.GroupSize))
	}
	return nil
}

// AvailableSeats is the read-only, non-locking variant for the public
// availability endpoint. Reads are idempotent and side-effect-free.
func (l *Ledger) AvailableSeats(ctx context.Context, tourID uint64) (*Availability, error) {
	tour, err := l.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	held, err := l.orders.SeatsHeld(ctx, tourID)
	if err != nil {
		return nil, err
	}
	av := &Availability{TourID: tour.ID, GroupSize: tour.GroupSize}
	if held < tour.GroupSize {
		av.AvailableSeats = tour.GroupSize - held
	}
	return av, nil
}
