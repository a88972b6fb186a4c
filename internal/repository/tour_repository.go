package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sunvoyage/tour-booking/internal/model"
)

// TourRepo provides read access to tours plus the transactional
// primitives the booking engine needs: locking a tour row for the
// duration of a seat reservation and deleting a tour inside a cascade.
// Seat availability is never stored on the tour row; it is always
// derived from the tour's group size and the active orders against it.
type TourRepo struct {
	db *sql.DB
}

// NewTourRepo returns a new TourRepo bound to the given database.
func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{db: db} }

// DB exposes the underlying handle so handlers and services can open
// transactions spanning multiple repositories.
func (r *TourRepo) DB() *sql.DB { return r.db }

const tourColumns = `id, slug, destination_id, title, price_cents, group_size, starts_at, created_at, updated_at`

func scanTour(row *sql.Row) (*model.Tour, error) {
	var t model.Tour
	err := row.Scan(&t.ID, &t.Slug, &t.DestinationID, &t.Title, &t.PriceCents,
		&t.GroupSize, &t.StartsAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByID returns a single tour or ErrTourNotFound.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (*model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = ?`
	return scanTour(r.db.QueryRowContext(ctx, q, id))
}

// GetBySlug returns a single tour by its unique slug or ErrTourNotFound.
func (r *TourRepo) GetBySlug(ctx context.Context, slug string) (*model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE slug = ?`
	return scanTour(r.db.QueryRowContext(ctx, q, slug))
}

// LockTx loads a tour inside the given transaction while taking a row
// lock on it. Every seat-consuming write locks the tour row first so
// that two concurrent reservations against the same tour serialize
// behind each other instead of both observing stale availability.
func (r *TourRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = ? FOR UPDATE`
	return scanTour(tx.QueryRowContext(ctx, q, id))
}

// TourSummary is a tour row augmented with its derived seat
// availability, as served by the public catalog endpoints.
type TourSummary struct {
	ID             uint64 `json:"id"`
	Slug           string `json:"slug"`
	DestinationID  uint64 `json:"destination_id"`
	Title          string `json:"title"`
	PriceCents     uint32 `json:"price_cents"`
	GroupSize      uint32 `json:"group_size"`
	StartsAt       string `json:"starts_at"`
	AvailableSeats uint32 `json:"available_seats"`
}

// List returns all tours ordered by departure time, each with its
// available seat count computed from the active orders aggregate. A
// tour oversold by a past bug reads as zero availability rather than
// a negative number.
func (r *TourRepo) List(ctx context.Context) ([]TourSummary, error) {
	const q = `SELECT t.id, t.slug, t.destination_id, t.title, t.price_cents, t.group_size, t.starts_at,
                      COALESCE(o.held, 0)
               FROM tours t
               LEFT JOIN (
                   SELECT tour_id, SUM(quantity) AS held
                   FROM orders
                   WHERE status IN ('PENDING','CONFIRMED')
                   GROUP BY tour_id
               ) o ON o.tour_id = t.id
               ORDER BY t.starts_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TourSummary, 0)
	for rows.Next() {
		var s TourSummary
		var held uint32
		if err := rows.Scan(&s.ID, &s.Slug, &s.DestinationID, &s.Title,
			&s.PriceCents, &s.GroupSize, &s.StartsAt, &held); err != nil {
			return nil, err
		}
		if held < s.GroupSize {
			s.AvailableSeats = s.GroupSize - held
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTx removes the tour row inside the given transaction. It is the
// final step of the cascade delete; active orders must already have
// been force-cancelled and reviews removed by the caller.
func (r *TourRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM tours WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// CountByDestination reports how many tours reference a destination.
// Used by the destination delete guard.
func (r *TourRepo) CountByDestination(ctx context.Context, destinationID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tours WHERE destination_id = ?`, destinationID).Scan(&n)
	return n, err
}
