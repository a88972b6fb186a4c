package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sunvoyage/tour-booking/internal/model"
)

// OrderRepo provides CRUD operations for orders. Orders are never
// deleted; they only move through the status state machine. The ...Tx
// variants run inside a caller-owned transaction so that a status
// change and the seat accounting it affects either both persist or
// neither does.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderColumns = `id, tour_id, user_id, quantity, total_price_cents, status, contact_email, contact_phone, created_at, updated_at`

// tour_id is nullable: orders outlive their tour (the cascade delete
// sets it to NULL) and read back with TourID zero.
func scanOrder(scan func(...any) error) (*model.Order, error) {
	var o model.Order
	var tourID sql.NullInt64
	var phone sql.NullString
	err := scan(&o.ID, &tourID, &o.UserID, &o.Quantity, &o.TotalPriceCents,
		&o.Status, &o.ContactEmail, &phone, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if tourID.Valid {
		o.TourID = uint64(tourID.Int64)
	}
	if phone.Valid {
		p := phone.String
		o.ContactPhone = &p
	}
	return &o, nil
}

// CreateTx inserts a new order within the scope of an existing
// transaction and queries the row back to populate the generated ID and
// timestamps. The caller must commit or rollback the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (tour_id, user_id, quantity, total_price_cents, status, contact_email, contact_phone)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, o.TourID, o.UserID, o.Quantity,
		o.TotalPriceCents, o.Status, o.ContactEmail, o.ContactPhone)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	const sel = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	created, err := scanOrder(func(dest ...any) error {
		return tx.QueryRowContext(ctx, sel, uint64(id)).Scan(dest...)
	})
	if err != nil {
		return err
	}
	*o = *created
	return nil
}

// GetByID returns a single order or ErrOrderNotFound.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return scanOrder(func(dest ...any) error {
		return r.db.QueryRowContext(ctx, q, id).Scan(dest...)
	})
}

// LockTx loads an order inside the given transaction while taking a row
// lock on it, so that concurrent status changes to the same order
// serialize instead of racing.
func (r *OrderRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? FOR UPDATE`
	return scanOrder(func(dest ...any) error {
		return tx.QueryRowContext(ctx, q, id).Scan(dest...)
	})
}

// UpdateStatusTx sets the order status within the transaction.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	return err
}

// SeatsHeldTx sums the quantities of all active (PENDING or CONFIRMED)
// orders for a tour. It must run in the same transaction as the tour
// row lock so the result cannot be invalidated by a concurrent commit.
func (r *OrderRepo) SeatsHeldTx(ctx context.Context, tx *sql.Tx, tourID uint64) (uint32, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0) FROM orders WHERE tour_id = ? AND status IN ('PENDING','CONFIRMED')`
	var held uint32
	err := tx.QueryRowContext(ctx, q, tourID).Scan(&held)
	return held, err
}

// SeatsHeld is the non-locking variant used by read-only availability
// queries outside any reservation.
func (r *OrderRepo) SeatsHeld(ctx context.Context, tourID uint64) (uint32, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0) FROM orders WHERE tour_id = ? AND status IN ('PENDING','CONFIRMED')`
	var held uint32
	err := r.db.QueryRowContext(ctx, q, tourID).Scan(&held)
	return held, err
}

// CancelActiveByTourTx force-transitions every active order on a tour to
// CANCELLED and returns how many rows changed. Used by the tour cascade
// delete; no per-order state machine check applies because only active
// orders are touched and active -> CANCELLED is always legal.
func (r *OrderRepo) CancelActiveByTourTx(ctx context.Context, tx *sql.Tx, tourID uint64) (int64, error) {
	const q = `UPDATE orders SET status = 'CANCELLED', updated_at = NOW() WHERE tour_id = ? AND status IN ('PENDING','CONFIRMED')`
	res, err := tx.ExecContext(ctx, q, tourID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// OrderDetail is an order row joined with its tour, as returned by the
// listing endpoints for customers and staff.
type OrderDetail struct {
	ID              uint64  `json:"id"`
	TourID          uint64  `json:"tour_id"`
	TourSlug        string  `json:"tour_slug"`
	TourTitle       string  `json:"tour_title"`
	UserID          uint64  `json:"user_id"`
	Quantity        uint32  `json:"quantity"`
	TotalPriceCents uint32  `json:"total_price_cents"`
	Status          string  `json:"status"`
	ContactEmail    string  `json:"contact_email"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

const orderDetailQuery = `SELECT o.id, o.tour_id, t.slug, t.title, o.user_id, o.quantity,
                                 o.total_price_cents, o.status, o.contact_email, o.contact_phone, o.created_at
                          FROM orders o
                          LEFT JOIN tours t ON t.id = o.tour_id`

func collectOrderDetails(rows *sql.Rows) ([]OrderDetail, error) {
	defer rows.Close()
	out := make([]OrderDetail, 0)
	for rows.Next() {
		var d OrderDetail
		var tourID sql.NullInt64
		var slug, title sql.NullString
		var phone sql.NullString
		if err := rows.Scan(&d.ID, &tourID, &slug, &title, &d.UserID,
			&d.Quantity, &d.TotalPriceCents, &d.Status, &d.ContactEmail, &phone, &d.CreatedAt); err != nil {
			return nil, err
		}
		if tourID.Valid {
			d.TourID = uint64(tourID.Int64)
		}
		d.TourSlug = slug.String
		d.TourTitle = title.String
		if phone.Valid {
			p := phone.String
			d.ContactPhone = &p
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns all orders placed by a user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		orderDetailQuery+` WHERE o.user_id = ? ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectOrderDetails(rows)
}

// ListByTour returns all orders against a tour, newest first. Staff use
// this to work a tour's book of business.
func (r *OrderRepo) ListByTour(ctx context.Context, tourID uint64) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		orderDetailQuery+` WHERE o.tour_id = ? ORDER BY o.created_at DESC`, tourID)
	if err != nil {
		return nil, err
	}
	return collectOrderDetails(rows)
}
