package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sunvoyage/tour-booking/internal/model"
)

// DestinationRepo provides reads over destinations plus the guarded
// delete: a destination cannot be removed while any tour references it.
type DestinationRepo struct {
	db *sql.DB
}

// NewDestinationRepo returns a new DestinationRepo bound to the given database.
func NewDestinationRepo(db *sql.DB) *DestinationRepo { return &DestinationRepo{db: db} }

// List returns all destinations ordered by name.
func (r *DestinationRepo) List(ctx context.Context) ([]model.Destination, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, country, created_at FROM destinations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Destination, 0)
	for rows.Next() {
		var d model.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Country, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single destination or ErrDestinationNotFound.
func (r *DestinationRepo) GetByID(ctx context.Context, id uint64) (*model.Destination, error) {
	var d model.Destination
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, country, created_at FROM destinations WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.Country, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return &d, nil
}

// DeleteByID removes a destination provided no tour references it. The
// existence check, the reference count and the delete run in one
// transaction so a tour created concurrently cannot slip past the
// guard. Returns ErrDestinationNotFound or ErrDestinationInUse.
func (r *DestinationRepo) DeleteByID(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var exists uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM destinations WHERE id = ? FOR UPDATE`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrDestinationNotFound
		}
		return err
	}
	var tourCount int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tours WHERE destination_id = ?`, id).Scan(&tourCount); err != nil {
		return err
	}
	if tourCount > 0 {
		err = ErrDestinationInUse
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	return err
}
