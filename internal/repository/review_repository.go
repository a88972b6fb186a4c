package repository

import (
	"context"
	"database/sql"
)

// ReviewRepo owns the two operations the engine needs against reviews:
// counting them for a tour and deleting them in bulk when the tour is
// removed. Review authoring and moderation live elsewhere.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// DeleteByTourTx removes all reviews for a tour inside the given
// transaction and returns how many rows were deleted.
func (r *ReviewRepo) DeleteByTourTx(ctx context.Context, tx *sql.Tx, tourID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE tour_id = ?`, tourID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByTour reports how many reviews exist for a tour.
func (r *ReviewRepo) CountByTour(ctx context.Context, tourID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE tour_id = ?`, tourID).Scan(&n)
	return n, err
}
