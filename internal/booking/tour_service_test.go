package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunvoyage/tour-booking/internal/queue"
	"github.com/sunvoyage/tour-booking/internal/repository"
)

func newTourService(t *testing.T) (TourService, sqlmock.Sqlmock, *stubPublisher, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	tours := repository.NewTourRepo(db)
	orders := repository.NewOrderRepo(db)
	reviews := repository.NewReviewRepo(db)
	events := &stubPublisher{}
	ledger := NewLedger(tours, orders, zap.NewNop())
	svc := NewTourService(db, tours, orders, reviews, ledger, events, zap.NewNop())
	return svc, mock, events, func() { _ = db.Close() }
}

func TestDeleteTourCascades(t *testing.T) {
	svc, mock, events, closeDB := newTourService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTourQ)).WithArgs(uint64(7)).
		WillReturnRows(tourRows(7, 5000, 10))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = 'CANCELLED'`)).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE tour_id = ?`)).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tours WHERE id = ?`)).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.CancelledOrders)
	assert.Equal(t, int64(5), res.DeletedReviews)

	require.Len(t, events.tourEvents, 1)
	assert.Equal(t, queue.EventTourDeleted, events.tourEvents[0].EventType)
	assert.Equal(t, int64(3), events.tourEvents[0].CancelledOrders)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTourNotFound(t *testing.T) {
	svc, mock, events, closeDB := newTourService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTourQ)).WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Delete(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrTourNotFound)
	assert.Empty(t, events.tourEvents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTourRollsBackOnReviewFailure(t *testing.T) {
	svc, mock, events, closeDB := newTourService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockTourQ)).WithArgs(uint64(7)).
		WillReturnRows(tourRows(7, 5000, 10))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET status = 'CANCELLED'`)).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reviews WHERE tour_id = ?`)).
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := svc.Delete(context.Background(), 7)
	require.ErrorIs(t, err, repository.ErrDeleteBlocked)
	assert.Empty(t, events.tourEvents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailability(t *testing.T) {
	svc, mock, _, closeDB := newTourService(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tours WHERE id = ?`)).WithArgs(uint64(7)).
		WillReturnRows(tourRows(7, 5000, 12))
	mock.ExpectQuery(regexp.QuoteMeta(seatsHeldQ)).WithArgs(uint64(7)).
		WillReturnRows(heldRows(4))

	av, err := svc.Availability(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), av.GroupSize)
	assert.Equal(t, uint32(8), av.AvailableSeats)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityOversoldReadsZero(t *testing.T) {
	svc, mock, _, closeDB := newTourService(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tours WHERE id = ?`)).WithArgs(uint64(7)).
		WillReturnRows(tourRows(7, 5000, 10))
	mock.ExpectQuery(regexp.QuoteMeta(seatsHeldQ)).WithArgs(uint64(7)).
		WillReturnRows(heldRows(11))

	av, err := svc.Availability(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), av.AvailableSeats)
	require.NoError(t, mock.ExpectationsWereMet())
}
