package reservation

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/dbmetrics"
	"github.com/suldsma/PROGIII-API/pkg/types"
)

var date = time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db := dbmetrics.Wrap(sqlDB, nil)
	return NewRepository(db), db, mock
}

func reservationRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO reservations`).
		WithArgs(int64(7), int64(1), int64(3), "2025-12-24", types.TimeString("18:00"), types.TimeString("20:00"), domain.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec(`INSERT INTO reservation_services \(reservation_id,service_id\) VALUES \(\$1,\$2\),\(\$3,\$4\)`).
		WithArgs(int64(10), int64(2), int64(10), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	created, err := repo.Create(context.Background(), &domain.Reservation{
		ClientID:   7,
		HallID:     1,
		TimeSlotID: 3,
		Date:       date,
		StartTime:  "18:00",
		EndTime:    "20:00",
		ServiceIDs: []int64{2, 5},
		Status:     domain.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Reservation{
		ClientID: 7, HallID: 1, TimeSlotID: 3, Date: date, Status: domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id = \$1$`).
		WithArgs(int64(10)).
		WillReturnRows(reservationRows().AddRow(int64(10), int64(7), int64(1), int64(3), date, "18:00:00", "20:00:00", "PENDING", now, now))
	mock.ExpectQuery(`SELECT reservation_id, service_id FROM reservation_services WHERE reservation_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"reservation_id", "service_id"}).AddRow(int64(10), int64(2)))

	res, err := repo.GetByID(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ClientID)
	assert.Equal(t, types.TimeString("18:00"), res.StartTime)
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, []int64{2}, res.ServiceIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_LocksInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(10)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), 10)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`UPDATE reservations SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
		WithArgs(domain.StatusCancelled, int64(10), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE reservations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusCancelled))

	err := repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrStatusChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistsActive(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT EXISTS \( SELECT 1 FROM reservations WHERE`).
		WithArgs(int64(1), "2025-12-24", domain.StatusPending, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsActive(context.Background(), 1, date, 3)

	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountActiveByService(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservation_services rs JOIN reservations r ON r.id = rs.reservation_id`).
		WithArgs(domain.StatusPending, int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveByService(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	repo, _, mock := newRepo(t)
	status := domain.StatusPending

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE \(status = \$1\)`).
		WithArgs(domain.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM reservations WHERE \(status = \$1\) ORDER BY .+ LIMIT 10 OFFSET 10`).
		WithArgs(domain.StatusPending).
		WillReturnRows(reservationRows())

	items, total, err := repo.List(context.Background(), domain.ReservationFilter{Status: &status}, domain.Page{Number: 2, Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CompletePast(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(`UPDATE reservations SET status = \$1, updated_at = NOW\(\) WHERE status = \$2 AND reservation_date < \$3`).
		WithArgs(domain.StatusCompleted, domain.StatusPending, "2025-12-24").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.CompletePast(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
