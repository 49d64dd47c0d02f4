package timeslot

import (
	"context"
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

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepository(dbmetrics.Wrap(sqlDB, nil)), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO time_slots \(ordinal,start_time,end_time,active\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id, created_at, updated_at`).
		WithArgs(1, types.TimeString("12:00"), types.TimeString("14:00"), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	slot, err := repo.Create(context.Background(), &domain.TimeSlot{
		Ordinal: 1, StartTime: "12:00", EndTime: "14:00", Active: true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), slot.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ExclusionViolation(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO time_slots`).WillReturnError(&pq.Error{Code: "23P01"})

	_, err := repo.Create(context.Background(), &domain.TimeSlot{Ordinal: 1, StartTime: "12:00", EndTime: "14:00", Active: true})

	assert.ErrorIs(t, err, ErrOverlap)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NextOrdinal(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(ordinal\), 0\) \+ 1 FROM time_slots`).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(4))

	next, err := repo.NextOrdinal(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, next)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListActive(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM time_slots WHERE active = \$1 ORDER BY ordinal ASC, start_time ASC`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), 1, "12:00:00", "14:00:00", true, now, now).
			AddRow(int64(2), 2, "14:00:00", "16:00:00", true, now, now))

	slots, err := repo.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("14:00"), slots[0].EndTime)
	assert.Equal(t, types.TimeString("14:00"), slots[1].StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM time_slots WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
