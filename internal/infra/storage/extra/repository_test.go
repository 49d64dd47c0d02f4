package extra

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

	mock.ExpectQuery(`INSERT INTO services \(description,price,active\) VALUES \(\$1,\$2,\$3\) RETURNING id, created_at, updated_at`).
		WithArgs("Catering", 1500.0, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	service, err := repo.Create(context.Background(), &domain.Service{Description: "Catering", Price: 1500, Active: true})

	require.NoError(t, err)
	assert.Equal(t, int64(3), service.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO services`).WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Service{Description: "Catering", Price: 1, Active: true})

	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDs_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	services, err := repo.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, services)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByIDs(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM services WHERE id = ANY\(\$1\) ORDER BY id ASC`).
		WithArgs(pq.Array([]int64{1, 2})).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "DJ", 500.0, true, now, now).
			AddRow(int64(2), "Catering", 1500.0, false, now, now))

	services, err := repo.GetByIDs(context.Background(), []int64{1, 2})

	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.False(t, services[1].Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MostUsed(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT s.id, .+ COUNT\(r.id\) AS usage_count FROM services s LEFT JOIN reservation_services rs .+ LEFT JOIN reservations r .+ WHERE s.active = \$2 GROUP BY s.id ORDER BY usage_count DESC, s.description ASC LIMIT 5`).
		WithArgs(domain.StatusCancelled, true).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, columns...), "usage_count")).
			AddRow(int64(2), "Catering", 1500.0, true, now, now, 7).
			AddRow(int64(1), "DJ", 500.0, true, now, now, 0))

	usage, err := repo.MostUsed(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, 7, usage[0].UsageCount)
	assert.Equal(t, "Catering", usage[0].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetActive_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE services SET active = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(false, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), 9, false)

	assert.ErrorIs(t, err, ErrServiceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
