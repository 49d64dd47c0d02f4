package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/infra/storage/memory"
)

func TestService_IsOccupied(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	hall, err := store.Halls().Create(ctx, &domain.Hall{Title: "A", Address: "B", Active: true})
	require.NoError(t, err)
	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: hall.ID, TimeSlotID: 2, Date: date, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	svc := NewService(store.Halls(), store.Reservations())

	occupied, err := svc.IsOccupied(ctx, hall.ID, date, 2)
	require.NoError(t, err)
	assert.True(t, occupied)

	occupied, err = svc.IsOccupied(ctx, hall.ID, date, 3)
	require.NoError(t, err)
	assert.False(t, occupied)

	occupied, err = svc.IsOccupied(ctx, hall.ID, date.AddDate(0, 0, 1), 2)
	require.NoError(t, err)
	assert.False(t, occupied)

	slots, err := svc.OccupiedSlotIDs(ctx, hall.ID, date)
	require.NoError(t, err)
	assert.Contains(t, slots, int64(2))
}

func TestService_IsOccupied_UnknownOrInactiveHall(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewService(store.Halls(), store.Reservations())

	_, err := svc.IsOccupied(ctx, 42, time.Now(), 1)
	assert.ErrorIs(t, err, ErrHallNotFound)

	hall, err := store.Halls().Create(ctx, &domain.Hall{Title: "A", Address: "B", Active: false})
	require.NoError(t, err)
	_, err = svc.IsOccupied(ctx, hall.ID, time.Now(), 1)
	assert.ErrorIs(t, err, ErrHallNotFound)
}

func TestService_CancelledReservationFreesSlot(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	hall, err := store.Halls().Create(ctx, &domain.Hall{Title: "A", Address: "B", Active: true})
	require.NoError(t, err)
	res, err := store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: hall.ID, TimeSlotID: 2, Date: date, Status: domain.StatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, store.Reservations().UpdateStatus(ctx, res.ID, domain.StatusPending, domain.StatusCancelled))

	svc := NewService(store.Halls(), store.Reservations())
	occupied, err := svc.IsOccupied(ctx, hall.ID, date, 2)

	require.NoError(t, err)
	assert.False(t, occupied)
}
