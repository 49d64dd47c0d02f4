package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
	reservationRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/reservation"
	timeslotRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/timeslot"
)

func TestStore_DoRollsBackOnError(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Do(ctx, func(txCtx context.Context) error {
		_, err := store.Halls().Create(txCtx, &domain.Hall{Title: "A", Address: "B", Active: true})
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, total, err := store.Halls().List(ctx, domain.HallFilter{IncludeInactive: true}, domain.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestStore_NestedDoReusesTransaction(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.Do(ctx, func(txCtx context.Context) error {
		return store.DoSerializable(txCtx, func(inner context.Context) error {
			_, err := store.Halls().Create(inner, &domain.Hall{Title: "A", Address: "B", Active: true})
			return err
		})
	})

	require.NoError(t, err)
	hall, err := store.Halls().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", hall.Title)
}

func TestHallRepository_DuplicateIgnoresCaseAndSpaces(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Halls().Create(ctx, &domain.Hall{Title: "Salon Azul", Address: "Calle 1", Active: true})
	require.NoError(t, err)

	_, err = store.Halls().Create(ctx, &domain.Hall{Title: "  salon azul ", Address: "CALLE 1", Active: true})
	assert.ErrorIs(t, err, hallRepo.ErrDuplicate)

	_, err = store.Halls().GetByID(ctx, 42)
	assert.ErrorIs(t, err, hallRepo.ErrHallNotFound)
}

func TestTimeSlotRepository_TouchingSlotsDoNotOverlap(t *testing.T) {
	store := New()
	ctx := context.Background()
	slots := store.TimeSlots()

	_, err := slots.Create(ctx, &domain.TimeSlot{Ordinal: 1, StartTime: "12:00", EndTime: "14:00", Active: true})
	require.NoError(t, err)
	_, err = slots.Create(ctx, &domain.TimeSlot{Ordinal: 2, StartTime: "14:00", EndTime: "16:00", Active: true})
	require.NoError(t, err)

	_, err = slots.Create(ctx, &domain.TimeSlot{Ordinal: 3, StartTime: "13:00", EndTime: "15:00", Active: true})
	assert.ErrorIs(t, err, timeslotRepo.ErrOverlap)

	next, err := slots.NextOrdinal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestReservationRepository_SlotTakenAndCounts(t *testing.T) {
	store := New()
	ctx := context.Background()
	repo := store.Reservations()
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: 1, TimeSlotID: 1, Date: date, Status: domain.StatusPending, ServiceIDs: []int64{7},
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Reservation{
		ClientID: 2, HallID: 1, TimeSlotID: 1, Date: date, Status: domain.StatusPending,
	})
	assert.ErrorIs(t, err, reservationRepo.ErrSlotTaken)

	count, err := repo.CountActiveByService(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.StatusPending, domain.StatusCancelled))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, first.ID, domain.StatusPending, domain.StatusCancelled), reservationRepo.ErrStatusChanged)

	count, err = repo.CountActiveByHall(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, got.ServiceIDs)
}

func TestReservationRepository_CompletePast(t *testing.T) {
	store := New()
	ctx := context.Background()
	repo := store.Reservations()

	past := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, &domain.Reservation{ClientID: 1, HallID: 1, TimeSlotID: 1, Date: past, Status: domain.StatusPending})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Reservation{ClientID: 1, HallID: 1, TimeSlotID: 1, Date: today, Status: domain.StatusPending})
	require.NoError(t, err)

	completed, err := repo.CompletePast(ctx, today)

	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
	status := domain.StatusCompleted
	items, total, err := repo.List(ctx, domain.ReservationFilter{Status: &status}, domain.Page{Number: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "2025-01-10", items[0].Date.Format(domain.DateFormat))
}

func TestServiceRepository_MostUsedSkipsCancelled(t *testing.T) {
	store := New()
	ctx := context.Background()
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	dj, err := store.Services().Create(ctx, &domain.Service{Description: "DJ", Price: 100, Active: true})
	require.NoError(t, err)
	catering, err := store.Services().Create(ctx, &domain.Service{Description: "Catering", Price: 200, Active: true})
	require.NoError(t, err)

	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: 1, TimeSlotID: 1, Date: date, Status: domain.StatusPending, ServiceIDs: []int64{dj.ID},
	})
	require.NoError(t, err)
	cancelled, err := store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: 2, TimeSlotID: 1, Date: date, Status: domain.StatusPending, ServiceIDs: []int64{catering.ID, dj.ID},
	})
	require.NoError(t, err)
	require.NoError(t, store.Reservations().UpdateStatus(ctx, cancelled.ID, domain.StatusPending, domain.StatusCancelled))

	usage, err := store.Services().MostUsed(ctx, 5)

	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "DJ", usage[0].Description)
	assert.Equal(t, 1, usage[0].UsageCount)
	assert.Equal(t, 0, usage[1].UsageCount)
}
