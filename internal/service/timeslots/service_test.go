package timeslots

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/infra/storage/memory"
	"github.com/suldsma/PROGIII-API/internal/service/schedule"
	"github.com/suldsma/PROGIII-API/internal/service/timeslots/models"
	"github.com/suldsma/PROGIII-API/pkg/logger"
	"github.com/suldsma/PROGIII-API/pkg/ptr"
	"github.com/suldsma/PROGIII-API/pkg/types"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewService(
		store.TimeSlots(),
		store.Halls(),
		store.Reservations(),
		schedule.NewService(store.Halls(), store.Reservations()),
		store,
		logger.NewWithWriter(io.Discard, "error"),
	)
	return svc, store
}

func create(t *testing.T, svc *Service, start, end types.TimeString) *models.TimeSlotResponse {
	t.Helper()
	slot, err := svc.Create(context.Background(), &models.TimeSlotRequest{StartTime: start, EndTime: end})
	require.NoError(t, err)
	return slot
}

func TestService_Create_TouchingSlotsAllowed(t *testing.T) {
	svc, _ := newService(t)

	first := create(t, svc, "12:00", "14:00")
	second := create(t, svc, "14:00", "16:00")

	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, 2, second.Ordinal)
}

func TestService_Create_Overlap(t *testing.T) {
	svc, _ := newService(t)
	create(t, svc, "12:00", "14:00")

	tests := []struct {
		name       string
		start, end types.TimeString
	}{
		{"contained", "12:30", "13:30"},
		{"containing", "11:00", "15:00"},
		{"left edge", "11:00", "12:01"},
		{"right edge", "13:59", "15:00"},
		{"identical", "12:00", "14:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &models.TimeSlotRequest{StartTime: tt.start, EndTime: tt.end})
			assert.ErrorIs(t, err, ErrOverlap)
		})
	}
}

func TestService_Create_InvalidRange(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), &models.TimeSlotRequest{StartTime: "14:00", EndTime: "14:00"})

	require.ErrorIs(t, err, ErrInvalidInput)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "endTime", fieldErr.Field)
}

func TestService_Create_ExplicitOrdinal(t *testing.T) {
	svc, _ := newService(t)

	slot, err := svc.Create(context.Background(), &models.TimeSlotRequest{Ordinal: ptr.Ptr(7), StartTime: "10:00", EndTime: "11:00"})

	require.NoError(t, err)
	assert.Equal(t, 7, slot.Ordinal)
	next := create(t, svc, "11:00", "12:00")
	assert.Equal(t, 8, next.Ordinal)
}

func TestService_Patch_RevalidatesOverlap(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	create(t, svc, "12:00", "14:00")
	second := create(t, svc, "14:00", "16:00")

	_, err := svc.Patch(ctx, second.ID, &models.PatchTimeSlotRequest{StartTime: ptr.Ptr(types.TimeString("13:00"))})
	assert.ErrorIs(t, err, ErrOverlap)

	patched, err := svc.Patch(ctx, second.ID, &models.PatchTimeSlotRequest{Ordinal: ptr.Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, patched.Ordinal)
	assert.Equal(t, "14:00", patched.StartTime)
}

func TestService_DeleteAndRestore(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	slot := create(t, svc, "12:00", "14:00")
	res, err := store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: 1, TimeSlotID: slot.ID,
		Date: time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), Status: domain.StatusPending,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, slot.ID), ErrTimeSlotInUse)

	require.NoError(t, store.Reservations().UpdateStatus(ctx, res.ID, domain.StatusPending, domain.StatusCancelled))
	require.NoError(t, svc.Delete(ctx, slot.ID))

	// пока слот неактивен, пересекающийся слот можно создать
	create(t, svc, "13:00", "15:00")

	_, err = svc.Restore(ctx, slot.ID)
	assert.ErrorIs(t, err, ErrOverlap)
}

func TestService_GetAvailable(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	hall, err := store.Halls().Create(ctx, &domain.Hall{Title: "A", Address: "B", Active: true})
	require.NoError(t, err)
	evening := create(t, svc, "18:00", "20:00")
	noon := create(t, svc, "12:00", "14:00")
	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: hall.ID, TimeSlotID: noon.ID, Date: date, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	free, err := svc.GetAvailable(ctx, date, hall.ID)

	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, evening.ID, free[0].ID)

	_, err = svc.GetAvailable(ctx, date, 404)
	assert.ErrorIs(t, err, ErrHallNotFound)
}
