package halls

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/infra/storage/memory"
	"github.com/suldsma/PROGIII-API/internal/service/halls/models"
	"github.com/suldsma/PROGIII-API/internal/service/schedule"
	"github.com/suldsma/PROGIII-API/pkg/logger"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewService(
		store.Halls(),
		store.TimeSlots(),
		store.Reservations(),
		schedule.NewService(store.Halls(), store.Reservations()),
		store,
		logger.NewWithWriter(io.Discard, "error"),
	)
	return svc, store
}

func TestService_Create_DuplicateIsCaseInsensitive(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.HallRequest{Title: "Salon Azul", Address: "Calle 1", Price: 1000})
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = svc.Create(ctx, &models.HallRequest{Title: " SALON azul", Address: "calle 1 ", Price: 500})
	assert.ErrorIs(t, err, ErrDuplicateHall)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), &models.HallRequest{Title: "  ", Address: "X"})

	require.ErrorIs(t, err, ErrInvalidInput)
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "title", fieldErr.Field)
}

func TestService_SoftDeleteGuard(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	hall, err := svc.Create(ctx, &models.HallRequest{Title: "A", Address: "B", Price: 1})
	require.NoError(t, err)
	res, err := store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: hall.ID, TimeSlotID: 1,
		Date: time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), Status: domain.StatusPending,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, hall.ID)
	assert.ErrorIs(t, err, ErrHallInUse)

	require.NoError(t, store.Reservations().UpdateStatus(ctx, res.ID, domain.StatusPending, domain.StatusCancelled))
	require.NoError(t, svc.Delete(ctx, hall.ID))

	_, err = svc.GetByID(ctx, hall.ID, false)
	assert.ErrorIs(t, err, ErrHallNotFound)

	got, err := svc.GetByID(ctx, hall.ID, true)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// повторное удаление неактивного зала не ошибка
	assert.NoError(t, svc.Delete(ctx, hall.ID))
}

func TestService_Restore_RejectsDuplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &models.HallRequest{Title: "A", Address: "B", Price: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	_, err = svc.Create(ctx, &models.HallRequest{Title: "a", Address: "b", Price: 2})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, first.ID)
	assert.ErrorIs(t, err, ErrDuplicateHall)
}

func TestService_Patch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	hall, err := svc.Create(ctx, &models.HallRequest{Title: "A", Address: "B", Price: 1})
	require.NoError(t, err)

	price := 2500.0
	patched, err := svc.Patch(ctx, hall.ID, &models.PatchHallRequest{Price: &price})

	require.NoError(t, err)
	assert.Equal(t, "A", patched.Title)
	assert.Equal(t, 2500.0, patched.Price)

	_, err = svc.Patch(ctx, 999, &models.PatchHallRequest{Price: &price})
	assert.ErrorIs(t, err, ErrHallNotFound)
}

func TestService_GetAvailable(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	date := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)

	slot, err := store.TimeSlots().Create(ctx, &domain.TimeSlot{Ordinal: 1, StartTime: "18:00", EndTime: "20:00", Active: true})
	require.NoError(t, err)
	busy, err := svc.Create(ctx, &models.HallRequest{Title: "Busy", Address: "1", Price: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.HallRequest{Title: "Free", Address: "2", Price: 1})
	require.NoError(t, err)
	_, err = store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: 1, HallID: busy.ID, TimeSlotID: slot.ID, Date: date, Status: domain.StatusPending,
	})
	require.NoError(t, err)

	free, err := svc.GetAvailable(ctx, date, slot.ID)

	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "Free", free[0].Title)

	_, err = svc.GetAvailable(ctx, date, 999)
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
}

func TestService_List_Pagination(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, title := range []string{"C", "A", "B"} {
		_, err := svc.Create(ctx, &models.HallRequest{Title: title, Address: "X", Price: 1})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, &models.ListHallsRequest{Page: domain.Page{Number: 1, Limit: 2}})

	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "A", list.Items[0].Title)
	assert.Equal(t, 3, list.Pagination.TotalItems)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	assert.True(t, list.Pagination.HasNext)
}
