package timeslots

import (
	"context"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// TimeSlotRepository интерфейс репозитория временных слотов
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error)
	Update(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	SetActive(ctx context.Context, id int64, active bool) error
	NextOrdinal(ctx context.Context) (int, error)
	List(ctx context.Context, filter domain.TimeSlotFilter, page domain.Page) ([]*domain.TimeSlot, int, error)
	ListActive(ctx context.Context) ([]*domain.TimeSlot, error)
}

// HallRepository интерфейс репозитория залов
type HallRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
}

// ReservationCounter считает активные бронирования слота
type ReservationCounter interface {
	CountActiveBySlot(ctx context.Context, slotID int64) (int, error)
}

// Schedule детектор конфликтов
type Schedule interface {
	OccupiedSlotIDs(ctx context.Context, hallID int64, date time.Time) (map[int64]struct{}, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
