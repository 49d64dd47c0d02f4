package halls

import (
	"context"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// HallRepository интерфейс репозитория залов
type HallRepository interface {
	Create(ctx context.Context, hall *domain.Hall) (*domain.Hall, error)
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Hall, error)
	Update(ctx context.Context, hall *domain.Hall) (*domain.Hall, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ExistsActiveDuplicate(ctx context.Context, title, address string, excludeID int64) (bool, error)
	List(ctx context.Context, filter domain.HallFilter, page domain.Page) ([]*domain.Hall, int, error)
	ListActive(ctx context.Context) ([]*domain.Hall, error)
}

// TimeSlotRepository интерфейс репозитория временных слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// ReservationCounter считает активные бронирования зала
type ReservationCounter interface {
	CountActiveByHall(ctx context.Context, hallID int64) (int, error)
}

// Schedule детектор конфликтов
type Schedule interface {
	OccupiedHallIDs(ctx context.Context, slotID int64, date time.Time) (map[int64]struct{}, error)
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
