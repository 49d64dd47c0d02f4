package extras

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, service *domain.Service) (*domain.Service, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ExistsActiveByDescription(ctx context.Context, description string, excludeID int64) (bool, error)
	List(ctx context.Context, filter domain.ServiceFilter, page domain.Page) ([]*domain.Service, int, error)
	MostUsed(ctx context.Context, limit int) ([]*domain.ServiceUsage, error)
}

// ReservationCounter считает активные бронирования, связанные с услугой
type ReservationCounter interface {
	CountActiveByService(ctx context.Context, serviceID int64) (int, error)
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
