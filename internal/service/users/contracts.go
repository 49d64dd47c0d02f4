package users

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ExistsActiveByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]*domain.User, int, error)
	Stats(ctx context.Context) ([]*domain.RoleStats, error)
}

// ReservationCounter считает активные бронирования клиента
type ReservationCounter interface {
	CountActiveByClient(ctx context.Context, clientID int64) (int, error)
}

// PasswordHasher хеширует пароли
type PasswordHasher interface {
	Hash(plain string) (string, error)
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
