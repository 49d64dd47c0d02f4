package auth

import (
	"context"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PasswordVerifier сравнивает пароль с хешем
type PasswordVerifier interface {
	Verify(hash, plain string) bool
}

// TokenIssuer выпускает access токены
type TokenIssuer interface {
	Issue(userID int64, role int) (string, time.Time, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
