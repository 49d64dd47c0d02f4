// Package middleware contains the HTTP middleware of the API: authentication,
// role checks, login rate limiting, request ids, access logging and metrics.
package middleware

import (
	"time"

	"github.com/suldsma/PROGIII-API/pkg/jwtauth"
)

// TokenParser проверяет access токен
type TokenParser interface {
	Parse(token string) (*jwtauth.Claims, error)
}

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Logger интерфейс логгера
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
