package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 64

type requestIDKey struct{}

// RequestID берет X-Request-ID клиента или генерирует новый uuid
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFromContext возвращает id текущего запроса или пустую строку
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// AccessLog пишет строку на каждый запрос и перехватывает панику обработчика
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			id := RequestIDFromContext(r.Context())

			defer func() {
				if p := recover(); p != nil {
					logger.Error("%s %s - panic: %v (request_id=%s)", r.Method, r.URL.Path, p, id)
					handlers.RespondInternalError(rec)
				}
				logger.Info("%s %s - %d in %s (request_id=%s)", r.Method, r.URL.Path, rec.status, time.Since(start), id)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
