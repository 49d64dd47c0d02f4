// Package api assembles the HTTP routes of the service.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	authHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/auth"
	cancelReservationHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/create_reservation"
	extrasHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/extras"
	getReservationHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/get_reservation"
	hallsHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/halls"
	listMyReservationsHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/list_my_reservations"
	listReservationsHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/list_reservations"
	timeslotsHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/timeslots"
	usersHandler "github.com/suldsma/PROGIII-API/internal/api/handlers/users"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/api/middleware"
	"github.com/suldsma/PROGIII-API/internal/service/access"
)

// Handlers обработчики всех эндпоинтов
type Handlers struct {
	Auth               *authHandler.Handler
	CreateReservation  *createReservationHandler.Handler
	GetReservation     *getReservationHandler.Handler
	ListMyReservations *listMyReservationsHandler.Handler
	ListReservations   *listReservationsHandler.Handler
	CancelReservation  *cancelReservationHandler.Handler
	Halls              *hallsHandler.Handler
	TimeSlots          *timeslotsHandler.Handler
	Extras             *extrasHandler.Handler
	Users              *usersHandler.Handler
}

// Options инфраструктура роутера; nil поля отключают соответствующую функцию
type Options struct {
	Tokens middleware.TokenParser
	Logger middleware.Logger

	HTTPMetrics    middleware.HTTPMetrics
	MetricsPath    string
	MetricsHandler http.Handler

	// LoginLimiter ограничивает POST /auth/login
	LoginLimiter middleware.Limiter

	// HealthCheck проверяет зависимости для /health
	HealthCheck func(ctx context.Context) error
}

// NewRouter регистрирует маршруты /api/v1
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(opts.Logger))

	if opts.HTTPMetrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.HTTPMetrics))
	}
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", health(opts.HealthCheck)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Публичные эндпоинты
	api.Handle("/auth/login", middleware.RateLimit(opts.LoginLimiter, opts.Logger)(http.HandlerFunc(h.Auth.Login))).
		Methods(http.MethodPost)

	// Защищенные эндпоинты (требуют Bearer токен)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(opts.Tokens, opts.Logger))

	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	// Бронирования; владение проверяют сервисы
	protected.Handle("/reservations", guard(access.ReservationCreate, h.CreateReservation.Handle)).Methods(http.MethodPost)
	protected.Handle("/reservations", guard(access.ReservationListAll, h.ListReservations.Handle)).Methods(http.MethodGet)
	protected.Handle("/reservations/me", guard(access.ReservationListMine, h.ListMyReservations.Handle)).Methods(http.MethodGet)
	protected.Handle("/reservations/{id:[0-9]+}", guard(access.ReservationRead, h.GetReservation.Handle)).Methods(http.MethodGet)
	protected.Handle("/reservations/{id:[0-9]+}", guard(access.ReservationCancel, h.CancelReservation.Handle)).Methods(http.MethodDelete)

	// Залы
	protected.Handle("/halls/available", guard(access.CatalogBrowse, h.Halls.Available)).Methods(http.MethodGet)
	protected.Handle("/halls", guard(access.CatalogBrowse, h.Halls.List)).Methods(http.MethodGet)
	protected.Handle("/halls", guard(access.CatalogManage, h.Halls.Create)).Methods(http.MethodPost)
	protected.Handle("/halls/{id:[0-9]+}", guard(access.CatalogBrowse, h.Halls.Get)).Methods(http.MethodGet)
	protected.Handle("/halls/{id:[0-9]+}", guard(access.CatalogManage, h.Halls.Update)).Methods(http.MethodPut)
	protected.Handle("/halls/{id:[0-9]+}", guard(access.CatalogManage, h.Halls.Patch)).Methods(http.MethodPatch)
	protected.Handle("/halls/{id:[0-9]+}", guard(access.CatalogManage, h.Halls.Delete)).Methods(http.MethodDelete)
	protected.Handle("/halls/{id:[0-9]+}/restore", guard(access.CatalogManage, h.Halls.Restore)).Methods(http.MethodPatch)

	// Временные слоты
	protected.Handle("/timeslots/available", guard(access.CatalogBrowse, h.TimeSlots.Available)).Methods(http.MethodGet)
	protected.Handle("/timeslots", guard(access.CatalogBrowse, h.TimeSlots.List)).Methods(http.MethodGet)
	protected.Handle("/timeslots", guard(access.CatalogManage, h.TimeSlots.Create)).Methods(http.MethodPost)
	protected.Handle("/timeslots/{id:[0-9]+}", guard(access.CatalogBrowse, h.TimeSlots.Get)).Methods(http.MethodGet)
	protected.Handle("/timeslots/{id:[0-9]+}", guard(access.CatalogManage, h.TimeSlots.Update)).Methods(http.MethodPut)
	protected.Handle("/timeslots/{id:[0-9]+}", guard(access.CatalogManage, h.TimeSlots.Patch)).Methods(http.MethodPatch)
	protected.Handle("/timeslots/{id:[0-9]+}", guard(access.CatalogManage, h.TimeSlots.Delete)).Methods(http.MethodDelete)
	protected.Handle("/timeslots/{id:[0-9]+}/restore", guard(access.CatalogManage, h.TimeSlots.Restore)).Methods(http.MethodPatch)

	// Дополнительные услуги
	protected.Handle("/services/stats/most-used", guard(access.CatalogReport, h.Extras.MostUsed)).Methods(http.MethodGet)
	protected.Handle("/services", guard(access.CatalogBrowse, h.Extras.List)).Methods(http.MethodGet)
	protected.Handle("/services", guard(access.CatalogManage, h.Extras.Create)).Methods(http.MethodPost)
	protected.Handle("/services/{id:[0-9]+}", guard(access.CatalogBrowse, h.Extras.Get)).Methods(http.MethodGet)
	protected.Handle("/services/{id:[0-9]+}", guard(access.CatalogManage, h.Extras.Update)).Methods(http.MethodPut)
	protected.Handle("/services/{id:[0-9]+}", guard(access.CatalogManage, h.Extras.Patch)).Methods(http.MethodPatch)
	protected.Handle("/services/{id:[0-9]+}", guard(access.CatalogManage, h.Extras.Delete)).Methods(http.MethodDelete)
	protected.Handle("/services/{id:[0-9]+}/restore", guard(access.CatalogManage, h.Extras.Restore)).Methods(http.MethodPatch)

	// Пользователи (только ADMIN)
	protected.Handle("/users/stats", guard(access.UserManage, h.Users.Stats)).Methods(http.MethodGet)
	protected.Handle("/users", guard(access.UserManage, h.Users.List)).Methods(http.MethodGet)
	protected.Handle("/users", guard(access.UserManage, h.Users.Create)).Methods(http.MethodPost)
	protected.Handle("/users/{id:[0-9]+}", guard(access.UserManage, h.Users.Get)).Methods(http.MethodGet)
	protected.Handle("/users/{id:[0-9]+}", guard(access.UserManage, h.Users.Update)).Methods(http.MethodPut)
	protected.Handle("/users/{id:[0-9]+}", guard(access.UserManage, h.Users.Patch)).Methods(http.MethodPatch)
	protected.Handle("/users/{id:[0-9]+}", guard(access.UserManage, h.Users.Delete)).Methods(http.MethodDelete)
	protected.Handle("/users/{id:[0-9]+}/restore", guard(access.UserManage, h.Users.Restore)).Methods(http.MethodPatch)

	return r
}

func guard(op access.Operation, fn http.HandlerFunc) http.Handler {
	return middleware.RequireOperation(op)(fn)
}

func health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
