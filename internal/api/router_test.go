package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

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
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/infra/storage/memory"
	"github.com/suldsma/PROGIII-API/internal/integrations/notifier"
	"github.com/suldsma/PROGIII-API/internal/service/auth"
	"github.com/suldsma/PROGIII-API/internal/service/extras"
	"github.com/suldsma/PROGIII-API/internal/service/halls"
	"github.com/suldsma/PROGIII-API/internal/service/reservations"
	"github.com/suldsma/PROGIII-API/internal/service/schedule"
	"github.com/suldsma/PROGIII-API/internal/service/timeslots"
	"github.com/suldsma/PROGIII-API/internal/service/users"
	createReservation "github.com/suldsma/PROGIII-API/internal/usecase/create_reservation"
	"github.com/suldsma/PROGIII-API/pkg/jwtauth"
	"github.com/suldsma/PROGIII-API/pkg/logger"
	"github.com/suldsma/PROGIII-API/pkg/metrics"
	"github.com/suldsma/PROGIII-API/pkg/password"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	admin   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, "error")
	store := memory.New()
	m := metrics.New("test")
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := jwtauth.NewManager("secret", "test", time.Hour)
	events := notifier.New(nil, m, time.Second, log)
	sched := schedule.NewService(store.Halls(), store.Reservations())

	userSvc := users.NewService(store.Users(), store.Reservations(), hasher, store, log)
	reservationSvc := reservations.NewService(store.Reservations(), events, store, log)
	createUC := createReservation.NewUseCase(store.Halls(), store.TimeSlots(), store.Services(), store.Users(),
		store.Reservations(), store, events, m, log)

	h := Handlers{
		Auth:               authHandler.NewHandler(auth.NewService(store.Users(), hasher, tokens, log), log),
		CreateReservation:  createReservationHandler.NewHandler(createUC, log),
		GetReservation:     getReservationHandler.NewHandler(reservationSvc, log),
		ListMyReservations: listMyReservationsHandler.NewHandler(reservationSvc, log),
		ListReservations:   listReservationsHandler.NewHandler(reservationSvc, log),
		CancelReservation:  cancelReservationHandler.NewHandler(reservationSvc, log),
		Halls: hallsHandler.NewHandler(
			halls.NewService(store.Halls(), store.TimeSlots(), store.Reservations(), sched, store, log), log),
		TimeSlots: timeslotsHandler.NewHandler(
			timeslots.NewService(store.TimeSlots(), store.Halls(), store.Reservations(), sched, store, log), log),
		Extras: extrasHandler.NewHandler(extras.NewService(store.Services(), store.Reservations(), store, log), log),
		Users:  usersHandler.NewHandler(userSvc, log),
	}

	router := NewRouter(h, Options{
		Tokens:         tokens,
		Logger:         log,
		HTTPMetrics:    m,
		MetricsPath:    "/metrics",
		MetricsHandler: m.Handler(),
	})

	hash, err := hasher.Hash("admin-pass")
	require.NoError(t, err)
	_, err = store.Users().Create(context.Background(), &domain.User{
		FirstName: "Root", LastName: "Admin", Email: "admin@example.com",
		PasswordHash: hash, Role: domain.RoleAdmin, Active: true,
	})
	require.NoError(t, err)

	s := &testServer{t: t, handler: router}
	s.admin = s.login("admin@example.com", "admin-pass")
	return s
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func (s *testServer) login(email, pass string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": pass})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

// create выполняет POST и возвращает id созданной записи
func (s *testServer) create(path, token string, body interface{}) int64 {
	s.t.Helper()
	w := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func (s *testServer) newClient(email string) (int64, string) {
	s.t.Helper()
	id := s.create("/api/v1/users", s.admin, map[string]interface{}{
		"firstName": "Cli", "lastName": "Ent", "email": email, "password": "secret1", "role": 3,
	})
	return id, s.login(email, "secret1")
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func TestRouter_ReservationLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, c1 := s.newClient("c1@example.com")
	_, c2 := s.newClient("c2@example.com")

	hallID := s.create("/api/v1/halls", s.admin, map[string]interface{}{
		"title": "Salón Central", "address": "Av. Siempre Viva 742", "price": 120000, "capacity": 80,
	})
	slotID := s.create("/api/v1/timeslots", s.admin, map[string]interface{}{"startTime": "18:00", "endTime": "20:00"})
	date := time.Now().UTC().AddDate(0, 1, 0).Format(domain.DateFormat)
	booking := map[string]interface{}{"hallId": hallID, "date": date, "timeSlotId": slotID}

	// C1 бронирует
	w := s.do(http.MethodPost, "/api/v1/reservations", c1, booking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &created)
	assert.Equal(t, "PENDING", created.Status)

	// ADMIN видит его среди PENDING
	w = s.do(http.MethodGet, "/api/v1/reservations?estado=PENDING", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	decode(t, w, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	// C2 получает конфликт
	w = s.do(http.MethodPost, "/api/v1/reservations", c2, booking)
	assert.Equal(t, http.StatusConflict, w.Code)

	// зал с активным бронированием не удаляется
	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/halls/%d", hallID), s.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// чужое бронирование недоступно
	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/reservations/%d", created.ID), c2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// C1 отменяет, повторная отмена 400
	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/reservations/%d", created.ID), c1, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	assert.Equal(t, "CANCELLED", created.Status)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/reservations/%d", created.ID), c1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// C2 повторяет и успешно бронирует
	w = s.do(http.MethodPost, "/api/v1/reservations", c2, booking)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/reservations/me", c1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]interface{}
	decode(t, w, &mine)
	assert.Len(t, mine, 1)
}

func TestRouter_AccessControl(t *testing.T) {
	s := newTestServer(t)
	_, client := s.newClient("client@example.com")
	s.create("/api/v1/users", s.admin, map[string]interface{}{
		"firstName": "Em", "lastName": "Ployee", "email": "staff@example.com", "password": "secret1", "role": 2,
	})
	employee := s.login("staff@example.com", "secret1")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/halls", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/halls", "garbage", http.StatusUnauthorized},
		{"client browses halls", http.MethodGet, "/api/v1/halls", client, http.StatusOK},
		{"client cannot create hall", http.MethodPost, "/api/v1/halls", client, http.StatusForbidden},
		{"client cannot list all reservations", http.MethodGet, "/api/v1/reservations", client, http.StatusForbidden},
		{"employee lists all reservations", http.MethodGet, "/api/v1/reservations", employee, http.StatusOK},
		{"employee has no own reservations", http.MethodGet, "/api/v1/reservations/me", employee, http.StatusForbidden},
		{"employee cannot manage users", http.MethodGet, "/api/v1/users", employee, http.StatusForbidden},
		{"employee sees service stats", http.MethodGet, "/api/v1/services/stats/most-used", employee, http.StatusOK},
		{"client cannot see service stats", http.MethodGet, "/api/v1/services/stats/most-used", client, http.StatusForbidden},
		{"admin sees user stats", http.MethodGet, "/api/v1/users/stats", s.admin, http.StatusOK},
		{"me", http.MethodGet, "/api/v1/auth/me", client, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_ValidationErrorsCarryField(t *testing.T) {
	s := newTestServer(t)
	_, client := s.newClient("client@example.com")

	w := s.do(http.MethodPost, "/api/v1/reservations", client, map[string]interface{}{"date": "2099-01-01", "timeSlotId": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body handlers.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "hallId", body.Field)

	w = s.do(http.MethodPost, "/api/v1/timeslots", s.admin, map[string]interface{}{"startTime": "20:00", "endTime": "18:00"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "endTime", body.Field)

	w = s.do(http.MethodGet, "/api/v1/halls/available?slot_id=1", client, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "date", body.Field)
}

func TestRouter_Availability(t *testing.T) {
	s := newTestServer(t)
	_, client := s.newClient("client@example.com")
	hallID := s.create("/api/v1/halls", s.admin, map[string]interface{}{"title": "A", "address": "B", "price": 1})
	noon := s.create("/api/v1/timeslots", s.admin, map[string]interface{}{"startTime": "12:00", "endTime": "14:00"})
	s.create("/api/v1/timeslots", s.admin, map[string]interface{}{"startTime": "14:00", "endTime": "16:00"})
	date := time.Now().UTC().AddDate(0, 0, 10).Format(domain.DateFormat)

	s.create("/api/v1/reservations", client, map[string]interface{}{"hallId": hallID, "date": date, "timeSlotId": noon})

	w := s.do(http.MethodGet, fmt.Sprintf("/api/v1/timeslots/available?date=%s&hall_id=%d", date, hallID), client, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var free []struct {
		StartTime string `json:"startTime"`
	}
	decode(t, w, &free)
	require.Len(t, free, 1)
	assert.Equal(t, "14:00", free[0].StartTime)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}
