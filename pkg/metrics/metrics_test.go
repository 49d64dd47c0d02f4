package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := New("hall-booking")

	m.ObserveHTTP(http.MethodPost, "/api/v1/reservations", http.StatusCreated, 10*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "/api/v1/reservations", http.StatusCreated, 20*time.Millisecond)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/reservations", "201"))
	assert.Equal(t, float64(2), got)
}

func TestMetrics_Handler(t *testing.T) {
	m := New("hall-booking")
	m.IncReservationEvent("created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "reservation_events_total"))
}

func TestMetrics_AddReservationEvents(t *testing.T) {
	m := New("hall-booking")

	m.AddReservationEvents("completed", 3)
	m.AddReservationEvents("completed", 0)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.ReservationEvents.WithLabelValues("completed")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncReservationEvent("created")
		m.AddReservationEvents("completed", 2)
		m.ObserveQuery("select", time.Millisecond)
	})
}
