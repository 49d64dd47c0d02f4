package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/logger"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) AddReservationEvents(event string, n int64) {
	m.Called(event, n)
}

func TestScheduler_RunCompletePast(t *testing.T) {
	now := time.Date(2025, 12, 20, 3, 0, 0, 0, time.UTC)

	completer := &mockCompleter{}
	completer.On("CompletePast", mock.Anything, now).Return(int64(4), nil).Once()
	metrics := &mockMetrics{}
	metrics.On("AddReservationEvents", domain.EventReservationCompleted, int64(4)).Once()

	s, err := New(completer, metrics, time.Hour, time.UTC, logger.NewWithWriter(io.Discard, "error"))
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	s.runCompletePast(context.Background(), now)

	completer.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestScheduler_RunCompletePast_Error(t *testing.T) {
	completer := &mockCompleter{}
	completer.On("CompletePast", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	metrics := &mockMetrics{}

	s, err := New(completer, metrics, time.Hour, nil, logger.NewWithWriter(io.Discard, "error"))
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	assert.NotPanics(t, func() { s.runCompletePast(context.Background(), time.Now()) })
	metrics.AssertNotCalled(t, "AddReservationEvents", mock.Anything, mock.Anything)
}

func TestScheduler_StartRunsImmediately(t *testing.T) {
	done := make(chan struct{}, 1)
	completer := &mockCompleter{}
	completer.On("CompletePast", mock.Anything, mock.Anything).
		Return(int64(0), nil).
		Run(func(mock.Arguments) {
			select {
			case done <- struct{}{}:
			default:
			}
		})

	s, err := New(completer, &mockMetrics{}, time.Hour, time.UTC, logger.NewWithWriter(io.Discard, "error"))
	require.NoError(t, err)
	s.Start()
	defer func() { _ = s.Shutdown() }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("complete job did not run on start")
	}
}
