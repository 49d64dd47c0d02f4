package notifier

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	ctxErr error
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.ctxErr = ctx.Err()
	return p.err
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) IncReservationEvent(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[event]++
}

func reservation() *domain.Reservation {
	return &domain.Reservation{
		ID: 7, ClientID: 3, HallID: 1, TimeSlotID: 2,
		Date:   time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
		Status: domain.StatusPending,
	}
}

func TestNotifier_PublishesDetachedFromRequest(t *testing.T) {
	pub := &recordingPublisher{}
	metrics := &countingMetrics{}
	n := New(pub, metrics, time.Second, logger.NewWithWriter(io.Discard, "error"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.Notify(ctx, NewEvent(domain.EventReservationCreated, reservation(), time.Now()))
	n.Wait()

	assert.Len(t, pub.events, 1)
	assert.NoError(t, pub.ctxErr)
	assert.Equal(t, "2025-12-24", pub.events[0].Date)
	assert.Equal(t, "PENDING", pub.events[0].Status)
	assert.Equal(t, 1, metrics.counts[domain.EventReservationCreated])
}

func TestNotifier_PublishErrorIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	n := New(pub, nil, time.Second, logger.NewWithWriter(io.Discard, "error"))

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), NewEvent(domain.EventReservationCancelled, reservation(), time.Now()))
		n.Wait()
	})
	assert.Len(t, pub.events, 1)
}

func TestNotifier_NilPublisher(t *testing.T) {
	metrics := &countingMetrics{}
	n := New(nil, metrics, 0, logger.NewWithWriter(io.Discard, "error"))

	n.Notify(context.Background(), NewEvent(domain.EventReservationCompleted, reservation(), time.Now()))
	n.Wait()

	assert.Equal(t, 1, metrics.counts[domain.EventReservationCompleted])
}
