// Package notifier delivers reservation lifecycle events to the notification
// channel. Delivery is best-effort and never affects the caller's result.
package notifier

import (
	"context"
	"sync"
	"time"
)

// Publisher доставляет событие во внешний канал
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Metrics счетчик событий бронирований
type Metrics interface {
	IncReservationEvent(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Notifier асинхронно публикует события и считает их в метриках
type Notifier struct {
	publisher Publisher
	metrics   Metrics
	timeout   time.Duration
	logger    Logger
	wg        sync.WaitGroup
}

// New создает нотификатор. publisher может быть nil, тогда события только считаются.
func New(publisher Publisher, metrics Metrics, timeout time.Duration, logger Logger) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		publisher: publisher,
		metrics:   metrics,
		timeout:   timeout,
		logger:    logger,
	}
}

// Notify публикует событие в фоне. Отмена ctx запроса не прерывает публикацию.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	if n.metrics != nil {
		n.metrics.IncReservationEvent(event.Type)
	}
	if n.publisher == nil {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		if err := n.publisher.Publish(pubCtx, event); err != nil {
			n.logger.Error("Notify: failed to publish %s event for reservation id=%d: %v",
				event.Type, event.ReservationID, err)
			return
		}
		n.logger.Info("Notify: published %s event for reservation id=%d", event.Type, event.ReservationID)
	}()
}

// Wait ждет завершения публикаций, начатых до вызова
func (n *Notifier) Wait() {
	n.wg.Wait()
}
