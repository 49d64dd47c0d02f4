// Package scheduler runs the periodic background jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// ReservationCompleter переводит прошедшие бронирования в COMPLETED
type ReservationCompleter interface {
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// Metrics счетчик событий бронирований
type Metrics interface {
	AddReservationEvents(event string, n int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler фоновые задачи на gocron
type Scheduler struct {
	scheduler gocron.Scheduler
	completer ReservationCompleter
	metrics   Metrics
	location  *time.Location
	timeout   time.Duration
	logger    Logger
}

// New создает планировщик с задачей завершения прошедших бронирований.
// Задача не запускается параллельно сама с собой.
func New(completer ReservationCompleter, metrics Metrics, interval time.Duration, location *time.Location, logger Logger) (*Scheduler, error) {
	if location == nil {
		location = time.UTC
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(location))
	if err != nil {
		return nil, fmt.Errorf("scheduler: create: %w", err)
	}

	sch := &Scheduler{
		scheduler: s,
		completer: completer,
		metrics:   metrics,
		location:  location,
		timeout:   interval,
		logger:    logger,
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(sch.completePast),
		gocron.WithName("complete-past-reservations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("scheduler: register complete job: %w", err)
	}

	return sch, nil
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("Scheduler: started %d job(s)", len(s.scheduler.Jobs()))
}

// Shutdown останавливает планировщик и ждет завершения текущих задач
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

// completePast задача перевода прошедших бронирований в COMPLETED
func (s *Scheduler) completePast() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.runCompletePast(ctx, time.Now().In(s.location))
}

func (s *Scheduler) runCompletePast(ctx context.Context, now time.Time) {
	completed, err := s.completer.CompletePast(ctx, now)
	if err != nil {
		s.logger.Error("CompletePast job: %v", err)
		return
	}
	if completed > 0 {
		s.metrics.AddReservationEvents(domain.EventReservationCompleted, completed)
		s.logger.Info("CompletePast job: %d reservation(s) completed", completed)
	}
}
