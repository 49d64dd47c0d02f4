package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/suldsma/PROGIII-API/internal/config"
	extraRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/extra"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
	"github.com/suldsma/PROGIII-API/internal/infra/storage/memory"
	reservationRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/reservation"
	timeslotRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/timeslot"
	userRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/user"
	"github.com/suldsma/PROGIII-API/internal/service/auth"
	"github.com/suldsma/PROGIII-API/internal/service/extras"
	"github.com/suldsma/PROGIII-API/internal/service/halls"
	"github.com/suldsma/PROGIII-API/internal/service/reservations"
	"github.com/suldsma/PROGIII-API/internal/service/schedule"
	"github.com/suldsma/PROGIII-API/internal/service/timeslots"
	"github.com/suldsma/PROGIII-API/internal/service/users"
	createReservation "github.com/suldsma/PROGIII-API/internal/usecase/create_reservation"
	"github.com/suldsma/PROGIII-API/pkg/dbmetrics"
	"github.com/suldsma/PROGIII-API/pkg/logger"
	"github.com/suldsma/PROGIII-API/pkg/metrics"
	"github.com/suldsma/PROGIII-API/pkg/txmanager"
)

// Наборы методов, которые нужны всем потребителям одного репозитория.
// Им удовлетворяют и репозитории Postgres, и in-memory хранилище.
type (
	hallStore interface {
		halls.HallRepository
	}

	slotStore interface {
		timeslots.TimeSlotRepository
	}

	extraStore interface {
		extras.ServiceRepository
		createReservation.ServiceRepository
	}

	userStore interface {
		users.UserRepository
		auth.UserRepository
	}

	reservationStore interface {
		reservations.ReservationRepository
		createReservation.ReservationRepository
		schedule.ReservationRepository
		halls.ReservationCounter
		timeslots.ReservationCounter
		extras.ReservationCounter
		users.ReservationCounter
	}

	txManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
)

// storage репозитории выбранного драйвера
type storage struct {
	halls        hallStore
	slots        slotStore
	extras       extraStore
	users        userStore
	reservations reservationStore
	tx           txManager

	ping  func(ctx context.Context) error
	close func() error
}

func openStorage(cfg config.DatabaseConfig, m *metrics.Metrics, serviceName string, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		store := memory.New()
		return &storage{
			halls:        store.Halls(),
			slots:        store.TimeSlots(),
			extras:       store.Services(),
			users:        store.Users(),
			reservations: store.Reservations(),
			tx:           store,
			ping:         func(context.Context) error { return nil },
			close:        func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	// При выключенных метриках обёртка только проксирует вызовы
	wrapped := dbmetrics.WrapWithDefault(db, m, serviceName, stopCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	return &storage{
		halls:        hallRepo.NewRepository(wrapped),
		slots:        timeslotRepo.NewRepository(wrapped),
		extras:       extraRepo.NewRepository(wrapped),
		users:        userRepo.NewRepository(wrapped),
		reservations: reservationRepo.NewRepository(wrapped),
		tx:           txmanager.NewTransactionManager(wrapped),
		ping:         wrapped.PingContext,
		close:        db.Close,
	}, nil
}
