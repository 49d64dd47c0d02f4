package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

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

	"github.com/suldsma/PROGIII-API/internal/api"
	"github.com/suldsma/PROGIII-API/internal/api/middleware"
	"github.com/suldsma/PROGIII-API/internal/config"
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/integrations/notifier"
	"github.com/suldsma/PROGIII-API/internal/scheduler"
	authService "github.com/suldsma/PROGIII-API/internal/service/auth"
	extrasService "github.com/suldsma/PROGIII-API/internal/service/extras"
	hallsService "github.com/suldsma/PROGIII-API/internal/service/halls"
	reservationsService "github.com/suldsma/PROGIII-API/internal/service/reservations"
	scheduleService "github.com/suldsma/PROGIII-API/internal/service/schedule"
	slotsService "github.com/suldsma/PROGIII-API/internal/service/timeslots"
	usersService "github.com/suldsma/PROGIII-API/internal/service/users"
	usersModels "github.com/suldsma/PROGIII-API/internal/service/users/models"
	createReservationUC "github.com/suldsma/PROGIII-API/internal/usecase/create_reservation"
	"github.com/suldsma/PROGIII-API/pkg/jwtauth"
	"github.com/suldsma/PROGIII-API/pkg/logger"
	"github.com/suldsma/PROGIII-API/pkg/metrics"
	"github.com/suldsma/PROGIII-API/pkg/password"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting salones API...")
	log.Info("Configuration loaded from config.toml (driver=%s)", cfg.Database.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg.Database, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Уведомления о бронированиях
	var publisher *notifier.RabbitPublisher
	var events *notifier.Notifier
	notifyTimeout := time.Duration(cfg.RabbitMQ.Timeout) * time.Second
	if cfg.RabbitMQ.Enabled {
		publisher = notifier.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		events = notifier.New(publisher, metricsCollector, notifyTimeout, log)
		log.Info("Reservation events are published to RabbitMQ queue %q", cfg.RabbitMQ.Queue)
	} else {
		events = notifier.New(nil, metricsCollector, notifyTimeout, log)
		log.Info("RabbitMQ disabled, reservation events are only logged")
	}

	// Часовой пояс бизнеса: "сегодня" для создания и завершения бронирований
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Безопасность
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := jwtauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.AccessTokenTTL)*time.Minute)

	// Инициализируем сервисы
	sched := scheduleService.NewService(store.halls, store.reservations)
	authSvc := authService.NewService(store.users, hasher, tokens, log)
	userSvc := usersService.NewService(store.users, store.reservations, hasher, store.tx, log)
	hallSvc := hallsService.NewService(store.halls, store.slots, store.reservations, sched, store.tx, log)
	slotSvc := slotsService.NewService(store.slots, store.halls, store.reservations, sched, store.tx, log)
	extraSvc := extrasService.NewService(store.extras, store.reservations, store.tx, log)
	reservationSvc := reservationsService.NewService(store.reservations, events, store.tx, log).WithLocation(location)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		store.halls,
		store.slots,
		store.extras,
		store.users,
		store.reservations,
		store.tx,
		events,
		metricsCollector,
		log,
	).WithLocation(location)

	ensureAdmin(userSvc, cfg.Auth, log)

	// Лимитер попыток входа
	var redisClient *redis.Client
	var loginLimiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		if !cfg.Redis.Enabled {
			log.Warn("Rate limit is enabled but Redis is disabled, login attempts are not limited")
		} else {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				// лимитер пропускает запросы, пока Redis недоступен
				log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
			}
			cancel()
			loginLimiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit.Prefix, cfg.RateLimit.Requests,
				time.Duration(cfg.RateLimit.Window)*time.Second)
			log.Info("Login rate limit: %d requests per %ds", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
	}

	// Фоновое завершение прошедших бронирований
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(reservationSvc, metricsCollector,
			time.Duration(cfg.Scheduler.CompleteInterval)*time.Minute, location, log)
		if err != nil {
			log.Fatal("Failed to create scheduler: %v", err)
		}
		jobs.Start()
		log.Info("Scheduler started (complete_interval=%dm, timezone=%s)", cfg.Scheduler.CompleteInterval, cfg.Scheduler.Timezone)
	}

	// Инициализируем handlers
	h := api.Handlers{
		Auth:               authHandler.NewHandler(authSvc, log),
		CreateReservation:  createReservationHandler.NewHandler(createReservationUseCase, log),
		GetReservation:     getReservationHandler.NewHandler(reservationSvc, log),
		ListMyReservations: listMyReservationsHandler.NewHandler(reservationSvc, log),
		ListReservations:   listReservationsHandler.NewHandler(reservationSvc, log),
		CancelReservation:  cancelReservationHandler.NewHandler(reservationSvc, log),
		Halls:              hallsHandler.NewHandler(hallSvc, log),
		TimeSlots:          timeslotsHandler.NewHandler(slotSvc, log),
		Extras:             extrasHandler.NewHandler(extraSvc, log),
		Users:              usersHandler.NewHandler(userSvc, log),
	}

	opts := api.Options{
		Tokens:      tokens,
		Logger:      log,
		HealthCheck: store.ping,
	}
	if loginLimiter != nil {
		opts.LoginLimiter = loginLimiter
	}
	if cfg.Metrics.Enabled {
		opts.HTTPMetrics = metricsCollector
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = metricsCollector.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(h, opts),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if jobs != nil {
		if err := jobs.Shutdown(); err != nil {
			log.Error("Scheduler shutdown failed: %v", err)
		}
	}

	// Дожидаемся отправки уже поставленных событий
	events.Wait()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close RabbitMQ connection: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// ensureAdmin создает первого администратора, если он задан в конфигурации
func ensureAdmin(users *usersService.Service, cfg config.AuthConfig, log *logger.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Info("Admin bootstrap skipped: auth.admin_email or ADMIN_PASSWORD is not set")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := users.Create(ctx, &usersModels.UserRequest{
		FirstName: "Admin",
		LastName:  "Admin",
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		Role:      domain.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info("Admin account %s created", cfg.AdminEmail)
	case errors.Is(err, usersService.ErrDuplicateEmail):
		log.Info("Admin account %s already exists", cfg.AdminEmail)
	default:
		log.Fatal("Failed to create admin account: %v", err)
	}
}
