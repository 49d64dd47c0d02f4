package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
	reservationRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/reservation"
	timeslotRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/timeslot"
	userRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/user"
	"github.com/suldsma/PROGIII-API/internal/integrations/notifier"
	"github.com/suldsma/PROGIII-API/internal/service/access"
	"github.com/suldsma/PROGIII-API/internal/service/reservations/models"
)

// UseCase use case для создания бронирования
type UseCase struct {
	hallRepo        HallRepository
	slotRepo        TimeSlotRepository
	serviceRepo     ServiceRepository
	userRepo        UserRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	timeProvider    TimeProvider
	location        *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hallRepo HallRepository,
	slotRepo TimeSlotRepository,
	serviceRepo ServiceRepository,
	userRepo UserRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		hallRepo:        hallRepo,
		slotRepo:        slotRepo,
		serviceRepo:     serviceRepo,
		userRepo:        userRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		location:        time.UTC,
		logger:          logger,
	}
}

// WithLocation задает часовой пояс, в котором определяются "сегодня" и начало слота.
// Должен совпадать с поясом планировщика завершения бронирований.
func (uc *UseCase) WithLocation(location *time.Location) *UseCase {
	if location != nil {
		uc.location = location
	}
	return uc
}

// Execute создает бронирование зала на дату и слот.
// Проверка конфликта и вставка выполняются в одной сериализуемой транзакции;
// частичный уникальный индекс по (hall, date, slot) для PENDING страхует от гонки.
func (uc *UseCase) Execute(ctx context.Context, principal domain.Principal, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("CreateReservation: user=%d role=%s hall=%d date=%s slot=%d services=%v",
		principal.UserID, principal.Role, req.HallID, req.Date.Format(domain.DateFormat), req.TimeSlotID, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем клиента бронирования
	clientID, err := uc.resolveClient(principal, req.ClientID)
	if err != nil {
		uc.logger.Warn("CreateReservation: client resolution failed for user=%d: %v", principal.UserID, err)
		return nil, err
	}

	// 3. Дата не может быть в прошлом
	now := uc.timeProvider.Now().In(uc.location)
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateReservation: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	var result *domain.Reservation

	// 4. Проверки и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Зал (FOR SHARE: параллельная деактивация ждет коммита)
		hall, err := uc.hallRepo.GetByID(txCtx, req.HallID)
		if err != nil {
			if errors.Is(err, hallRepo.ErrHallNotFound) {
				return ErrHallNotFound
			}
			uc.logger.Error("CreateReservation: failed to get hall id=%d: %v", req.HallID, err)
			return fmt.Errorf("%w: failed to get hall: %w", ErrInternal, err)
		}
		if !hall.Active {
			uc.logger.Warn("CreateReservation: hall id=%d is inactive", req.HallID)
			return ErrHallNotFound
		}

		// 4.2. Слот
		slot, err := uc.slotRepo.GetByID(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, timeslotRepo.ErrTimeSlotNotFound) {
				return ErrTimeSlotNotFound
			}
			uc.logger.Error("CreateReservation: failed to get time slot id=%d: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to get time slot: %w", ErrInternal, err)
		}
		if !slot.Active {
			uc.logger.Warn("CreateReservation: time slot id=%d is inactive", req.TimeSlotID)
			return ErrTimeSlotNotFound
		}

		// 4.3. Сегодняшний слот еще не должен начаться
		if isSameDay(req.Date, now) && hasStarted(slot.StartTime, now) {
			uc.logger.Warn("CreateReservation: time slot id=%d (%s) has already started", slot.ID, slot.StartTime)
			return ErrTooLateToBook
		}

		// 4.4. Дополнительные услуги
		if err := uc.checkServices(txCtx, req.ServiceIDs); err != nil {
			return err
		}

		// 4.5. Владелец бронирования: активный клиент (FOR SHARE против параллельной деактивации)
		if err := uc.checkClient(txCtx, clientID); err != nil {
			return err
		}

		// 4.6. Конфликт
		taken, err := uc.reservationRepo.ExistsActive(txCtx, req.HallID, req.Date, req.TimeSlotID)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to check conflict: %v", err)
			return fmt.Errorf("%w: failed to check conflict: %w", ErrInternal, err)
		}
		if taken {
			return ErrSlotNotAvailable
		}

		// 4.7. Создаем бронирование; время копируется из слота
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			ClientID:   clientID,
			HallID:     req.HallID,
			TimeSlotID: req.TimeSlotID,
			Date:       req.Date,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			ServiceIDs: req.ServiceIDs,
			Status:     domain.StatusPending,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateReservation: hall=%d date=%s slot=%d is already reserved",
				req.HallID, req.Date.Format(domain.DateFormat), req.TimeSlotID)
			uc.metrics.IncReservationEvent(domain.EventReservationConflict)
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)
	uc.notifier.Notify(ctx, notifier.NewEvent(domain.EventReservationCreated, result, now))

	return models.FromDomainReservation(result), nil
}

// resolveClient определяет владельца бронирования
func (uc *UseCase) resolveClient(principal domain.Principal, requested *int64) (int64, error) {
	if principal.IsClient() {
		if requested != nil && *requested != principal.UserID {
			return 0, ErrForbidden
		}
		return principal.UserID, nil
	}

	if err := access.Authorize(principal, access.ReservationCreate, nil); err != nil {
		return 0, ErrForbidden
	}
	if requested == nil {
		return 0, domain.NewFieldError(ErrInvalidInput, "clientId", "is required")
	}
	return *requested, nil
}

// checkServices проверяет, что все услуги существуют и активны
func (uc *UseCase) checkServices(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	services, err := uc.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get services %v: %v", ids, err)
		return fmt.Errorf("%w: failed to get services: %w", ErrInternal, err)
	}

	found := make(map[int64]bool, len(services))
	for _, s := range services {
		found[s.ID] = s.Active
	}
	for _, id := range ids {
		if !found[id] {
			uc.logger.Warn("CreateReservation: service id=%d not found or inactive", id)
			return ErrServiceNotFound
		}
	}
	return nil
}

// checkClient проверяет, что бронирование оформляется на активного клиента
func (uc *UseCase) checkClient(ctx context.Context, clientID int64) error {
	user, err := uc.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: client id=%d not found", clientID)
			return ErrClientNotFound
		}
		uc.logger.Error("CreateReservation: failed to get client id=%d: %v", clientID, err)
		return fmt.Errorf("%w: failed to get client: %w", ErrInternal, err)
	}
	if !user.Active || user.Role != domain.RoleClient {
		uc.logger.Warn("CreateReservation: user id=%d is not an active client", clientID)
		return ErrClientNotFound
	}
	return nil
}
