package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	reservationRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/reservation"
	"github.com/suldsma/PROGIII-API/internal/integrations/notifier"
	"github.com/suldsma/PROGIII-API/internal/service/access"
	"github.com/suldsma/PROGIII-API/internal/service/reservations/models"
)

// Service чтение, отмена и завершение бронирований
type Service struct {
	repo         ReservationRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	repo ReservationRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		location:     time.UTC,
		logger:       logger,
	}
}

// WithLocation задает часовой пояс, в котором определяется "сегодня" для CompletePast
func (s *Service) WithLocation(location *time.Location) *Service {
	if location != nil {
		s.location = location
	}
	return s
}

// GetByID получает бронирование. Клиент видит только свои бронирования.
func (s *Service) GetByID(ctx context.Context, principal domain.Principal, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, principal.UserID)

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", err)
	}

	if err := access.Authorize(principal, access.ReservationRead, &reservation.ClientID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", principal.UserID, id)
		return nil, ErrForbidden
	}

	return models.FromDomainReservation(reservation), nil
}

// ListMine возвращает бронирования текущего пользователя, новые даты первыми
func (s *Service) ListMine(ctx context.Context, principal domain.Principal) ([]models.ReservationResponse, error) {
	s.logger.Info("ListMine: fetching reservations of user=%d", principal.UserID)

	if err := access.Authorize(principal, access.ReservationListMine, &principal.UserID); err != nil {
		s.logger.Warn("ListMine: access denied for user=%d role=%s", principal.UserID, principal.Role)
		return nil, ErrForbidden
	}

	reservations, err := s.repo.ListByClient(ctx, principal.UserID)
	if err != nil {
		return nil, s.repoError("ListMine", err)
	}
	return models.FromDomainReservations(reservations), nil
}

// ListAll возвращает страницу бронирований по фильтру (ADMIN/EMPLOYEE)
func (s *Service) ListAll(ctx context.Context, principal domain.Principal, req *models.ListAllRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListAll: fetching reservations for user=%d", principal.UserID)

	if err := access.Authorize(principal, access.ReservationListAll, nil); err != nil {
		s.logger.Warn("ListAll: access denied for user=%d role=%s", principal.UserID, principal.Role)
		return nil, ErrForbidden
	}

	filter := domain.ReservationFilter{HallID: req.HallID, ClientID: req.ClientID, Date: req.Date}
	if req.Status != "" {
		status, err := domain.ParseReservationStatus(req.Status)
		if err != nil {
			return nil, domain.NewFieldError(ErrInvalidInput, "status", "must be PENDING, CANCELLED or COMPLETED")
		}
		filter.Status = &status
	}

	page := req.Page.Normalize()
	reservations, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, s.repoError("ListAll", err)
	}

	return &models.ReservationListResponse{
		Items:      models.FromDomainReservations(reservations),
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// Cancel переводит PENDING бронирование в CANCELLED.
// Клиент может отменить только свое бронирование.
func (s *Service) Cancel(ctx context.Context, principal domain.Principal, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, principal.UserID)

	var result *domain.Reservation
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		reservation, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("Cancel", err)
		}

		if err := access.Authorize(principal, access.ReservationCancel, &reservation.ClientID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", principal.UserID, id)
			return ErrForbidden
		}

		if err := terminalError(reservation.Status); err != nil {
			s.logger.Warn("Cancel: reservation id=%d is already %s", id, reservation.Status)
			return err
		}

		if err := s.repo.UpdateStatus(txCtx, id, domain.StatusPending, domain.StatusCancelled); err != nil {
			return s.repoError("Cancel", err)
		}

		result, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("Cancel", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", id)
	s.notifier.Notify(ctx, notifier.NewEvent(domain.EventReservationCancelled, result, s.timeProvider.Now()))

	return models.FromDomainReservation(result), nil
}

// CompletePast переводит PENDING бронирования с датой раньше сегодняшней в COMPLETED.
// "Сегодня" берется в часовом поясе сервиса, а не вызывающего.
// Возвращает количество завершенных бронирований.
func (s *Service) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	local := now.In(s.location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	completed, err := s.repo.CompletePast(ctx, today)
	if err != nil {
		return 0, s.repoError("CompletePast", err)
	}

	if completed > 0 {
		s.logger.Info("CompletePast: completed %d reservations dated before %s", completed, today.Format(domain.DateFormat))
	}
	return completed, nil
}

func terminalError(status domain.ReservationStatus) error {
	switch status {
	case domain.StatusCancelled:
		return ErrAlreadyCancelled
	case domain.StatusCompleted:
		return ErrAlreadyCompleted
	}
	return nil
}

// repoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) repoError(op string, err error) error {
	switch {
	case errors.Is(err, reservationRepo.ErrReservationNotFound):
		return ErrReservationNotFound
	case errors.Is(err, reservationRepo.ErrStatusChanged):
		// статус сменился между чтением и обновлением
		return ErrTerminalState
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
