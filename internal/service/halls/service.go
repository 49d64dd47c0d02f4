package halls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
	timeslotRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/timeslot"
	"github.com/suldsma/PROGIII-API/internal/service/halls/models"
)

// Service сервис для работы с залами
type Service struct {
	repo         HallRepository
	slots        TimeSlotRepository
	reservations ReservationCounter
	schedule     Schedule
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса залов
func NewService(
	repo HallRepository,
	slots TimeSlotRepository,
	reservations ReservationCounter,
	schedule Schedule,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		slots:        slots,
		reservations: reservations,
		schedule:     schedule,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает зал. Пара (название, адрес) уникальна среди активных залов.
func (s *Service) Create(ctx context.Context, req *models.HallRequest) (*models.HallResponse, error) {
	s.logger.Info("Create: creating hall title=%q", req.Title)

	if err := validateHall(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	exists, err := s.repo.ExistsActiveDuplicate(ctx, req.Title, req.Address, 0)
	if err != nil {
		s.logger.Error("Create: duplicate check failed: %v", err)
		return nil, fmt.Errorf("%w: Create - duplicate check: %w", ErrInternal, err)
	}
	if exists {
		s.logger.Warn("Create: duplicate hall title=%q address=%q", req.Title, req.Address)
		return nil, ErrDuplicateHall
	}

	hall, err := s.repo.Create(ctx, &domain.Hall{
		Title:     req.Title,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Capacity:  req.Capacity,
		Price:     req.Price,
		Active:    true,
	})
	if err != nil {
		return nil, s.repoError("Create", err)
	}

	s.logger.Info("Create: successfully created hall id=%d", hall.ID)
	return models.FromDomainHall(hall), nil
}

// GetByID получает зал по ID. Неактивный зал виден только при includeInactive.
func (s *Service) GetByID(ctx context.Context, id int64, includeInactive bool) (*models.HallResponse, error) {
	hall, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", err)
	}
	if !hall.Active && !includeInactive {
		return nil, ErrHallNotFound
	}
	return models.FromDomainHall(hall), nil
}

// List возвращает страницу залов
func (s *Service) List(ctx context.Context, req *models.ListHallsRequest) (*models.HallListResponse, error) {
	page := req.Page.Normalize()
	filter := domain.HallFilter{Search: req.Search, IncludeInactive: req.IncludeInactive}

	halls, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, s.repoError("List", err)
	}

	return &models.HallListResponse{
		Items:      models.FromDomainHalls(halls),
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// Update полностью заменяет данные зала
func (s *Service) Update(ctx context.Context, id int64, req *models.HallRequest) (*models.HallResponse, error) {
	s.logger.Info("Update: updating hall id=%d", id)
	return s.update(ctx, "Update", id, func(*domain.Hall) models.HallRequest { return *req })
}

// Patch обновляет только переданные поля
func (s *Service) Patch(ctx context.Context, id int64, req *models.PatchHallRequest) (*models.HallResponse, error) {
	s.logger.Info("Patch: patching hall id=%d", id)
	return s.update(ctx, "Patch", id, req.Apply)
}

func (s *Service) update(ctx context.Context, op string, id int64, merge func(*domain.Hall) models.HallRequest) (*models.HallResponse, error) {
	var result *domain.Hall

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError(op, err)
		}

		req := merge(current)
		if err := validateHall(&req); err != nil {
			s.logger.Warn("%s: validation failed for hall id=%d: %v", op, id, err)
			return err
		}

		if current.Active {
			exists, err := s.repo.ExistsActiveDuplicate(txCtx, req.Title, req.Address, id)
			if err != nil {
				return fmt.Errorf("%w: %s - duplicate check: %w", ErrInternal, op, err)
			}
			if exists {
				s.logger.Warn("%s: duplicate hall title=%q address=%q", op, req.Title, req.Address)
				return ErrDuplicateHall
			}
		}

		current.Title = req.Title
		current.Address = req.Address
		current.Latitude = req.Latitude
		current.Longitude = req.Longitude
		current.Capacity = req.Capacity
		current.Price = req.Price

		result, err = s.repo.Update(txCtx, current)
		if err != nil {
			return s.repoError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: successfully updated hall id=%d", op, id)
	return models.FromDomainHall(result), nil
}

// Delete деактивирует зал. Отказ, пока на зал есть активные бронирования.
// Проверка и деактивация выполняются в одной транзакции под FOR UPDATE.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deactivating hall id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		hall, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Delete", err)
		}
		if !hall.Active {
			return nil
		}

		count, err := s.reservations.CountActiveByHall(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count reservations: %w", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("Delete: hall id=%d has %d active reservations", id, count)
			return ErrHallInUse
		}

		if err := s.repo.SetActive(txCtx, id, false); err != nil {
			return s.repoError("Delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deactivated hall id=%d", id)
	return nil
}

// Restore реактивирует зал, если это не создаст дубликат (название, адрес)
func (s *Service) Restore(ctx context.Context, id int64) (*models.HallResponse, error) {
	s.logger.Info("Restore: restoring hall id=%d", id)

	var result *domain.Hall
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		hall, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Restore", err)
		}
		if !hall.Active {
			exists, err := s.repo.ExistsActiveDuplicate(txCtx, hall.Title, hall.Address, id)
			if err != nil {
				return fmt.Errorf("%w: Restore - duplicate check: %w", ErrInternal, err)
			}
			if exists {
				s.logger.Warn("Restore: hall id=%d duplicates an active hall", id)
				return ErrDuplicateHall
			}
			if err := s.repo.SetActive(txCtx, id, true); err != nil {
				return s.repoError("Restore", err)
			}
		}

		result, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("Restore", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Restore: successfully restored hall id=%d", id)
	return models.FromDomainHall(result), nil
}

// GetAvailable возвращает активные залы, свободные в слот на дату, по названию
func (s *Service) GetAvailable(ctx context.Context, date time.Time, slotID int64) ([]models.HallResponse, error) {
	s.logger.Info("GetAvailable: date=%s slot=%d", date.Format(domain.DateFormat), slotID)

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, timeslotRepo.ErrTimeSlotNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("GetAvailable: failed to get slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: GetAvailable - get slot: %w", ErrInternal, err)
	}
	if !slot.Active {
		return nil, ErrTimeSlotNotFound
	}

	halls, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, s.repoError("GetAvailable", err)
	}

	occupied, err := s.schedule.OccupiedHallIDs(ctx, slotID, date)
	if err != nil {
		s.logger.Error("GetAvailable: failed to get occupied halls: %v", err)
		return nil, fmt.Errorf("%w: GetAvailable - occupied halls: %w", ErrInternal, err)
	}

	free := make([]*domain.Hall, 0, len(halls))
	for _, hall := range halls {
		if _, busy := occupied[hall.ID]; !busy {
			free = append(free, hall)
		}
	}
	return models.FromDomainHalls(free), nil
}

// repoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) repoError(op string, err error) error {
	switch {
	case errors.Is(err, hallRepo.ErrHallNotFound):
		return ErrHallNotFound
	case errors.Is(err, hallRepo.ErrDuplicate):
		return ErrDuplicateHall
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
