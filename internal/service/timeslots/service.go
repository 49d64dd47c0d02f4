package timeslots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	hallRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/hall"
	timeslotRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/timeslot"
	"github.com/suldsma/PROGIII-API/internal/service/timeslots/models"
)

// Service реестр временных слотов.
// Активные слоты не пересекаются: [a,b) и [c,d) конфликтуют при a < d && c < b.
type Service struct {
	repo         TimeSlotRepository
	halls        HallRepository
	reservations ReservationCounter
	schedule     Schedule
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	repo TimeSlotRepository,
	halls HallRepository,
	reservations ReservationCounter,
	schedule Schedule,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		halls:        halls,
		reservations: reservations,
		schedule:     schedule,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает слот. Без ordinal назначается MAX(ordinal)+1.
func (s *Service) Create(ctx context.Context, req *models.TimeSlotRequest) (*models.TimeSlotResponse, error) {
	s.logger.Info("Create: creating time slot %s-%s", req.StartTime, req.EndTime)

	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	if err := validateOrdinal(req.Ordinal); err != nil {
		return nil, err
	}

	var result *domain.TimeSlot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot := &domain.TimeSlot{StartTime: req.StartTime, EndTime: req.EndTime, Active: true}

		if err := s.checkOverlap(txCtx, "Create", slot.Range(), 0); err != nil {
			return err
		}

		if req.Ordinal != nil {
			slot.Ordinal = *req.Ordinal
		} else {
			next, err := s.repo.NextOrdinal(txCtx)
			if err != nil {
				return s.repoError("Create", err)
			}
			slot.Ordinal = next
		}

		created, err := s.repo.Create(txCtx, slot)
		if err != nil {
			return s.repoError("Create", err)
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: successfully created time slot id=%d ordinal=%d", result.ID, result.Ordinal)
	return models.FromDomainTimeSlot(result), nil
}

// GetByID получает слот. Неактивный слот виден только при includeInactive.
func (s *Service) GetByID(ctx context.Context, id int64, includeInactive bool) (*models.TimeSlotResponse, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", err)
	}
	if !slot.Active && !includeInactive {
		return nil, ErrTimeSlotNotFound
	}
	return models.FromDomainTimeSlot(slot), nil
}

// List возвращает страницу слотов по порядковому номеру
func (s *Service) List(ctx context.Context, req *models.ListTimeSlotsRequest) (*models.TimeSlotListResponse, error) {
	page := req.Page.Normalize()

	slots, total, err := s.repo.List(ctx, domain.TimeSlotFilter{IncludeInactive: req.IncludeInactive}, page)
	if err != nil {
		return nil, s.repoError("List", err)
	}

	return &models.TimeSlotListResponse{
		Items:      models.FromDomainTimeSlots(slots),
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// Update полностью заменяет время слота; ordinal меняется, только если передан
func (s *Service) Update(ctx context.Context, id int64, req *models.TimeSlotRequest) (*models.TimeSlotResponse, error) {
	s.logger.Info("Update: updating time slot id=%d", id)
	return s.update(ctx, "Update", id, &models.PatchTimeSlotRequest{
		Ordinal:   req.Ordinal,
		StartTime: &req.StartTime,
		EndTime:   &req.EndTime,
	})
}

// Patch обновляет только переданные поля
func (s *Service) Patch(ctx context.Context, id int64, req *models.PatchTimeSlotRequest) (*models.TimeSlotResponse, error) {
	s.logger.Info("Patch: patching time slot id=%d", id)
	return s.update(ctx, "Patch", id, req)
}

func (s *Service) update(ctx context.Context, op string, id int64, req *models.PatchTimeSlotRequest) (*models.TimeSlotResponse, error) {
	if err := validateOrdinal(req.Ordinal); err != nil {
		return nil, err
	}

	var result *domain.TimeSlot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError(op, err)
		}

		timeChanged := false
		if req.StartTime != nil && *req.StartTime != slot.StartTime {
			slot.StartTime = *req.StartTime
			timeChanged = true
		}
		if req.EndTime != nil && *req.EndTime != slot.EndTime {
			slot.EndTime = *req.EndTime
			timeChanged = true
		}
		if req.Ordinal != nil {
			slot.Ordinal = *req.Ordinal
		}

		if timeChanged {
			if err := validateRange(slot.StartTime, slot.EndTime); err != nil {
				s.logger.Warn("%s: validation failed for time slot id=%d: %v", op, id, err)
				return err
			}
			if slot.Active {
				if err := s.checkOverlap(txCtx, op, slot.Range(), id); err != nil {
					return err
				}
			}
		}

		result, err = s.repo.Update(txCtx, slot)
		if err != nil {
			return s.repoError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: successfully updated time slot id=%d", op, id)
	return models.FromDomainTimeSlot(result), nil
}

// Delete деактивирует слот, если на него нет активных бронирований
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deactivating time slot id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Delete", err)
		}
		if !slot.Active {
			return nil
		}

		count, err := s.reservations.CountActiveBySlot(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count reservations: %w", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("Delete: time slot id=%d has %d active reservations", id, count)
			return ErrTimeSlotInUse
		}

		if err := s.repo.SetActive(txCtx, id, false); err != nil {
			return s.repoError("Delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deactivated time slot id=%d", id)
	return nil
}

// Restore реактивирует слот, если он не пересечется с активными слотами
func (s *Service) Restore(ctx context.Context, id int64) (*models.TimeSlotResponse, error) {
	s.logger.Info("Restore: restoring time slot id=%d", id)

	var result *domain.TimeSlot
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Restore", err)
		}
		if !slot.Active {
			if err := s.checkOverlap(txCtx, "Restore", slot.Range(), id); err != nil {
				return err
			}
			if err := s.repo.SetActive(txCtx, id, true); err != nil {
				return s.repoError("Restore", err)
			}
			slot.Active = true
		}
		result = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Restore: successfully restored time slot id=%d", id)
	return models.FromDomainTimeSlot(result), nil
}

// GetAvailable возвращает активные слоты, свободные в зале на дату, по ordinal
func (s *Service) GetAvailable(ctx context.Context, date time.Time, hallID int64) ([]models.TimeSlotResponse, error) {
	s.logger.Info("GetAvailable: date=%s hall=%d", date.Format(domain.DateFormat), hallID)

	hall, err := s.halls.GetByID(ctx, hallID)
	if err != nil {
		if errors.Is(err, hallRepo.ErrHallNotFound) {
			return nil, ErrHallNotFound
		}
		s.logger.Error("GetAvailable: failed to get hall id=%d: %v", hallID, err)
		return nil, fmt.Errorf("%w: GetAvailable - get hall: %w", ErrInternal, err)
	}
	if !hall.Active {
		return nil, ErrHallNotFound
	}

	slots, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, s.repoError("GetAvailable", err)
	}

	occupied, err := s.schedule.OccupiedSlotIDs(ctx, hallID, date)
	if err != nil {
		s.logger.Error("GetAvailable: failed to get occupied slots: %v", err)
		return nil, fmt.Errorf("%w: GetAvailable - occupied slots: %w", ErrInternal, err)
	}

	free := make([]*domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if _, busy := occupied[slot.ID]; !busy {
			free = append(free, slot)
		}
	}
	return models.FromDomainTimeSlots(free), nil
}

// checkOverlap сравнивает диапазон со всеми активными слотами, кроме excludeID
func (s *Service) checkOverlap(ctx context.Context, op string, rng domain.TimeRange, excludeID int64) error {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return s.repoError(op, err)
	}
	for _, other := range active {
		if other.ID == excludeID {
			continue
		}
		if other.Range().Overlaps(rng) {
			s.logger.Warn("%s: %s-%s overlaps time slot id=%d (%s-%s)",
				op, rng.Start, rng.End, other.ID, other.StartTime, other.EndTime)
			return ErrOverlap
		}
	}
	return nil
}

// repoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) repoError(op string, err error) error {
	switch {
	case errors.Is(err, timeslotRepo.ErrTimeSlotNotFound):
		return ErrTimeSlotNotFound
	case errors.Is(err, timeslotRepo.ErrOverlap):
		return ErrOverlap
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
