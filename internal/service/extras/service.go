package extras

import (
	"context"
	"errors"
	"fmt"

	"github.com/suldsma/PROGIII-API/internal/domain"
	extraRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/extra"
	"github.com/suldsma/PROGIII-API/internal/service/extras/models"
)

// Service реестр дополнительных услуг
type Service struct {
	repo         ServiceRepository
	reservations ReservationCounter
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса услуг
func NewService(repo ServiceRepository, reservations ReservationCounter, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает услугу. Описание уникально среди активных услуг.
func (s *Service) Create(ctx context.Context, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q", req.Description)

	if err := validateService(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	exists, err := s.repo.ExistsActiveByDescription(ctx, req.Description, 0)
	if err != nil {
		return nil, s.repoError("Create", err)
	}
	if exists {
		s.logger.Warn("Create: duplicate service %q", req.Description)
		return nil, ErrDuplicateService
	}

	service, err := s.repo.Create(ctx, &domain.Service{Description: req.Description, Price: req.Price, Active: true})
	if err != nil {
		return nil, s.repoError("Create", err)
	}

	s.logger.Info("Create: successfully created service id=%d", service.ID)
	return models.FromDomainService(service), nil
}

// GetByID получает услугу. Неактивная услуга видна только при includeInactive.
func (s *Service) GetByID(ctx context.Context, id int64, includeInactive bool) (*models.ServiceResponse, error) {
	service, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", err)
	}
	if !service.Active && !includeInactive {
		return nil, ErrServiceNotFound
	}
	return models.FromDomainService(service), nil
}

// List возвращает страницу услуг
func (s *Service) List(ctx context.Context, req *models.ListServicesRequest) (*models.ServiceListResponse, error) {
	page := req.Page.Normalize()
	filter := domain.ServiceFilter{Search: req.Search, IncludeInactive: req.IncludeInactive}

	services, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, s.repoError("List", err)
	}

	return &models.ServiceListResponse{
		Items:      models.FromDomainServices(services),
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// MostUsed возвращает активные услуги по числу неотмененных бронирований
func (s *Service) MostUsed(ctx context.Context, limit int) ([]models.ServiceUsageResponse, error) {
	limit = normalizeLimit(limit)

	usage, err := s.repo.MostUsed(ctx, limit)
	if err != nil {
		return nil, s.repoError("MostUsed", err)
	}
	return models.FromDomainUsage(usage), nil
}

// Update полностью заменяет данные услуги
func (s *Service) Update(ctx context.Context, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d", id)
	return s.update(ctx, "Update", id, func(*domain.Service) models.ServiceRequest { return *req })
}

// Patch обновляет только переданные поля
func (s *Service) Patch(ctx context.Context, id int64, req *models.PatchServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Patch: patching service id=%d", id)
	return s.update(ctx, "Patch", id, req.Apply)
}

func (s *Service) update(ctx context.Context, op string, id int64, merge func(*domain.Service) models.ServiceRequest) (*models.ServiceResponse, error) {
	var result *domain.Service

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError(op, err)
		}

		req := merge(current)
		if err := validateService(&req); err != nil {
			s.logger.Warn("%s: validation failed for service id=%d: %v", op, id, err)
			return err
		}

		if current.Active {
			exists, err := s.repo.ExistsActiveByDescription(txCtx, req.Description, id)
			if err != nil {
				return s.repoError(op, err)
			}
			if exists {
				s.logger.Warn("%s: duplicate service %q", op, req.Description)
				return ErrDuplicateService
			}
		}

		current.Description = req.Description
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

	s.logger.Info("%s: successfully updated service id=%d", op, id)
	return models.FromDomainService(result), nil
}

// Delete деактивирует услугу, если она не привязана к активным бронированиям
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deactivating service id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		service, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Delete", err)
		}
		if !service.Active {
			return nil
		}

		count, err := s.reservations.CountActiveByService(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count reservations: %w", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("Delete: service id=%d is linked to %d active reservations", id, count)
			return ErrServiceInUse
		}

		if err := s.repo.SetActive(txCtx, id, false); err != nil {
			return s.repoError("Delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deactivated service id=%d", id)
	return nil
}

// Restore реактивирует услугу, если описание не занято
func (s *Service) Restore(ctx context.Context, id int64) (*models.ServiceResponse, error) {
	s.logger.Info("Restore: restoring service id=%d", id)

	var result *domain.Service
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		service, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Restore", err)
		}
		if !service.Active {
			exists, err := s.repo.ExistsActiveByDescription(txCtx, service.Description, id)
			if err != nil {
				return s.repoError("Restore", err)
			}
			if exists {
				s.logger.Warn("Restore: service id=%d duplicates an active service", id)
				return ErrDuplicateService
			}
			if err := s.repo.SetActive(txCtx, id, true); err != nil {
				return s.repoError("Restore", err)
			}
			service.Active = true
		}
		result = service
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Restore: successfully restored service id=%d", id)
	return models.FromDomainService(result), nil
}

// repoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) repoError(op string, err error) error {
	switch {
	case errors.Is(err, extraRepo.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, extraRepo.ErrDuplicate):
		return ErrDuplicateService
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
