package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/suldsma/PROGIII-API/internal/domain"
	userRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/user"
	"github.com/suldsma/PROGIII-API/internal/service/users/models"
)

// Service реестр пользователей. Доступен только администратору.
type Service struct {
	repo         UserRepository
	reservations ReservationCounter
	hasher       PasswordHasher
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(
	repo UserRepository,
	reservations ReservationCounter,
	hasher PasswordHasher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		hasher:       hasher,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает пользователя с уникальным среди активных email
func (s *Service) Create(ctx context.Context, req *models.UserRequest) (*models.UserResponse, error) {
	s.logger.Info("Create: creating user role=%d", req.Role)

	if err := validateProfile(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	exists, err := s.repo.ExistsActiveByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, s.repoError("Create", err)
	}
	if exists {
		s.logger.Warn("Create: email already in use")
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Create: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Create - hash password: %w", ErrInternal, err)
	}

	user, err := s.repo.Create(ctx, &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Phone:        req.Phone,
		Photo:        req.Photo,
		Active:       true,
	})
	if err != nil {
		return nil, s.repoError("Create", err)
	}

	s.logger.Info("Create: successfully created user id=%d", user.ID)
	return models.FromDomainUser(user), nil
}

// GetByID получает пользователя. Неактивный пользователь виден только при includeInactive.
func (s *Service) GetByID(ctx context.Context, id int64, includeInactive bool) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetByID", err)
	}
	if !user.Active && !includeInactive {
		return nil, ErrUserNotFound
	}
	return models.FromDomainUser(user), nil
}

// List возвращает страницу пользователей
func (s *Service) List(ctx context.Context, req *models.ListUsersRequest) (*models.UserListResponse, error) {
	if req.Role != nil && !req.Role.IsValid() {
		return nil, domain.NewFieldError(ErrInvalidInput, "role", "must be 1, 2 or 3")
	}

	page := req.Page.Normalize()
	filter := domain.UserFilter{Search: req.Search, Role: req.Role, IncludeInactive: req.IncludeInactive}

	users, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, s.repoError("List", err)
	}

	return &models.UserListResponse{
		Items:      models.FromDomainUsers(users),
		Pagination: domain.NewPagination(page, total),
	}, nil
}

// Stats возвращает количество пользователей по ролям
func (s *Service) Stats(ctx context.Context) ([]models.RoleStatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, s.repoError("Stats", err)
	}
	return models.FromDomainStats(stats), nil
}

// Update полностью заменяет профиль; пустой пароль оставляет текущий
func (s *Service) Update(ctx context.Context, id int64, req *models.UserRequest) (*models.UserResponse, error) {
	s.logger.Info("Update: updating user id=%d", id)
	return s.update(ctx, "Update", id, func(*domain.User) models.UserRequest { return *req })
}

// Patch обновляет только переданные поля
func (s *Service) Patch(ctx context.Context, id int64, req *models.PatchUserRequest) (*models.UserResponse, error) {
	s.logger.Info("Patch: patching user id=%d", id)
	return s.update(ctx, "Patch", id, req.Apply)
}

func (s *Service) update(ctx context.Context, op string, id int64, merge func(*domain.User) models.UserRequest) (*models.UserResponse, error) {
	var result *domain.User

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError(op, err)
		}

		req := merge(current)
		if err := validateProfile(&req); err != nil {
			s.logger.Warn("%s: validation failed for user id=%d: %v", op, id, err)
			return err
		}

		if current.Active && req.Email != current.Email {
			exists, err := s.repo.ExistsActiveByEmail(txCtx, req.Email, id)
			if err != nil {
				return s.repoError(op, err)
			}
			if exists {
				s.logger.Warn("%s: email already in use", op)
				return ErrDuplicateEmail
			}
		}

		if req.Password != "" {
			if err := validatePassword(req.Password); err != nil {
				return err
			}
			hash, err := s.hasher.Hash(req.Password)
			if err != nil {
				s.logger.Error("%s: failed to hash password: %v", op, err)
				return fmt.Errorf("%w: %s - hash password: %w", ErrInternal, op, err)
			}
			current.PasswordHash = hash
		}

		current.FirstName = req.FirstName
		current.LastName = req.LastName
		current.Email = req.Email
		current.Role = req.Role
		current.Phone = req.Phone
		current.Photo = req.Photo

		result, err = s.repo.Update(txCtx, current)
		if err != nil {
			return s.repoError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: successfully updated user id=%d", op, id)
	return models.FromDomainUser(result), nil
}

// Delete деактивирует пользователя, если у него нет активных бронирований
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deactivating user id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Delete", err)
		}
		if !user.Active {
			return nil
		}

		count, err := s.reservations.CountActiveByClient(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - count reservations: %w", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("Delete: user id=%d has %d active reservations", id, count)
			return ErrUserInUse
		}

		if err := s.repo.SetActive(txCtx, id, false); err != nil {
			return s.repoError("Delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deactivated user id=%d", id)
	return nil
}

// Restore реактивирует пользователя, если его email не занят
func (s *Service) Restore(ctx context.Context, id int64) (*models.UserResponse, error) {
	s.logger.Info("Restore: restoring user id=%d", id)

	var result *domain.User
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return s.repoError("Restore", err)
		}
		if !user.Active {
			exists, err := s.repo.ExistsActiveByEmail(txCtx, user.Email, id)
			if err != nil {
				return s.repoError("Restore", err)
			}
			if exists {
				s.logger.Warn("Restore: email of user id=%d is taken by an active user", id)
				return ErrDuplicateEmail
			}
			if err := s.repo.SetActive(txCtx, id, true); err != nil {
				return s.repoError("Restore", err)
			}
			user.Active = true
		}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Restore: successfully restored user id=%d", id)
	return models.FromDomainUser(result), nil
}

// repoError переводит ошибки репозитория в ошибки сервиса
func (s *Service) repoError(op string, err error) error {
	switch {
	case errors.Is(err, userRepo.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, userRepo.ErrDuplicate):
		return ErrDuplicateEmail
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}
