package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/domain"
	userRepo "github.com/suldsma/PROGIII-API/internal/infra/storage/user"
	"github.com/suldsma/PROGIII-API/internal/service/auth/models"
	usersModels "github.com/suldsma/PROGIII-API/internal/service/users/models"
)

const tokenType = "Bearer"

// Service вход по email и паролю, выпуск и обновление токенов
type Service struct {
	users    UserRepository
	password PasswordVerifier
	tokens   TokenIssuer
	logger   Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(users UserRepository, password PasswordVerifier, tokens TokenIssuer, logger Logger) *Service {
	return &Service{
		users:    users,
		password: password,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login проверяет учетные данные активного пользователя и выпускает токен
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, domain.NewFieldError(ErrInvalidInput, "email", "is required")
	}
	if req.Password == "" {
		return nil, domain.NewFieldError(ErrInvalidInput, "password", "is required")
	}

	user, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown or inactive account")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		return nil, fmt.Errorf("%w: Login - repository error: %w", ErrInternal, err)
	}

	if !s.password.Verify(user.PasswordHash, req.Password) {
		s.logger.Warn("Login: wrong password for user id=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Login: user id=%d logged in", user.ID)
	return s.issue(user)
}

// Me возвращает профиль владельца токена
func (s *Service) Me(ctx context.Context, principal domain.Principal) (*usersModels.UserResponse, error) {
	user, err := s.activeUser(ctx, "Me", principal.UserID)
	if err != nil {
		return nil, err
	}
	return usersModels.FromDomainUser(user), nil
}

// Refresh выпускает новый токен. Роль берется из хранилища, а не из старого токена.
func (s *Service) Refresh(ctx context.Context, principal domain.Principal) (*models.TokenResponse, error) {
	user, err := s.activeUser(ctx, "Refresh", principal.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refresh: issuing new token for user id=%d", user.ID)
	return s.issue(user)
}

func (s *Service) activeUser(ctx context.Context, op string, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUserInactive
		}
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	if !user.Active {
		s.logger.Warn("%s: user id=%d is inactive", op, id)
		return nil, ErrUserInactive
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*models.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, int(user.Role))
	if err != nil {
		s.logger.Error("issue: failed to sign token for user id=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: failed to issue token: %w", ErrInternal, err)
	}

	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
		User:        *usersModels.FromDomainUser(user),
	}, nil
}
