package auth

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/auth/models"
	usersModels "github.com/suldsma/PROGIII-API/internal/service/users/models"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	Me(ctx context.Context, principal domain.Principal) (*usersModels.UserResponse, error)
	Refresh(ctx context.Context, principal domain.Principal) (*models.TokenResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
