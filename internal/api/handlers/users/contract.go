package users

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/service/users/models"
)

type UserService interface {
	Create(ctx context.Context, req *models.UserRequest) (*models.UserResponse, error)
	GetByID(ctx context.Context, id int64, includeInactive bool) (*models.UserResponse, error)
	List(ctx context.Context, req *models.ListUsersRequest) (*models.UserListResponse, error)
	Stats(ctx context.Context) ([]models.RoleStatsResponse, error)
	Update(ctx context.Context, id int64, req *models.UserRequest) (*models.UserResponse, error)
	Patch(ctx context.Context, id int64, req *models.PatchUserRequest) (*models.UserResponse, error)
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) (*models.UserResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
