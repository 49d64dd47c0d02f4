package users

import (
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/users/models"
)

// UserRequest HTTP request model для POST и PUT.
// При PUT пустой пароль оставляет текущий.
type UserRequest struct {
	FirstName string      `json:"firstName" validate:"required"`
	LastName  string      `json:"lastName" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password,omitempty"`
	Role      domain.Role `json:"role" validate:"required,oneof=1 2 3"`
	Phone     *string     `json:"phone,omitempty"`
	Photo     *string     `json:"photo,omitempty"`
}

// PatchUserRequest HTTP request model для PATCH
type PatchUserRequest struct {
	FirstName *string      `json:"firstName,omitempty"`
	LastName  *string      `json:"lastName,omitempty"`
	Email     *string      `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string      `json:"password,omitempty"`
	Role      *domain.Role `json:"role,omitempty" validate:"omitempty,oneof=1 2 3"`
	Phone     *string      `json:"phone,omitempty"`
	Photo     *string      `json:"photo,omitempty"`
}

func (r *UserRequest) toService() *models.UserRequest {
	return &models.UserRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		Role:      r.Role,
		Phone:     r.Phone,
		Photo:     r.Photo,
	}
}

func (r *PatchUserRequest) toService() *models.PatchUserRequest {
	return &models.PatchUserRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		Role:      r.Role,
		Phone:     r.Phone,
		Photo:     r.Photo,
	}
}
