package models

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// UserRequest данные пользователя. Password обязателен при создании,
// при обновлении пустой пароль оставляет текущий.
type UserRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
	Phone     *string
	Photo     *string
}

// PatchUserRequest частичное обновление
type PatchUserRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *domain.Role
	Phone     *string
	Photo     *string
}

// Apply накладывает изменения на текущего пользователя
func (p *PatchUserRequest) Apply(user *domain.User) UserRequest {
	req := UserRequest{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Photo:     user.Photo,
	}
	if p.FirstName != nil {
		req.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		req.LastName = *p.LastName
	}
	if p.Email != nil {
		req.Email = *p.Email
	}
	if p.Password != nil {
		req.Password = *p.Password
	}
	if p.Role != nil {
		req.Role = *p.Role
	}
	if p.Phone != nil {
		req.Phone = p.Phone
	}
	if p.Photo != nil {
		req.Photo = p.Photo
	}
	return req
}

// ListUsersRequest параметры списка
type ListUsersRequest struct {
	Page            domain.Page
	Search          string
	Role            *domain.Role
	IncludeInactive bool
}

// UserResponse данные пользователя без хеша пароля
type UserResponse struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	RoleName  string      `json:"roleName"`
	Phone     *string     `json:"phone,omitempty"`
	Photo     *string     `json:"photo,omitempty"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// UserListResponse страница пользователей
type UserListResponse struct {
	Items      []UserResponse    `json:"items"`
	Pagination domain.Pagination `json:"pagination"`
}

// RoleStatsResponse количество пользователей по роли
type RoleStatsResponse struct {
	Role     domain.Role `json:"role"`
	RoleName string      `json:"roleName"`
	Total    int         `json:"total"`
	Active   int         `json:"active"`
	Inactive int         `json:"inactive"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := &UserResponse{}
	_ = copier.Copy(resp, u)
	resp.RoleName = u.Role.String()
	return resp
}

// FromDomainUsers конвертирует список domain моделей в DTO
func FromDomainUsers(users []*domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *FromDomainUser(u))
	}
	return items
}

// FromDomainStats конвертирует статистику по ролям
func FromDomainStats(stats []*domain.RoleStats) []RoleStatsResponse {
	items := make([]RoleStatsResponse, 0, len(stats))
	for _, s := range stats {
		var item RoleStatsResponse
		_ = copier.Copy(&item, s)
		item.RoleName = s.Role.String()
		items = append(items, item)
	}
	return items
}
