package users

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/users/models"
)

// validateProfile нормализует и проверяет поля профиля; пароль проверяется отдельно
func validateProfile(req *models.UserRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FirstName == "" {
		return domain.NewFieldError(ErrInvalidInput, "firstName", "is required")
	}
	if utf8.RuneCountInString(req.FirstName) > domain.MaxNameLength {
		return domain.NewFieldError(ErrInvalidInput, "firstName", "is too long")
	}
	if req.LastName == "" {
		return domain.NewFieldError(ErrInvalidInput, "lastName", "is required")
	}
	if utf8.RuneCountInString(req.LastName) > domain.MaxNameLength {
		return domain.NewFieldError(ErrInvalidInput, "lastName", "is too long")
	}
	if req.Email == "" {
		return domain.NewFieldError(ErrInvalidInput, "email", "is required")
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return domain.NewFieldError(ErrInvalidInput, "email", "must be a valid email address")
	}
	if !req.Role.IsValid() {
		return domain.NewFieldError(ErrInvalidInput, "role", "must be 1 (ADMIN), 2 (EMPLOYEE) or 3 (CLIENT)")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return domain.NewFieldError(ErrInvalidInput, "password", "is too short")
	}
	return nil
}
