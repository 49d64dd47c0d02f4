package halls

import (
	"strings"
	"unicode/utf8"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/halls/models"
)

// validateHall проверяет данные зала и нормализует пробелы
func validateHall(req *models.HallRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Address = strings.TrimSpace(req.Address)

	if req.Title == "" {
		return domain.NewFieldError(ErrInvalidInput, "title", "is required")
	}
	if utf8.RuneCountInString(req.Title) > domain.MaxTitleLength {
		return domain.NewFieldError(ErrInvalidInput, "title", "is too long")
	}
	if req.Address == "" {
		return domain.NewFieldError(ErrInvalidInput, "address", "is required")
	}
	if utf8.RuneCountInString(req.Address) > domain.MaxAddressLength {
		return domain.NewFieldError(ErrInvalidInput, "address", "is too long")
	}
	if req.Price < 0 {
		return domain.NewFieldError(ErrInvalidInput, "price", "must not be negative")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		return domain.NewFieldError(ErrInvalidInput, "capacity", "must be positive")
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return domain.NewFieldError(ErrInvalidInput, "latitude", "must be between -90 and 90")
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return domain.NewFieldError(ErrInvalidInput, "longitude", "must be between -180 and 180")
	}
	return nil
}
