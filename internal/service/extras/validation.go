package extras

import (
	"strings"
	"unicode/utf8"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/extras/models"
)

func validateService(req *models.ServiceRequest) error {
	req.Description = strings.TrimSpace(req.Description)

	if req.Description == "" {
		return domain.NewFieldError(ErrInvalidInput, "description", "is required")
	}
	if utf8.RuneCountInString(req.Description) > domain.MaxDescriptionLength {
		return domain.NewFieldError(ErrInvalidInput, "description", "is too long")
	}
	if req.Price < 0 {
		return domain.NewFieldError(ErrInvalidInput, "price", "must not be negative")
	}
	return nil
}

// normalizeLimit ограничивает размер выборки самых используемых услуг
func normalizeLimit(limit int) int {
	if limit < 1 {
		return domain.DefaultMostUsedLimit
	}
	if limit > domain.MaxMostUsedLimit {
		return domain.MaxMostUsedLimit
	}
	return limit
}
