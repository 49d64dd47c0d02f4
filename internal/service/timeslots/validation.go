package timeslots

import (
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/types"
)

// validateRange проверяет формат времени и start < end
func validateRange(start, end types.TimeString) error {
	if start.IsZero() {
		return domain.NewFieldError(ErrInvalidInput, "startTime", "is required")
	}
	if err := start.Validate(); err != nil {
		return domain.NewFieldError(ErrInvalidInput, "startTime", "must be HH:MM")
	}
	if end.IsZero() {
		return domain.NewFieldError(ErrInvalidInput, "endTime", "is required")
	}
	if err := end.Validate(); err != nil {
		return domain.NewFieldError(ErrInvalidInput, "endTime", "must be HH:MM")
	}
	if !start.IsBefore(end) {
		return domain.NewFieldError(ErrInvalidInput, "endTime", "must be after startTime")
	}
	return nil
}

func validateOrdinal(ordinal *int) error {
	if ordinal != nil && *ordinal < 1 {
		return domain.NewFieldError(ErrInvalidInput, "ordinal", "must be positive")
	}
	return nil
}
