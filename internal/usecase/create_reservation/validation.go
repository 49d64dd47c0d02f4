package create_reservation

import (
	"sort"
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/types"
)

// validateRequest проверяет поля запроса и убирает повторы в serviceIds
func validateRequest(req *Request) error {
	if req.HallID <= 0 {
		return domain.NewFieldError(ErrInvalidInput, "hallId", "must be positive")
	}
	if req.TimeSlotID <= 0 {
		return domain.NewFieldError(ErrInvalidInput, "timeSlotId", "must be positive")
	}
	if req.Date.IsZero() {
		return domain.NewFieldError(ErrInvalidInput, "date", "is required")
	}
	if req.ClientID != nil && *req.ClientID <= 0 {
		return domain.NewFieldError(ErrInvalidInput, "clientId", "must be positive")
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	unique := make([]int64, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return domain.NewFieldError(ErrInvalidInput, "serviceIds", "must contain positive ids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	req.ServiceIDs = unique
	return nil
}

// isDateInPast сравнивает календарные даты: бронирование на сегодня допустимо
func isDateInPast(date, now time.Time) bool {
	return date.Format(domain.DateFormat) < now.Format(domain.DateFormat)
}

// isSameDay проверяет, что бронирование на текущий день
func isSameDay(date, now time.Time) bool {
	return date.Format(domain.DateFormat) == now.Format(domain.DateFormat)
}

// hasStarted проверяет, что слот сегодня уже начался
func hasStarted(start types.TimeString, now time.Time) bool {
	return !types.NewTimeString(now).IsBefore(start)
}
