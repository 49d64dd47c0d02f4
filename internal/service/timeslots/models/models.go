package models

import (
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/pkg/types"
)

// TimeSlotRequest данные слота (создание и PUT). Ordinal необязателен.
type TimeSlotRequest struct {
	Ordinal   *int
	StartTime types.TimeString
	EndTime   types.TimeString
}

// PatchTimeSlotRequest частичное обновление
type PatchTimeSlotRequest struct {
	Ordinal   *int
	StartTime *types.TimeString
	EndTime   *types.TimeString
}

// ListTimeSlotsRequest параметры списка
type ListTimeSlotsRequest struct {
	Page            domain.Page
	IncludeInactive bool
}

// TimeSlotResponse данные слота
type TimeSlotResponse struct {
	ID        int64     `json:"id"`
	Ordinal   int       `json:"ordinal"`
	StartTime string    `json:"startTime"` // "18:00"
	EndTime   string    `json:"endTime"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TimeSlotListResponse страница слотов
type TimeSlotListResponse struct {
	Items      []TimeSlotResponse `json:"items"`
	Pagination domain.Pagination  `json:"pagination"`
}

// FromDomainTimeSlot конвертирует domain модель в DTO
func FromDomainTimeSlot(s *domain.TimeSlot) *TimeSlotResponse {
	if s == nil {
		return nil
	}
	return &TimeSlotResponse{
		ID:        s.ID,
		Ordinal:   s.Ordinal,
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// FromDomainTimeSlots конвертирует список domain моделей в DTO
func FromDomainTimeSlots(slots []*domain.TimeSlot) []TimeSlotResponse {
	items := make([]TimeSlotResponse, 0, len(slots))
	for _, s := range slots {
		items = append(items, *FromDomainTimeSlot(s))
	}
	return items
}
