package models

import (
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// ListAllRequest параметры списка всех бронирований (ADMIN/EMPLOYEE)
type ListAllRequest struct {
	Page     domain.Page
	Status   string // PENDING/CANCELLED/COMPLETED или испанские названия
	HallID   *int64
	ClientID *int64
	Date     *time.Time
}

// ReservationResponse данные бронирования
type ReservationResponse struct {
	ID         int64     `json:"id"`
	ClientID   int64     `json:"clientId"`
	HallID     int64     `json:"hallId"`
	TimeSlotID int64     `json:"timeSlotId"`
	Date       string    `json:"date"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	ServiceIDs []int64   `json:"serviceIds"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ReservationListResponse страница бронирований
type ReservationListResponse struct {
	Items      []ReservationResponse `json:"items"`
	Pagination domain.Pagination     `json:"pagination"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}
	serviceIDs := r.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}
	return &ReservationResponse{
		ID:         r.ID,
		ClientID:   r.ClientID,
		HallID:     r.HallID,
		TimeSlotID: r.TimeSlotID,
		Date:       r.Date.Format(domain.DateFormat),
		StartTime:  r.StartTime.String(),
		EndTime:    r.EndTime.String(),
		ServiceIDs: serviceIDs,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// FromDomainReservations конвертирует список domain моделей в DTO
func FromDomainReservations(reservations []*domain.Reservation) []ReservationResponse {
	items := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		items = append(items, *FromDomainReservation(r))
	}
	return items
}
