package create_reservation

import (
	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	createReservation "github.com/suldsma/PROGIII-API/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	HallID     int64   `json:"hallId" validate:"required,gt=0"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"` // "2025-12-24"
	TimeSlotID int64   `json:"timeSlotId" validate:"required,gt=0"`
	ServiceIDs []int64 `json:"serviceIds,omitempty" validate:"omitempty,dive,gt=0"`
	ClientID   *int64  `json:"clientId,omitempty" validate:"omitempty,gt=0"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		HallID:     r.HallID,
		Date:       date,
		TimeSlotID: r.TimeSlotID,
		ServiceIDs: r.ServiceIDs,
		ClientID:   r.ClientID,
	}, nil
}
