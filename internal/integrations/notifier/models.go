package notifier

import (
	"time"

	"github.com/suldsma/PROGIII-API/internal/domain"
)

// Event событие жизненного цикла бронирования
type Event struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservationId"`
	ClientID      int64     `json:"clientId"`
	HallID        int64     `json:"hallId"`
	TimeSlotID    int64     `json:"timeSlotId"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent собирает событие по бронированию
func NewEvent(eventType string, r *domain.Reservation, at time.Time) Event {
	return Event{
		Type:          eventType,
		ReservationID: r.ID,
		ClientID:      r.ClientID,
		HallID:        r.HallID,
		TimeSlotID:    r.TimeSlotID,
		Date:          r.Date.Format(domain.DateFormat),
		Status:        string(r.Status),
		OccurredAt:    at.UTC(),
	}
}
