package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/suldsma/PROGIII-API/pkg/types"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCompleted ReservationStatus = "COMPLETED"
)

// legacy spanish names accepted in filters
var statusAliases = map[string]ReservationStatus{
	"PENDING":    StatusPending,
	"PENDIENTE":  StatusPending,
	"CANCELLED":  StatusCancelled,
	"CANCELADA":  StatusCancelled,
	"COMPLETED":  StatusCompleted,
	"COMPLETADA": StatusCompleted,
}

// ParseReservationStatus normalizes a status coming from a query string
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status, ok := statusAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
	return status, nil
}

// IsValid returns true for one of the known states
func (s ReservationStatus) IsValid() bool {
	return s == StatusPending || s == StatusCancelled || s == StatusCompleted
}

// IsTerminal returns true if no further transition is allowed
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Reservation represents a hall booking for one date and one time slot
type Reservation struct {
	ID         int64
	ClientID   int64
	HallID     int64
	TimeSlotID int64
	Date       time.Time

	// Copied from the time slot when the reservation is created
	StartTime types.TimeString
	EndTime   types.TimeString

	ServiceIDs []int64
	Status     ReservationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the reservation still blocks its hall and slot
func (r *Reservation) IsActive() bool {
	return !r.Status.IsTerminal()
}

// IsOwnedBy returns true if the reservation belongs to the user
func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.ClientID == userID
}

// ReservationFilter фильтр для списка бронирований (ADMIN/EMPLOYEE)
type ReservationFilter struct {
	Status   *ReservationStatus
	HallID   *int64
	ClientID *int64
	Date     *time.Time
}
