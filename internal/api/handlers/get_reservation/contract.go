package get_reservation

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, principal domain.Principal, id int64) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
