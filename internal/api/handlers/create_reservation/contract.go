package create_reservation

import (
	"context"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/reservations/models"
	createReservation "github.com/suldsma/PROGIII-API/internal/usecase/create_reservation"
)

type CreateReservationUseCase interface {
	Execute(ctx context.Context, principal domain.Principal, req *createReservation.Request) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
