package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgUnauthorized         = "требуется авторизация"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgAlreadyCancelled     = "бронирование уже отменено"
	msgAlreadyCompleted     = "завершенное бронирование нельзя отменить"
	msgTerminalState        = "бронирование уже не активно"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/reservations/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("DELETE /reservations/{id} - Reservation not found: reservation_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrForbidden):
			h.logger.Warn("DELETE /reservations/{id} - Access denied: reservation_id=%d, user_id=%d", id, principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrAlreadyCancelled):
			h.logger.Warn("DELETE /reservations/{id} - Already cancelled: reservation_id=%d", id)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, reservations.ErrAlreadyCompleted):
			h.logger.Warn("DELETE /reservations/{id} - Already completed: reservation_id=%d", id)
			handlers.RespondBadRequest(w, msgAlreadyCompleted)

		case errors.Is(err, reservations.ErrTerminalState):
			h.logger.Warn("DELETE /reservations/{id} - Reservation is no longer pending: reservation_id=%d", id)
			handlers.RespondBadRequest(w, msgTerminalState)

		default:
			h.logger.Error("DELETE /reservations/{id} - Failed to cancel reservation: reservation_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reservations/{id} - Reservation cancelled successfully: reservation_id=%d, user_id=%d", id, principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, cancelled)
}
