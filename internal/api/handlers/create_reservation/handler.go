package create_reservation

import (
	"errors"
	"net/http"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	createReservation "github.com/suldsma/PROGIII-API/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized       = "требуется авторизация"
	msgSlotNotAvailable   = "зал уже забронирован на эту дату и слот"
	msgHallNotFound       = "зал не найден"
	msgTimeSlotNotFound   = "временной слот не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgClientNotFound     = "клиент не найден"
	msgForbidden          = "нельзя бронировать от имени другого клиента"
	msgPastDate           = "дата бронирования в прошлом"
	msgTooLateToBook      = "слот на сегодня уже начался"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /reservations - Validation failed: %v", err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		}
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date: %v", err)
		handlers.RespondFieldError(w, msgInvalidDate, "date")
		return
	}

	result, err := h.useCase.Execute(r.Context(), principal, useCaseReq)
	if err != nil {
		if handlers.RespondValidationError(w, err) {
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", principal.UserID, err)
			return
		}

		switch {
		case errors.Is(err, createReservation.ErrSlotNotAvailable):
			h.logger.Warn("POST /reservations - Slot not available: hall_id=%d, date=%s, slot_id=%d", req.HallID, req.Date, req.TimeSlotID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createReservation.ErrHallNotFound):
			h.logger.Warn("POST /reservations - Hall not found: hall_id=%d", req.HallID)
			handlers.RespondNotFound(w, msgHallNotFound)

		case errors.Is(err, createReservation.ErrTimeSlotNotFound):
			h.logger.Warn("POST /reservations - Time slot not found: slot_id=%d", req.TimeSlotID)
			handlers.RespondNotFound(w, msgTimeSlotNotFound)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: service_ids=%v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrClientNotFound):
			h.logger.Warn("POST /reservations - Client not found: client_id=%v", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createReservation.ErrForbidden):
			h.logger.Warn("POST /reservations - Forbidden: user_id=%d", principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Date in the past: date=%s", req.Date)
			handlers.RespondFieldError(w, msgPastDate, "date")

		case errors.Is(err, createReservation.ErrTooLateToBook):
			h.logger.Warn("POST /reservations - Too late to book: date=%s, slot_id=%d", req.Date, req.TimeSlotID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, client_id=%d",
		result.ID, result.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
