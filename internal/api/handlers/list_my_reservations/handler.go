package list_my_reservations

import (
	"errors"
	"net/http"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/service/reservations"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "у сотрудников нет собственных бронирований"
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

// Handle GET /api/v1/reservations/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	items, err := h.service.ListMine(r.Context(), principal)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrForbidden):
			h.logger.Warn("GET /reservations/me - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /reservations/me - Failed to list reservations: user_id=%d, error=%v", principal.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations/me - Retrieved %d reservations for user_id=%d", len(items), principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, items)
}
