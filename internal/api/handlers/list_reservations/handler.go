package list_reservations

import (
	"errors"
	"net/http"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/service/reservations"
)

const (
	msgInvalidQuery = "некорректные параметры запроса"
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "доступ запрещен"
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

// Handle GET /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req, err := parseQuery(r)
	if err != nil {
		h.logger.Warn("GET /reservations - Invalid query: %v", err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidQuery)
		}
		return
	}

	list, err := h.service.ListAll(r.Context(), principal, req)
	if err != nil {
		if handlers.RespondValidationError(w, err) {
			h.logger.Warn("GET /reservations - Invalid filter: %v", err)
			return
		}

		switch {
		case errors.Is(err, reservations.ErrForbidden):
			h.logger.Warn("GET /reservations - Access denied: user_id=%d", principal.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /reservations - Failed to list reservations: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reservations - Retrieved %d of %d reservations", len(list.Items), list.Pagination.TotalItems)
	handlers.RespondJSON(w, http.StatusOK, list)
}
