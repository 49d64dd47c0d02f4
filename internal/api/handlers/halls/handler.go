package halls

import (
	"errors"
	"net/http"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/access"
	hallsService "github.com/suldsma/PROGIII-API/internal/service/halls"
	"github.com/suldsma/PROGIII-API/internal/service/halls/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHallID      = "некорректный ID зала"
	msgInvalidQuery       = "некорректные параметры запроса"
	msgNotFound           = "зал не найден"
	msgTimeSlotNotFound   = "временной слот не найден"
	msgDuplicate          = "зал с таким названием и адресом уже существует"
	msgInUse              = "у зала есть активные бронирования"
)

type Handler struct {
	service HallService
	logger  Logger
}

func NewHandler(service HallService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/halls
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req HallRequest
	if !h.decode(w, r, "POST /halls", &req) {
		return
	}

	hall, err := h.service.Create(r.Context(), req.toService())
	if err != nil {
		h.respondError(w, "POST /halls", err)
		return
	}

	h.logger.Info("POST /halls - Hall created successfully: hall_id=%d", hall.ID)
	handlers.RespondJSON(w, http.StatusCreated, hall)
}

// Get GET /api/v1/halls/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "GET /halls/{id}")
	if !ok {
		return
	}

	// неактивные залы видны только персоналу
	principal, _ := handlers.PrincipalFromContext(r.Context())
	hall, err := h.service.GetByID(r.Context(), id, access.Can(principal, access.CatalogManage))
	if err != nil {
		h.respondError(w, "GET /halls/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, hall)
}

// List GET /api/v1/halls
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.QueryPage(r)
	if err != nil {
		h.respondQueryError(w, "GET /halls", err)
		return
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.respondQueryError(w, "GET /halls", err)
		return
	}
	principal, _ := handlers.PrincipalFromContext(r.Context())

	list, err := h.service.List(r.Context(), &models.ListHallsRequest{
		Page:            page,
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
		IncludeInactive: includeInactive && access.Can(principal, access.CatalogManage),
	})
	if err != nil {
		h.respondError(w, "GET /halls", err)
		return
	}

	h.logger.Info("GET /halls - Retrieved %d of %d halls", len(list.Items), list.Pagination.TotalItems)
	handlers.RespondJSON(w, http.StatusOK, list)
}

// Available GET /api/v1/halls/available?date=&slot_id=
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.QueryDate(r, "date")
	if err == nil && date == nil {
		err = handlers.MissingParam("date")
	}
	if err != nil {
		h.respondQueryError(w, "GET /halls/available", err)
		return
	}
	slotID, err := handlers.QueryInt64(r, "slot_id")
	if err == nil && slotID == nil {
		err = handlers.MissingParam("slot_id")
	}
	if err != nil {
		h.respondQueryError(w, "GET /halls/available", err)
		return
	}

	items, err := h.service.GetAvailable(r.Context(), *date, *slotID)
	if err != nil {
		h.respondError(w, "GET /halls/available", err)
		return
	}

	h.logger.Info("GET /halls/available - %d halls free: date=%s, slot_id=%d", len(items), date.Format(domain.DateFormat), *slotID)
	handlers.RespondJSON(w, http.StatusOK, items)
}

// Update PUT /api/v1/halls/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PUT /halls/{id}")
	if !ok {
		return
	}
	var req HallRequest
	if !h.decode(w, r, "PUT /halls/{id}", &req) {
		return
	}

	hall, err := h.service.Update(r.Context(), id, req.toService())
	if err != nil {
		h.respondError(w, "PUT /halls/{id}", err)
		return
	}

	h.logger.Info("PUT /halls/{id} - Hall updated successfully: hall_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, hall)
}

// Patch PATCH /api/v1/halls/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /halls/{id}")
	if !ok {
		return
	}
	var req PatchHallRequest
	if !h.decode(w, r, "PATCH /halls/{id}", &req) {
		return
	}

	hall, err := h.service.Patch(r.Context(), id, req.toService())
	if err != nil {
		h.respondError(w, "PATCH /halls/{id}", err)
		return
	}

	h.logger.Info("PATCH /halls/{id} - Hall patched successfully: hall_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, hall)
}

// Delete DELETE /api/v1/halls/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /halls/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /halls/{id}", err)
		return
	}

	h.logger.Info("DELETE /halls/{id} - Hall deactivated: hall_id=%d", id)
	handlers.RespondNoContent(w)
}

// Restore PATCH /api/v1/halls/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /halls/{id}/restore")
	if !ok {
		return
	}

	hall, err := h.service.Restore(r.Context(), id)
	if err != nil {
		h.respondError(w, "PATCH /halls/{id}/restore", err)
		return
	}

	h.logger.Info("PATCH /halls/{id}/restore - Hall restored: hall_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, hall)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid hall ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidHallID)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, dst interface{}) bool {
	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return false
	}
	if err := handlers.Validate(dst); err != nil {
		h.logger.Warn("%s - Validation failed: %v", route, err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		}
		return false
	}
	return true
}

func (h *Handler) respondQueryError(w http.ResponseWriter, route string, err error) {
	h.logger.Warn("%s - Invalid query: %v", route, err)
	if !handlers.RespondValidationError(w, err) {
		handlers.RespondBadRequest(w, msgInvalidQuery)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	if handlers.RespondValidationError(w, err) {
		h.logger.Warn("%s - Invalid input: %v", route, err)
		return
	}

	switch {
	case errors.Is(err, hallsService.ErrHallNotFound):
		h.logger.Warn("%s - Hall not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, hallsService.ErrTimeSlotNotFound):
		h.logger.Warn("%s - Time slot not found", route)
		handlers.RespondNotFound(w, msgTimeSlotNotFound)

	case errors.Is(err, hallsService.ErrDuplicateHall):
		h.logger.Warn("%s - Duplicate hall: %v", route, err)
		handlers.RespondConflict(w, msgDuplicate)

	case errors.Is(err, hallsService.ErrHallInUse):
		h.logger.Warn("%s - Hall has active reservations", route)
		handlers.RespondConflict(w, msgInUse)

	case errors.Is(err, hallsService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
