package timeslots

import (
	"errors"
	"net/http"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/access"
	slotsService "github.com/suldsma/PROGIII-API/internal/service/timeslots"
	"github.com/suldsma/PROGIII-API/internal/service/timeslots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimeSlotID  = "некорректный ID временного слота"
	msgInvalidQuery       = "некорректные параметры запроса"
	msgNotFound           = "временной слот не найден"
	msgHallNotFound       = "зал не найден"
	msgOverlap            = "слот пересекается с другим активным слотом"
	msgInUse              = "у слота есть активные бронирования"
)

type Handler struct {
	service TimeSlotService
	logger  Logger
}

func NewHandler(service TimeSlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/timeslots
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body TimeSlotRequest
	if !h.decode(w, r, "POST /timeslots", &body) {
		return
	}
	req, err := body.toService()
	if err != nil {
		h.respondError(w, "POST /timeslots", err)
		return
	}

	slot, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "POST /timeslots", err)
		return
	}

	h.logger.Info("POST /timeslots - Time slot created successfully: slot_id=%d, %s-%s", slot.ID, slot.StartTime, slot.EndTime)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}

// Get GET /api/v1/timeslots/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "GET /timeslots/{id}")
	if !ok {
		return
	}

	principal, _ := handlers.PrincipalFromContext(r.Context())
	slot, err := h.service.GetByID(r.Context(), id, access.Can(principal, access.CatalogManage))
	if err != nil {
		h.respondError(w, "GET /timeslots/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, slot)
}

// List GET /api/v1/timeslots
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.QueryPage(r)
	if err != nil {
		h.respondQueryError(w, "GET /timeslots", err)
		return
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.respondQueryError(w, "GET /timeslots", err)
		return
	}
	principal, _ := handlers.PrincipalFromContext(r.Context())

	list, err := h.service.List(r.Context(), &models.ListTimeSlotsRequest{
		Page:            page,
		IncludeInactive: includeInactive && access.Can(principal, access.CatalogManage),
	})
	if err != nil {
		h.respondError(w, "GET /timeslots", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Available GET /api/v1/timeslots/available?date=&hall_id=
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.QueryDate(r, "date")
	if err == nil && date == nil {
		err = handlers.MissingParam("date")
	}
	if err != nil {
		h.respondQueryError(w, "GET /timeslots/available", err)
		return
	}
	hallID, err := handlers.QueryInt64(r, "hall_id")
	if err == nil && hallID == nil {
		err = handlers.MissingParam("hall_id")
	}
	if err != nil {
		h.respondQueryError(w, "GET /timeslots/available", err)
		return
	}

	items, err := h.service.GetAvailable(r.Context(), *date, *hallID)
	if err != nil {
		h.respondError(w, "GET /timeslots/available", err)
		return
	}

	h.logger.Info("GET /timeslots/available - %d slots free: date=%s, hall_id=%d", len(items), date.Format(domain.DateFormat), *hallID)
	handlers.RespondJSON(w, http.StatusOK, items)
}

// Update PUT /api/v1/timeslots/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PUT /timeslots/{id}")
	if !ok {
		return
	}
	var body TimeSlotRequest
	if !h.decode(w, r, "PUT /timeslots/{id}", &body) {
		return
	}
	req, err := body.toService()
	if err != nil {
		h.respondError(w, "PUT /timeslots/{id}", err)
		return
	}

	slot, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "PUT /timeslots/{id}", err)
		return
	}

	h.logger.Info("PUT /timeslots/{id} - Time slot updated successfully: slot_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, slot)
}

// Patch PATCH /api/v1/timeslots/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /timeslots/{id}")
	if !ok {
		return
	}
	var body PatchTimeSlotRequest
	if !h.decode(w, r, "PATCH /timeslots/{id}", &body) {
		return
	}
	req, err := body.toService()
	if err != nil {
		h.respondError(w, "PATCH /timeslots/{id}", err)
		return
	}

	slot, err := h.service.Patch(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "PATCH /timeslots/{id}", err)
		return
	}

	h.logger.Info("PATCH /timeslots/{id} - Time slot patched successfully: slot_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, slot)
}

// Delete DELETE /api/v1/timeslots/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /timeslots/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /timeslots/{id}", err)
		return
	}

	h.logger.Info("DELETE /timeslots/{id} - Time slot deactivated: slot_id=%d", id)
	handlers.RespondNoContent(w)
}

// Restore PATCH /api/v1/timeslots/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /timeslots/{id}/restore")
	if !ok {
		return
	}

	slot, err := h.service.Restore(r.Context(), id)
	if err != nil {
		h.respondError(w, "PATCH /timeslots/{id}/restore", err)
		return
	}

	h.logger.Info("PATCH /timeslots/{id}/restore - Time slot restored: slot_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, slot)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid time slot ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTimeSlotID)
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
	case errors.Is(err, slotsService.ErrTimeSlotNotFound):
		h.logger.Warn("%s - Time slot not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, slotsService.ErrHallNotFound):
		h.logger.Warn("%s - Hall not found", route)
		handlers.RespondNotFound(w, msgHallNotFound)

	case errors.Is(err, slotsService.ErrOverlap):
		h.logger.Warn("%s - Overlapping time slot: %v", route, err)
		handlers.RespondConflict(w, msgOverlap)

	case errors.Is(err, slotsService.ErrTimeSlotInUse):
		h.logger.Warn("%s - Time slot has active reservations", route)
		handlers.RespondConflict(w, msgInUse)

	case errors.Is(err, slotsService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
