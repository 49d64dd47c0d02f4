package extras

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/service/access"
	extrasService "github.com/suldsma/PROGIII-API/internal/service/extras"
	"github.com/suldsma/PROGIII-API/internal/service/extras/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidQuery       = "некорректные параметры запроса"
	msgNotFound           = "услуга не найдена"
	msgDuplicate          = "услуга с таким описанием уже существует"
	msgInUse              = "услуга используется в активных бронированиях"
)

type Handler struct {
	service ExtraService
	logger  Logger
}

func NewHandler(service ExtraService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if !h.decode(w, r, "POST /services", &req) {
		return
	}

	service, err := h.service.Create(r.Context(), req.toService())
	if err != nil {
		h.respondError(w, "POST /services", err)
		return
	}

	h.logger.Info("POST /services - Service created successfully: service_id=%d", service.ID)
	handlers.RespondJSON(w, http.StatusCreated, service)
}

// Get GET /api/v1/services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "GET /services/{id}")
	if !ok {
		return
	}

	principal, _ := handlers.PrincipalFromContext(r.Context())
	service, err := h.service.GetByID(r.Context(), id, access.Can(principal, access.CatalogManage))
	if err != nil {
		h.respondError(w, "GET /services/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, service)
}

// List GET /api/v1/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.QueryPage(r)
	if err != nil {
		h.respondQueryError(w, "GET /services", err)
		return
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.respondQueryError(w, "GET /services", err)
		return
	}
	principal, _ := handlers.PrincipalFromContext(r.Context())

	list, err := h.service.List(r.Context(), &models.ListServicesRequest{
		Page:            page,
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
		IncludeInactive: includeInactive && access.Can(principal, access.CatalogManage),
	})
	if err != nil {
		h.respondError(w, "GET /services", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// MostUsed GET /api/v1/services/stats/most-used?limit=
func (h *Handler) MostUsed(w http.ResponseWriter, r *http.Request) {
	limit := domain.DefaultMostUsedLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondQueryError(w, "GET /services/stats/most-used",
				domain.NewFieldError(handlers.ErrInvalidParam, "limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	items, err := h.service.MostUsed(r.Context(), limit)
	if err != nil {
		h.respondError(w, "GET /services/stats/most-used", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Update PUT /api/v1/services/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PUT /services/{id}")
	if !ok {
		return
	}
	var req ServiceRequest
	if !h.decode(w, r, "PUT /services/{id}", &req) {
		return
	}

	service, err := h.service.Update(r.Context(), id, req.toService())
	if err != nil {
		h.respondError(w, "PUT /services/{id}", err)
		return
	}

	h.logger.Info("PUT /services/{id} - Service updated successfully: service_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, service)
}

// Patch PATCH /api/v1/services/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /services/{id}")
	if !ok {
		return
	}
	var req PatchServiceRequest
	if !h.decode(w, r, "PATCH /services/{id}", &req) {
		return
	}

	service, err := h.service.Patch(r.Context(), id, req.toService())
	if err != nil {
		h.respondError(w, "PATCH /services/{id}", err)
		return
	}

	h.logger.Info("PATCH /services/{id} - Service patched successfully: service_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, service)
}

// Delete DELETE /api/v1/services/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /services/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /services/{id}", err)
		return
	}

	h.logger.Info("DELETE /services/{id} - Service deactivated: service_id=%d", id)
	handlers.RespondNoContent(w)
}

// Restore PATCH /api/v1/services/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /services/{id}/restore")
	if !ok {
		return
	}

	service, err := h.service.Restore(r.Context(), id)
	if err != nil {
		h.respondError(w, "PATCH /services/{id}/restore", err)
		return
	}

	h.logger.Info("PATCH /services/{id}/restore - Service restored: service_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, service)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid service ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
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
	case errors.Is(err, extrasService.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, extrasService.ErrDuplicateService):
		h.logger.Warn("%s - Duplicate service: %v", route, err)
		handlers.RespondConflict(w, msgDuplicate)

	case errors.Is(err, extrasService.ErrServiceInUse):
		h.logger.Warn("%s - Service linked to active reservations", route)
		handlers.RespondConflict(w, msgInUse)

	case errors.Is(err, extrasService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
