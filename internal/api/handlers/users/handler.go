package users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/domain"
	usersService "github.com/suldsma/PROGIII-API/internal/service/users"
	"github.com/suldsma/PROGIII-API/internal/service/users/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidUserID      = "некорректный ID пользователя"
	msgInvalidQuery       = "некорректные параметры запроса"
	msgNotFound           = "пользователь не найден"
	msgDuplicateEmail     = "email уже используется"
	msgInUse              = "у клиента есть активные бронирования"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !h.decode(w, r, "POST /users", &req) {
		return
	}

	user, err := h.service.Create(r.Context(), req.toService())
	if err != nil {
		h.respondError(w, "POST /users", err)
		return
	}

	h.logger.Info("POST /users - User created successfully: user_id=%d, role=%s", user.ID, user.RoleName)
	handlers.RespondJSON(w, http.StatusCreated, user)
}

// Get GET /api/v1/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "GET /users/{id}")
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), id, true)
	if err != nil {
		h.respondError(w, "GET /users/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}

// List GET /api/v1/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		h.logger.Warn("GET /users - Invalid query: %v", err)
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidQuery)
		}
		return
	}

	list, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "GET /users", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Stats GET /api/v1/users/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondError(w, "GET /users/stats", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Update PUT /api/v1/users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PUT /users/{id}")
	if !ok {
		return
	}
	var req UserRequest
	if !h.decode(w, r, "PUT /users/{id}", &req) {
		return
	}

	user, err := h.service.Update(r.Context(), id, req.toService())
	if err != nil {
		h.respondError(w, "PUT /users/{id}", err)
		return
	}

	h.logger.Info("PUT /users/{id} - User updated successfully: user_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, user)
}

// Patch PATCH /api/v1/users/{id}
func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /users/{id}")
	if !ok {
		return
	}
	var req PatchUserRequest
	if !h.decode(w, r, "PATCH /users/{id}", &req) {
		return
	}

	user, err := h.service.Patch(r.Context(), id, req.toService())
	if err != nil {
		h.respondError(w, "PATCH /users/{id}", err)
		return
	}

	h.logger.Info("PATCH /users/{id} - User patched successfully: user_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, user)
}

// Delete DELETE /api/v1/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "DELETE /users/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, "DELETE /users/{id}", err)
		return
	}

	h.logger.Info("DELETE /users/{id} - User deactivated: user_id=%d", id)
	handlers.RespondNoContent(w)
}

// Restore PATCH /api/v1/users/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "PATCH /users/{id}/restore")
	if !ok {
		return
	}

	user, err := h.service.Restore(r.Context(), id)
	if err != nil {
		h.respondError(w, "PATCH /users/{id}/restore", err)
		return
	}

	h.logger.Info("PATCH /users/{id}/restore - User restored: user_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, user)
}

// parseListQuery читает page, limit, search, role и includeInactive
func parseListQuery(r *http.Request) (*models.ListUsersRequest, error) {
	page, err := handlers.QueryPage(r)
	if err != nil {
		return nil, err
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		return nil, err
	}

	req := &models.ListUsersRequest{
		Page:            page,
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
		IncludeInactive: includeInactive,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
		n, err := strconv.Atoi(raw)
		role := domain.Role(n)
		if err != nil || !role.IsValid() {
			return nil, domain.NewFieldError(handlers.ErrInvalidParam, "role", "must be 1, 2 or 3")
		}
		req.Role = &role
	}
	return req, nil
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		h.logger.Warn("%s - Invalid user ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
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

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	if handlers.RespondValidationError(w, err) {
		h.logger.Warn("%s - Invalid input: %v", route, err)
		return
	}

	switch {
	case errors.Is(err, usersService.ErrUserNotFound):
		h.logger.Warn("%s - User not found", route)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, usersService.ErrDuplicateEmail):
		h.logger.Warn("%s - Duplicate email", route)
		handlers.RespondConflict(w, msgDuplicateEmail)

	case errors.Is(err, usersService.ErrUserInUse):
		h.logger.Warn("%s - User has active reservations", route)
		handlers.RespondConflict(w, msgInUse)

	case errors.Is(err, usersService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)

	default:
		h.logger.Error("%s - Unexpected error: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
