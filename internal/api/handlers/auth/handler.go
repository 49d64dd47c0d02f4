package auth

import (
	"errors"
	"net/http"

	"github.com/suldsma/PROGIII-API/internal/api/handlers"
	"github.com/suldsma/PROGIII-API/internal/domain"
	authService "github.com/suldsma/PROGIII-API/internal/service/auth"
	"github.com/suldsma/PROGIII-API/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCredentials = "неверный email или пароль"
	msgUnauthorized       = "требуется авторизация"
	msgUserInactive       = "пользователь не найден или деактивирован"
)

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Login POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		if !handlers.RespondValidationError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		}
		return
	}

	token, err := h.service.Login(r.Context(), &models.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		if handlers.RespondValidationError(w, err) {
			return
		}
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		default:
			h.logger.Error("POST /auth/login - Failed to log in: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, token)
}

// Me GET /api/v1/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	user, err := h.service.Me(r.Context(), principal)
	if err != nil {
		h.respondPrincipalError(w, "GET /auth/me", principal, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}

// Refresh POST /api/v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	principal, ok := handlers.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	token, err := h.service.Refresh(r.Context(), principal)
	if err != nil {
		h.respondPrincipalError(w, "POST /auth/refresh", principal, err)
		return
	}

	h.logger.Info("POST /auth/refresh - Token refreshed: user_id=%d", principal.UserID)
	handlers.RespondJSON(w, http.StatusOK, token)
}

func (h *Handler) respondPrincipalError(w http.ResponseWriter, route string, principal domain.Principal, err error) {
	switch {
	case errors.Is(err, authService.ErrUserInactive):
		h.logger.Warn("%s - User inactive: user_id=%d", route, principal.UserID)
		handlers.RespondUnauthorized(w, msgUserInactive)

	default:
		h.logger.Error("%s - Unexpected error: user_id=%d, error=%v", route, principal.UserID, err)
		handlers.RespondInternalError(w)
	}
}
