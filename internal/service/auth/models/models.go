package models

import (
	"time"

	usersModels "github.com/suldsma/PROGIII-API/internal/service/users/models"
)

// LoginRequest учетные данные
type LoginRequest struct {
	Email    string
	Password string
}

// TokenResponse выданный access токен
type TokenResponse struct {
	AccessToken string                   `json:"accessToken"`
	TokenType   string                   `json:"tokenType"`
	ExpiresAt   time.Time                `json:"expiresAt"`
	User        usersModels.UserResponse `json:"user"`
}
