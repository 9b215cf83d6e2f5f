package dto

import (
	"time"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	User AccountResponse `json:"user"`
	TokenResponse
}

func NewTokenResponse(t usecase.TokenPair) TokenResponse {
	return TokenResponse{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
}

func NewAuthResponse(acc user.Account, t usecase.TokenPair) AuthResponse {
	return AuthResponse{
		User:          AccountResponse{ID: acc.ID, Email: acc.Email, CreatedAt: acc.CreatedAt},
		TokenResponse: NewTokenResponse(t),
	}
}
