package usecase

import (
	authdomain "postbox-backend/internal/auth/domain"
	authdto "postbox-backend/internal/auth/dto"
)

// AuthUsecase defines the authentication operations exposed to the API layer
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(token string) (*authdomain.User, error)
	SaveGoogleAccount(userID string, req *authdto.GoogleAccountRequest) error
}
