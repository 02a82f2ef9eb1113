package auth

import "context"

// AuthService handles registration and session management. Register creates
// a pending account: the user cannot log in until an admin approves it.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	StreamToken(ctx context.Context) (StreamTokenResponse, error)
}
