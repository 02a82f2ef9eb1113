package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ems-suite/ems-backend-go/internal/domain/auth"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-suite/ems-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo   user.UserRepository
	jwtRepo    postgresql.JWTRepository
	jwtService jwt.Service
}

func NewAuthService(userRepo user.UserRepository, jwtRepo postgresql.JWTRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		jwtRepo:    jwtRepo,
		jwtService: jwtService,
	}
}

// Register implements auth.AuthService. New accounts start unapproved and
// wait for an admin; the first account of an organization bootstraps as an
// approved admin so someone can do the approving.
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, total, err := s.userRepo.List(ctx, req.Organization, user.UserFilter{Page: 1, Limit: 1})
	if err != nil {
		return fmt.Errorf("failed to check organization members: %w", err)
	}

	newUser := user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleEmployee,
		Organization: req.Organization,
		Department:   req.Department,
		Position:     req.Position,
		Phone:        req.Phone,
		IsApproved:   false,
		IsActive:     true,
	}
	if total == 0 {
		newUser.Role = user.RoleAdmin
		newUser.IsApproved = true
	}

	if _, err := s.userRepo.Create(ctx, newUser); err != nil {
		return err
	}
	return nil
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !u.IsActive {
		return auth.TokenResponse{}, user.ErrUserInactive
	}
	if !u.IsApproved {
		return auth.TokenResponse{}, user.ErrUserNotApproved
	}

	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role, u.Organization)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.jwtRepo.CreateRefreshToken(ctx, u.ID, refreshToken, refreshExp); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresIn:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExp,
		User:                  user.ToResponse(u),
	}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	s.jwtService.RevokeToken(refreshToken)
	if err := s.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	token, err := s.jwtService.JWTAuth().Decode(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if err := jwxjwt.Validate(token); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	if s.jwtService.IsTokenRevoked(req.RefreshToken) {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	revoked, err := s.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if !u.IsActive || !u.IsApproved {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role, u.Organization)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: accessExp,
	}, nil
}

// StreamToken implements auth.AuthService.
func (s *AuthServiceImpl) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return auth.StreamTokenResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	token, expiresIn, err := s.jwtService.GenerateStreamToken(userID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}

	return auth.StreamTokenResponse{
		StreamToken: token,
		ExpiresIn:   expiresIn,
	}, nil
}
