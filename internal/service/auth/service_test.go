package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ems-suite/ems-backend-go/internal/domain/auth"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrEmailExists
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("usr-%d", r.nextID)
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, organization string, filter user.UserFilter) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.users {
		if u.Organization == organization {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ListPending(ctx context.Context, organization string) ([]user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) SetApproval(ctx context.Context, id string, approved bool, active bool) error {
	return nil
}

func (r *fakeUserRepo) AddRewardPoints(ctx context.Context, id string, points int) error {
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeUserRepo) ListSubordinateIDs(ctx context.Context, supervisorID string) ([]string, error) {
	return nil, nil
}

func (r *fakeUserRepo) byEmail(t *testing.T, email string) user.User {
	t.Helper()
	u, err := r.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return u
}

type fakeJWTRepo struct {
	mu      sync.Mutex
	stored  map[string]string // token -> userID
	revoked map[string]bool
}

func newFakeJWTRepo() *fakeJWTRepo {
	return &fakeJWTRepo{stored: make(map[string]string), revoked: make(map[string]bool)}
}

func (r *fakeJWTRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[token] = userID
	return nil
}

func (r *fakeJWTRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}

func (r *fakeJWTRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

func (r *fakeJWTRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, owner := range r.stored {
		if owner == userID {
			r.revoked[token] = true
		}
	}
	return nil
}

type authTestEnv struct {
	service    auth.AuthService
	userRepo   *fakeUserRepo
	jwtRepo    *fakeJWTRepo
	jwtService jwt.Service
}

func newAuthTestEnv() *authTestEnv {
	env := &authTestEnv{
		userRepo:   newFakeUserRepo(),
		jwtRepo:    newFakeJWTRepo(),
		jwtService: jwt.NewJWTService("auth-test-secret", "15m", "168h"),
	}
	env.service = NewAuthService(env.userRepo, env.jwtRepo, env.jwtService)
	return env
}

func registerRequest(email string) auth.RegisterRequest {
	return auth.RegisterRequest{
		Name:         "Test User",
		Email:        email,
		Password:     "secret-password",
		Organization: "acme",
	}
}

func TestRegisterBootstrapsFirstAdmin(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()

	err := env.service.Register(ctx, registerRequest("founder@acme.test"))
	require.NoError(t, err)

	u := env.userRepo.byEmail(t, "founder@acme.test")
	assert.Equal(t, user.RoleAdmin, u.Role)
	assert.True(t, u.IsApproved)
	assert.True(t, u.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-password")))
}

func TestRegisterSecondUserIsPendingEmployee(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()

	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))
	require.NoError(t, env.service.Register(ctx, registerRequest("second@acme.test")))

	u := env.userRepo.byEmail(t, "second@acme.test")
	assert.Equal(t, user.RoleEmployee, u.Role)
	assert.False(t, u.IsApproved)
	assert.True(t, u.IsActive)
}

func TestRegisterValidation(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()

	req := registerRequest("founder@acme.test")
	req.Password = "short"
	assert.Error(t, env.service.Register(ctx, req))

	req = registerRequest("not-an-email")
	assert.Error(t, env.service.Register(ctx, req))

	req = registerRequest("founder@acme.test")
	req.Organization = ""
	assert.Error(t, env.service.Register(ctx, req))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()

	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	err := env.service.Register(ctx, registerRequest("founder@acme.test"))
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestLogin(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	resp, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "founder@acme.test",
		Password: "secret-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "founder@acme.test", resp.User.Email)
	assert.Contains(t, env.jwtRepo.stored, resp.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	_, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "founder@acme.test",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newAuthTestEnv()

	_, err := env.service.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@acme.test",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginPendingAccount(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))
	require.NoError(t, env.service.Register(ctx, registerRequest("second@acme.test")))

	_, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "second@acme.test",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, user.ErrUserNotApproved)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	u := env.userRepo.byEmail(t, "founder@acme.test")
	u.IsActive = false
	require.NoError(t, env.userRepo.Update(ctx, u))

	_, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "founder@acme.test",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestRefreshToken(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	login, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "founder@acme.test",
		Password: "secret-password",
	})
	require.NoError(t, err)

	resp, err := env.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	login, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "founder@acme.test",
		Password: "secret-password",
	})
	require.NoError(t, err)

	// An access token must not work as a refresh token.
	_, err = env.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshTokenAfterLogout(t *testing.T) {
	env := newAuthTestEnv()
	ctx := context.Background()
	require.NoError(t, env.service.Register(ctx, registerRequest("founder@acme.test")))

	login, err := env.service.Login(ctx, auth.LoginRequest{
		Email:    "founder@acme.test",
		Password: "secret-password",
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(ctx, login.RefreshToken))

	_, err = env.service.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshTokenGarbage(t *testing.T) {
	env := newAuthTestEnv()

	_, err := env.service.RefreshToken(context.Background(), auth.RefreshTokenRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = env.service.RefreshToken(context.Background(), auth.RefreshTokenRequest{})
	assert.Error(t, err)
}

func TestStreamToken(t *testing.T) {
	env := newAuthTestEnv()

	token, _, err := env.jwtService.JWTAuth().Encode(map[string]interface{}{
		"user_id": "usr-1",
		"type":    "access",
	})
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	resp, err := env.service.StreamToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.StreamToken)
	assert.Greater(t, resp.ExpiresIn, 0)

	userID, err := env.jwtService.ValidateStreamToken(resp.StreamToken)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", userID)
}
