package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/pkg/apperror"
	"github.com/your-org/storefront-api/internal/pkg/auth"
	"github.com/your-org/storefront-api/internal/pkg/logger"
)

type mockUserRepo struct {
	users map[uuid.UUID]*User
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]User, error) {
	var out []User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

type memoryDenylist map[string]time.Duration

func (d memoryDenylist) Revoke(_ context.Context, id string, ttl time.Duration) error {
	d[id] = ttl
	return nil
}

func (d memoryDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := d[id]
	return ok, nil
}

func newTestService() (*Service, *mockUserRepo, memoryDenylist, *auth.JWTManager) {
	cfg := &config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost, MinPasswordLength: 6},
	}
	repo := &mockUserRepo{users: make(map[uuid.UUID]*User)}
	denylist := memoryDenylist{}
	jwt := auth.NewJWTManager(cfg)
	svc := NewService(repo, denylist, auth.NewPasswordManager(cfg), jwt, logger.Discard())
	return svc, repo, denylist, jwt
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc, _, _, jwt := newTestService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{Name: "Grace", Email: " Grace@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, resp.User.Role)
	assert.Equal(t, "grace@example.com", resp.User.Email)

	claims, err := jwt.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = svc.Register(ctx, &RegisterRequest{Name: "Dup", Email: "grace@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	login, err := svc.Login(ctx, &LoginRequest{Email: "GRACE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.RefreshToken)
}

func TestService_LoginFailures(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, &RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "grace@example.com"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.Login(ctx, &LoginRequest{Email: "grace@example.com", Password: "wrong-one"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestService_RegisterRejectsBadInput(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Name: "X", Email: "not-an-email", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.Register(ctx, &RegisterRequest{Name: "X", Email: "x@example.com", Password: "123"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestService_LogoutRevokesToken(t *testing.T) {
	svc, _, denylist, jwt := newTestService()
	ctx := context.Background()
	resp, err := svc.Register(ctx, &RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := jwt.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	revoked, err := svc.IsTokenRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, denylist[claims.ID], 59*time.Minute)
}

func TestService_RefreshIsSingleUse(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	resp, err := svc.Register(ctx, &RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	_, err = svc.RefreshToken(ctx, resp.RefreshToken)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, err = svc.RefreshToken(ctx, resp.Token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestService_ListUsersOnlyOrdinary(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, &RegisterRequest{Name: "Grace", Email: "grace@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &User{Name: "Root", Email: "root@example.com", Role: RoleAdmin}))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Grace", users[0].Name)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
