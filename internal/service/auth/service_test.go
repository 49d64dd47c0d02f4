package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/suldsma/PROGIII-API/internal/domain"
	"github.com/suldsma/PROGIII-API/internal/infra/storage/memory"
	"github.com/suldsma/PROGIII-API/internal/service/auth/models"
	"github.com/suldsma/PROGIII-API/pkg/jwtauth"
	"github.com/suldsma/PROGIII-API/pkg/logger"
	"github.com/suldsma/PROGIII-API/pkg/password"
)

func newService(t *testing.T) (*Service, *memory.Store, *jwtauth.Manager, *domain.User) {
	t.Helper()
	store := memory.New()
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := jwtauth.NewManager("secret", "test", time.Hour)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	user, err := store.Users().Create(context.Background(), &domain.User{
		FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com",
		PasswordHash: hash, Role: domain.RoleEmployee, Active: true,
	})
	require.NoError(t, err)

	return NewService(store.Users(), hasher, tokens, logger.NewWithWriter(io.Discard, "error")), store, tokens, user
}

func TestService_Login(t *testing.T) {
	svc, _, tokens, user := newService(t)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{Email: " ANA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := tokens.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, int(domain.RoleEmployee), claims.Role)
}

func TestService_Login_Rejected(t *testing.T) {
	svc, store, _, user := newService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, store.Users().SetActive(ctx, user.ID, false))
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_MeAndRefresh(t *testing.T) {
	svc, store, tokens, user := newService(t)
	ctx := context.Background()
	principal := domain.Principal{UserID: user.ID, Role: domain.RoleClient}

	me, err := svc.Me(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)

	// роль берется из хранилища
	refreshed, err := svc.Refresh(ctx, principal)
	require.NoError(t, err)
	claims, err := tokens.Parse(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int(domain.RoleEmployee), claims.Role)

	require.NoError(t, store.Users().SetActive(ctx, user.ID, false))
	_, err = svc.Refresh(ctx, principal)
	assert.ErrorIs(t, err, ErrUserInactive)

	_, err = svc.Me(ctx, domain.Principal{UserID: 404, Role: domain.RoleClient})
	assert.ErrorIs(t, err, ErrUserInactive)
}
