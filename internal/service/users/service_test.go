package users

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
	"github.com/suldsma/PROGIII-API/internal/service/users/models"
	"github.com/suldsma/PROGIII-API/pkg/logger"
	"github.com/suldsma/PROGIII-API/pkg/password"
	"github.com/suldsma/PROGIII-API/pkg/ptr"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewService(
		store.Users(),
		store.Reservations(),
		password.NewHasher(bcrypt.MinCost),
		store,
		logger.NewWithWriter(io.Discard, "error"),
	)
	return svc, store
}

func clientRequest(email string) *models.UserRequest {
	return &models.UserRequest{
		FirstName: "Ana",
		LastName:  "Pérez",
		Email:     email,
		Password:  "secret1",
		Role:      domain.RoleClient,
	}
}

func TestService_Create(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, clientRequest(" Ana@Example.com "))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "CLIENT", user.RoleName)

	stored, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	_, err = svc.Create(ctx, clientRequest("ANA@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name  string
		mod   func(r *models.UserRequest)
		field string
	}{
		{"no first name", func(r *models.UserRequest) { r.FirstName = " " }, "firstName"},
		{"bad email", func(r *models.UserRequest) { r.Email = "not-an-email" }, "email"},
		{"bad role", func(r *models.UserRequest) { r.Role = 9 }, "role"},
		{"short password", func(r *models.UserRequest) { r.Password = "123" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := clientRequest("a@b.com")
			tt.mod(req)

			_, err := svc.Create(context.Background(), req)

			require.ErrorIs(t, err, ErrInvalidInput)
			var fieldErr *domain.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestService_Patch_KeepsPassword(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, clientRequest("ana@example.com"))
	require.NoError(t, err)
	before, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)

	patched, err := svc.Patch(ctx, user.ID, &models.PatchUserRequest{Phone: ptr.Ptr("+54 351 000")})
	require.NoError(t, err)
	assert.Equal(t, "+54 351 000", *patched.Phone)

	after, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestService_DeleteAndRestore(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, clientRequest("ana@example.com"))
	require.NoError(t, err)
	res, err := store.Reservations().Create(ctx, &domain.Reservation{
		ClientID: user.ID, HallID: 1, TimeSlotID: 1,
		Date: time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), Status: domain.StatusPending,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, user.ID), ErrUserInUse)

	require.NoError(t, store.Reservations().UpdateStatus(ctx, res.ID, domain.StatusPending, domain.StatusCancelled))
	require.NoError(t, svc.Delete(ctx, user.ID))
	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = svc.GetByID(ctx, user.ID, false)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// email освободился
	_, err = svc.Create(ctx, clientRequest("ana@example.com"))
	require.NoError(t, err)

	_, err = svc.Restore(ctx, user.ID)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_Stats(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	admin := clientRequest("admin@example.com")
	admin.Role = domain.RoleAdmin
	_, err := svc.Create(ctx, admin)
	require.NoError(t, err)
	c1, err := svc.Create(ctx, clientRequest("c1@example.com"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, clientRequest("c2@example.com"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c1.ID))

	stats, err := svc.Stats(ctx)

	require.NoError(t, err)
	byRole := make(map[domain.Role]models.RoleStatsResponse)
	for _, s := range stats {
		byRole[s.Role] = s
	}
	assert.Equal(t, 1, byRole[domain.RoleAdmin].Active)
	assert.Equal(t, 2, byRole[domain.RoleClient].Total)
	assert.Equal(t, 1, byRole[domain.RoleClient].Inactive)
	assert.Equal(t, "CLIENT", byRole[domain.RoleClient].RoleName)
}

func TestService_List_InvalidRole(t *testing.T) {
	svc, _ := newService(t)
	role := domain.Role(7)

	_, err := svc.List(context.Background(), &models.ListUsersRequest{Role: &role})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
