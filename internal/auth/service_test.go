package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_cli/internal/models"
	"github.com/Skotchmaster/shop_cli/internal/otp"
	"github.com/Skotchmaster/shop_cli/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	users := store.New[[]models.User](filepath.Join(dir, "sellers.json"))
	codes := otp.NewService(store.New[map[string]string](filepath.Join(dir, "sms.json")))
	return NewService("seller", users, codes)
}

func TestIsPasswordStrong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "valid", password: "Abcdef1!", want: true},
		{name: "valid with brackets", password: "Secur3}pass", want: true},
		{name: "too short", password: "Ab1!xyz", want: false},
		{name: "no uppercase", password: "abcdef1!", want: false},
		{name: "no lowercase", password: "ABCDEF1!", want: false},
		{name: "no digit", password: "Abcdefg!", want: false},
		{name: "no punctuation", password: "Abcdefg1", want: false},
		{name: "space is not punctuation", password: "Abcdef1 x", want: false},
		{name: "empty", password: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsPasswordStrong(tt.password))
		})
	}
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	user, err := svc.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Abcdef1!", user.Password)
}

func TestService_Register_EmptyUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.Register(context.Background(), "", "Abcdef1!")
	require.ErrorIs(t, err, ErrInvalidUsername)
}

func TestService_Register_WeakPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.Register(context.Background(), "alice", "weak")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Find(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))
	err := svc.Register(ctx, "alice", "Other9$pw")
	require.ErrorIs(t, err, ErrUserExists)

	users, err := svc.Store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed registration must not grow the collection")
}

func TestService_Authenticate_PasswordOnly(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	require.NoError(t, svc.Authenticate(ctx, "alice", "Abcdef1!", ""))

	err := svc.Authenticate(ctx, "alice", "wrongpass", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.Authenticate(ctx, "nobody", "Abcdef1!", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_TwoPhase(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	// Phase one: password only.
	require.NoError(t, svc.Authenticate(ctx, "alice", "Abcdef1!", ""))

	code, err := svc.IssueCode(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, code, 6)

	user, err := svc.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, code, user.PendingCode)

	// Phase two: password plus code.
	require.NoError(t, svc.Authenticate(ctx, "alice", "Abcdef1!", code))

	user, err = svc.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, user.PendingCode, "pending code must be cleared after verification")

	// The code is single use.
	err = svc.Authenticate(ctx, "alice", "Abcdef1!", code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestService_Authenticate_WrongCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	code, err := svc.IssueCode(ctx, "alice")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = svc.Authenticate(ctx, "alice", "Abcdef1!", wrong)
	require.ErrorIs(t, err, ErrInvalidCode)

	// A failed verification keeps the issued code usable.
	require.NoError(t, svc.Authenticate(ctx, "alice", "Abcdef1!", code))
}

func TestService_Authenticate_ReloadsPersistedState(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, "alice", "Abcdef1!"))

	// Out-of-band password change directly through the store.
	err := svc.Store.Update(ctx, func(users []models.User) ([]models.User, error) {
		users[0].Password = "Chang3d$pw"
		return users, nil
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Authenticate(ctx, "alice", "Abcdef1!", ""), ErrInvalidCredentials)
	require.NoError(t, svc.Authenticate(ctx, "alice", "Chang3d$pw", ""))
}

func TestService_IssueCode_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.IssueCode(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_RoleCollectionsAreIndependent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	codes := otp.NewService(store.New[map[string]string](filepath.Join(dir, "sms.json")))
	sellers := NewService("seller", store.New[[]models.User](filepath.Join(dir, "sellers.json")), codes)
	buyers := NewService("buyer", store.New[[]models.User](filepath.Join(dir, "buyers.json")), codes)
	ctx := context.Background()

	require.NoError(t, sellers.Register(ctx, "alice", "Abcdef1!"))
	require.NoError(t, buyers.Register(ctx, "alice", "Other9$pw"), "same username is fine in the other role")

	err := sellers.Register(ctx, "alice", "Third7&pw")
	assert.ErrorIs(t, err, ErrUserExists)
}
