package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dern-company/support-portal/internal/config"
	"github.com/dern-company/support-portal/internal/domain"
)

func newAccountFixture() (*AccountService, *fakeUserRepo) {
	users := newFakeUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			AdminSetupToken:       "setup-token",
		},
	}
	return NewAccountService(cfg, users), users
}

func TestAccountRegister(t *testing.T) {
	svc, _ := newAccountFixture()

	user, token, exp, err := svc.Register(context.Background(), "Alice", "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "hunter22", user.PasswordHash)
	require.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, domain.RoleUser, claims.Role)
}

func TestAccountRegisterValidation(t *testing.T) {
	svc, _ := newAccountFixture()

	_, _, _, err := svc.Register(context.Background(), "", "not-an-email", "short")
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestAccountRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAccountFixture()

	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Other Alice", "alice@example.com", "hunter22")
	requireDomainCode(t, err, "CONFLICT")
}

func TestAccountLogin(t *testing.T) {
	svc, _ := newAccountFixture()
	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "ALICE@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEmpty(t, token)

	_, _, _, err = svc.Login(context.Background(), "alice@example.com", "wrong-password")
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestAccountCreateAdmin(t *testing.T) {
	svc, _ := newAccountFixture()

	// First admin bootstraps without a setup token.
	first, _, _, err := svc.CreateAdmin(context.Background(), "Root", "root@example.com", "hunter22", "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, first.Role)

	_, _, _, err = svc.CreateAdmin(context.Background(), "Mallory", "mallory@example.com", "hunter22", "")
	requireDomainCode(t, err, "FORBIDDEN")

	_, _, _, err = svc.CreateAdmin(context.Background(), "Mallory", "mallory@example.com", "hunter22", "wrong-token")
	requireDomainCode(t, err, "FORBIDDEN")

	second, _, _, err := svc.CreateAdmin(context.Background(), "Second", "second@example.com", "hunter22", "setup-token")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, second.Role)
}

func TestAccountListUsers(t *testing.T) {
	svc, _ := newAccountFixture()
	_, _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	_, _, _, err = svc.Register(context.Background(), "Bob", "bob@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.ListUsers(context.Background(), userActor("alice"))
	requireDomainCode(t, err, "FORBIDDEN")

	users, err := svc.ListUsers(context.Background(), adminActor("root"))
	require.NoError(t, err)
	require.Len(t, users, 2)
}
