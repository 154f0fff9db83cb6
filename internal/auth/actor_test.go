package auth

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/dern-company/support-portal/internal/domain"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

func newActorApp(tokens *TokenManager, extra ...fiber.Handler) (*fiber.App, *domain.Actor) {
	captured := &domain.Actor{}
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})

	handlers := []fiber.Handler{NewActorMiddleware(tokens).Handle}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		actor, _ := ActorFromContext(c)
		*captured = actor
		return c.SendStatus(fiber.StatusOK)
	})
	app.All("/whoami", handlers...)
	return app, captured
}

func TestActorFromQuery(t *testing.T) {
	app, captured := newActorApp(nil)

	req := httptest.NewRequest("GET", "/whoami?userId=alice&userRole=admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", captured.ID)
	require.Equal(t, domain.RoleAdmin, captured.Role)
	require.False(t, captured.Verified)
}

func TestActorFromHeaders(t *testing.T) {
	app, captured := newActorApp(nil)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("user-id", "bob")
	req.Header.Set("user-role", "user")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "bob", captured.ID)
	require.Equal(t, domain.RoleUser, captured.Role)
}

func TestActorFromBody(t *testing.T) {
	app, captured := newActorApp(nil)

	req := httptest.NewRequest("POST", "/whoami", strings.NewReader(`{"userId":"carol","userRole":"user"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "carol", captured.ID)
}

func TestActorQueryWinsOverHeader(t *testing.T) {
	app, captured := newActorApp(nil)

	req := httptest.NewRequest("GET", "/whoami?userId=alice", nil)
	req.Header.Set("user-id", "bob")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", captured.ID)
}

func TestActorBearerTokenTakesPrecedence(t *testing.T) {
	tokens := NewTokenManager("test-secret", 60)
	app, captured := newActorApp(tokens)

	token, _, err := tokens.GenerateToken("dave", domain.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami?userId=alice&userRole=user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "dave", captured.ID)
	require.Equal(t, domain.RoleAdmin, captured.Role)
	require.True(t, captured.Verified)
}

func TestActorInvalidBearerFallsBack(t *testing.T) {
	tokens := NewTokenManager("test-secret", 60)
	app, captured := newActorApp(tokens)

	req := httptest.NewRequest("GET", "/whoami?userId=alice&userRole=user", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", captured.ID)
	require.False(t, captured.Verified)
}

func TestRequireActor(t *testing.T) {
	app, _ := newActorApp(nil, RequireActor())

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/whoami?userId=alice", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app, _ := newActorApp(nil, RequireAdmin())

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/whoami?userId=alice&userRole=user", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/whoami?userId=root&userRole=admin", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
