package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/domain"
)

const actorKey = "auth_actor"

// ActorMiddleware resolves the acting identity for every request. Identity
// and role are read from query string, body and headers, first non-empty
// value winning; a valid bearer token takes precedence over the plain fields.
type ActorMiddleware struct {
	tokens *TokenManager
}

// NewActorMiddleware constructs middleware.
func NewActorMiddleware(tokens *TokenManager) *ActorMiddleware {
	return &ActorMiddleware{tokens: tokens}
}

// actorEnvelope picks the actor fields out of a JSON body without disturbing
// the handler's own parse of the same payload.
type actorEnvelope struct {
	UserID   string `json:"userId"`
	UserRole string `json:"userRole"`
}

// Handle extracts the actor and stores it on the request context. It never
// rejects by itself; RequireActor and RequireAdmin do the gating.
func (m *ActorMiddleware) Handle(c *fiber.Ctx) error {
	actor := domain.Actor{}

	if claims := m.bearerClaims(c); claims != nil {
		actor.ID = claims.UserID
		actor.Role = claims.Role
		actor.Verified = true
	} else {
		var body actorEnvelope
		if len(c.Body()) > 0 {
			_ = c.BodyParser(&body)
		}
		actor.ID = firstNonEmpty(c.Query("userId"), body.UserID, c.Get("user-id"))
		actor.Role = domain.UserRole(firstNonEmpty(c.Query("userRole"), body.UserRole, c.Get("user-role")))
	}

	c.Locals(actorKey, actor)
	return c.Next()
}

func (m *ActorMiddleware) bearerClaims(c *fiber.Ctx) *Claims {
	if m.tokens == nil {
		return nil
	}
	header := c.Get("Authorization")
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}
	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil
	}
	return claims
}

// ActorFromContext retrieves the resolved actor.
func ActorFromContext(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(actorKey).(domain.Actor)
	return actor, ok
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
