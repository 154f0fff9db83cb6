package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/domain"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// RequireActor ensures the caller supplied an identity.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok || actor.ID == "" {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller asserted the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok || actor.ID == "" {
			return apperrors.NewUnauthorized("authentication required")
		}
		if actor.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}
