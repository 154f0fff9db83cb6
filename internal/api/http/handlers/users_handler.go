package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/api/dto"
	"github.com/dern-company/support-portal/internal/auth"
	"github.com/dern-company/support-portal/internal/service"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// UsersHandler manages admin-side account endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// ListUsers GET /users. Admin-only.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user identity required")
	}
	users, err := h.accounts.ListUsers(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.UserFromDomain(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
