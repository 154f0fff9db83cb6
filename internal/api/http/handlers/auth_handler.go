package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/api/dto"
	"github.com/dern-company/support-portal/internal/service"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// AuthHandler manages account registration and login endpoints.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.accounts.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"user":    dto.UserFromDomain(user),
		"session": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user":    dto.UserFromDomain(user),
		"session": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}

// CreateAdmin POST /auth/create-admin. Open on first run; afterwards gated by the
// configured setup token.
func (h *AuthHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, exp, err := h.accounts.CreateAdmin(c.UserContext(), req.Name, req.Email, req.Password, req.SetupToken)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"user":    dto.UserFromDomain(user),
		"session": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}})
}
