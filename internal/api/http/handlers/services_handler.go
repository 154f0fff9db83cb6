package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/api/dto"
	"github.com/dern-company/support-portal/internal/auth"
	"github.com/dern-company/support-portal/internal/service"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// ServicesHandler manages catalog endpoints.
type ServicesHandler struct {
	service *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalogService *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{service: catalogService}
}

// ListServices GET /services. Public callers see active entries only; admins
// asking for ?all=true get the full management view.
func (h *ServicesHandler) ListServices(c *fiber.Ctx) error {
	publicView := true
	if actor, ok := auth.ActorFromContext(c); ok && actor.IsAdmin() && c.Query("all") == "true" {
		publicView = false
	}
	services, err := h.service.List(c.UserContext(), publicView)
	if err != nil {
		return err
	}
	items := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, dto.ServiceFromDomain(&services[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetService GET /services/:id.
func (h *ServicesHandler) GetService(c *fiber.Ctx) error {
	svc, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ServiceFromDomain(svc)})
}

// CreateService POST /services. Admin-only.
func (h *ServicesHandler) CreateService(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	svc, err := h.service.Create(c.UserContext(), actor, service.ServiceCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.Duration,
		Category:        req.Category,
		ServiceType:     req.ServiceType,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ServiceFromDomain(svc)})
}

// UpdateService PUT /services/:id. Admin-only partial update; the actor
// fields riding along in the body never reach the patch.
func (h *ServicesHandler) UpdateService(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	svc, err := h.service.Update(c.UserContext(), actor, c.Params("id"), service.ServicePatch{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.Duration,
		Category:        req.Category,
		ServiceType:     req.ServiceType,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ServiceFromDomain(svc)})
}

// DeleteService DELETE /services/:id. Admin-only; refused while open bookings
// reference the service.
func (h *ServicesHandler) DeleteService(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
