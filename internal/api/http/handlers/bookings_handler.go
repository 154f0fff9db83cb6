package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dern-company/support-portal/internal/api/dto"
	"github.com/dern-company/support-portal/internal/service"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// BookingsHandler manages service-booking endpoints.
type BookingsHandler struct {
	service *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{service: bookingService}
}

// ListBookings GET /bookings. Admins see every booking with the booking user
// populated, everyone else their own.
func (h *BookingsHandler) ListBookings(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	bookings, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.BookingFromDomain(&bookings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateBooking POST /bookings.
func (h *BookingsHandler) CreateBooking(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return apperrors.NewValidationError("invalid booking", []apperrors.FieldError{{Field: "date", Message: "date must be RFC3339"}})
	}
	booking, err := h.service.Create(c.UserContext(), actor, service.BookingCreateInput{
		ServiceID: req.ServiceID,
		Date:      date,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.BookingFromDomain(booking)})
}

// UpdateBookingStatus PATCH /bookings/:id/status. Admin-only.
func (h *BookingsHandler) UpdateBookingStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	booking, err := h.service.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingFromDomain(booking)})
}

// CancelBooking PATCH /bookings/:id/cancel. Owner or admin.
func (h *BookingsHandler) CancelBooking(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	booking, err := h.service.Cancel(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingFromDomain(booking)})
}
