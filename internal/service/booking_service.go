package service

import (
	"context"
	"strings"
	"time"

	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/events"
	"github.com/dern-company/support-portal/internal/repository"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// BookingService coordinates service-booking workflows.
type BookingService struct {
	bookings   repository.BookingRepository
	services   repository.ServiceRepository
	dispatcher events.Dispatcher
}

// NewBookingService constructs the service.
func NewBookingService(bookings repository.BookingRepository, services repository.ServiceRepository, dispatcher events.Dispatcher) *BookingService {
	return &BookingService{bookings: bookings, services: services, dispatcher: dispatcher}
}

// BookingCreateInput describes booking creation payload.
type BookingCreateInput struct {
	ServiceID string
	Date      time.Time
	Notes     string
}

// List returns all bookings for admins (service and user populated),
// otherwise only the actor's own (service populated).
func (s *BookingService) List(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	filter := repository.BookingFilter{PopulateUser: actor.IsAdmin()}
	if !actor.IsAdmin() {
		userID := actor.ID
		filter.UserID = &userID
	}
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return bookings, nil
}

// Create books an active service for the actor. Booking an inactive service
// fails before anything is persisted.
func (s *BookingService) Create(ctx context.Context, actor domain.Actor, input BookingCreateInput) (*domain.Booking, error) {
	var fields []apperrors.FieldError
	if strings.TrimSpace(input.ServiceID) == "" {
		fields = append(fields, apperrors.FieldError{Field: "serviceId", Message: "serviceId is required"})
	}
	if input.Date.IsZero() {
		fields = append(fields, apperrors.FieldError{Field: "date", Message: "valid date is required"})
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid booking", fields)
	}

	svc, err := s.services.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, mapRepoError(err, "service")
	}
	if !svc.IsActive {
		return nil, apperrors.NewServiceUnavailable("this service is not currently available")
	}

	booking := &domain.Booking{
		ReferenceKey: generateReferenceKey("BKG"),
		ServiceID:    svc.ID,
		UserID:       actor.ID,
		Date:         input.Date,
		Notes:        strings.TrimSpace(input.Notes),
		Status:       domain.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}
	booking.Service = svc
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventBookingCreated,
		EntityID: booking.ID,
		Actor:    eventActor(actor),
		Payload: events.BookingCreatedPayload{
			ReferenceKey: booking.ReferenceKey,
			ServiceID:    booking.ServiceID,
			Date:         booking.Date,
		},
	})
	return booking, nil
}

// UpdateStatus transitions a booking along the pending, confirmed, completed
// path (or to cancelled). Admin-only; terminal states stay terminal.
func (s *BookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !domain.ValidBookingStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", []apperrors.FieldError{{Field: "status", Message: "invalid status"}})
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "booking")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required to update booking status")
	}
	if status == booking.Status {
		return booking, nil
	}
	if !domain.CanTransitionBooking(booking.Status, status) {
		return nil, apperrors.NewConflict("booking cannot move from " + string(booking.Status) + " to " + string(status))
	}

	oldStatus := booking.Status
	booking.Status = status
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, mapRepoError(err, "booking")
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventBookingStatusChanged,
		EntityID: booking.ID,
		Actor:    eventActor(actor),
		Payload:  events.BookingStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return booking, nil
}

// Cancel sets a booking to cancelled on behalf of its owner or any admin.
// Cancelling twice is a no-op, not an error; completed bookings cannot be
// cancelled.
func (s *BookingService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "booking")
	}
	if !actor.IsAdmin() && booking.UserID != actor.ID {
		return nil, apperrors.NewForbidden("not authorized to cancel this booking")
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, nil
	}
	if booking.Status == domain.BookingStatusCompleted {
		return nil, apperrors.NewConflict("completed bookings cannot be cancelled")
	}

	oldStatus := booking.Status
	booking.Status = domain.BookingStatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, mapRepoError(err, "booking")
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventBookingCancelled,
		EntityID: booking.ID,
		Actor:    eventActor(actor),
		Payload:  events.BookingStatusChangedPayload{OldStatus: oldStatus, NewStatus: booking.Status},
	})
	return booking, nil
}
