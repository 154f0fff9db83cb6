package service

import (
	"context"
	"strings"

	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/events"
	"github.com/dern-company/support-portal/internal/repository"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

// TicketService coordinates support-ticket workflows. Reads are scoped to the
// owner or any admin; every write is admin-only.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketPatch describes a partial ticket update. Nil fields are left alone.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
}

// List returns all tickets for admins, otherwise only the actor's own,
// newest first.
func (s *TicketService) List(ctx context.Context, actor domain.Actor) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{}
	if !actor.IsAdmin() {
		userID := actor.ID
		filter.UserID = &userID
	}
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Create files a new ticket owned by the actor. Status always starts new.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	var fields []apperrors.FieldError
	if strings.TrimSpace(input.Title) == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(input.Description) == "" {
		fields = append(fields, apperrors.FieldError{Field: "description", Message: "description is required"})
	}
	if !domain.ValidTicketPriority(input.Priority) {
		fields = append(fields, apperrors.FieldError{Field: "priority", Message: "invalid priority"})
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", fields)
	}

	ticket := &domain.Ticket{
		ReferenceKey: generateReferenceKey("TCK"),
		UserID:       actor.ID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusNew,
		Priority:     input.Priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketCreatedPayload{
			ReferenceKey: ticket.ReferenceKey,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// Get fetches a ticket, restricted to the owner or any admin.
func (s *TicketService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if !actor.IsAdmin() && ticket.UserID != actor.ID {
		return nil, apperrors.NewForbidden("not authorized to view this ticket")
	}
	return ticket, nil
}

// Update applies a partial patch. Ownership alone does not grant edit rights;
// only admins may update tickets.
func (s *TicketService) Update(ctx context.Context, actor domain.Actor, id string, patch TicketPatch) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required to update tickets")
	}

	oldStatus := ticket.Status
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperrors.NewValidationError("invalid ticket", []apperrors.FieldError{{Field: "title", Message: "title cannot be empty"}})
		}
		ticket.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, apperrors.NewValidationError("invalid ticket", []apperrors.FieldError{{Field: "description", Message: "description cannot be empty"}})
		}
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		if !domain.ValidTicketPriority(*patch.Priority) {
			return nil, apperrors.NewValidationError("invalid ticket", []apperrors.FieldError{{Field: "priority", Message: "invalid priority"}})
		}
		ticket.Priority = *patch.Priority
	}
	if patch.Status != nil && *patch.Status != ticket.Status {
		if !domain.ValidTicketStatus(*patch.Status) {
			return nil, apperrors.NewValidationError("invalid ticket", []apperrors.FieldError{{Field: "status", Message: "invalid status"}})
		}
		if !domain.CanTransitionTicket(ticket.Status, *patch.Status) {
			return nil, apperrors.NewConflict("ticket cannot move from " + string(ticket.Status) + " to " + string(*patch.Status))
		}
		ticket.Status = *patch.Status
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if ticket.Status != oldStatus {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:     events.EventTicketStatusChanged,
			EntityID: ticket.ID,
			Actor:    eventActor(actor),
			Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: ticket.Status},
		})
	}
	return ticket, nil
}

// UpdateStatus transitions a ticket. Moving to in-progress with no assignee
// auto-assigns the acting admin.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", []apperrors.FieldError{{Field: "status", Message: "invalid status"}})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required to update ticket status")
	}
	if status == ticket.Status {
		return ticket, nil
	}
	if !domain.CanTransitionTicket(ticket.Status, status) {
		return nil, apperrors.NewConflict("ticket cannot move from " + string(ticket.Status) + " to " + string(status))
	}

	oldStatus := ticket.Status
	ticket.Status = status
	if status == domain.TicketStatusInProgress && ticket.AssigneeID == nil {
		assignee := actor.ID
		ticket.AssigneeID = &assignee
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketStatusChanged,
		EntityID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.TicketStatusChangedPayload{OldStatus: oldStatus, NewStatus: status},
	})
	return ticket, nil
}

// Assign sets the acting admin as assignee. A fresh ticket auto-advances to
// in-progress so triage and pickup stay one step.
func (s *TicketService) Assign(ctx context.Context, actor domain.Actor, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required to assign tickets")
	}

	assignee := actor.ID
	ticket.AssigneeID = &assignee
	if ticket.Status == domain.TicketStatusNew {
		ticket.Status = domain.TicketStatusInProgress
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapRepoError(err, "ticket")
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		EntityID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee},
	})
	return ticket, nil
}

// Delete permanently removes a ticket. Admin-only; there is no soft delete.
func (s *TicketService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.tickets.GetByID(ctx, id); err != nil {
		return mapRepoError(err, "ticket")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin access required to delete tickets")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapRepoError(err, "ticket")
	}
	return nil
}
