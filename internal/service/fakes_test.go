package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/events"
	"github.com/dern-company/support-portal/internal/repository"
)

// In-memory repository fakes. They mirror the CAS behavior of the postgres
// implementations so version races are testable without a database.

type fakeTicketRepo struct {
	seq     int
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.Version = 1
	now := time.Now()
	ticket.CreatedAt, ticket.UpdatedAt = now, now
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	ticket.Version++
	ticket.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stored
	return &copied, nil
}

func (f *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range f.tickets {
		if filter.UserID != nil && ticket.UserID != *filter.UserID {
			continue
		}
		result = append(result, ticket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

type fakeServiceRepo struct {
	seq      int
	services map[string]domain.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[string]domain.Service)}
}

func (f *fakeServiceRepo) Create(_ context.Context, service *domain.Service) error {
	f.seq++
	service.ID = fmt.Sprintf("service-%d", f.seq)
	service.Version = 1
	now := time.Now()
	service.CreatedAt, service.UpdatedAt = now, now
	f.services[service.ID] = *service
	return nil
}

func (f *fakeServiceRepo) Update(_ context.Context, service *domain.Service) error {
	stored, ok := f.services[service.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != service.Version {
		return repository.ErrVersionConflict
	}
	service.Version++
	service.UpdatedAt = time.Now()
	f.services[service.ID] = *service
	return nil
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	stored, ok := f.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stored
	return &copied, nil
}

func (f *fakeServiceRepo) List(_ context.Context, onlyActive bool) ([]domain.Service, error) {
	var result []domain.Service
	for _, service := range f.services {
		if onlyActive && !service.IsActive {
			continue
		}
		result = append(result, service)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeServiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.services[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.services, id)
	return nil
}

type fakeBookingRepo struct {
	seq      int
	bookings map[string]domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]domain.Booking)}
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	f.seq++
	booking.ID = fmt.Sprintf("booking-%d", f.seq)
	booking.Version = 1
	now := time.Now()
	booking.CreatedAt, booking.UpdatedAt = now, now
	stored := *booking
	stored.Service, stored.User = nil, nil
	f.bookings[booking.ID] = stored
	return nil
}

func (f *fakeBookingRepo) Update(_ context.Context, booking *domain.Booking) error {
	stored, ok := f.bookings[booking.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != booking.Version {
		return repository.ErrVersionConflict
	}
	booking.Version++
	booking.UpdatedAt = time.Now()
	next := *booking
	next.Service, next.User = nil, nil
	f.bookings[booking.ID] = next
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	stored, ok := f.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stored
	return &copied, nil
}

func (f *fakeBookingRepo) List(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	var result []domain.Booking
	for _, booking := range f.bookings {
		if filter.UserID != nil && booking.UserID != *filter.UserID {
			continue
		}
		if filter.PopulateUser {
			booking.User = &domain.User{ID: booking.UserID}
		}
		result = append(result, booking)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeBookingRepo) CountOpenByService(_ context.Context, serviceID string) (int64, error) {
	var count int64
	for _, booking := range f.bookings {
		if booking.ServiceID != serviceID {
			continue
		}
		if booking.Status == domain.BookingStatusPending || booking.Status == domain.BookingStatusConfirmed {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := stored
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role domain.UserRole) (int64, error) {
	var count int64
	for _, user := range f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) lastEvent() *events.Event {
	if len(d.published) == 0 {
		return nil
	}
	return &d.published[len(d.published)-1]
}
