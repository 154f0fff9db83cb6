package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/events"
)

type bookingFixture struct {
	svc        *BookingService
	bookings   *fakeBookingRepo
	services   *fakeServiceRepo
	dispatcher *recordingDispatcher
}

func newBookingFixture(t *testing.T) (*bookingFixture, *domain.Service) {
	t.Helper()
	bookings := newFakeBookingRepo()
	services := newFakeServiceRepo()
	dispatcher := &recordingDispatcher{}

	offering := &domain.Service{
		Title:           "remote troubleshooting",
		Description:     "screen-share session with a technician",
		Price:           49,
		DurationMinutes: 30,
		Category:        "support",
		ServiceType:     domain.ServiceTypeRemoteSupport,
		IsActive:        true,
		CreatedBy:       "root",
	}
	require.NoError(t, services.Create(context.Background(), offering))

	return &bookingFixture{
		svc:        NewBookingService(bookings, services, dispatcher),
		bookings:   bookings,
		services:   services,
		dispatcher: dispatcher,
	}, offering
}

func (f *bookingFixture) book(t *testing.T, actor domain.Actor, serviceID string) *domain.Booking {
	t.Helper()
	booking, err := f.svc.Create(context.Background(), actor, BookingCreateInput{
		ServiceID: serviceID,
		Date:      time.Now().Add(48 * time.Hour),
		Notes:     "afternoon preferred",
	})
	require.NoError(t, err)
	return booking
}

func TestBookingCreate(t *testing.T) {
	fixture, offering := newBookingFixture(t)

	booking := fixture.book(t, userActor("alice"), offering.ID)

	require.Equal(t, domain.BookingStatusPending, booking.Status)
	require.Equal(t, "alice", booking.UserID)
	require.Equal(t, "BKG-", booking.ReferenceKey[:4])
	require.NotNil(t, booking.Service)
	require.Equal(t, offering.ID, booking.Service.ID)
	require.Equal(t, events.EventBookingCreated, fixture.dispatcher.lastEvent().Type)
}

func TestBookingCreateInactiveService(t *testing.T) {
	fixture, offering := newBookingFixture(t)

	stored := fixture.services.services[offering.ID]
	stored.IsActive = false
	fixture.services.services[offering.ID] = stored

	_, err := fixture.svc.Create(context.Background(), userActor("alice"), BookingCreateInput{
		ServiceID: offering.ID,
		Date:      time.Now().Add(24 * time.Hour),
	})
	requireDomainCode(t, err, "SERVICE_UNAVAILABLE")
	require.Empty(t, fixture.bookings.bookings)
}

func TestBookingCreateUnknownService(t *testing.T) {
	fixture, _ := newBookingFixture(t)

	_, err := fixture.svc.Create(context.Background(), userActor("alice"), BookingCreateInput{
		ServiceID: "missing",
		Date:      time.Now().Add(24 * time.Hour),
	})
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestBookingCreateValidation(t *testing.T) {
	fixture, _ := newBookingFixture(t)

	_, err := fixture.svc.Create(context.Background(), userActor("alice"), BookingCreateInput{})
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestBookingListScoping(t *testing.T) {
	fixture, offering := newBookingFixture(t)
	fixture.book(t, userActor("alice"), offering.ID)
	fixture.book(t, userActor("bob"), offering.ID)

	own, err := fixture.svc.List(context.Background(), userActor("alice"))
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Nil(t, own[0].User)

	all, err := fixture.svc.List(context.Background(), adminActor("root"))
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, booking := range all {
		require.NotNil(t, booking.User)
	}
}

func TestBookingUpdateStatus(t *testing.T) {
	fixture, offering := newBookingFixture(t)
	booking := fixture.book(t, userActor("alice"), offering.ID)

	_, err := fixture.svc.UpdateStatus(context.Background(), userActor("alice"), booking.ID, domain.BookingStatusConfirmed)
	requireDomainCode(t, err, "FORBIDDEN")

	_, err = fixture.svc.UpdateStatus(context.Background(), adminActor("root"), booking.ID, domain.BookingStatusCompleted)
	requireDomainCode(t, err, "CONFLICT")

	confirmed, err := fixture.svc.UpdateStatus(context.Background(), adminActor("root"), booking.ID, domain.BookingStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)
	require.Equal(t, events.EventBookingStatusChanged, fixture.dispatcher.lastEvent().Type)

	completed, err := fixture.svc.UpdateStatus(context.Background(), adminActor("root"), booking.ID, domain.BookingStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCompleted, completed.Status)
}

func TestBookingUpdateStatusInvalidValue(t *testing.T) {
	fixture, offering := newBookingFixture(t)
	booking := fixture.book(t, userActor("alice"), offering.ID)

	_, err := fixture.svc.UpdateStatus(context.Background(), adminActor("root"), booking.ID, "scheduled")
	requireDomainCode(t, err, "VALIDATION_FAILED")
}

func TestBookingCancel(t *testing.T) {
	fixture, offering := newBookingFixture(t)
	booking := fixture.book(t, userActor("alice"), offering.ID)

	_, err := fixture.svc.Cancel(context.Background(), userActor("bob"), booking.ID)
	requireDomainCode(t, err, "FORBIDDEN")

	cancelled, err := fixture.svc.Cancel(context.Background(), userActor("alice"), booking.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	require.Equal(t, events.EventBookingCancelled, fixture.dispatcher.lastEvent().Type)

	// Cancelling again is a no-op, not an error.
	published := len(fixture.dispatcher.published)
	again, err := fixture.svc.Cancel(context.Background(), userActor("alice"), booking.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCancelled, again.Status)
	require.Len(t, fixture.dispatcher.published, published)
}

func TestBookingCancelByAdmin(t *testing.T) {
	fixture, offering := newBookingFixture(t)
	booking := fixture.book(t, userActor("alice"), offering.ID)

	cancelled, err := fixture.svc.Cancel(context.Background(), adminActor("root"), booking.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
}

func TestBookingCancelCompleted(t *testing.T) {
	fixture, offering := newBookingFixture(t)
	booking := fixture.book(t, userActor("alice"), offering.ID)

	_, err := fixture.svc.UpdateStatus(context.Background(), adminActor("root"), booking.ID, domain.BookingStatusConfirmed)
	require.NoError(t, err)
	_, err = fixture.svc.UpdateStatus(context.Background(), adminActor("root"), booking.ID, domain.BookingStatusCompleted)
	require.NoError(t, err)

	_, err = fixture.svc.Cancel(context.Background(), userActor("alice"), booking.ID)
	requireDomainCode(t, err, "CONFLICT")
}
