package domain

import "time"

// BookingStatus enumerates lifecycle states for service bookings.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether the value is a known status.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// bookingTransitions defines the permitted status moves. Completed and
// cancelled are terminal; a cancelled booking can never be revived.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransitionBooking reports whether a booking may move from current to next.
func CanTransitionBooking(current, next BookingStatus) bool {
	for _, candidate := range bookingTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Booking reserves a Service for a User at a point in time.
type Booking struct {
	ID           string
	ReferenceKey string
	ServiceID    string
	UserID       string
	Date         time.Time
	Notes        string
	Status       BookingStatus
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Populated on reads for list/detail responses.
	Service *Service
	User    *User
}
