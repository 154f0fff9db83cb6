package dto

import (
	"time"

	"github.com/dern-company/support-portal/internal/domain"
)

// CreateBookingRequest payload. Date is RFC3339.
type CreateBookingRequest struct {
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}

// UpdateBookingStatusRequest payload.
type UpdateBookingStatusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

// BookingResponse is the wire shape of a booking. Service is populated on
// every read; User only in the admin listing.
type BookingResponse struct {
	ID           string               `json:"id"`
	ReferenceKey string               `json:"reference_key"`
	ServiceID    string               `json:"serviceId"`
	Service      *ServiceResponse     `json:"service,omitempty"`
	UserID       string               `json:"userId"`
	User         *UserResponse        `json:"user,omitempty"`
	Date         time.Time            `json:"date"`
	Notes        string               `json:"notes,omitempty"`
	Status       domain.BookingStatus `json:"status"`
	Version      int64                `json:"version"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// BookingFromDomain maps a domain booking to its response shape.
func BookingFromDomain(booking *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:           booking.ID,
		ReferenceKey: booking.ReferenceKey,
		ServiceID:    booking.ServiceID,
		UserID:       booking.UserID,
		Date:         booking.Date,
		Notes:        booking.Notes,
		Status:       booking.Status,
		Version:      booking.Version,
		CreatedAt:    booking.CreatedAt,
		UpdatedAt:    booking.UpdatedAt,
	}
	if booking.Service != nil {
		service := ServiceFromDomain(booking.Service)
		resp.Service = &service
	}
	if booking.User != nil {
		user := UserFromDomain(booking.User)
		resp.User = &user
	}
	return resp
}
