package domain

import "time"

// ServiceType enumerates the kinds of bookable offerings.
type ServiceType string

const (
	ServiceTypeRemoteSupport ServiceType = "remote-support"
	ServiceTypeOnSiteSupport ServiceType = "on-site-support"
	ServiceTypeDeviceRepair  ServiceType = "device-repair"
	ServiceTypeDevicePickup  ServiceType = "device-pickup"
	ServiceTypeConsultation  ServiceType = "consultation"
)

// ValidServiceType reports whether the value is a known service type.
func ValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceTypeRemoteSupport, ServiceTypeOnSiteSupport, ServiceTypeDeviceRepair,
		ServiceTypeDevicePickup, ServiceTypeConsultation:
		return true
	}
	return false
}

// Service is a bookable catalog offering. Inactive services stay on record for
// existing bookings but cannot be booked and are hidden from public listings.
type Service struct {
	ID              string
	Title           string
	Description     string
	Price           float64
	DurationMinutes int
	Category        string
	ServiceType     ServiceType
	IsActive        bool
	CreatedBy       string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
