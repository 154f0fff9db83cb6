package dto

import (
	"time"

	"github.com/dern-company/support-portal/internal/domain"
)

// CreateServiceRequest payload. Duration is minutes.
type CreateServiceRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Duration    int                `json:"duration"`
	Category    string             `json:"category"`
	ServiceType domain.ServiceType `json:"serviceType"`
}

// UpdateServiceRequest payload; absent fields are left untouched.
type UpdateServiceRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Price       *float64            `json:"price"`
	Duration    *int                `json:"duration"`
	Category    *string             `json:"category"`
	ServiceType *domain.ServiceType `json:"serviceType"`
	IsActive    *bool               `json:"isActive"`
}

// ServiceResponse is the wire shape of a catalog entry.
type ServiceResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Duration    int                `json:"duration"`
	Category    string             `json:"category"`
	ServiceType domain.ServiceType `json:"serviceType"`
	IsActive    bool               `json:"isActive"`
	CreatedBy   string             `json:"createdBy"`
	Version     int64              `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ServiceFromDomain maps a domain service to its response shape.
func ServiceFromDomain(service *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID,
		Title:       service.Title,
		Description: service.Description,
		Price:       service.Price,
		Duration:    service.DurationMinutes,
		Category:    service.Category,
		ServiceType: service.ServiceType,
		IsActive:    service.IsActive,
		CreatedBy:   service.CreatedBy,
		Version:     service.Version,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}
