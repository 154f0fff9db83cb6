package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dern-company/support-portal/internal/config"
	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/repository"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

const catalogCacheKey = "services:active"

// Cache is the byte-oriented slice of redis the catalog listing needs.
// persistence.KeyValueCache satisfies it in production.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CatalogService manages the bookable service catalog. The public listing is
// cached in redis for a short TTL; any catalog write invalidates the cache.
// Redis being unreachable degrades to straight database reads.
type CatalogService struct {
	services repository.ServiceRepository
	bookings repository.BookingRepository
	cache    Cache
	logger   *zap.Logger
}

// NewCatalogService constructs the service. cache may be nil, which disables
// caching entirely.
func NewCatalogService(services repository.ServiceRepository, bookings repository.BookingRepository, cache Cache, logger *zap.Logger) *CatalogService {
	return &CatalogService{services: services, bookings: bookings, cache: cache, logger: logger}
}

// ServiceCreateInput describes catalog creation payload.
type ServiceCreateInput struct {
	Title           string
	Description     string
	Price           float64
	DurationMinutes int
	Category        string
	ServiceType     domain.ServiceType
}

// ServicePatch describes a partial catalog update. Nil fields are left alone.
type ServicePatch struct {
	Title           *string
	Description     *string
	Price           *float64
	DurationMinutes *int
	Category        *string
	ServiceType     *domain.ServiceType
	IsActive        *bool
}

// List returns active services for public callers, everything for the admin
// management view.
func (s *CatalogService) List(ctx context.Context, publicView bool) ([]domain.Service, error) {
	if publicView {
		if cached, ok := s.readCache(ctx); ok {
			return cached, nil
		}
	}
	services, err := s.services.List(ctx, publicView)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if publicView {
		s.writeCache(ctx, services)
	}
	return services, nil
}

// Get fetches a single catalog entry.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "service")
	}
	return svc, nil
}

// Create adds a catalog entry. Admin-gated at the route; the creator
// reference comes from the actor.
func (s *CatalogService) Create(ctx context.Context, actor domain.Actor, input ServiceCreateInput) (*domain.Service, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required to manage services")
	}
	if fields := validateServiceInput(input); len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid service", fields)
	}

	svc := &domain.Service{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
		Category:        strings.TrimSpace(input.Category),
		ServiceType:     input.ServiceType,
		IsActive:        true,
		CreatedBy:       actor.ID,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateCache(ctx)
	return svc, nil
}

// Update applies a partial patch. Actor-identifying fields never belong in
// the patch; callers strip them before this point.
func (s *CatalogService) Update(ctx context.Context, actor domain.Actor, id string, patch ServicePatch) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "service")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required to manage services")
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperrors.NewValidationError("invalid service", []apperrors.FieldError{{Field: "title", Message: "title cannot be empty"}})
		}
		svc.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return nil, apperrors.NewValidationError("invalid service", []apperrors.FieldError{{Field: "description", Message: "description cannot be empty"}})
		}
		svc.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apperrors.NewValidationError("invalid service", []apperrors.FieldError{{Field: "price", Message: "price must be non-negative"}})
		}
		svc.Price = *patch.Price
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes < 1 {
			return nil, apperrors.NewValidationError("invalid service", []apperrors.FieldError{{Field: "duration", Message: "duration must be at least one minute"}})
		}
		svc.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Category != nil {
		if strings.TrimSpace(*patch.Category) == "" {
			return nil, apperrors.NewValidationError("invalid service", []apperrors.FieldError{{Field: "category", Message: "category cannot be empty"}})
		}
		svc.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.ServiceType != nil {
		if !domain.ValidServiceType(*patch.ServiceType) {
			return nil, apperrors.NewValidationError("invalid service", []apperrors.FieldError{{Field: "serviceType", Message: "invalid service type"}})
		}
		svc.ServiceType = *patch.ServiceType
	}
	if patch.IsActive != nil {
		svc.IsActive = *patch.IsActive
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, mapRepoError(err, "service")
	}
	s.invalidateCache(ctx)
	return svc, nil
}

// Delete removes a catalog entry. Deletion is refused while open (pending or
// confirmed) bookings still reference the service; deactivate instead.
func (s *CatalogService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.services.GetByID(ctx, id); err != nil {
		return mapRepoError(err, "service")
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin access required to manage services")
	}
	open, err := s.bookings.CountOpenByService(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if open > 0 {
		return apperrors.NewConflict("service has open bookings; deactivate it instead of deleting")
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return mapRepoError(err, "service")
	}
	s.invalidateCache(ctx)
	return nil
}

func validateServiceInput(input ServiceCreateInput) []apperrors.FieldError {
	var fields []apperrors.FieldError
	if strings.TrimSpace(input.Title) == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(input.Description) == "" {
		fields = append(fields, apperrors.FieldError{Field: "description", Message: "description is required"})
	}
	if input.Price < 0 {
		fields = append(fields, apperrors.FieldError{Field: "price", Message: "price must be non-negative"})
	}
	if input.DurationMinutes < 1 {
		fields = append(fields, apperrors.FieldError{Field: "duration", Message: "duration must be at least one minute"})
	}
	if strings.TrimSpace(input.Category) == "" {
		fields = append(fields, apperrors.FieldError{Field: "category", Message: "category is required"})
	}
	if !domain.ValidServiceType(input.ServiceType) {
		fields = append(fields, apperrors.FieldError{Field: "serviceType", Message: "invalid service type"})
	}
	return fields
}

func (s *CatalogService) readCache(ctx context.Context) ([]domain.Service, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		return nil, false
	}
	var services []domain.Service
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, false
	}
	return services, true
}

func (s *CatalogService) writeCache(ctx context.Context, services []domain.Service) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, catalogCacheKey, raw, config.CatalogCacheTTL); err != nil {
		s.logger.Debug("catalog cache write failed", zap.Error(err))
	}
}

func (s *CatalogService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogCacheKey); err != nil {
		s.logger.Debug("catalog cache invalidation failed", zap.Error(err))
	}
}
