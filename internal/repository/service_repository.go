package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dern-company/support-portal/internal/domain"
)

// ServiceRepository encapsulates catalog persistence.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, onlyActive bool) ([]domain.Service, error)
	Delete(ctx context.Context, id string) error
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (title, description, price, duration_minutes, category, service_type, is_active, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		service.Title,
		service.Description,
		service.Price,
		service.DurationMinutes,
		service.Category,
		service.ServiceType,
		service.IsActive,
		service.CreatedBy,
	).Scan(&service.ID, &service.Version, &service.CreatedAt, &service.UpdatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET title=$1, description=$2, price=$3, duration_minutes=$4,
            category=$5, service_type=$6, is_active=$7, version=version+1, updated_at=NOW()
        WHERE id=$8 AND version=$9`
	cmd, err := r.pool.Exec(ctx, query,
		service.Title,
		service.Description,
		service.Price,
		service.DurationMinutes,
		service.Category,
		service.ServiceType,
		service.IsActive,
		service.ID,
		service.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, service.ID)
	}
	service.Version++
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	const query = `
        SELECT id, title, description, price, duration_minutes, category, service_type,
               is_active, created_by, version, created_at, updated_at
        FROM services WHERE id=$1`

	var service domain.Service
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.Title,
		&service.Description,
		&service.Price,
		&service.DurationMinutes,
		&service.Category,
		&service.ServiceType,
		&service.IsActive,
		&service.CreatedBy,
		&service.Version,
		&service.CreatedAt,
		&service.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context, onlyActive bool) ([]domain.Service, error) {
	query := `
        SELECT id, title, description, price, duration_minutes, category, service_type,
               is_active, created_by, version, created_at, updated_at
        FROM services`
	if onlyActive {
		query += ` WHERE is_active=TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Service
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(
			&service.ID,
			&service.Title,
			&service.Description,
			&service.Price,
			&service.DurationMinutes,
			&service.Category,
			&service.ServiceType,
			&service.IsActive,
			&service.CreatedBy,
			&service.Version,
			&service.CreatedAt,
			&service.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, service)
	}
	return result, rows.Err()
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) staleOrMissing(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM services WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionConflict
	}
	return pgx.ErrNoRows
}
