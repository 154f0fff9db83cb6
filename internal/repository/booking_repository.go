package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dern-company/support-portal/internal/domain"
)

// BookingFilter captures booking listing parameters. A nil UserID means no
// ownership restriction (admin view); PopulateUser additionally joins the
// owning account for admin listings.
type BookingFilter struct {
	UserID       *string
	PopulateUser bool
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	CountOpenByService(ctx context.Context, serviceID string) (int64, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (reference_key, service_id, user_id, date, notes, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		booking.ReferenceKey,
		booking.ServiceID,
		booking.UserID,
		booking.Date,
		booking.Notes,
		booking.Status,
	).Scan(&booking.ID, &booking.Version, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	const query = `
        UPDATE bookings SET date=$1, notes=$2, status=$3, version=version+1, updated_at=NOW()
        WHERE id=$4 AND version=$5`
	cmd, err := r.pool.Exec(ctx, query,
		booking.Date,
		booking.Notes,
		booking.Status,
		booking.ID,
		booking.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, booking.ID)
	}
	booking.Version++
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, reference_key, service_id, user_id, date, notes, status,
               version, created_at, updated_at
        FROM bookings WHERE id=$1`

	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ReferenceKey,
		&booking.ServiceID,
		&booking.UserID,
		&booking.Date,
		&booking.Notes,
		&booking.Status,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}

// List joins the referenced service so callers always see what was booked.
// When PopulateUser is set the owning account rides along as well.
func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := `
        SELECT b.id, b.reference_key, b.service_id, b.user_id, b.date, b.notes, b.status,
               b.version, b.created_at, b.updated_at,
               s.id, s.title, s.description, s.price, s.duration_minutes, s.category,
               s.service_type, s.is_active, s.created_by, s.version, s.created_at, s.updated_at`
	if filter.PopulateUser {
		query += `,
               u.id, u.name, u.email, u.role, u.created_at, u.updated_at`
	}
	query += `
        FROM bookings b
        JOIN services s ON s.id = b.service_id`
	if filter.PopulateUser {
		query += `
        JOIN users u ON u.id = b.user_id`
	}

	var (
		rows pgx.Rows
		err  error
	)
	if filter.UserID != nil {
		rows, err = r.pool.Query(ctx, query+` WHERE b.user_id=$1 ORDER BY b.created_at DESC`, *filter.UserID)
	} else {
		rows, err = r.pool.Query(ctx, query+` ORDER BY b.created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Booking
	for rows.Next() {
		var (
			booking domain.Booking
			service domain.Service
			user    domain.User
		)
		dest := []any{
			&booking.ID,
			&booking.ReferenceKey,
			&booking.ServiceID,
			&booking.UserID,
			&booking.Date,
			&booking.Notes,
			&booking.Status,
			&booking.Version,
			&booking.CreatedAt,
			&booking.UpdatedAt,
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
		}
		if filter.PopulateUser {
			dest = append(dest,
				&user.ID,
				&user.Name,
				&user.Email,
				&user.Role,
				&user.CreatedAt,
				&user.UpdatedAt,
			)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		booking.Service = &service
		if filter.PopulateUser {
			booking.User = &user
		}
		result = append(result, booking)
	}
	return result, rows.Err()
}

// CountOpenByService counts pending and confirmed bookings that still
// reference the service. Used to guard catalog deletes.
func (r *bookingRepository) CountOpenByService(ctx context.Context, serviceID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM bookings
        WHERE service_id=$1 AND status IN ('pending', 'confirmed')`
	var count int64
	if err := r.pool.QueryRow(ctx, query, serviceID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *bookingRepository) staleOrMissing(ctx context.Context, id string) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrVersionConflict
	}
	return pgx.ErrNoRows
}
