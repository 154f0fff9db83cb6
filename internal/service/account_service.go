package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dern-company/support-portal/internal/auth"
	"github.com/dern-company/support-portal/internal/config"
	"github.com/dern-company/support-portal/internal/domain"
	"github.com/dern-company/support-portal/internal/repository"
	apperrors "github.com/dern-company/support-portal/pkg/util"
)

const minPasswordLength = 6

// AccountService coordinates registration, login and account listing.
type AccountService struct {
	users           repository.UserRepository
	tokenMgr        *auth.TokenManager
	bcryptCost      int
	adminSetupToken string
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, users repository.UserRepository) *AccountService {
	return &AccountService{
		users:           users,
		tokenMgr:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:      cfg.Auth.BcryptCost,
		adminSetupToken: cfg.Auth.AdminSetupToken,
	}
}

// Register creates a new customer account.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	return s.createAccount(ctx, name, email, password, domain.RoleUser)
}

// Login authenticates an account and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewValidationError("invalid credentials", nil)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid credentials", nil)
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// CreateAdmin mints an admin account. Open only while no admin exists yet
// (first-run bootstrap) or to callers presenting the configured setup token.
func (s *AccountService) CreateAdmin(ctx context.Context, name, email, password, setupToken string) (*domain.User, string, time.Time, error) {
	admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if admins > 0 && !s.setupTokenMatches(setupToken) {
		return nil, "", time.Time{}, apperrors.NewForbidden("admin creation requires a valid setup token")
	}
	return s.createAccount(ctx, name, email, password, domain.RoleAdmin)
}

// ListUsers returns all accounts, admin-only. Password hashes never leave
// the service layer in responses; the DTO mapping drops them.
func (s *AccountService) ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin access required")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) createAccount(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	var fields []apperrors.FieldError
	if name == "" {
		fields = append(fields, apperrors.FieldError{Field: "name", Message: "name is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, apperrors.FieldError{Field: "email", Message: "please provide a valid email"})
	}
	if len(password) < minPasswordLength {
		fields = append(fields, apperrors.FieldError{Field: "password", Message: "password must be at least 6 characters"})
	}
	if len(fields) > 0 {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid registration", fields)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("user already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

func (s *AccountService) setupTokenMatches(candidate string) bool {
	if s.adminSetupToken == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.adminSetupToken), []byte(candidate)) == 1
}
