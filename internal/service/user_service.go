package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pollution-service/internal/auth"
	"github.com/spec-kit/pollution-service/internal/config"
	"github.com/spec-kit/pollution-service/internal/domain"
	"github.com/spec-kit/pollution-service/internal/repository"
	apperrors "github.com/spec-kit/pollution-service/pkg/util/errorutil"
)

// UserService manages account records. Accounts are owned resources: the
// ownership guard gates access with the account id as the owner id.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, users repository.UserRepository) *UserService {
	return &UserService{users: users, bcryptCost: cfg.Auth.BcryptCost}
}

// UserUpdateInput describes the account fields a caller may change.
type UserUpdateInput struct {
	Email    string
	Password string
	Role     string
}

// List returns all accounts. Admin only.
func (s *UserService) List(ctx context.Context, identity auth.Identity, limit, offset int) ([]domain.User, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.users.List(ctx, limit, offset)
}

// Get returns a single account, self-or-admin. The guard runs before the
// lookup so non-owners learn nothing about which ids exist.
func (s *UserService) Get(ctx context.Context, identity auth.Identity, id int64) (*domain.User, error) {
	if decision := auth.Authorize(identity, id, auth.OpRead); !decision.Allowed {
		return nil, apperrors.NewForbidden("access denied")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// Update changes email and/or password, self-or-admin. Role changes are
// admin only; unknown role values coerce to the plain user role and can
// never escalate anyone to admin.
func (s *UserService) Update(ctx context.Context, identity auth.Identity, id int64, input UserUpdateInput) (*domain.User, error) {
	if decision := auth.Authorize(identity, id, auth.OpUpdate); !decision.Allowed {
		return nil, apperrors.NewForbidden("access denied")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	changed := false
	if email := strings.TrimSpace(input.Email); email != "" && email != user.Email {
		user.Email = email
		changed = true
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		changed = true
	}
	if role := strings.TrimSpace(input.Role); role != "" {
		if !identity.IsAdmin() {
			return nil, apperrors.NewForbidden("access denied")
		}
		user.Role = domain.ParseRole(role)
		changed = true
	}
	if !changed {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account, self-or-admin.
func (s *UserService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	if decision := auth.Authorize(identity, id, auth.OpDelete); !decision.Allowed {
		return apperrors.NewForbidden("access denied")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return nil
}
