package repository

import (
	"context"
	"errors"

	"ticketvault/backend/internal/user/domain"
)

// ErrDuplicateEmail is returned by Create when the email is already
// registered (unique constraint on users.email).
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// SetActive flips is_active; deactivation is the precondition for the
	// forced session teardown performed by the auth service.
	SetActive(ctx context.Context, id string, active bool) error
}
