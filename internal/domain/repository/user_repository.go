package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
// Lookups return ErrNotFound when no row matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, email, firstName, lastName string) (*entity.User, error)
}

// AuditRepository records authentication events.
type AuditRepository interface {
	Record(ctx context.Context, ev entity.AuditEvent) error
}
