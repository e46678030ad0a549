package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// FindByUsername returns the user with the given username, or
	// domain.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// Create inserts the user and returns the stored record. When the store
	// holds no users at insert time the created user is forced to admin,
	// whatever IsAdmin the caller set; the emptiness check and the insert run
	// in the same transaction so two concurrent first registrations cannot
	// both observe an empty store. Returns domain.ErrUserExists when the
	// username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
