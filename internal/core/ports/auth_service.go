package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

type AuthService interface {
	// Register creates an account. The admin flag is granted to the first
	// user ever registered, or to any user presenting the configured admin key.
	Register(ctx context.Context, username, password, adminKey string) (*domain.User, error)

	// Login verifies credentials and returns a signed session token. Unknown
	// username and wrong password fail with the same error.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// ValidateToken checks signature and expiry, then resolves the asserted
	// username against the credential store. The returned admin flag comes
	// from the store, not from the token claims.
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}
