package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// SearchSweetsFilter carries the catalog query parameters. Zero values mean
// "no filter"; all present filters are ANDed.
type SearchSweetsFilter struct {
	Name     string   // case-insensitive substring match
	Category string   // case-insensitive substring match
	MinPrice *float64 // price >= MinPrice
	MaxPrice *float64 // price <= MaxPrice
}

// SweetPatch is a partial update; nil fields are left unchanged.
type SweetPatch struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// SweetRepository defines persistence operations for catalog items.
type SweetRepository interface {
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	// List returns every sweet in insertion order (id ascending).
	List(ctx context.Context) ([]*domain.Sweet, error)
	Search(ctx context.Context, filter SearchSweetsFilter) ([]*domain.Sweet, error)
	Update(ctx context.Context, id string, patch SweetPatch) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error

	// AdjustQuantity atomically applies delta to the stored quantity and
	// returns the updated sweet. The write only happens when the resulting
	// quantity stays non-negative; a decrement past the available stock fails
	// with domain.ErrInsufficientStock and leaves the stored sweet untouched.
	AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Sweet, error)
}
