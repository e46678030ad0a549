package ports

import (
	"context"

	"github.com/sweetshop/inventory-api/internal/core/domain"
)

// AddSweetInput carries the fields for a new catalog item.
type AddSweetInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// UpdateSweetInput is a partial update; nil fields are left unchanged.
type UpdateSweetInput struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// SearchSweetsInput mirrors SearchSweetsFilter at the use-case boundary.
type SearchSweetsInput struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// PurchaseInput decrements stock. IdempotencyKey is optional; a replayed key
// returns the current sweet without a second decrement.
type PurchaseInput struct {
	ID             string
	Amount         int
	IdempotencyKey string
}

// RestockInput increments stock.
type RestockInput struct {
	ID     string
	Amount int
}

// InventoryService defines the catalog use cases. Authentication and the
// admin-only gating of DeleteSweet and Restock are enforced by the HTTP layer.
type InventoryService interface {
	AddSweet(ctx context.Context, in AddSweetInput) (*domain.Sweet, error)
	ListSweets(ctx context.Context) ([]*domain.Sweet, error)
	SearchSweets(ctx context.Context, in SearchSweetsInput) ([]*domain.Sweet, error)
	UpdateSweet(ctx context.Context, id string, in UpdateSweetInput) (*domain.Sweet, error)
	DeleteSweet(ctx context.Context, id string) error
	Purchase(ctx context.Context, in PurchaseInput) (*domain.Sweet, error)
	Restock(ctx context.Context, in RestockInput) (*domain.Sweet, error)
}
