package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-api/internal/api/metrics"
	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

// DedupStore abstracts the purchase idempotency store (Redis).
type DedupStore interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// InventoryService implements the catalog use cases.
type InventoryService struct {
	repo  ports.SweetRepository
	dedup DedupStore
	log   zerolog.Logger
}

func NewInventoryService(repo ports.SweetRepository, dedup DedupStore, log zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, dedup: dedup, log: log}
}

func (s *InventoryService) AddSweet(ctx context.Context, in ports.AddSweetInput) (*domain.Sweet, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: category must not be empty", domain.ErrInvalidInput)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
	}

	sweet := &domain.Sweet{
		Name:      in.Name,
		Category:  in.Category,
		Price:     in.Price,
		Quantity:  in.Quantity,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("failed to create sweet")
		return nil, err
	}

	metrics.SweetsCreatedTotal.WithLabelValues(created.Category).Inc()
	s.log.Info().Str("id", created.ID).Str("name", created.Name).Msg("sweet created")
	return created, nil
}

func (s *InventoryService) ListSweets(ctx context.Context) ([]*domain.Sweet, error) {
	return s.repo.List(ctx)
}

func (s *InventoryService) SearchSweets(ctx context.Context, in ports.SearchSweetsInput) ([]*domain.Sweet, error) {
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, fmt.Errorf("%w: min_price must not exceed max_price", domain.ErrInvalidInput)
	}
	return s.repo.Search(ctx, ports.SearchSweetsFilter{
		Name:     in.Name,
		Category: in.Category,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	})
}

func (s *InventoryService) UpdateSweet(ctx context.Context, id string, in ports.UpdateSweetInput) (*domain.Sweet, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		return nil, fmt.Errorf("%w: category must not be empty", domain.ErrInvalidInput)
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrInvalidInput)
	}
	if in.Name == nil && in.Category == nil && in.Price == nil && in.Quantity == nil {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, id, ports.SweetPatch{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Quantity: in.Quantity,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", updated.ID).Msg("sweet updated")
	return updated, nil
}

func (s *InventoryService) DeleteSweet(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("sweet deleted")
	return nil
}

// Purchase atomically decrements stock. The read-check-write sequence lives in
// the repository as a single conditional update, so two concurrent purchases
// cannot both pass the stock check when only one can be satisfied.
func (s *InventoryService) Purchase(ctx context.Context, in ports.PurchaseInput) (*domain.Sweet, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	start := time.Now()

	if in.IdempotencyKey != "" && s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, in.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Str("id", in.ID).Msg("dedup check failed, processing anyway")
		} else if dup {
			s.log.Debug().Str("id", in.ID).Str("idempotency_key", in.IdempotencyKey).Msg("duplicate purchase skipped")
			return s.repo.FindByID(ctx, in.ID)
		}
	}

	sweet, err := s.repo.AdjustQuantity(ctx, in.ID, -in.Amount)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(purchaseResult(err)).Inc()
		return nil, err
	}

	if in.IdempotencyKey != "" && s.dedup != nil {
		if markErr := s.dedup.Mark(ctx, in.IdempotencyKey); markErr != nil {
			s.log.Warn().Err(markErr).Str("id", in.ID).Msg("failed to set dedup key")
		}
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	metrics.PurchaseDuration.Observe(time.Since(start).Seconds())
	s.log.Info().Str("id", sweet.ID).Int("amount", in.Amount).Int("remaining", sweet.Quantity).Msg("purchase completed")
	return sweet, nil
}

func (s *InventoryService) Restock(ctx context.Context, in ports.RestockInput) (*domain.Sweet, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	sweet, err := s.repo.AdjustQuantity(ctx, in.ID, in.Amount)
	if err != nil {
		return nil, err
	}

	metrics.RestocksTotal.Inc()
	s.log.Info().Str("id", sweet.ID).Int("amount", in.Amount).Int("stock", sweet.Quantity).Msg("restock completed")
	return sweet, nil
}

func purchaseResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrSweetNotFound):
		return "not_found"
	default:
		return "error"
	}
}
