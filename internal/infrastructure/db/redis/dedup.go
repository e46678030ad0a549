package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupStore provides purchase idempotency checks backed by Redis.
// Key format: purchase:<idempotency_key>
type DedupStore struct {
	client *redis.Client
}

// NewDedupStore creates a DedupStore wrapping the given Redis client.
func NewDedupStore(client *redis.Client) *DedupStore {
	return &DedupStore{client: client}
}

// IsDuplicate reports whether a purchase with this idempotency key has
// already been applied.
func (d *DedupStore) IsDuplicate(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this purchase has been applied (expires after dedupTTL).
func (d *DedupStore) Mark(ctx context.Context, key string) error {
	return d.client.Set(ctx, d.key(key), "1", dedupTTL).Err()
}

func (d *DedupStore) key(key string) string {
	return "purchase:" + key
}
