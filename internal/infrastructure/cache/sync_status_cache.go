package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

const statusKeyPrefix = "sync:status:"

// Status entries outlive any reasonable resync interval; they exist for
// operational visibility, not correctness.
const defaultStatusTTL = 7 * 24 * time.Hour

// RedisStatusCache implements SyncStatusCache on Redis
type RedisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatusCache creates a Redis-backed sync status cache
func NewRedisStatusCache(client *redis.Client) *RedisStatusCache {
	return &RedisStatusCache{
		client: client,
		ttl:    defaultStatusTTL,
	}
}

var _ ports.SyncStatusCache = (*RedisStatusCache)(nil)

// SetStatus records the outcome of a bulk run for a shop
func (c *RedisStatusCache) SetStatus(ctx context.Context, status *domain.SyncStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode sync status: %w", err)
	}

	if err := c.client.Set(ctx, statusKeyPrefix+status.ShopDomain, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store sync status: %w", err)
	}
	return nil
}

// GetStatus retrieves the last recorded status for a shop, or nil if none
func (c *RedisStatusCache) GetStatus(ctx context.Context, shopDomain string) (*domain.SyncStatus, error) {
	data, err := c.client.Get(ctx, statusKeyPrefix+shopDomain).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync status: %w", err)
	}

	var status domain.SyncStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode sync status: %w", err)
	}
	return &status, nil
}
