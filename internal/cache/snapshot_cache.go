package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmbrands/reorder/backend-go/internal/config"
	"github.com/dmbrands/reorder/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	snapshotKeyPrefix     = "reorder:snapshot"
	snapshotScanBatchSize = 100

	catalogKey = snapshotKeyPrefix + ":catalog"
	openPOsKey = snapshotKeyPrefix + ":open_pos"
)

// SnapshotCache holds the upstream inputs the engine is expensive to
// assemble: the item catalog and the open PO quantities. Entries expire on
// TTL so every analysis within the window sees the same inputs.
type SnapshotCache interface {
	GetCatalog(ctx context.Context) ([]domain.Item, bool, error)
	SetCatalog(ctx context.Context, items []domain.Item) error
	GetOpenPOs(ctx context.Context) (map[string]int, bool, error)
	SetOpenPOs(ctx context.Context, quantities map[string]int) error
	InvalidateAll(ctx context.Context) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func (c *redisSnapshotCache) GetCatalog(ctx context.Context) ([]domain.Item, bool, error) {
	payload, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("decode catalog cache: %w", err)
	}

	return items, true, nil
}

func (c *redisSnapshotCache) SetCatalog(ctx context.Context, items []domain.Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}

	if err := c.client.Set(ctx, catalogKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) GetOpenPOs(ctx context.Context) (map[string]int, bool, error) {
	payload, err := c.client.Get(ctx, openPOsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var quantities map[string]int
	if err := json.Unmarshal(payload, &quantities); err != nil {
		return nil, false, fmt.Errorf("decode open po cache: %w", err)
	}

	return quantities, true, nil
}

func (c *redisSnapshotCache) SetOpenPOs(ctx context.Context, quantities map[string]int) error {
	payload, err := json.Marshal(quantities)
	if err != nil {
		return fmt.Errorf("encode open po cache: %w", err)
	}

	if err := c.client.Set(ctx, openPOsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, snapshotKeyPrefix, snapshotScanBatchSize)
}

func (n *noopSnapshotCache) GetCatalog(ctx context.Context) ([]domain.Item, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) SetCatalog(ctx context.Context, items []domain.Item) error {
	return nil
}

func (n *noopSnapshotCache) GetOpenPOs(ctx context.Context) (map[string]int, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) SetOpenPOs(ctx context.Context, quantities map[string]int) error {
	return nil
}

func (n *noopSnapshotCache) InvalidateAll(ctx context.Context) error {
	return nil
}
