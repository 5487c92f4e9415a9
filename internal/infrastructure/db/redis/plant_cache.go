package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

const defaultPlantTTL = 5 * time.Minute

// PlantCache stores single plants as JSON.
// Key format: plant:<id>
type PlantCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlantCache creates a PlantCache wrapping the given Redis client.
func NewPlantCache(client *redis.Client, ttl time.Duration) *PlantCache {
	if ttl <= 0 {
		ttl = defaultPlantTTL
	}
	return &PlantCache{client: client, ttl: ttl}
}

// Get returns the cached plant, or nil on a miss.
func (c *PlantCache) Get(ctx context.Context, id string) (*domain.Plant, error) {
	raw, err := c.client.Get(ctx, plantKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("plant cache get: %w", err)
	}

	var p domain.Plant
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("plant cache decode: %w", err)
	}
	return &p, nil
}

// Set stores p until the cache TTL elapses.
func (c *PlantCache) Set(ctx context.Context, p *domain.Plant) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("plant cache encode: %w", err)
	}
	return c.client.Set(ctx, plantKey(p.ID), raw, c.ttl).Err()
}

func (c *PlantCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, plantKey(id)).Err()
}

func plantKey(id string) string {
	return "plant:" + id
}
