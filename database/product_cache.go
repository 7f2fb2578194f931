package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmrramaral/sushi-app/models"
	"github.com/redis/go-redis/v9"
)

const ProductCachePrefix = "product:detail:"

// RedisProductCache caches product snapshots used to fill cart lines.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

// GetProduct reports a miss as (nil, nil).
func (c *RedisProductCache) GetProduct(ctx context.Context, id string) (*models.ProductSummary, error) {
	data, err := c.client.Get(ctx, ProductCachePrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p models.ProductSummary
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisProductCache) SetProduct(ctx context.Context, p *models.ProductSummary) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ProductCachePrefix+p.ID, data, c.ttl).Err()
}
