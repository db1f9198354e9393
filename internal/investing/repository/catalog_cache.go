package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/pkg/common"

	"github.com/redis/go-redis/v9"
)

// CatalogCache stores full, unpaged catalog snapshots.
// A miss is reported as (nil, false, nil).
type CatalogCache interface {
	GetStocks(ctx context.Context) ([]entity.StockMaster, bool, error)
	SetStocks(ctx context.Context, stocks []entity.StockMaster) error
	GetFunds(ctx context.Context) ([]entity.MutualFundMaster, bool, error)
	SetFunds(ctx context.Context, funds []entity.MutualFundMaster) error
	Invalidate(ctx context.Context) error
}

// NewRedisCatalogCache creates a Redis backed catalog cache.
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration) CatalogCache {
	return &redisCatalogCache{client: client, ttl: ttl}
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCatalogCache) GetStocks(ctx context.Context) ([]entity.StockMaster, bool, error) {
	var stocks []entity.StockMaster
	ok, err := c.get(ctx, common.RedisKeyCatalogStocks, &stocks)
	return stocks, ok, err
}

func (c *redisCatalogCache) SetStocks(ctx context.Context, stocks []entity.StockMaster) error {
	return c.set(ctx, common.RedisKeyCatalogStocks, stocks)
}

func (c *redisCatalogCache) GetFunds(ctx context.Context) ([]entity.MutualFundMaster, bool, error) {
	var funds []entity.MutualFundMaster
	ok, err := c.get(ctx, common.RedisKeyCatalogFunds, &funds)
	return funds, ok, err
}

func (c *redisCatalogCache) SetFunds(ctx context.Context, funds []entity.MutualFundMaster) error {
	return c.set(ctx, common.RedisKeyCatalogFunds, funds)
}

func (c *redisCatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, common.RedisKeyCatalogStocks, common.RedisKeyCatalogFunds).Err()
}

func (c *redisCatalogCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCatalogCache) set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// NopCatalogCache never hits. It is used when Redis is not configured.
type NopCatalogCache struct{}

func (NopCatalogCache) GetStocks(context.Context) ([]entity.StockMaster, bool, error) {
	return nil, false, nil
}
func (NopCatalogCache) SetStocks(context.Context, []entity.StockMaster) error { return nil }
func (NopCatalogCache) GetFunds(context.Context) ([]entity.MutualFundMaster, bool, error) {
	return nil, false, nil
}
func (NopCatalogCache) SetFunds(context.Context, []entity.MutualFundMaster) error { return nil }
func (NopCatalogCache) Invalidate(context.Context) error                         { return nil }
