package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/pulseboard/pulseboard/config"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, data interface{}) (bool, error)
	Delete(ctx context.Context, key string) error
}

// NewCache builds the classification cache from configuration. The TinyLFU
// local tier is always on; a remote Redis tier is added when redis.dns is
// configured.
func NewCache() (Cache, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Dns == "" {
		return NewLocalCache(), nil
	}
	return newTieredCache(fmt.Sprintf("redis://%s", cfg.Redis.Dns))
}

const cacheSize = 10000

type TieredCache struct {
	cache *cache.Cache
}

// NewLocalCache returns a cache backed only by the in-process TinyLFU tier.
func NewLocalCache() *TieredCache {
	c := cache.New(&cache.Options{
		LocalCache: cache.NewTinyLFU(cacheSize, time.Hour),
	})
	return &TieredCache{cache: c}
}

func newTieredCache(address string) (*TieredCache, error) {
	opts, err := redis.ParseURL(address)
	if err != nil {
		return nil, err
	}
	c := cache.New(&cache.Options{
		Redis:      redis.NewClient(opts),
		LocalCache: cache.NewTinyLFU(cacheSize, time.Hour),
	})
	return &TieredCache{cache: c}, nil
}

func (r *TieredCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

// Get reports whether the key was present. A cache miss is not an error.
func (r *TieredCache) Get(ctx context.Context, key string, data interface{}) (bool, error) {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *TieredCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
