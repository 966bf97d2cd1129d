package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "products:list:"

// ProductCache keeps serialized list responses in Redis for a short TTL.
// A nil *ProductCache is a valid disabled cache; every method no-ops on it.
type ProductCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(addr string, ttl time.Duration) *ProductCache {
	if addr == "" {
		return nil
	}
	return &ProductCache{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		TTL:    ttl,
	}
}

func (c *ProductCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	body, err := c.Client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

func (c *ProductCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	c.Client.Set(ctx, keyPrefix+key, body, c.TTL)
}

// Flush drops every cached list response. Called after an ingestion run
// triggered through the API, so readers see the new rows immediately.
func (c *ProductCache) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.Client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.Client.Del(ctx, iter.Val())
	}
}
