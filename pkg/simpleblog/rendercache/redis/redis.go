// Package redis invalidates cached page renders stored in Redis. The web
// frontend caches rendered listing and detail pages under the keys exposed
// by the simpleblog package; every mutation deletes the affected keys so
// the next request re-renders.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/contentkit/simple-blog/pkg/simpleblog"
)

// Cache implements simpleblog.RenderCache on top of a Redis client.
type Cache struct {
	client    *redis.Client
	keyPrefix string
}

// New creates a render cache backed by the given Redis client. keyPrefix is
// prepended to every key, allowing several deployments to share an
// instance.
func New(client *redis.Client, keyPrefix string) *Cache {
	return &Cache{client: client, keyPrefix: keyPrefix}
}

// NewFromURL creates a render cache from a redis:// connection URL.
func NewFromURL(url, keyPrefix string) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return New(redis.NewClient(opts), keyPrefix), nil
}

// Invalidate deletes the given keys. A missing key is not an error.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.keyPrefix + k
	}

	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("invalidate render cache: %w", err)
	}
	return nil
}

var _ simpleblog.RenderCache = (*Cache)(nil)
