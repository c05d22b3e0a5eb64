// Package rds provides a best-effort Redis cache.
// Backend errors are logged and swallowed; callers treat every failure as a
// cache miss and fall through to the source of truth
package rds

import (
	"context"
	"time"

	"linkmill/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr       string
	DB         int
	DefaultTTL time.Duration
}

// Client wraps go-redis with miss-on-error semantics
type Client struct {
	rdb        *redis.Client
	log        logger.Logger
	defaultTTL time.Duration
}

// Open dials redis lazily; connectivity problems surface on first use
func Open(cfg Config, log logger.Logger) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	return &Client{
		rdb:        rdb,
		log:        log.With().Str("component", "rds").Logger(),
		defaultTTL: cfg.DefaultTTL,
	}
}

// Ping verifies the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get returns the value and true on a hit; false on miss or backend error
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return "", false
	}
	return val, true
}

// Set stores val under key; ttl 0 uses the default TTL
func (c *Client) Set(ctx context.Context, key, val string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Del removes keys, typically on invalidation after a reload
func (c *Client) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("keys", keys).Msg("cache del failed")
	}
}

// Close closes the underlying client
func (c *Client) Close() error { return c.rdb.Close() }
