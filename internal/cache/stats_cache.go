// Package cache provides a Redis-backed cache for statistics snapshots.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStatsCache stores JSON snapshots under a key prefix with a TTL. Each
// key has a generation counter; snapshots live under "<key>:gen:<n>" and
// Invalidate bumps the counter. Failures are logged and treated as misses.
type RedisStatsCache struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a RedisStatsCache.
type Option func(*RedisStatsCache)

// WithPrefix sets the key prefix (default "simple-access").
func WithPrefix(prefix string) Option {
	return func(c *RedisStatsCache) { c.prefix = strings.Trim(prefix, ":") }
}

// WithTTL sets how long a snapshot lives (default 1 minute).
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisStatsCache) { c.ttl = ttl }
}

// WithLogger sets the logger used for cache failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *RedisStatsCache) { c.logger = logger }
}

// NewRedisStatsCache creates a new cache over rdb.
func NewRedisStatsCache(rdb redis.UniversalClient, opts ...Option) *RedisStatsCache {
	c := &RedisStatsCache{
		rdb:    rdb,
		prefix: "simple-access",
		ttl:    time.Minute,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get loads the snapshot of key's current generation into dst. On a miss it
// returns the generation a new snapshot should be stored under, or -1 when
// the generation could not be read.
func (c *RedisStatsCache) Get(ctx context.Context, key string, dst any) (int64, bool) {
	if c == nil || c.rdb == nil {
		return -1, false
	}

	gen, err := c.rdb.Get(ctx, c.generationKey(key)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stats cache generation read failed", "key", key, "error", err)
			return -1, false
		}
		gen = 0
	}

	data, err := c.rdb.Get(ctx, c.snapshotKey(key, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stats cache get failed", "key", key, "error", err)
		}
		return gen, false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("stats cache entry unreadable", "key", key, "error", err)
		return gen, false
	}
	return gen, true
}

// Set stores value as the snapshot of generation gen. A snapshot of a
// generation that has since been invalidated is never read again and expires
// with the TTL.
func (c *RedisStatsCache) Set(ctx context.Context, key string, gen int64, value any) {
	if c == nil || c.rdb == nil || gen < 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("stats cache encode failed", "key", key, "error", err)
		return
	}

	if err := c.rdb.Set(ctx, c.snapshotKey(key, gen), data, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache set failed", "key", key, "error", err)
	}
}

// Invalidate starts a new generation for key.
func (c *RedisStatsCache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.rdb == nil {
		return
	}

	if err := c.rdb.Incr(ctx, c.generationKey(key)).Err(); err != nil {
		c.logger.Warn("stats cache invalidate failed", "key", key, "error", err)
	}
}

func (c *RedisStatsCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *RedisStatsCache) generationKey(key string) string {
	return c.key(key) + ":gen"
}

func (c *RedisStatsCache) snapshotKey(key string, gen int64) string {
	return c.key(key) + ":gen:" + strconv.FormatInt(gen, 10)
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
