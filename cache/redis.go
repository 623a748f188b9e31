package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces gotalign keys in a shared Redis database.
const DefaultKeyPrefix = "gotalign:"

// scanBatch is the COUNT hint used when enumerating keys.
const scanBatch = 100

// RedisCache is a Redis-backed response cache.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    *slog.Logger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379/0")
	TTL       int           // TTL in seconds (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default: DefaultKeyPrefix)
	Timeout   time.Duration // Per-operation timeout (default: 2s)
	Logger    *slog.Logger  // Receives errors that Get reports as misses (default: discard)
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.ContextTimeoutEnabled = true

	c := newRedisCache(redis.NewClient(opts), cfg)
	if err := c.Ping(); err != nil {
		_ = c.client.Close()
		return nil, err
	}
	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing client.
// URL in cfg is ignored.
func NewRedisCacheFromClient(client *redis.Client, cfg RedisConfig) *RedisCache {
	return newRedisCache(client, cfg)
}

func newRedisCache(client *redis.Client, cfg RedisConfig) *RedisCache {
	c := &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
	}
	if cfg.TTL > 0 {
		c.ttl = time.Duration(cfg.TTL) * time.Second
	}
	if c.keyPrefix == "" {
		c.keyPrefix = DefaultKeyPrefix
	}
	if c.timeout <= 0 {
		c.timeout = 2 * time.Second
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

func (c *RedisCache) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// Get retrieves a value. Connection errors are logged and count as a miss.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := c.opContext()
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("redis get failed", "key", key, "error", err)
		return "", false
	}
	return val, true
}

// Set stores a value with the configured TTL.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// Entries lists every key under the prefix with SCAN and fetches each page
// of values with MGET. Every page runs under its own timeout. Keys that
// expire between the two calls are skipped. The returned keys have the
// prefix removed.
func (c *RedisCache) Entries() (map[string]string, error) {
	result := make(map[string]string)
	var cursor uint64
	for {
		next, err := c.entriesPage(cursor, result)
		if err != nil {
			return nil, err
		}
		if next == 0 {
			return result, nil
		}
		cursor = next
	}
}

func (c *RedisCache) entriesPage(cursor uint64, into map[string]string) (uint64, error) {
	ctx, cancel := c.opContext()
	defer cancel()

	keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", scanBatch).Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return next, nil
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			into[strings.TrimPrefix(keys[i], c.keyPrefix)] = s
		}
	}
	return next, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Verify RedisCache implements Enumerable
var _ Enumerable = (*RedisCache)(nil)
