package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultFlagTTL bounds how stale a cached flag decision can get when an
// explicit bust is missed (another instance toggled, redis restarted).
const DefaultFlagTTL = 30 * time.Second

// Ensure RedisFlagCache implements FlagCache
var _ featureflag.FlagCache = (*RedisFlagCache)(nil)

// RedisFlagCache implements FlagCache using Redis. Entries are shared by
// every instance, so a bust on one instance is seen by all.
type RedisFlagCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	defaultTTL time.Duration
}

// NewRedisFlagCache creates a Redis-backed flag cache. Zero defaultTTL uses
// DefaultFlagTTL.
func NewRedisFlagCache(cfg RedisConfig, defaultTTL time.Duration) (*RedisFlagCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisFlagCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		defaultTTL: defaultTTL,
	}
	if cache.defaultTTL == 0 {
		cache.defaultTTL = DefaultFlagTTL
	}

	return cache, nil
}

// NewRedisFlagCacheWithClient creates a cache with an existing Redis client.
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisFlagCacheWithClient(client *redis.Client, defaultTTL time.Duration) *RedisFlagCache {
	if defaultTTL == 0 {
		defaultTTL = DefaultFlagTTL
	}
	return &RedisFlagCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		defaultTTL: defaultTTL,
	}
}

func flagCacheKey(tenantID uuid.UUID, key string) string {
	return "flags:" + tenantID.String() + ":" + key
}

// Get retrieves a cached decision. A miss is (nil, nil).
func (c *RedisFlagCache) Get(ctx context.Context, tenantID uuid.UUID, key string) (*bool, error) {
	val, err := c.client.Get(ctx, flagCacheKey(tenantID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached flag: %w", err)
	}

	enabled := val == "1"
	return &enabled, nil
}

// Set stores a decision with the given TTL (zero = default)
func (c *RedisFlagCache) Set(ctx context.Context, tenantID uuid.UUID, key string, enabled bool, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	val := "0"
	if enabled {
		val = "1"
	}

	if err := c.client.Set(ctx, flagCacheKey(tenantID, key), val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache flag: %w", err)
	}
	return nil
}

// Delete busts the cached decision for a tenant/key pair
func (c *RedisFlagCache) Delete(ctx context.Context, tenantID uuid.UUID, key string) error {
	if err := c.client.Del(ctx, flagCacheKey(tenantID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached flag: %w", err)
	}
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisFlagCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisFlagCache) GetClient() *redis.Client {
	return c.client
}
