package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/google/uuid"
)

// Ensure InMemoryFlagCache implements FlagCache
var _ featureflag.FlagCache = (*InMemoryFlagCache)(nil)

type flagEntry struct {
	enabled   bool
	expiresAt time.Time
}

// InMemoryFlagCache implements FlagCache with a process-local map. It is the
// fallback when Redis is unavailable and the default in tests. Expired
// entries are dropped on read; the key space is bounded by tenant x flag
// count, so no background janitor is needed.
type InMemoryFlagCache struct {
	mu         sync.RWMutex
	entries    map[string]flagEntry
	defaultTTL time.Duration
}

// NewInMemoryFlagCache creates an empty in-memory flag cache. Zero defaultTTL
// uses DefaultFlagTTL.
func NewInMemoryFlagCache(defaultTTL time.Duration) *InMemoryFlagCache {
	if defaultTTL == 0 {
		defaultTTL = DefaultFlagTTL
	}
	return &InMemoryFlagCache{
		entries:    make(map[string]flagEntry),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cached decision. A miss or expired entry is (nil, nil).
func (c *InMemoryFlagCache) Get(ctx context.Context, tenantID uuid.UUID, key string) (*bool, error) {
	cacheKey := flagCacheKey(tenantID, key)

	c.mu.RLock()
	entry, ok := c.entries[cacheKey]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; Set may have refreshed the entry
		if cur, ok := c.entries[cacheKey]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, cacheKey)
		}
		c.mu.Unlock()
		return nil, nil
	}

	enabled := entry.enabled
	return &enabled, nil
}

// Set stores a decision with the given TTL (zero = default)
func (c *InMemoryFlagCache) Set(ctx context.Context, tenantID uuid.UUID, key string, enabled bool, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[flagCacheKey(tenantID, key)] = flagEntry{
		enabled:   enabled,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete busts the cached decision for a tenant/key pair
func (c *InMemoryFlagCache) Delete(ctx context.Context, tenantID uuid.UUID, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, flagCacheKey(tenantID, key))
	return nil
}

// Close is a no-op for the in-memory cache
func (c *InMemoryFlagCache) Close() error {
	return nil
}

// Count returns the number of entries including expired ones (for tests)
func (c *InMemoryFlagCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
