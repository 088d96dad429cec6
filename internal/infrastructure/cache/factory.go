package cache

import (
	"fmt"
	"time"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory store when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true, // Default to allowing fallback
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based idempotency store
func (f *IdempotencyStoreFactory) CreateRedisStore() (shared.IdempotencyStore, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	store, err := NewRedisIdempotencyStore(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory idempotency store
// This is suitable for single-instance deployments and testing
// WARNING: In-memory stores do not share state across process instances,
// which can lead to duplicate event processing in distributed deployments
func (f *IdempotencyStoreFactory) CreateInMemoryStore() shared.IdempotencyStore {
	return NewInMemoryIdempotencyStore()
}

// CreateStore creates an idempotency store based on whether Redis is available
// It tries to create a Redis store first, and falls back to in-memory if Redis is not available
// and AllowInMemoryFallback is true
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	// Try Redis first
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}

	// Check if fallback is allowed
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	// Fall back to in-memory with warning
	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"This may cause duplicate event processing in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}

// FlagCacheFactory creates feature flag caches based on configuration
type FlagCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	defaultTTL            time.Duration
	allowInMemoryFallback bool
}

// FlagCacheFactoryOption is a functional option for configuring the factory
type FlagCacheFactoryOption func(*FlagCacheFactory)

// WithFlagCacheLogger sets the logger for the factory
func WithFlagCacheLogger(logger *zap.Logger) FlagCacheFactoryOption {
	return func(f *FlagCacheFactory) {
		f.logger = logger
	}
}

// WithFlagCacheTTL sets the default TTL for cached flag decisions
func WithFlagCacheTTL(ttl time.Duration) FlagCacheFactoryOption {
	return func(f *FlagCacheFactory) {
		f.defaultTTL = ttl
	}
}

// WithFlagCacheFallback controls whether to fall back to the in-memory cache when Redis is unavailable
// Default is true (allow fallback)
func WithFlagCacheFallback(allow bool) FlagCacheFactoryOption {
	return func(f *FlagCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFlagCacheFactory creates a new factory
func NewFlagCacheFactory(cfg config.RedisConfig, opts ...FlagCacheFactoryOption) *FlagCacheFactory {
	f := &FlagCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true, // Default to allowing fallback
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a flag cache, preferring Redis so every instance sees
// the same decisions, and falling back to in-memory when allowed. The
// in-memory fallback is per-process: toggles on other instances surface only
// after the TTL expires.
func (f *FlagCacheFactory) CreateCache() (featureflag.FlagCache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	cache, err := NewRedisFlagCache(redisCfg, f.defaultTTL)
	if err == nil {
		f.logger.Info("using Redis feature flag cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for flag cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory feature flag cache. "+
		"Flag toggles on other instances take effect only after the TTL expires.",
		zap.Error(err),
	)
	return NewInMemoryFlagCache(f.defaultTTL), nil
}
