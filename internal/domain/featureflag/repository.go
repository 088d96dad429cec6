package featureflag

import (
	"context"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FeatureFlagRepository defines the interface for flag persistence.
// Flags are tenant-scoped: the same key can be on for one tenant and off
// for another.
type FeatureFlagRepository interface {
	// FindByID finds a flag by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*FeatureFlag, error)

	// FindByKey finds a flag by its key within a tenant.
	// Returns shared.ErrNotFound when the tenant has no row for the key.
	FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*FeatureFlag, error)

	// FindAllForTenant lists all flags for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FeatureFlag, error)

	// Save creates or updates a flag
	Save(ctx context.Context, flag *FeatureFlag) error

	// Delete deletes a flag within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByKey checks if a flag with the key exists in the tenant
	ExistsByKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)
}

// FlagCache caches flag decisions in front of the repository. A cache
// miss is (nil, nil); errors mean the cache itself failed and callers
// fall back to the repository.
type FlagCache interface {
	// Get retrieves a cached decision for a tenant/key pair
	Get(ctx context.Context, tenantID uuid.UUID, key string) (*bool, error)

	// Set stores a decision with the specified TTL. Zero TTL means the
	// implementation default.
	Set(ctx context.Context, tenantID uuid.UUID, key string, enabled bool, ttl time.Duration) error

	// Delete busts the cached decision for a tenant/key pair
	Delete(ctx context.Context, tenantID uuid.UUID, key string) error

	// Close releases any resources held by the cache
	Close() error
}
