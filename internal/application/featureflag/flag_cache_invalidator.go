package featureflag

import (
	"context"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FlagCacheInvalidator busts cached flag decisions when toggle and delete
// events come off the bus. The service already busts synchronously on the
// instance that handled the write; this handler covers events raised
// anywhere else (seeds, imports, a second instance with an in-memory cache).
type FlagCacheInvalidator struct {
	cache  featureflag.FlagCache
	logger *zap.Logger
}

// NewFlagCacheInvalidator creates a new FlagCacheInvalidator
func NewFlagCacheInvalidator(cache featureflag.FlagCache, logger *zap.Logger) *FlagCacheInvalidator {
	return &FlagCacheInvalidator{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the events that can change a flag decision
func (h *FlagCacheInvalidator) EventTypes() []string {
	return []string{
		featureflag.EventTypeFeatureFlagToggled,
		featureflag.EventTypeFeatureFlagDeleted,
	}
}

// Handle busts the cache entry named by the event
func (h *FlagCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	var key string
	switch e := event.(type) {
	case *featureflag.FeatureFlagToggledEvent:
		key = e.Key
	case *featureflag.FeatureFlagDeletedEvent:
		key = e.Key
	default:
		return nil
	}

	if err := h.cache.Delete(ctx, event.TenantID(), key); err != nil {
		h.logger.Warn("Failed to bust flag cache from event",
			zap.String("event_type", event.EventType()),
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	return nil
}

// Ensure FlagCacheInvalidator implements EventHandler
var _ shared.EventHandler = (*FlagCacheInvalidator)(nil)
