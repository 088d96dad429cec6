package featureflag

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeFeatureFlag = "FeatureFlag"

// Event type constants
const (
	EventTypeFeatureFlagCreated = "FeatureFlagCreated"
	EventTypeFeatureFlagToggled = "FeatureFlagToggled"
	EventTypeFeatureFlagDeleted = "FeatureFlagDeleted"
)

// FeatureFlagCreatedEvent is published when a flag is created
type FeatureFlagCreatedEvent struct {
	shared.BaseDomainEvent
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

// NewFeatureFlagCreatedEvent creates a new FeatureFlagCreatedEvent
func NewFeatureFlagCreatedEvent(flag *FeatureFlag) *FeatureFlagCreatedEvent {
	return &FeatureFlagCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeatureFlagCreated, AggregateTypeFeatureFlag, flag.ID, flag.TenantID),
		Key:             flag.Key,
		Enabled:         flag.Enabled,
	}
}

// FeatureFlagToggledEvent is published when a flag flips. The cache layer
// subscribes to it and busts the cached value.
type FeatureFlagToggledEvent struct {
	shared.BaseDomainEvent
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

// NewFeatureFlagToggledEvent creates a new FeatureFlagToggledEvent
func NewFeatureFlagToggledEvent(flag *FeatureFlag) *FeatureFlagToggledEvent {
	return &FeatureFlagToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeatureFlagToggled, AggregateTypeFeatureFlag, flag.ID, flag.TenantID),
		Key:             flag.Key,
		Enabled:         flag.Enabled,
	}
}

// FeatureFlagDeletedEvent is published when a flag is removed
type FeatureFlagDeletedEvent struct {
	shared.BaseDomainEvent
	Key string `json:"key"`
}

// NewFeatureFlagDeletedEvent creates a new FeatureFlagDeletedEvent
func NewFeatureFlagDeletedEvent(tenantID, flagID uuid.UUID, key string) *FeatureFlagDeletedEvent {
	return &FeatureFlagDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeatureFlagDeleted, AggregateTypeFeatureFlag, flagID, tenantID),
		Key:             key,
	}
}
