package front

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bos/backend/internal/domain/conversation"
)

// PlatformRegistry is the concrete helpdesk platform registry. Front is the
// only platform today; the registry keeps the sync machinery indifferent to
// that.
type PlatformRegistry struct {
	mu        sync.RWMutex
	platforms map[conversation.PlatformCode]conversation.HelpdeskPlatform
}

// NewPlatformRegistry creates an empty platform registry
func NewPlatformRegistry() *PlatformRegistry {
	return &PlatformRegistry{
		platforms: make(map[conversation.PlatformCode]conversation.HelpdeskPlatform),
	}
}

// Register adds a platform adapter. Registering the same code twice is a
// wiring mistake and fails loudly.
func (r *PlatformRegistry) Register(platform conversation.HelpdeskPlatform) error {
	if platform == nil {
		return fmt.Errorf("front: cannot register nil platform")
	}

	code := platform.PlatformCode()
	if !code.IsValid() {
		return conversation.ErrSyncInvalidPlatformCode
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.platforms[code]; exists {
		return fmt.Errorf("front: platform %s already registered", code)
	}
	r.platforms[code] = platform
	return nil
}

// GetPlatform returns the platform adapter for the specified code
func (r *PlatformRegistry) GetPlatform(code conversation.PlatformCode) (conversation.HelpdeskPlatform, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	platform, ok := r.platforms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", conversation.ErrPlatformNotConfigured, code)
	}
	return platform, nil
}

// ListPlatforms returns all registered platform adapters, sorted by code
// for deterministic iteration
func (r *PlatformRegistry) ListPlatforms() []conversation.HelpdeskPlatform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]conversation.PlatformCode, 0, len(r.platforms))
	for code := range r.platforms {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	platforms := make([]conversation.HelpdeskPlatform, 0, len(codes))
	for _, code := range codes {
		platforms = append(platforms, r.platforms[code])
	}
	return platforms
}

// IsEnabled returns true if the platform is enabled for the tenant
func (r *PlatformRegistry) IsEnabled(ctx context.Context, tenantID uuid.UUID, code conversation.PlatformCode) (bool, error) {
	platform, err := r.GetPlatform(code)
	if err != nil {
		return false, nil
	}
	return platform.IsEnabled(ctx, tenantID)
}

// Ensure PlatformRegistry implements HelpdeskPlatformRegistry
var _ conversation.HelpdeskPlatformRegistry = (*PlatformRegistry)(nil)
