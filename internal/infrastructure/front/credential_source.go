package front

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bos/backend/internal/domain/conversation"
)

// CredentialSource resolves Front credentials per tenant
type CredentialSource interface {
	// Credentials returns the credentials for a tenant.
	// Returns conversation.ErrPlatformNotConfigured when the tenant has none.
	Credentials(tenantID uuid.UUID) (*FrontCredentials, error)

	// Tenants lists every tenant with Front credentials
	Tenants() []uuid.UUID
}

// ConfigCredentialSource serves credentials loaded from configuration.
// Credentials live in config rather than the database: tenants are
// onboarded by an operator, and tokens never transit the API surface.
type ConfigCredentialSource struct {
	mu          sync.RWMutex
	credentials map[uuid.UUID]*FrontCredentials
}

// NewConfigCredentialSource creates a credential source from a per-tenant
// credential map. Every entry is validated up front so a bad config fails
// at startup instead of on the first sync.
func NewConfigCredentialSource(credentials map[uuid.UUID]*FrontCredentials) (*ConfigCredentialSource, error) {
	store := make(map[uuid.UUID]*FrontCredentials, len(credentials))
	for tenantID, creds := range credentials {
		if tenantID == uuid.Nil {
			return nil, conversation.ErrSyncInvalidTenantID
		}
		if creds == nil {
			return nil, fmt.Errorf("front: nil credentials for tenant %s", tenantID)
		}
		if err := creds.Validate(); err != nil {
			return nil, fmt.Errorf("front: tenant %s: %w", tenantID, err)
		}
		copied := *creds
		store[tenantID] = &copied
	}
	return &ConfigCredentialSource{credentials: store}, nil
}

// Credentials returns the credentials for a tenant
func (s *ConfigCredentialSource) Credentials(tenantID uuid.UUID) (*FrontCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.credentials[tenantID]
	if !ok {
		return nil, conversation.ErrPlatformNotConfigured
	}
	return creds, nil
}

// Tenants lists every configured tenant, sorted for deterministic iteration
func (s *ConfigCredentialSource) Tenants() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenants := make([]uuid.UUID, 0, len(s.credentials))
	for tenantID := range s.credentials {
		tenants = append(tenants, tenantID)
	}
	sort.Slice(tenants, func(i, j int) bool {
		return tenants[i].String() < tenants[j].String()
	})
	return tenants
}

// SyncEnabledTenants lists the tenants the poll trigger should cover for a
// platform. Satisfies the scheduler's tenant source.
func (s *ConfigCredentialSource) SyncEnabledTenants(_ context.Context, platform conversation.PlatformCode) ([]uuid.UUID, error) {
	if platform != conversation.PlatformCodeFront {
		return nil, nil
	}
	return s.Tenants(), nil
}

// Ensure ConfigCredentialSource implements CredentialSource
var _ CredentialSource = (*ConfigCredentialSource)(nil)
