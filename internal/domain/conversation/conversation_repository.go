package conversation

import (
	"context"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FrontConversationRepository defines the interface for conversation persistence
type FrontConversationRepository interface {
	// FindByID finds a conversation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*FrontConversation, error)

	// FindByIDForTenant finds a conversation by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*FrontConversation, error)

	// FindByPlatformID finds a conversation by its platform-side ID within
	// a tenant. Returns shared.ErrNotFound when the conversation has never
	// been synced.
	FindByPlatformID(ctx context.Context, tenantID uuid.UUID, platform PlatformCode, platformID string) (*FrontConversation, error)

	// FindAllForTenant finds all conversations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FrontConversation, error)

	// FindByMatchedPerson finds conversations linked to a person
	FindByMatchedPerson(ctx context.Context, tenantID, personID uuid.UUID, filter shared.Filter) ([]FrontConversation, error)

	// FindUnmatchedByHandle finds conversations that carry the normalized
	// handle but are not linked to anyone. Used to re-run matching when a
	// contact method appears.
	FindUnmatchedByHandle(ctx context.Context, tenantID uuid.UUID, normalizedHandle string) ([]FrontConversation, error)

	// Upsert inserts the conversation or folds it into the existing row for
	// the same (tenant, platform ID). The update only applies when the
	// incoming api_updated_at is not older than the stored one, so replayed
	// webhooks and overlapping polls are safe.
	Upsert(ctx context.Context, c *FrontConversation) error

	// Save creates or updates a conversation by primary key
	Save(ctx context.Context, c *FrontConversation) error

	// Delete deletes a conversation within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts conversations for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
