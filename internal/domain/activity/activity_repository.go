package activity

import (
	"context"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityLogRepository defines the interface for activity trail
// persistence. The trail is append-only: there is no update or delete.
type ActivityLogRepository interface {
	// Save appends an entry to the trail
	Save(ctx context.Context, log *ActivityLog) error

	// FindByID finds an entry by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ActivityLog, error)

	// FindAllForTenant lists entries for a tenant. Filter keys understood:
	// actor_id, action, loggable_type, loggable_id, since, until.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ActivityLog, error)

	// FindByLoggable lists entries about one record, newest first
	FindByLoggable(ctx context.Context, tenantID uuid.UUID, loggableType string, loggableID uuid.UUID, filter shared.Filter) ([]ActivityLog, error)

	// CountForTenant counts entries for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}
