package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSyncStateRepository implements SyncStateRepository using GORM
type GormSyncStateRepository struct {
	db *gorm.DB
}

// NewGormSyncStateRepository creates a new GormSyncStateRepository
func NewGormSyncStateRepository(db *gorm.DB) *GormSyncStateRepository {
	return &GormSyncStateRepository{db: db}
}

// FindByTenant finds the sync state for a tenant/platform pair
func (r *GormSyncStateRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, platform conversation.PlatformCode) (*conversation.SyncState, error) {
	var model models.SyncStateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND platform = ?", tenantID, platform).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListAll returns every known sync state
func (r *GormSyncStateRepository) ListAll(ctx context.Context) ([]conversation.SyncState, error) {
	var stateModels []models.SyncStateModel
	if err := r.db.WithContext(ctx).
		Order("tenant_id ASC, platform ASC").
		Find(&stateModels).Error; err != nil {
		return nil, err
	}

	states := make([]conversation.SyncState, len(stateModels))
	for i, model := range stateModels {
		states[i] = *model.ToDomain()
	}
	return states, nil
}

// Save creates or updates a sync state. Concurrent pollers for the same
// tenant/platform fold into one row.
func (r *GormSyncStateRepository) Save(ctx context.Context, state *conversation.SyncState) error {
	model := &models.SyncStateModel{}
	model.FromDomain(state)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"cursor",
				"last_polled_at",
				"consecutive_failures",
				"updated_at",
			}),
		}).
		Create(model).Error
}

// Ensure GormSyncStateRepository implements SyncStateRepository
var _ conversation.SyncStateRepository = (*GormSyncStateRepository)(nil)
