package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeatureFlagSortFields contains allowed sort fields for feature flags
var FeatureFlagSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"key":        true,
	"enabled":    true,
}

// GormFeatureFlagRepository implements FeatureFlagRepository using GORM
type GormFeatureFlagRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormFeatureFlagRepository creates a new GormFeatureFlagRepository
func NewGormFeatureFlagRepository(db *gorm.DB) *GormFeatureFlagRepository {
	return &GormFeatureFlagRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormFeatureFlagRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a flag by ID within a tenant
func (r *GormFeatureFlagRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*featureflag.FeatureFlag, error) {
	var model models.FeatureFlagModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds a flag by its key within a tenant
func (r *GormFeatureFlagRepository) FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*featureflag.FeatureFlag, error) {
	var model models.FeatureFlagModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND key = ?", tenantID, key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists all flags for a tenant
func (r *GormFeatureFlagRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]featureflag.FeatureFlag, error) {
	var flagModels []models.FeatureFlagModel

	query := r.db.WithContext(ctx).
		Model(&models.FeatureFlagModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&flagModels).Error; err != nil {
		return nil, err
	}

	flags := make([]featureflag.FeatureFlag, len(flagModels))
	for i, model := range flagModels {
		flags[i] = *model.ToDomain()
	}
	return flags, nil
}

// Save creates or updates a flag
func (r *GormFeatureFlagRepository) Save(ctx context.Context, flag *featureflag.FeatureFlag) error {
	model := models.FeatureFlagModelFromDomain(flag)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, flag)
	})
}

// Delete deletes a flag within a tenant
func (r *GormFeatureFlagRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FeatureFlagModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByKey checks if a flag with the key exists in the tenant
func (r *GormFeatureFlagRepository) ExistsByKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FeatureFlagModel{}).
		Where("tenant_id = ? AND key = ?", tenantID, key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormFeatureFlagRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("key ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		if key == "enabled" {
			query = query.Where("enabled = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, FeatureFlagSortFields, "key")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// Ensure GormFeatureFlagRepository implements FeatureFlagRepository
var _ featureflag.FeatureFlagRepository = (*GormFeatureFlagRepository)(nil)
