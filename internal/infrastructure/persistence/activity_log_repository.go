package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/activity"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormActivityLogRepository implements ActivityLogRepository using GORM.
// The trail is append-only; there is no update or delete path.
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Save appends an entry to the trail
func (r *GormActivityLogRepository) Save(ctx context.Context, log *activity.ActivityLog) error {
	model := models.ActivityLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an entry by ID within a tenant
func (r *GormActivityLogRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*activity.ActivityLog, error) {
	var model models.ActivityLogModel
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

// FindAllForTenant lists entries for a tenant, newest first by default
func (r *GormActivityLogRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]activity.ActivityLog, error) {
	var logModels []models.ActivityLogModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]activity.ActivityLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// FindByLoggable lists entries about one record, newest first
func (r *GormActivityLogRepository) FindByLoggable(ctx context.Context, tenantID uuid.UUID, loggableType string, loggableID uuid.UUID, filter shared.Filter) ([]activity.ActivityLog, error) {
	var logModels []models.ActivityLogModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).
			Where("tenant_id = ? AND loggable_type = ? AND loggable_id = ?", tenantID, loggableType, loggableID),
		filter,
	)

	if err := query.Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]activity.ActivityLog, len(logModels))
	for i, model := range logModels {
		logs[i] = *model.ToDomain()
	}
	return logs, nil
}

// CountForTenant counts entries for a tenant
func (r *GormActivityLogRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormActivityLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ActivityLogSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormActivityLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("action ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		case "action":
			query = query.Where("action = ?", value)
		case "loggable_type":
			query = query.Where("loggable_type = ?", value)
		case "loggable_id":
			query = query.Where("loggable_id = ?", value)
		case "since":
			query = query.Where("created_at >= ?", value)
		case "until":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormActivityLogRepository implements ActivityLogRepository
var _ activity.ActivityLogRepository = (*GormActivityLogRepository)(nil)
