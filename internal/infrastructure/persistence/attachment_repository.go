package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/attachment"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAttachmentRepository implements JobAttachmentRepository using GORM
type GormAttachmentRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormAttachmentRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an attachment by ID
func (r *GormAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*attachment.JobAttachment, error) {
	var model models.JobAttachmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds an attachment by ID within a tenant
func (r *GormAttachmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*attachment.JobAttachment, error) {
	var model models.JobAttachmentModel
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

// FindByJobID lists attachments on a job
func (r *GormAttachmentRepository) FindByJobID(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]attachment.JobAttachment, error) {
	var attachmentModels []models.JobAttachmentModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.JobAttachmentModel{}).
			Where("tenant_id = ? AND job_id = ?", tenantID, jobID),
		filter,
	)

	if err := query.Find(&attachmentModels).Error; err != nil {
		return nil, err
	}

	attachments := make([]attachment.JobAttachment, len(attachmentModels))
	for i, model := range attachmentModels {
		attachments[i] = *model.ToDomain()
	}
	return attachments, nil
}

// Save creates or updates an attachment record
func (r *GormAttachmentRepository) Save(ctx context.Context, a *attachment.JobAttachment) error {
	model := models.JobAttachmentModelFromDomain(a)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, a)
	})
}

// Delete deletes an attachment record within a tenant
func (r *GormAttachmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.JobAttachmentModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByJobID counts attachments on a job
func (r *GormAttachmentRepository) CountByJobID(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JobAttachmentModel{}).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAttachmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("file_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "content_type":
			query = query.Where("content_type = ?", value)
		case "uploaded_by":
			query = query.Where("uploaded_by = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AttachmentSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// Ensure GormAttachmentRepository implements JobAttachmentRepository
var _ attachment.JobAttachmentRepository = (*GormAttachmentRepository)(nil)
