package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/datascope"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM.
// Tasks keep dense positions 1..n within their job; Reorder and Delete
// shift the affected range so no gaps appear.
type GormTaskRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormTaskRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a task by ID within a tenant
func (r *GormTaskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*job.Task, error) {
	var model models.TaskModel
	query := datascope.ApplyFromContext(ctx,
		r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id),
		"tasks", "read")
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByJobID finds all tasks of a job ordered by position
func (r *GormTaskRepository) FindByJobID(ctx context.Context, tenantID, jobID uuid.UUID) ([]job.Task, error) {
	var taskModels []models.TaskModel
	query := datascope.ApplyFromContext(ctx,
		r.db.WithContext(ctx).
			Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
			Order("position ASC"),
		"tasks", "read")
	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]job.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// NextPosition returns the position a newly appended task should take
func (r *GormTaskRepository) NextPosition(ctx context.Context, tenantID, jobID uuid.UUID) (int, error) {
	var maxPosition int
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition).Error; err != nil {
		return 0, err
	}
	return maxPosition + 1, nil
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, t *job.Task) error {
	model := models.TaskModelFromDomain(t)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, t)
	})
}

// Reorder moves a task to a new position and shifts the tasks in between,
// keeping positions dense. The target position is clamped to 1..n.
func (r *GormTaskRepository) Reorder(ctx context.Context, tenantID, jobID, taskID uuid.UUID, newPosition int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.TaskModel
		if err := tx.Where("tenant_id = ? AND job_id = ? AND id = ?", tenantID, jobID, taskID).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		var total int64
		if err := tx.Model(&models.TaskModel{}).
			Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
			Count(&total).Error; err != nil {
			return err
		}

		if newPosition < 1 {
			newPosition = 1
		}
		if newPosition > int(total) {
			newPosition = int(total)
		}

		oldPosition := model.Position
		if newPosition == oldPosition {
			return nil
		}

		if newPosition > oldPosition {
			// Moving down: pull the range (old, new] up by one
			if err := tx.Model(&models.TaskModel{}).
				Where("tenant_id = ? AND job_id = ? AND position > ? AND position <= ?",
					tenantID, jobID, oldPosition, newPosition).
				UpdateColumn("position", gorm.Expr("position - 1")).Error; err != nil {
				return err
			}
		} else {
			// Moving up: push the range [new, old) down by one
			if err := tx.Model(&models.TaskModel{}).
				Where("tenant_id = ? AND job_id = ? AND position >= ? AND position < ?",
					tenantID, jobID, newPosition, oldPosition).
				UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.TaskModel{}).
			Where("id = ?", taskID).
			UpdateColumn("position", newPosition).Error
	})
}

// Delete deletes a task and closes the position gap it leaves
func (r *GormTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.TaskModel
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&models.TaskModel{}, "tenant_id = ? AND id = ?", tenantID, id).Error; err != nil {
			return err
		}

		return tx.Model(&models.TaskModel{}).
			Where("tenant_id = ? AND job_id = ? AND position > ?", tenantID, model.JobID, model.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
}

// CountByJobID counts tasks of a job
func (r *GormTaskRepository) CountByJobID(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTaskRepository implements TaskRepository
var _ job.TaskRepository = (*GormTaskRepository)(nil)
