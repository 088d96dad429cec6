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

// GormJobRepository implements JobRepository using GORM.
// Assignments live in their own table and are loaded and replaced together
// with the job row.
type GormJobRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormJobRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a job by ID
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var model models.JobModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	j := model.ToDomain()
	if err := r.loadAssignments(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// FindByIDForTenant finds a job by ID within a tenant. Row-level scope from
// the request context narrows what an assigned-scope role can reach.
func (r *GormJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*job.Job, error) {
	var model models.JobModel
	query := datascope.ApplyFromContext(ctx,
		r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id),
		"jobs", "read")
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	j := model.ToDomain()
	if err := r.loadAssignments(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// FindAllForTenant finds all jobs for a tenant
func (r *GormJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	query := r.applyFilter(
		datascope.ApplyFromContext(ctx,
			r.db.WithContext(ctx).Model(&models.JobModel{}).Where("tenant_id = ?", tenantID),
			"jobs", "read"),
		filter,
	)
	return r.findJobs(ctx, query)
}

// FindByClientID finds all jobs for a client
func (r *GormJobRepository) FindByClientID(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	query := r.applyFilter(
		datascope.ApplyFromContext(ctx,
			r.db.WithContext(ctx).Model(&models.JobModel{}).
				Where("tenant_id = ? AND client_id = ?", tenantID, clientID),
			"jobs", "read"),
		filter,
	)
	return r.findJobs(ctx, query)
}

// FindByStatus finds jobs by status for a tenant
func (r *GormJobRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status job.JobStatus, filter shared.Filter) ([]job.Job, error) {
	query := r.applyFilter(
		datascope.ApplyFromContext(ctx,
			r.db.WithContext(ctx).Model(&models.JobModel{}).
				Where("tenant_id = ? AND status = ?", tenantID, status),
			"jobs", "read"),
		filter,
	)
	return r.findJobs(ctx, query)
}

// FindAssignedToUser finds jobs a user is assigned to
func (r *GormJobRepository) FindAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.JobModel{}).
			Where("tenant_id = ?", tenantID).
			Where("EXISTS (SELECT 1 FROM job_assignments WHERE job_assignments.job_id = jobs.id AND job_assignments.user_id = ?)", userID),
		filter,
	)
	return r.findJobs(ctx, query)
}

// Save creates or updates a job together with its assignments
func (r *GormJobRepository) Save(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.JobModelFromDomain(j)
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if err := r.replaceAssignments(tx, j); err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, j)
	})
}

// SaveWithLock saves a job with optimistic locking (version check).
// Returns shared.ErrConcurrencyConflict if the version has changed.
func (r *GormJobRepository) SaveWithLock(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.JobModelFromDomain(j)
		result := tx.Model(model).
			Where("id = ? AND version = ?", j.ID, j.Version-1).
			Updates(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		if err := r.replaceAssignments(tx, j); err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, j)
	})
}

// Delete deletes a job within a tenant. Assignments go with it.
func (r *GormJobRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.JobModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Delete(&models.JobAssignmentModel{}, "job_id = ?", id).Error
	})
}

// CountForTenant counts jobs for a tenant
func (r *GormJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		datascope.ApplyFromContext(ctx,
			r.db.WithContext(ctx).Model(&models.JobModel{}).Where("tenant_id = ?", tenantID),
			"jobs", "read"),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByClientID counts jobs attached to a client
func (r *GormJobRepository) CountByClientID(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountAssignedToUser counts jobs a user is assigned to
func (r *GormJobRepository) CountAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.JobModel{}).
			Where("tenant_id = ?", tenantID).
			Where("EXISTS (SELECT 1 FROM job_assignments WHERE job_assignments.job_id = jobs.id AND job_assignments.user_id = ?)", userID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// findJobs runs the prepared query and loads assignments for every hit
func (r *GormJobRepository) findJobs(ctx context.Context, query *gorm.DB) ([]job.Job, error) {
	var jobModels []models.JobModel
	if err := query.Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]job.Job, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	if err := r.loadAssignmentsForAll(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// loadAssignments loads the assignments of a single job
func (r *GormJobRepository) loadAssignments(ctx context.Context, j *job.Job) error {
	var assignmentModels []models.JobAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", j.ID).
		Order("created_at ASC").
		Find(&assignmentModels).Error; err != nil {
		return err
	}

	j.Assignments = make([]job.JobAssignment, len(assignmentModels))
	for i, model := range assignmentModels {
		j.Assignments[i] = model.ToDomain()
	}
	return nil
}

// loadAssignmentsForAll batch-loads assignments for a page of jobs
func (r *GormJobRepository) loadAssignmentsForAll(ctx context.Context, jobs []job.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	jobIDs := make([]uuid.UUID, len(jobs))
	for i := range jobs {
		jobIDs[i] = jobs[i].ID
	}

	var assignmentModels []models.JobAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("job_id IN ?", jobIDs).
		Order("created_at ASC").
		Find(&assignmentModels).Error; err != nil {
		return err
	}

	byJob := make(map[uuid.UUID][]job.JobAssignment, len(jobs))
	for _, model := range assignmentModels {
		byJob[model.JobID] = append(byJob[model.JobID], model.ToDomain())
	}
	for i := range jobs {
		jobs[i].Assignments = byJob[jobs[i].ID]
	}
	return nil
}

// replaceAssignments rewrites the assignment rows to match the aggregate
func (r *GormJobRepository) replaceAssignments(tx *gorm.DB, j *job.Job) error {
	if err := tx.Delete(&models.JobAssignmentModel{}, "job_id = ?", j.ID).Error; err != nil {
		return err
	}
	if len(j.Assignments) == 0 {
		return nil
	}

	assignmentModels := make([]models.JobAssignmentModel, len(j.Assignments))
	for i, a := range j.Assignments {
		assignmentModels[i] = models.JobAssignmentModelFromDomain(a)
	}
	return tx.Create(&assignmentModels).Error
}

// applyFilter applies filter options to the query
func (r *GormJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, JobSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormJobRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "due_before":
			query = query.Where("due_at IS NOT NULL AND due_at <= ?", value)
		case "due_after":
			query = query.Where("due_at IS NOT NULL AND due_at >= ?", value)
		}
	}

	return query
}

// Ensure GormJobRepository implements JobRepository
var _ job.JobRepository = (*GormJobRepository)(nil)
