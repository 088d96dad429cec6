package job

import (
	"context"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobRepository defines the interface for job persistence.
// Implementations load and save assignments together with the job.
type JobRepository interface {
	// FindByID finds a job by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// FindByIDForTenant finds a job by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Job, error)

	// FindAllForTenant finds all jobs for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Job, error)

	// FindByClientID finds all jobs for a client
	FindByClientID(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Job, error)

	// FindByStatus finds jobs by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status JobStatus, filter shared.Filter) ([]Job, error)

	// FindAssignedToUser finds jobs a user is assigned to. Backs the
	// "assigned" data scope for technicians.
	FindAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Job, error)

	// Save creates or updates a job together with its assignments
	Save(ctx context.Context, j *Job) error

	// SaveWithLock saves a job with optimistic locking (version check)
	SaveWithLock(ctx context.Context, j *Job) error

	// Delete deletes a job within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts jobs for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByClientID counts jobs attached to a client
	CountByClientID(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error)

	// CountAssignedToUser counts jobs a user is assigned to
	CountAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error)
}

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// FindByID finds a task by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByIDForTenant finds a task by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)

	// FindByJobID finds all tasks of a job ordered by position
	FindByJobID(ctx context.Context, tenantID, jobID uuid.UUID) ([]Task, error)

	// NextPosition returns the position a newly appended task should take
	NextPosition(ctx context.Context, tenantID, jobID uuid.UUID) (int, error)

	// Save creates or updates a task
	Save(ctx context.Context, t *Task) error

	// Reorder moves a task to a new position and shifts the tasks in
	// between, keeping positions dense (1..n per job).
	Reorder(ctx context.Context, tenantID, jobID, taskID uuid.UUID, newPosition int) error

	// Delete deletes a task and closes the position gap it leaves
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByJobID counts tasks of a job
	CountByJobID(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error)
}
