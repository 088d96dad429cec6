package job

import (
	"context"

	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskService handles the checklist tasks under a job
type TaskService struct {
	taskRepo       job.TaskRepository
	jobRepo        job.JobRepository
	eventPublisher shared.EventPublisher
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo job.TaskRepository,
	jobRepo job.JobRepository,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		jobRepo:  jobRepo,
	}
}

// SetEventPublisher sets the publisher used for deletion events
func (s *TaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create appends a new task at the end of a job's checklist
func (s *TaskService) Create(ctx context.Context, tenantID, jobID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if j.Status.IsTerminal() {
		return nil, shared.NewDomainError("JOB_CLOSED", "Cannot add tasks to a completed or cancelled job")
	}

	position, err := s.taskRepo.NextPosition(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	t, err := job.NewTask(tenantID, jobID, req.Title, position)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// GetByID retrieves a task by ID
func (s *TaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToTaskResponse(t)
	return &response, nil
}

// ListByJob retrieves all tasks of a job ordered by position
func (s *TaskService) ListByJob(ctx context.Context, tenantID, jobID uuid.UUID) ([]TaskResponse, error) {
	if _, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.FindByJobID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	return ToTaskResponses(tasks), nil
}

// Update renames a task
func (s *TaskService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := t.Rename(req.Title); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// ChangeStatus moves a task along its state machine. Task statuses are
// reopenable, completing every task does not complete the job.
func (s *TaskService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeTaskStatusRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := t.ChangeStatus(job.TaskStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// Reorder moves a task to a new position within its job and returns the
// job's checklist in the resulting order. Positions past the end of the
// list clamp to the last slot.
func (s *TaskService) Reorder(ctx context.Context, tenantID, jobID, taskID uuid.UUID, req ReorderTaskRequest) ([]TaskResponse, error) {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, taskID)
	if err != nil {
		return nil, err
	}
	if t.JobID != jobID {
		return nil, shared.NewDomainError("TASK_NOT_IN_JOB", "Task does not belong to this job")
	}

	newPosition := req.Position
	count, err := s.taskRepo.CountByJobID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if int64(newPosition) > count {
		newPosition = int(count)
	}

	if newPosition != t.Position {
		if err := s.taskRepo.Reorder(ctx, tenantID, jobID, taskID, newPosition); err != nil {
			return nil, err
		}
	}

	tasks, err := s.taskRepo.FindByJobID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	return ToTaskResponses(tasks), nil
}

// Delete deletes a task and closes the position gap it leaves
func (s *TaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, job.NewTaskDeletedEvent(t))
	}
	return nil
}
