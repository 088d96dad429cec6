package job

import (
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus represents the checklist state of a task
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the status is a valid TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Unlike jobs, tasks may be reopened: completed and cancelled are not
// terminal.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	switch s {
	case TaskStatusNew:
		return target == TaskStatusInProgress || target == TaskStatusCompleted || target == TaskStatusCancelled
	case TaskStatusInProgress:
		return target == TaskStatusNew || target == TaskStatusCompleted || target == TaskStatusCancelled
	case TaskStatusCompleted:
		return target == TaskStatusNew || target == TaskStatusInProgress
	case TaskStatusCancelled:
		return target == TaskStatusNew
	}
	return false
}

// Task is an ordered checklist item under a job. Positions are dense
// (1..n per job); reordering shifts the affected range in the repository.
type Task struct {
	shared.TenantAggregateRoot
	JobID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title    string     `gorm:"type:varchar(255);not null"`
	Status   TaskStatus `gorm:"type:varchar(20);not null;default:'new'"`
	Position int        `gorm:"not null;default:1"`
}

// NewTask creates a new task at the given position under a job
func NewTask(tenantID, jobID uuid.UUID, title string, position int) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTaskTitle(title); err != nil {
		return nil, err
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "task must belong to a job")
	}
	if position < 1 {
		return nil, shared.NewDomainError("INVALID_POSITION", "task position starts at 1")
	}

	t := &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		JobID:               jobID,
		Title:               title,
		Status:              TaskStatusNew,
		Position:            position,
	}

	t.AddDomainEvent(NewTaskCreatedEvent(t))
	return t, nil
}

// Rename changes the task title
func (t *Task) Rename(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTaskTitle(title); err != nil {
		return err
	}
	t.Title = title
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTaskUpdatedEvent(t))
	return nil
}

// ChangeStatus moves the task along its state machine
func (t *Task) ChangeStatus(target TaskStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "unknown task status")
	}
	if t.Status == target {
		return nil
	}
	if !t.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"cannot transition task from "+t.Status.String()+" to "+target.String())
	}

	from := t.Status
	t.Status = target
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTaskStatusChangedEvent(t, from, target))
	return nil
}

func validateTaskTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "task title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "task title cannot exceed 255 characters")
	}
	return nil
}
