package job

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeTask = "Task"

// Event type constants
const (
	EventTypeTaskCreated       = "TaskCreated"
	EventTypeTaskUpdated       = "TaskUpdated"
	EventTypeTaskStatusChanged = "TaskStatusChanged"
	EventTypeTaskDeleted       = "TaskDeleted"
)

// TaskCreatedEvent is published when a new task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	TaskID   uuid.UUID `json:"task_id"`
	JobID    uuid.UUID `json:"job_id"`
	Title    string    `json:"title"`
	Position int       `json:"position"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, t.ID, t.TenantID),
		TaskID:          t.ID,
		JobID:           t.JobID,
		Title:           t.Title,
		Position:        t.Position,
	}
}

// TaskUpdatedEvent is published when task details change
type TaskUpdatedEvent struct {
	shared.BaseDomainEvent
	TaskID uuid.UUID `json:"task_id"`
	JobID  uuid.UUID `json:"job_id"`
	Title  string    `json:"title"`
}

// NewTaskUpdatedEvent creates a new TaskUpdatedEvent
func NewTaskUpdatedEvent(t *Task) *TaskUpdatedEvent {
	return &TaskUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskUpdated, AggregateTypeTask, t.ID, t.TenantID),
		TaskID:          t.ID,
		JobID:           t.JobID,
		Title:           t.Title,
	}
}

// TaskStatusChangedEvent is published on every task status transition
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	TaskID    uuid.UUID  `json:"task_id"`
	JobID     uuid.UUID  `json:"job_id"`
	OldStatus TaskStatus `json:"old_status"`
	NewStatus TaskStatus `json:"new_status"`
}

// NewTaskStatusChangedEvent creates a new TaskStatusChangedEvent
func NewTaskStatusChangedEvent(t *Task, oldStatus, newStatus TaskStatus) *TaskStatusChangedEvent {
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskStatusChanged, AggregateTypeTask, t.ID, t.TenantID),
		TaskID:          t.ID,
		JobID:           t.JobID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TaskDeletedEvent is published when a task is deleted
type TaskDeletedEvent struct {
	shared.BaseDomainEvent
	TaskID uuid.UUID `json:"task_id"`
	JobID  uuid.UUID `json:"job_id"`
	Title  string    `json:"title"`
}

// NewTaskDeletedEvent creates a new TaskDeletedEvent
func NewTaskDeletedEvent(t *Task) *TaskDeletedEvent {
	return &TaskDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskDeleted, AggregateTypeTask, t.ID, t.TenantID),
		TaskID:          t.ID,
		JobID:           t.JobID,
		Title:           t.Title,
	}
}
