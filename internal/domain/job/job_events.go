package job

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeJob = "Job"

// Event type constants
const (
	EventTypeJobCreated       = "JobCreated"
	EventTypeJobUpdated       = "JobUpdated"
	EventTypeJobStatusChanged = "JobStatusChanged"
	EventTypeJobAssigned      = "JobAssigned"
	EventTypeJobUnassigned    = "JobUnassigned"
	EventTypeJobDeleted       = "JobDeleted"
)

// JobCreatedEvent is published when a new job is created
type JobCreatedEvent struct {
	shared.BaseDomainEvent
	JobID    uuid.UUID   `json:"job_id"`
	ClientID uuid.UUID   `json:"client_id"`
	Title    string      `json:"title"`
	Priority JobPriority `json:"priority"`
}

// NewJobCreatedEvent creates a new JobCreatedEvent
func NewJobCreatedEvent(j *Job) *JobCreatedEvent {
	return &JobCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobCreated, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		ClientID:        j.ClientID,
		Title:           j.Title,
		Priority:        j.Priority,
	}
}

// JobUpdatedEvent is published when job details change
type JobUpdatedEvent struct {
	shared.BaseDomainEvent
	JobID    uuid.UUID   `json:"job_id"`
	ClientID uuid.UUID   `json:"client_id"`
	Title    string      `json:"title"`
	Priority JobPriority `json:"priority"`
}

// NewJobUpdatedEvent creates a new JobUpdatedEvent
func NewJobUpdatedEvent(j *Job) *JobUpdatedEvent {
	return &JobUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobUpdated, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		ClientID:        j.ClientID,
		Title:           j.Title,
		Priority:        j.Priority,
	}
}

// JobStatusChangedEvent is published on every status transition
type JobStatusChangedEvent struct {
	shared.BaseDomainEvent
	JobID     uuid.UUID `json:"job_id"`
	ClientID  uuid.UUID `json:"client_id"`
	Title     string    `json:"title"`
	OldStatus JobStatus `json:"old_status"`
	NewStatus JobStatus `json:"new_status"`
}

// NewJobStatusChangedEvent creates a new JobStatusChangedEvent
func NewJobStatusChangedEvent(j *Job, oldStatus, newStatus JobStatus) *JobStatusChangedEvent {
	return &JobStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobStatusChanged, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		ClientID:        j.ClientID,
		Title:           j.Title,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// JobAssignedEvent is published when a technician is assigned
type JobAssignedEvent struct {
	shared.BaseDomainEvent
	JobID  uuid.UUID `json:"job_id"`
	UserID uuid.UUID `json:"user_id"`
}

// NewJobAssignedEvent creates a new JobAssignedEvent
func NewJobAssignedEvent(j *Job, userID uuid.UUID) *JobAssignedEvent {
	return &JobAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobAssigned, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		UserID:          userID,
	}
}

// JobUnassignedEvent is published when a technician is removed
type JobUnassignedEvent struct {
	shared.BaseDomainEvent
	JobID  uuid.UUID `json:"job_id"`
	UserID uuid.UUID `json:"user_id"`
}

// NewJobUnassignedEvent creates a new JobUnassignedEvent
func NewJobUnassignedEvent(j *Job, userID uuid.UUID) *JobUnassignedEvent {
	return &JobUnassignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobUnassigned, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		UserID:          userID,
	}
}

// JobDeletedEvent is published when a job is deleted
type JobDeletedEvent struct {
	shared.BaseDomainEvent
	JobID    uuid.UUID `json:"job_id"`
	ClientID uuid.UUID `json:"client_id"`
	Title    string    `json:"title"`
}

// NewJobDeletedEvent creates a new JobDeletedEvent
func NewJobDeletedEvent(j *Job) *JobDeletedEvent {
	return &JobDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobDeleted, AggregateTypeJob, j.ID, j.TenantID),
		JobID:           j.ID,
		ClientID:        j.ClientID,
		Title:           j.Title,
	}
}
