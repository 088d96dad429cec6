package job

import (
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobStatus represents the lifecycle status of a job
type JobStatus string

const (
	JobStatusOpen            JobStatus = "open"
	JobStatusInProgress      JobStatus = "in_progress"
	JobStatusPaused          JobStatus = "paused"
	JobStatusWaitingCustomer JobStatus = "waiting_for_customer"
	JobStatusWaitingSchedule JobStatus = "waiting_for_scheduled_appointment"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusCancelled       JobStatus = "cancelled"
)

// IsValid checks if the status is a valid JobStatus
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusPaused, JobStatusWaitingCustomer,
		JobStatusWaitingSchedule, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusOpen:
		return target == JobStatusInProgress || target == JobStatusWaitingSchedule || target == JobStatusCancelled
	case JobStatusInProgress:
		return target == JobStatusPaused || target == JobStatusWaitingCustomer ||
			target == JobStatusCompleted || target == JobStatusCancelled
	case JobStatusPaused:
		return target == JobStatusInProgress || target == JobStatusCancelled
	case JobStatusWaitingCustomer:
		return target == JobStatusInProgress || target == JobStatusCancelled
	case JobStatusWaitingSchedule:
		return target == JobStatusInProgress || target == JobStatusOpen || target == JobStatusCancelled
	case JobStatusCompleted, JobStatusCancelled:
		return false
	}
	return false
}

// JobPriority represents how urgent a job is
type JobPriority string

const (
	JobPriorityCritical  JobPriority = "critical"
	JobPriorityVeryHigh  JobPriority = "very_high"
	JobPriorityHigh      JobPriority = "high"
	JobPriorityNormal    JobPriority = "normal"
	JobPriorityLow       JobPriority = "low"
	JobPriorityFollowup  JobPriority = "proactive_followup"
)

// IsValid checks if the priority is a valid JobPriority
func (p JobPriority) IsValid() bool {
	switch p {
	case JobPriorityCritical, JobPriorityVeryHigh, JobPriorityHigh,
		JobPriorityNormal, JobPriorityLow, JobPriorityFollowup:
		return true
	}
	return false
}

// String returns the string representation of JobPriority
func (p JobPriority) String() string {
	return string(p)
}

// Rank returns a sortable weight, lower is more urgent
func (p JobPriority) Rank() int {
	switch p {
	case JobPriorityCritical:
		return 0
	case JobPriorityVeryHigh:
		return 1
	case JobPriorityHigh:
		return 2
	case JobPriorityNormal:
		return 3
	case JobPriorityLow:
		return 4
	case JobPriorityFollowup:
		return 5
	}
	return 3
}

// JobAssignment links a technician (user) to a job
type JobAssignment struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// Job is the aggregate root for a unit of field-service work performed for
// a client. Status follows an explicit state machine; technicians are
// attached through assignments.
type Job struct {
	shared.TenantAggregateRoot
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Status      JobStatus       `gorm:"type:varchar(40);not null;default:'open';index"`
	Priority    JobPriority     `gorm:"type:varchar(30);not null;default:'normal'"`
	DueAt       *time.Time      `gorm:"index"`
	StartedAt   *time.Time      ``
	CompletedAt *time.Time      ``
	QuotedTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Assignments []JobAssignment `gorm:"-"`
}

// NewJob creates a new open job for a client
func NewJob(tenantID, clientID uuid.UUID, title, description string, priority JobPriority) (*Job, error) {
	title = strings.TrimSpace(title)
	if err := validateJobTitle(title); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "job must belong to a client")
	}
	if priority == "" {
		priority = JobPriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "unknown job priority")
	}

	j := &Job{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Title:               title,
		Description:         strings.TrimSpace(description),
		Status:              JobStatusOpen,
		Priority:            priority,
		QuotedTotal:         decimal.Zero,
	}

	j.AddDomainEvent(NewJobCreatedEvent(j))
	return j, nil
}

// ChangeStatus moves the job along its state machine. Entering in_progress
// for the first time stamps StartedAt; completing stamps CompletedAt.
func (j *Job) ChangeStatus(target JobStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "unknown job status")
	}
	if j.Status == target {
		return nil
	}
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"cannot transition job from "+j.Status.String()+" to "+target.String())
	}

	from := j.Status
	now := time.Now()
	j.Status = target

	if target == JobStatusInProgress && j.StartedAt == nil {
		j.StartedAt = &now
	}
	if target == JobStatusCompleted {
		j.CompletedAt = &now
	}

	j.UpdatedAt = now
	j.AddDomainEvent(NewJobStatusChangedEvent(j, from, target))
	return nil
}

// UpdateDetails changes title and description
func (j *Job) UpdateDetails(title, description string) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if err := validateJobTitle(title); err != nil {
		return err
	}
	j.Title = title
	j.Description = strings.TrimSpace(description)
	j.UpdatedAt = time.Now()
	j.AddDomainEvent(NewJobUpdatedEvent(j))
	return nil
}

// SetPriority changes the job priority
func (j *Job) SetPriority(priority JobPriority) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "unknown job priority")
	}
	if j.Priority == priority {
		return nil
	}
	j.Priority = priority
	j.UpdatedAt = time.Now()
	j.AddDomainEvent(NewJobUpdatedEvent(j))
	return nil
}

// SetDueAt sets or clears the due date
func (j *Job) SetDueAt(dueAt *time.Time) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	j.DueAt = dueAt
	j.UpdatedAt = time.Now()
	j.AddDomainEvent(NewJobUpdatedEvent(j))
	return nil
}

// SetQuotedTotal records the amount quoted for the work
func (j *Job) SetQuotedTotal(total decimal.Decimal) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "quoted total cannot be negative")
	}
	j.QuotedTotal = total
	j.UpdatedAt = time.Now()
	j.AddDomainEvent(NewJobUpdatedEvent(j))
	return nil
}

// Assign attaches a technician to the job. Assigning an already assigned
// user is a no-op.
func (j *Job) Assign(userID uuid.UUID) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "user ID cannot be empty")
	}
	if j.IsAssignedTo(userID) {
		return nil
	}

	j.Assignments = append(j.Assignments, JobAssignment{
		ID:        uuid.New(),
		JobID:     j.ID,
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	j.UpdatedAt = time.Now()
	j.AddDomainEvent(NewJobAssignedEvent(j, userID))
	return nil
}

// Unassign detaches a technician from the job
func (j *Job) Unassign(userID uuid.UUID) error {
	if err := j.ensureMutable(); err != nil {
		return err
	}
	for i, a := range j.Assignments {
		if a.UserID == userID {
			j.Assignments = append(j.Assignments[:i], j.Assignments[i+1:]...)
			j.UpdatedAt = time.Now()
			j.AddDomainEvent(NewJobUnassignedEvent(j, userID))
			return nil
		}
	}
	return shared.NewDomainError("NOT_ASSIGNED", "user is not assigned to this job")
}

// IsAssignedTo reports whether the user is assigned to the job
func (j *Job) IsAssignedTo(userID uuid.UUID) bool {
	for _, a := range j.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// AssignedUserIDs returns the IDs of all assigned technicians
func (j *Job) AssignedUserIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(j.Assignments))
	for _, a := range j.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}

func (j *Job) ensureMutable() error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("JOB_CLOSED", "completed or cancelled jobs cannot be modified")
	}
	return nil
}

func validateJobTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "job title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "job title cannot exceed 255 characters")
	}
	return nil
}
