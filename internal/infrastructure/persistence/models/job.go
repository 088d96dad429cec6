package models

import (
	"time"

	"github.com/bos/backend/internal/domain/job"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobModel is the persistence model for the Job aggregate root.
// Assignments live in their own table and are loaded with the job.
type JobModel struct {
	TenantAggregateModel
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Status      job.JobStatus   `gorm:"type:varchar(40);not null;default:'open';index"`
	Priority    job.JobPriority `gorm:"type:varchar(30);not null;default:'normal'"`
	DueAt       *time.Time      `gorm:"index"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	QuotedTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the persistence model to a domain Job entity.
// Assignments are not populated here; the repository loads them.
func (m *JobModel) ToDomain() *job.Job {
	j := &job.Job{
		ClientID:    m.ClientID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		Priority:    m.Priority,
		DueAt:       m.DueAt,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
		QuotedTotal: m.QuotedTotal,
	}
	m.PopulateTenantAggregateRoot(&j.TenantAggregateRoot)
	return j
}

// FromDomain populates the persistence model from a domain Job entity.
func (m *JobModel) FromDomain(j *job.Job) {
	m.FromDomainTenantAggregateRoot(j.TenantAggregateRoot)
	m.ClientID = j.ClientID
	m.Title = j.Title
	m.Description = j.Description
	m.Status = j.Status
	m.Priority = j.Priority
	m.DueAt = j.DueAt
	m.StartedAt = j.StartedAt
	m.CompletedAt = j.CompletedAt
	m.QuotedTotal = j.QuotedTotal
}

// JobModelFromDomain creates a new persistence model from a domain entity.
func JobModelFromDomain(j *job.Job) *JobModel {
	m := &JobModel{}
	m.FromDomain(j)
	return m
}

// JobAssignmentModel is the persistence model for the technician-to-job
// link. A user is assigned to a job at most once.
type JobAssignmentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_job_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_job_user,priority:2;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JobAssignmentModel) TableName() string {
	return "job_assignments"
}

// ToDomain converts the persistence model to a domain JobAssignment.
func (m *JobAssignmentModel) ToDomain() job.JobAssignment {
	return job.JobAssignment{
		ID:        m.ID,
		JobID:     m.JobID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain JobAssignment.
func (m *JobAssignmentModel) FromDomain(a job.JobAssignment) {
	m.ID = a.ID
	m.JobID = a.JobID
	m.UserID = a.UserID
	m.CreatedAt = a.CreatedAt
}

// JobAssignmentModelFromDomain creates a new persistence model from a domain value.
func JobAssignmentModelFromDomain(a job.JobAssignment) JobAssignmentModel {
	m := JobAssignmentModel{}
	m.FromDomain(a)
	return m
}

// TaskModel is the persistence model for the Task aggregate root.
// Position is dense per job (1..n) and drives checklist ordering.
type TaskModel struct {
	TenantAggregateModel
	JobID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title    string         `gorm:"type:varchar(255);not null"`
	Status   job.TaskStatus `gorm:"type:varchar(20);not null;default:'new'"`
	Position int            `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *job.Task {
	t := &job.Task{
		JobID:    m.JobID,
		Title:    m.Title,
		Status:   m.Status,
		Position: m.Position,
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *job.Task) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.JobID = t.JobID
	m.Title = t.Title
	m.Status = t.Status
	m.Position = t.Position
}

// TaskModelFromDomain creates a new persistence model from a domain entity.
func TaskModelFromDomain(t *job.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
