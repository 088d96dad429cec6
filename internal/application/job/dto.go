package job

import (
	"time"

	"github.com/bos/backend/internal/domain/job"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Job DTOs
// =============================================================================

// CreateJobRequest represents a request to create a new job
type CreateJobRequest struct {
	ClientID    uuid.UUID        `json:"client_id" binding:"required"`
	Title       string           `json:"title" binding:"required,min=1,max=255"`
	Description string           `json:"description"`
	Priority    string           `json:"priority" binding:"omitempty,oneof=critical very_high high normal low proactive_followup"`
	DueAt       *time.Time       `json:"due_at"`
	QuotedTotal *decimal.Decimal `json:"quoted_total"`
}

// UpdateJobRequest represents a request to update a job.
// Nil fields are left unchanged; ClearDueAt removes the due date.
type UpdateJobRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Priority    *string          `json:"priority" binding:"omitempty,oneof=critical very_high high normal low proactive_followup"`
	DueAt       *time.Time       `json:"due_at"`
	ClearDueAt  bool             `json:"clear_due_at"`
	QuotedTotal *decimal.Decimal `json:"quoted_total"`
}

// ChangeJobStatusRequest represents a request to move a job along its
// state machine
type ChangeJobStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress paused waiting_for_customer waiting_for_scheduled_appointment completed cancelled"`
}

// AssignJobRequest represents a request to assign a user to a job
type AssignJobRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// JobAssignmentResponse represents a job assignment in API responses
type JobAssignmentResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// JobResponse represents a job in API responses
type JobResponse struct {
	ID          uuid.UUID               `json:"id"`
	TenantID    uuid.UUID               `json:"tenant_id"`
	ClientID    uuid.UUID               `json:"client_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	Priority    string                  `json:"priority"`
	DueAt       *time.Time              `json:"due_at,omitempty"`
	StartedAt   *time.Time              `json:"started_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	QuotedTotal decimal.Decimal         `json:"quoted_total"`
	Assignments []JobAssignmentResponse `json:"assignments"`
	Version     int                     `json:"version"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// JobListItemResponse represents a job in list responses
type JobListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ClientID        uuid.UUID       `json:"client_id"`
	Title           string          `json:"title"`
	Status          string          `json:"status"`
	Priority        string          `json:"priority"`
	DueAt           *time.Time      `json:"due_at,omitempty"`
	QuotedTotal     decimal.Decimal `json:"quoted_total"`
	AssignedUserIDs []uuid.UUID     `json:"assigned_user_ids"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// JobListFilter represents filter options for job lists
type JobListFilter struct {
	Search     string     `form:"search"`
	ClientID   *uuid.UUID `form:"client_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=open in_progress paused waiting_for_customer waiting_for_scheduled_appointment completed cancelled"`
	Priority   string     `form:"priority" binding:"omitempty,oneof=critical very_high high normal low proactive_followup"`
	AssignedTo *uuid.UUID `form:"assigned_to"`
	DueBefore  *time.Time `form:"due_before"`
	DueAfter   *time.Time `form:"due_after"`
	Page       int        `form:"page" binding:"min=1"`
	PageSize   int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// JobStatusSummary represents job counts by status for a tenant
type JobStatusSummary struct {
	Open            int64 `json:"open"`
	InProgress      int64 `json:"in_progress"`
	Paused          int64 `json:"paused"`
	WaitingCustomer int64 `json:"waiting_for_customer"`
	WaitingSchedule int64 `json:"waiting_for_scheduled_appointment"`
	Completed       int64 `json:"completed"`
	Cancelled       int64 `json:"cancelled"`
	Total           int64 `json:"total"`
}

// ToJobResponse converts a domain Job to JobResponse
func ToJobResponse(j *job.Job) JobResponse {
	assignments := make([]JobAssignmentResponse, len(j.Assignments))
	for i, a := range j.Assignments {
		assignments[i] = JobAssignmentResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			CreatedAt: a.CreatedAt,
		}
	}

	return JobResponse{
		ID:          j.ID,
		TenantID:    j.TenantID,
		ClientID:    j.ClientID,
		Title:       j.Title,
		Description: j.Description,
		Status:      j.Status.String(),
		Priority:    j.Priority.String(),
		DueAt:       j.DueAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		QuotedTotal: j.QuotedTotal,
		Assignments: assignments,
		Version:     j.Version,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ToJobListItemResponse converts a domain Job to JobListItemResponse
func ToJobListItemResponse(j *job.Job) JobListItemResponse {
	return JobListItemResponse{
		ID:              j.ID,
		ClientID:        j.ClientID,
		Title:           j.Title,
		Status:          j.Status.String(),
		Priority:        j.Priority.String(),
		DueAt:           j.DueAt,
		QuotedTotal:     j.QuotedTotal,
		AssignedUserIDs: j.AssignedUserIDs(),
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

// ToJobListItemResponses converts a slice of domain Jobs to list responses
func ToJobListItemResponses(jobs []job.Job) []JobListItemResponse {
	responses := make([]JobListItemResponse, len(jobs))
	for i := range jobs {
		responses[i] = ToJobListItemResponse(&jobs[i])
	}
	return responses
}

// =============================================================================
// Task DTOs
// =============================================================================

// CreateTaskRequest represents a request to add a task to a job
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// UpdateTaskRequest represents a request to rename a task
type UpdateTaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// ChangeTaskStatusRequest represents a request to change a task's status
type ChangeTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new in_progress completed cancelled"`
}

// ReorderTaskRequest represents a request to move a task to a new position
type ReorderTaskRequest struct {
	Position int `json:"position" binding:"required,min=1"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	JobID     uuid.UUID `json:"job_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *job.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		TenantID:  t.TenantID,
		JobID:     t.JobID,
		Title:     t.Title,
		Status:    t.Status.String(),
		Position:  t.Position,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of domain Tasks to responses
func ToTaskResponses(tasks []job.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i])
	}
	return responses
}
