package job

import (
	"context"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobService handles job-related business operations
type JobService struct {
	jobRepo        job.JobRepository
	clientRepo     client.ClientRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo job.JobRepository,
	clientRepo client.ClientRepository,
	userRepo identity.UserRepository,
) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
	}
}

// SetEventPublisher sets the publisher used for events that cannot ride
// the outbox (deletions). Save-path events reach the bus through the
// outbox processor.
func (s *JobService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new job for a client
func (s *JobService) Create(ctx context.Context, tenantID uuid.UUID, req CreateJobRequest) (*JobResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if c.IsArchived() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot create a job for an archived client")
	}

	j, err := job.NewJob(tenantID, req.ClientID, req.Title, req.Description, job.JobPriority(req.Priority))
	if err != nil {
		return nil, err
	}

	// Set optional fields
	if req.DueAt != nil {
		if err := j.SetDueAt(req.DueAt); err != nil {
			return nil, err
		}
	}
	if req.QuotedTotal != nil {
		if err := j.SetQuotedTotal(*req.QuotedTotal); err != nil {
			return nil, err
		}
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// GetByID retrieves a job by ID
func (s *JobService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToJobResponse(j)
	return &response, nil
}

// List retrieves jobs with filtering and pagination. AssignedTo narrows
// the result to jobs the user is assigned to, which is how the
// "assigned" data scope is applied for technicians.
func (s *JobService) List(ctx context.Context, tenantID uuid.UUID, filter JobListFilter) ([]JobListItemResponse, int64, error) {
	domainFilter := buildJobFilter(filter)

	var (
		jobs []job.Job
		err  error
	)
	switch {
	case filter.AssignedTo != nil:
		jobs, err = s.jobRepo.FindAssignedToUser(ctx, tenantID, *filter.AssignedTo, domainFilter)
	case filter.ClientID != nil:
		jobs, err = s.jobRepo.FindByClientID(ctx, tenantID, *filter.ClientID, domainFilter)
	case filter.Status != "":
		jobs, err = s.jobRepo.FindByStatus(ctx, tenantID, job.JobStatus(filter.Status), domainFilter)
	default:
		jobs, err = s.jobRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if filter.AssignedTo != nil {
		total, err = s.jobRepo.CountAssignedToUser(ctx, tenantID, *filter.AssignedTo, domainFilter)
	} else {
		total, err = s.jobRepo.CountForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToJobListItemResponses(jobs), total, nil
}

// ListByClient retrieves jobs for a specific client
func (s *JobService) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter JobListFilter) ([]JobListItemResponse, int64, error) {
	filter.ClientID = &clientID
	return s.List(ctx, tenantID, filter)
}

// Update updates a job's details
func (s *JobService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateJobRequest) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Description != nil {
		title := j.Title
		description := j.Description
		if req.Title != nil {
			title = *req.Title
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := j.UpdateDetails(title, description); err != nil {
			return nil, err
		}
	}

	if req.Priority != nil {
		if err := j.SetPriority(job.JobPriority(*req.Priority)); err != nil {
			return nil, err
		}
	}

	if req.ClearDueAt {
		if err := j.SetDueAt(nil); err != nil {
			return nil, err
		}
	} else if req.DueAt != nil {
		if err := j.SetDueAt(req.DueAt); err != nil {
			return nil, err
		}
	}

	if req.QuotedTotal != nil {
		if err := j.SetQuotedTotal(*req.QuotedTotal); err != nil {
			return nil, err
		}
	}

	j.IncrementVersion()
	if err := s.jobRepo.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// ChangeStatus moves a job along its state machine
func (s *JobService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeJobStatusRequest) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := j.ChangeStatus(job.JobStatus(req.Status)); err != nil {
		return nil, err
	}

	j.IncrementVersion()
	if err := s.jobRepo.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Assign assigns a user to a job. Any existing user may be assigned,
// role is not checked.
func (s *JobService) Assign(ctx context.Context, tenantID, id uuid.UUID, req AssignJobRequest) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByIDForTenant(ctx, tenantID, req.UserID); err != nil {
		return nil, err
	}

	if err := j.Assign(req.UserID); err != nil {
		return nil, err
	}

	j.IncrementVersion()
	if err := s.jobRepo.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Unassign removes a user from a job
func (s *JobService) Unassign(ctx context.Context, tenantID, id, userID uuid.UUID) (*JobResponse, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := j.Unassign(userID); err != nil {
		return nil, err
	}

	j.IncrementVersion()
	if err := s.jobRepo.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}

	response := ToJobResponse(j)
	return &response, nil
}

// Delete deletes a job
func (s *JobService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.jobRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, job.NewJobDeletedEvent(j))
	}
	return nil
}

// GetStatusSummary retrieves job counts by status for a tenant
func (s *JobService) GetStatusSummary(ctx context.Context, tenantID uuid.UUID) (*JobStatusSummary, error) {
	summary := &JobStatusSummary{}

	counts := []struct {
		status job.JobStatus
		target *int64
	}{
		{job.JobStatusOpen, &summary.Open},
		{job.JobStatusInProgress, &summary.InProgress},
		{job.JobStatusPaused, &summary.Paused},
		{job.JobStatusWaitingCustomer, &summary.WaitingCustomer},
		{job.JobStatusWaitingSchedule, &summary.WaitingSchedule},
		{job.JobStatusCompleted, &summary.Completed},
		{job.JobStatusCancelled, &summary.Cancelled},
	}

	for _, c := range counts {
		count, err := s.jobRepo.CountForTenant(ctx, tenantID, shared.Filter{
			Filters: map[string]interface{}{"status": c.status.String()},
		})
		if err != nil {
			return nil, err
		}
		*c.target = count
		summary.Total += count
	}

	return summary, nil
}

func buildJobFilter(filter JobListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	if filter.DueBefore != nil {
		domainFilter.Filters["due_before"] = *filter.DueBefore
	}
	if filter.DueAfter != nil {
		domainFilter.Filters["due_after"] = *filter.DueAfter
	}

	return domainFilter
}
