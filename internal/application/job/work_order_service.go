package job

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkOrderDocument is a rendered work-order PDF ready to stream to the
// caller
type WorkOrderDocument struct {
	FileName  string
	PDF       []byte
	PageCount int
}

// WorkOrderService assembles the printable work order for a job: the job
// itself, its client, the client's on-site contact, the task checklist and
// the assigned technicians.
type WorkOrderService struct {
	jobRepo     job.JobRepository
	taskRepo    job.TaskRepository
	clientRepo  client.ClientRepository
	personRepo  client.PersonRepository
	contactRepo client.ContactMethodRepository
	userRepo    identity.UserRepository
	tenantRepo  identity.TenantRepository
	renderer    *render.WorkOrderRenderer
	logger      *zap.Logger
}

// NewWorkOrderService creates a new WorkOrderService
func NewWorkOrderService(
	jobRepo job.JobRepository,
	taskRepo job.TaskRepository,
	clientRepo client.ClientRepository,
	personRepo client.PersonRepository,
	contactRepo client.ContactMethodRepository,
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	renderer *render.WorkOrderRenderer,
	logger *zap.Logger,
) *WorkOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkOrderService{
		jobRepo:     jobRepo,
		taskRepo:    taskRepo,
		clientRepo:  clientRepo,
		personRepo:  personRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
		tenantRepo:  tenantRepo,
		renderer:    renderer,
		logger:      logger,
	}
}

// RenderWorkOrder renders the work-order PDF for a job
func (s *WorkOrderService) RenderWorkOrder(ctx context.Context, tenantID, jobID uuid.UUID) (*WorkOrderDocument, error) {
	j, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, j.ClientID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.FindByJobID(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	contact, methods, err := s.loadContact(ctx, tenantID, c.ID)
	if err != nil {
		return nil, err
	}

	assignees, err := s.loadAssignees(ctx, tenantID, j)
	if err != nil {
		return nil, err
	}

	data := render.BuildWorkOrderData(tenant, j, c, contact, methods, tasks, assignees)

	result, err := s.renderer.RenderPDF(ctx, data)
	if err != nil {
		return nil, err
	}

	return &WorkOrderDocument{
		FileName:  data.Job.Number + ".pdf",
		PDF:       result.PDFData,
		PageCount: result.PageCount,
	}, nil
}

// loadContact picks the client's on-site contact: the oldest active person,
// with their contact methods (primary first). A client without people
// renders without a contact block.
func (s *WorkOrderService) loadContact(ctx context.Context, tenantID, clientID uuid.UUID) (*client.Person, []client.ContactMethod, error) {
	people, err := s.personRepo.FindByClientID(ctx, tenantID, clientID, shared.Filter{
		Page:     1,
		PageSize: 50,
		OrderBy:  "created_at",
		OrderDir: "asc",
	})
	if err != nil {
		return nil, nil, err
	}

	var contact *client.Person
	for i := range people {
		if people[i].IsActive {
			contact = &people[i]
			break
		}
	}
	if contact == nil {
		return nil, nil, nil
	}

	methods, err := s.contactRepo.FindByPersonID(ctx, tenantID, contact.ID)
	if err != nil {
		return nil, nil, err
	}

	return contact, methods, nil
}

// loadAssignees resolves assignment user IDs to users. Assignments pointing
// at users deleted since are skipped rather than failing the document.
func (s *WorkOrderService) loadAssignees(ctx context.Context, tenantID uuid.UUID, j *job.Job) ([]identity.User, error) {
	assignees := make([]identity.User, 0, len(j.Assignments))
	for _, a := range j.Assignments {
		user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, a.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("work order assignee no longer exists",
					zap.String("job_id", j.ID.String()),
					zap.String("user_id", a.UserID.String()))
				continue
			}
			return nil, err
		}
		assignees = append(assignees, *user)
	}
	return assignees, nil
}
