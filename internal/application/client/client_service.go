package client

import (
	"context"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo     client.ClientRepository
	jobRepo        job.JobRepository
	eventPublisher shared.EventPublisher
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo client.ClientRepository,
	jobRepo job.JobRepository,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		jobRepo:    jobRepo,
	}
}

// SetEventPublisher wires a publisher for events that cannot ride the
// outbox (deletions)
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	// Check if code already exists
	exists, err := s.clientRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this code already exists")
	}

	c, err := client.NewClient(tenantID, req.Code, req.Name, client.ClientType(req.Type))
	if err != nil {
		return nil, err
	}

	// Set optional fields
	if req.Address != "" {
		if err := c.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := c.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// GetByCode retrieves a client by its code
func (s *ClientService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// List retrieves clients with pagination and filtering
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientListFilter) ([]ClientListResponse, int64, error) {
	domainFilter := buildClientFilter(filter)

	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientListResponses(clients), total, nil
}

// Update updates a client's mutable fields
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := c.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if err := c.ChangeType(client.ClientType(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := c.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := c.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	c.IncrementVersion()
	if err := s.clientRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Archive archives a client
func (s *ClientService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := c.Archive(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Unarchive restores an archived client
func (s *ClientService) Unarchive(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := c.Unarchive(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Delete removes a client permanently
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	// Check if client has jobs
	jobCount, err := s.jobRepo.CountByClientID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if jobCount > 0 {
		return shared.NewDomainError("CLIENT_HAS_JOBS", "Cannot delete client with associated jobs")
	}

	if err := s.clientRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, client.NewClientDeletedEvent(c))
	}
	return nil
}

func buildClientFilter(filter ClientListFilter) shared.Filter {
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
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	return domainFilter
}
