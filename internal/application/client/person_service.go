package client

import (
	"context"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PersonService handles people attached to clients
type PersonService struct {
	personRepo     client.PersonRepository
	clientRepo     client.ClientRepository
	eventPublisher shared.EventPublisher
}

// NewPersonService creates a new PersonService
func NewPersonService(personRepo client.PersonRepository, clientRepo client.ClientRepository) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		clientRepo: clientRepo,
	}
}

// SetEventPublisher wires a publisher for events that cannot ride the
// outbox (deletions)
func (s *PersonService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new person under a client
func (s *PersonService) Create(ctx context.Context, tenantID, clientID uuid.UUID, req CreatePersonRequest) (*PersonResponse, error) {
	// Validate the client exists and accepts new people
	c, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	if c.IsArchived() {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot add people to an archived client")
	}

	p, err := client.NewPerson(tenantID, clientID, req.NameFirst, req.NameLast)
	if err != nil {
		return nil, err
	}

	if req.NamePreferred != "" {
		if err := p.UpdateName(p.NameFirst, p.NameLast, req.NamePreferred); err != nil {
			return nil, err
		}
	}
	if req.Title != "" {
		if err := p.UpdateTitle(req.Title); err != nil {
			return nil, err
		}
	}

	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPersonResponse(p)
	return &response, nil
}

// GetByID retrieves a person by ID
func (s *PersonService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PersonResponse, error) {
	p, err := s.personRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToPersonResponse(p)
	return &response, nil
}

// ListByClient retrieves people attached to a client
func (s *PersonService) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter PersonListFilter) ([]PersonResponse, int64, error) {
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID); err != nil {
		return nil, 0, err
	}

	domainFilter := buildPersonFilter(filter)

	people, err := s.personRepo.FindByClientID(ctx, tenantID, clientID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.personRepo.CountByClientID(ctx, tenantID, clientID)
	if err != nil {
		return nil, 0, err
	}

	return ToPersonResponses(people), total, nil
}

// Update updates a person's name and title
func (s *PersonService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePersonRequest) (*PersonResponse, error) {
	p, err := s.personRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.NameFirst != nil || req.NameLast != nil || req.NamePreferred != nil {
		nameFirst := p.NameFirst
		nameLast := p.NameLast
		namePreferred := p.NamePreferred
		if req.NameFirst != nil {
			nameFirst = *req.NameFirst
		}
		if req.NameLast != nil {
			nameLast = *req.NameLast
		}
		if req.NamePreferred != nil {
			namePreferred = *req.NamePreferred
		}
		if err := p.UpdateName(nameFirst, nameLast, namePreferred); err != nil {
			return nil, err
		}
	}
	if req.Title != nil {
		if err := p.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}

	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPersonResponse(p)
	return &response, nil
}

// Deactivate marks a person inactive
func (s *PersonService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*PersonResponse, error) {
	p, err := s.personRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := p.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPersonResponse(p)
	return &response, nil
}

// Activate re-activates a person
func (s *PersonService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*PersonResponse, error) {
	p, err := s.personRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := p.Activate(); err != nil {
		return nil, err
	}

	if err := s.personRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPersonResponse(p)
	return &response, nil
}

// Delete removes a person permanently
func (s *PersonService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.personRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.personRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, client.NewPersonDeletedEvent(p))
	}
	return nil
}

func buildPersonFilter(filter PersonListFilter) shared.Filter {
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
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["is_active"] = *filter.Active
	}
	return domainFilter
}
