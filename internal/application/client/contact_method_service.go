package client

import (
	"context"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactMethodService handles contact methods attached to people.
// Phone and email handles are unique per tenant so an inbound conversation
// resolves to at most one person.
type ContactMethodService struct {
	contactRepo    client.ContactMethodRepository
	personRepo     client.PersonRepository
	eventPublisher shared.EventPublisher
}

// NewContactMethodService creates a new ContactMethodService
func NewContactMethodService(
	contactRepo client.ContactMethodRepository,
	personRepo client.PersonRepository,
) *ContactMethodService {
	return &ContactMethodService{
		contactRepo: contactRepo,
		personRepo:  personRepo,
	}
}

// SetEventPublisher wires a publisher for events that cannot ride the
// outbox (deletions)
func (s *ContactMethodService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a contact method to a person
func (s *ContactMethodService) Create(ctx context.Context, tenantID, personID uuid.UUID, req CreateContactMethodRequest) (*ContactMethodResponse, error) {
	if _, err := s.personRepo.FindByIDForTenant(ctx, tenantID, personID); err != nil {
		return nil, err
	}

	cm, err := client.NewContactMethod(tenantID, personID, client.ContactType(req.Type), req.Value)
	if err != nil {
		return nil, err
	}

	// Phone and email handles must resolve to a single person
	if cm.Type != client.ContactTypeAddress {
		exists, err := s.contactRepo.ExistsByNormalizedValue(ctx, tenantID, cm.Type, cm.NormalizedValue)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("CONTACT_METHOD_EXISTS", "This contact method is already registered")
		}
	}

	if req.IsPrimary {
		if err := s.contactRepo.ClearPrimary(ctx, tenantID, personID, cm.Type); err != nil {
			return nil, err
		}
		cm.MarkPrimary()
	}

	if err := s.contactRepo.Save(ctx, cm); err != nil {
		return nil, err
	}

	response := ToContactMethodResponse(cm)
	return &response, nil
}

// GetByID retrieves a contact method by ID
func (s *ContactMethodService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ContactMethodResponse, error) {
	cm, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToContactMethodResponse(cm)
	return &response, nil
}

// ListByPerson retrieves every contact method of a person
func (s *ContactMethodService) ListByPerson(ctx context.Context, tenantID, personID uuid.UUID) ([]ContactMethodResponse, error) {
	if _, err := s.personRepo.FindByIDForTenant(ctx, tenantID, personID); err != nil {
		return nil, err
	}

	methods, err := s.contactRepo.FindByPersonID(ctx, tenantID, personID)
	if err != nil {
		return nil, err
	}

	return ToContactMethodResponses(methods), nil
}

// UpdateValue re-normalizes and stores a new value for a contact method
func (s *ContactMethodService) UpdateValue(ctx context.Context, tenantID, id uuid.UUID, req UpdateContactMethodRequest) (*ContactMethodResponse, error) {
	cm, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	// Pre-compute the new handle to keep the uniqueness check ahead of
	// the mutation
	if cm.Type != client.ContactTypeAddress {
		normalized, err := client.Normalize(cm.Type, req.Value)
		if err != nil {
			return nil, err
		}
		if normalized != cm.NormalizedValue {
			exists, err := s.contactRepo.ExistsByNormalizedValue(ctx, tenantID, cm.Type, normalized)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("CONTACT_METHOD_EXISTS", "This contact method is already registered")
			}
		}
	}

	if err := cm.UpdateValue(req.Value); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, cm); err != nil {
		return nil, err
	}

	response := ToContactMethodResponse(cm)
	return &response, nil
}

// MarkPrimary promotes a contact method to the single primary of its type
// for the person
func (s *ContactMethodService) MarkPrimary(ctx context.Context, tenantID, id uuid.UUID) (*ContactMethodResponse, error) {
	cm, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.contactRepo.ClearPrimary(ctx, tenantID, cm.PersonID, cm.Type); err != nil {
		return nil, err
	}

	cm.MarkPrimary()

	if err := s.contactRepo.Save(ctx, cm); err != nil {
		return nil, err
	}

	response := ToContactMethodResponse(cm)
	return &response, nil
}

// Delete removes a contact method
func (s *ContactMethodService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	cm, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.contactRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, client.NewContactMethodDeletedEvent(cm))
	}
	return nil
}
