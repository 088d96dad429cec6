package conversation

import (
	"context"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ConversationService serves the CRM-side view of synced helpdesk
// conversations: listing, inspection, and manual link management. Rows are
// written by the sync pipeline; this service never talks to the platform.
type ConversationService struct {
	conversationRepo conversation.FrontConversationRepository
	personRepo       client.PersonRepository
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	conversationRepo conversation.FrontConversationRepository,
	personRepo client.PersonRepository,
) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		personRepo:       personRepo,
	}
}

// GetByID retrieves a conversation by ID
func (s *ConversationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ConversationResponse, error) {
	c, err := s.conversationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToConversationResponse(c)
	return &response, nil
}

// List retrieves conversations with pagination and filtering
func (s *ConversationService) List(ctx context.Context, tenantID uuid.UUID, filter ConversationListFilter) ([]ConversationResponse, int64, error) {
	domainFilter := buildConversationFilter(filter)

	var (
		conversations []conversation.FrontConversation
		err           error
	)
	if filter.PersonID != nil {
		conversations, err = s.conversationRepo.FindByMatchedPerson(ctx, tenantID, *filter.PersonID, domainFilter)
	} else {
		conversations, err = s.conversationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.conversationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToConversationResponses(conversations), total, nil
}

// ListByPerson retrieves conversations linked to a person
func (s *ConversationService) ListByPerson(ctx context.Context, tenantID, personID uuid.UUID, filter ConversationListFilter) ([]ConversationResponse, int64, error) {
	filter.PersonID = &personID
	return s.List(ctx, tenantID, filter)
}

// Relink attaches a conversation to a person by hand. The person's client
// comes along; the automatic matcher never overrides a manual link because
// linked conversations are excluded from re-matching.
func (s *ConversationService) Relink(ctx context.Context, tenantID, id uuid.UUID, req RelinkConversationRequest) (*ConversationResponse, error) {
	c, err := s.conversationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	p, err := s.personRepo.FindByIDForTenant(ctx, tenantID, req.PersonID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, shared.NewDomainError("PERSON_INACTIVE", "Cannot link a conversation to an inactive person")
	}

	if err := c.LinkPerson(p.ID, p.ClientID); err != nil {
		return nil, err
	}

	if err := s.conversationRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToConversationResponse(c)
	return &response, nil
}

// Unlink detaches a conversation from the CRM
func (s *ConversationService) Unlink(ctx context.Context, tenantID, id uuid.UUID) (*ConversationResponse, error) {
	c, err := s.conversationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	c.Unlink()

	if err := s.conversationRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToConversationResponse(c)
	return &response, nil
}

func buildConversationFilter(filter ConversationListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "api_updated_at"
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
	if filter.StatusCategory != "" {
		domainFilter.Filters["status_category"] = filter.StatusCategory
	}
	if filter.Matched != nil {
		domainFilter.Filters["matched"] = *filter.Matched
	}
	if filter.PersonID != nil {
		domainFilter.Filters["matched_person_id"] = filter.PersonID.String()
	}
	if filter.ClientID != nil {
		domainFilter.Filters["matched_client_id"] = filter.ClientID.String()
	}
	return domainFilter
}
