package conversation

import (
	"context"
	"fmt"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactMethodCreatedHandler re-runs conversation matching when a contact
// method appears. Conversations that arrived before the handle was on file
// sit unmatched; this handler links them as soon as the handle is known.
type ContactMethodCreatedHandler struct {
	conversationRepo conversation.FrontConversationRepository
	personRepo       client.PersonRepository
	logger           *zap.Logger
}

// NewContactMethodCreatedHandler creates a new handler
func NewContactMethodCreatedHandler(
	conversationRepo conversation.FrontConversationRepository,
	personRepo client.PersonRepository,
	logger *zap.Logger,
) *ContactMethodCreatedHandler {
	return &ContactMethodCreatedHandler{
		conversationRepo: conversationRepo,
		personRepo:       personRepo,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in.
// Updated is included because changing a contact method's value introduces
// a handle just like creating one does.
func (h *ContactMethodCreatedHandler) EventTypes() []string {
	return []string{
		client.EventTypeContactMethodCreated,
		client.EventTypeContactMethodUpdated,
	}
}

// Handle links unmatched conversations carrying the new handle
func (h *ContactMethodCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		normalized string
		personID   uuid.UUID
	)
	switch e := event.(type) {
	case *client.ContactMethodCreatedEvent:
		normalized = e.NormalizedValue
		personID = e.PersonID
	case *client.ContactMethodUpdatedEvent:
		normalized = e.NormalizedValue
		personID = e.PersonID
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	if normalized == "" {
		return nil
	}

	unmatched, err := h.conversationRepo.FindUnmatchedByHandle(ctx, event.TenantID(), normalized)
	if err != nil {
		return fmt.Errorf("failed to find unmatched conversations: %w", err)
	}
	if len(unmatched) == 0 {
		return nil
	}

	// Every unmatched row links to the handle's one owner
	owner, err := h.personRepo.FindByIDForTenant(ctx, event.TenantID(), personID)
	if err != nil {
		return fmt.Errorf("failed to resolve contact method owner: %w", err)
	}

	linked := 0
	for i := range unmatched {
		c := &unmatched[i]
		if err := c.LinkPerson(owner.ID, owner.ClientID); err != nil {
			h.logger.Error("failed to link conversation",
				zap.String("conversation_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := h.conversationRepo.Save(ctx, c); err != nil {
			h.logger.Error("failed to save matched conversation",
				zap.String("conversation_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		linked++
	}

	h.logger.Info("re-matched conversations for new contact method",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("normalized_value", normalized),
		zap.Int("linked", linked),
		zap.Int("candidates", len(unmatched)),
	)
	return nil
}

// Ensure ContactMethodCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ContactMethodCreatedHandler)(nil)
