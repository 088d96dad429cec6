package conversation

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeFrontConversation = "FrontConversation"

// Event type constants
const (
	EventTypeConversationSynced   = "FrontConversationSynced"
	EventTypeConversationMatched  = "FrontConversationMatched"
	EventTypeConversationUnlinked = "FrontConversationUnlinked"
)

// ConversationSyncedEvent is published when a conversation row is created
// or updated from platform data
type ConversationSyncedEvent struct {
	shared.BaseDomainEvent
	ConversationID   uuid.UUID      `json:"conversation_id"`
	Platform         PlatformCode   `json:"platform"`
	PlatformID       string         `json:"platform_id"`
	Subject          string         `json:"subject,omitempty"`
	StatusCategory   StatusCategory `json:"status_category"`
	NormalizedHandle string         `json:"normalized_handle,omitempty"`
	Created          bool           `json:"created"`
}

// NewConversationSyncedEvent creates a new ConversationSyncedEvent
func NewConversationSyncedEvent(c *FrontConversation, created bool) *ConversationSyncedEvent {
	return &ConversationSyncedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeConversationSynced, AggregateTypeFrontConversation, c.ID, c.TenantID),
		ConversationID:   c.ID,
		Platform:         c.Platform,
		PlatformID:       c.PlatformID,
		Subject:          c.Subject,
		StatusCategory:   c.StatusCategory,
		NormalizedHandle: c.RecipientNormalized,
		Created:          created,
	}
}

// ConversationMatchedEvent is published when a conversation is linked to a
// CRM person
type ConversationMatchedEvent struct {
	shared.BaseDomainEvent
	ConversationID uuid.UUID `json:"conversation_id"`
	PlatformID     string    `json:"platform_id"`
	PersonID       uuid.UUID `json:"person_id"`
	ClientID       uuid.UUID `json:"client_id"`
}

// NewConversationMatchedEvent creates a new ConversationMatchedEvent
func NewConversationMatchedEvent(c *FrontConversation, personID, clientID uuid.UUID) *ConversationMatchedEvent {
	return &ConversationMatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConversationMatched, AggregateTypeFrontConversation, c.ID, c.TenantID),
		ConversationID:  c.ID,
		PlatformID:      c.PlatformID,
		PersonID:        personID,
		ClientID:        clientID,
	}
}

// ConversationUnlinkedEvent is published when a conversation loses its CRM
// link (handle changed or link removed manually)
type ConversationUnlinkedEvent struct {
	shared.BaseDomainEvent
	ConversationID uuid.UUID `json:"conversation_id"`
	PlatformID     string    `json:"platform_id"`
}

// NewConversationUnlinkedEvent creates a new ConversationUnlinkedEvent
func NewConversationUnlinkedEvent(c *FrontConversation) *ConversationUnlinkedEvent {
	return &ConversationUnlinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConversationUnlinked, AggregateTypeFrontConversation, c.ID, c.TenantID),
		ConversationID:  c.ID,
		PlatformID:      c.PlatformID,
	}
}
