package client

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeContactMethod = "ContactMethod"

// Event type constants
const (
	EventTypeContactMethodCreated = "ContactMethodCreated"
	EventTypeContactMethodUpdated = "ContactMethodUpdated"
	EventTypeContactMethodDeleted = "ContactMethodDeleted"
)

// ContactMethodCreatedEvent is published when a contact method is created.
// The conversation matcher subscribes to it to link previously unmatched
// helpdesk conversations carrying this handle.
type ContactMethodCreatedEvent struct {
	shared.BaseDomainEvent
	ContactMethodID uuid.UUID   `json:"contact_method_id"`
	PersonID        uuid.UUID   `json:"person_id"`
	ContactType     ContactType `json:"contact_type"`
	NormalizedValue string      `json:"normalized_value"`
}

// NewContactMethodCreatedEvent creates a new ContactMethodCreatedEvent
func NewContactMethodCreatedEvent(cm *ContactMethod) *ContactMethodCreatedEvent {
	return &ContactMethodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactMethodCreated, AggregateTypeContactMethod, cm.ID, cm.TenantID),
		ContactMethodID: cm.ID,
		PersonID:        cm.PersonID,
		ContactType:     cm.Type,
		NormalizedValue: cm.NormalizedValue,
	}
}

// ContactMethodUpdatedEvent is published when a contact method changes
type ContactMethodUpdatedEvent struct {
	shared.BaseDomainEvent
	ContactMethodID uuid.UUID   `json:"contact_method_id"`
	PersonID        uuid.UUID   `json:"person_id"`
	ContactType     ContactType `json:"contact_type"`
	NormalizedValue string      `json:"normalized_value"`
	IsPrimary       bool        `json:"is_primary"`
}

// NewContactMethodUpdatedEvent creates a new ContactMethodUpdatedEvent
func NewContactMethodUpdatedEvent(cm *ContactMethod) *ContactMethodUpdatedEvent {
	return &ContactMethodUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactMethodUpdated, AggregateTypeContactMethod, cm.ID, cm.TenantID),
		ContactMethodID: cm.ID,
		PersonID:        cm.PersonID,
		ContactType:     cm.Type,
		NormalizedValue: cm.NormalizedValue,
		IsPrimary:       cm.IsPrimary,
	}
}

// ContactMethodDeletedEvent is published when a contact method is deleted
type ContactMethodDeletedEvent struct {
	shared.BaseDomainEvent
	ContactMethodID uuid.UUID   `json:"contact_method_id"`
	PersonID        uuid.UUID   `json:"person_id"`
	ContactType     ContactType `json:"contact_type"`
	NormalizedValue string      `json:"normalized_value"`
}

// NewContactMethodDeletedEvent creates a new ContactMethodDeletedEvent
func NewContactMethodDeletedEvent(cm *ContactMethod) *ContactMethodDeletedEvent {
	return &ContactMethodDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactMethodDeleted, AggregateTypeContactMethod, cm.ID, cm.TenantID),
		ContactMethodID: cm.ID,
		PersonID:        cm.PersonID,
		ContactType:     cm.Type,
		NormalizedValue: cm.NormalizedValue,
	}
}
