package client

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypePerson = "Person"

// Event type constants
const (
	EventTypePersonCreated     = "PersonCreated"
	EventTypePersonUpdated     = "PersonUpdated"
	EventTypePersonDeactivated = "PersonDeactivated"
	EventTypePersonActivated   = "PersonActivated"
	EventTypePersonDeleted     = "PersonDeleted"
)

// PersonCreatedEvent is published when a new person is created
type PersonCreatedEvent struct {
	shared.BaseDomainEvent
	PersonID uuid.UUID `json:"person_id"`
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// NewPersonCreatedEvent creates a new PersonCreatedEvent
func NewPersonCreatedEvent(p *Person) *PersonCreatedEvent {
	return &PersonCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePersonCreated, AggregateTypePerson, p.ID, p.TenantID),
		PersonID:        p.ID,
		ClientID:        p.ClientID,
		Name:            p.FullName(),
	}
}

// PersonUpdatedEvent is published when person details change
type PersonUpdatedEvent struct {
	shared.BaseDomainEvent
	PersonID uuid.UUID `json:"person_id"`
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Title    string    `json:"title,omitempty"`
}

// NewPersonUpdatedEvent creates a new PersonUpdatedEvent
func NewPersonUpdatedEvent(p *Person) *PersonUpdatedEvent {
	return &PersonUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePersonUpdated, AggregateTypePerson, p.ID, p.TenantID),
		PersonID:        p.ID,
		ClientID:        p.ClientID,
		Name:            p.FullName(),
		Title:           p.Title,
	}
}

// PersonDeactivatedEvent is published when a person is deactivated
type PersonDeactivatedEvent struct {
	shared.BaseDomainEvent
	PersonID uuid.UUID `json:"person_id"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewPersonDeactivatedEvent creates a new PersonDeactivatedEvent
func NewPersonDeactivatedEvent(p *Person) *PersonDeactivatedEvent {
	return &PersonDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePersonDeactivated, AggregateTypePerson, p.ID, p.TenantID),
		PersonID:        p.ID,
		ClientID:        p.ClientID,
	}
}

// PersonActivatedEvent is published when a person is reactivated
type PersonActivatedEvent struct {
	shared.BaseDomainEvent
	PersonID uuid.UUID `json:"person_id"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewPersonActivatedEvent creates a new PersonActivatedEvent
func NewPersonActivatedEvent(p *Person) *PersonActivatedEvent {
	return &PersonActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePersonActivated, AggregateTypePerson, p.ID, p.TenantID),
		PersonID:        p.ID,
		ClientID:        p.ClientID,
	}
}

// PersonDeletedEvent is published when a person is deleted
type PersonDeletedEvent struct {
	shared.BaseDomainEvent
	PersonID uuid.UUID `json:"person_id"`
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
}

// NewPersonDeletedEvent creates a new PersonDeletedEvent
func NewPersonDeletedEvent(p *Person) *PersonDeletedEvent {
	return &PersonDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePersonDeleted, AggregateTypePerson, p.ID, p.TenantID),
		PersonID:        p.ID,
		ClientID:        p.ClientID,
		Name:            p.FullName(),
	}
}
