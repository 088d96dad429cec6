package client

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeClient = "Client"

// Event type constants
const (
	EventTypeClientCreated    = "ClientCreated"
	EventTypeClientUpdated    = "ClientUpdated"
	EventTypeClientArchived   = "ClientArchived"
	EventTypeClientUnarchived = "ClientUnarchived"
	EventTypeClientDeleted    = "ClientDeleted"
)

// ClientCreatedEvent is published when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID  `json:"client_id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Type     ClientType `json:"type"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, c.ID, c.TenantID),
		ClientID:        c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Type:            c.Type,
	}
}

// ClientUpdatedEvent is published when client details change
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID  `json:"client_id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Type     ClientType `json:"type"`
}

// NewClientUpdatedEvent creates a new ClientUpdatedEvent
func NewClientUpdatedEvent(c *Client) *ClientUpdatedEvent {
	return &ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientUpdated, AggregateTypeClient, c.ID, c.TenantID),
		ClientID:        c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Type:            c.Type,
	}
}

// ClientArchivedEvent is published when a client is archived
type ClientArchivedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewClientArchivedEvent creates a new ClientArchivedEvent
func NewClientArchivedEvent(c *Client) *ClientArchivedEvent {
	return &ClientArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientArchived, AggregateTypeClient, c.ID, c.TenantID),
		ClientID:        c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// ClientUnarchivedEvent is published when an archived client is restored
type ClientUnarchivedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewClientUnarchivedEvent creates a new ClientUnarchivedEvent
func NewClientUnarchivedEvent(c *Client) *ClientUnarchivedEvent {
	return &ClientUnarchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientUnarchived, AggregateTypeClient, c.ID, c.TenantID),
		ClientID:        c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// ClientDeletedEvent is published when a client is deleted
type ClientDeletedEvent struct {
	shared.BaseDomainEvent
	ClientID uuid.UUID `json:"client_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewClientDeletedEvent creates a new ClientDeletedEvent
func NewClientDeletedEvent(c *Client) *ClientDeletedEvent {
	return &ClientDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientDeleted, AggregateTypeClient, c.ID, c.TenantID),
		ClientID:        c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}
