package identity

import (
	"github.com/bos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantCreated   = "TenantCreated"
	EventTypeTenantSuspended = "TenantSuspended"
	EventTypeTenantActivated = "TenantActivated"
)

// TenantCreatedEvent is published when a new tenant is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Status TenantStatus `json:"status"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
		Status:          tenant.Status,
	}
}

// TenantSuspendedEvent is published when a tenant is suspended
type TenantSuspendedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewTenantSuspendedEvent creates a new TenantSuspendedEvent
func NewTenantSuspendedEvent(tenant *Tenant) *TenantSuspendedEvent {
	return &TenantSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantSuspended, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
	}
}

// TenantActivatedEvent is published when a suspended tenant is reactivated
type TenantActivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewTenantActivatedEvent creates a new TenantActivatedEvent
func NewTenantActivatedEvent(tenant *Tenant) *TenantActivatedEvent {
	return &TenantActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantActivated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
	}
}
