// Package activity contains the append-only activity trail. Rows are
// written by an event-bus subscriber translating domain events into
// human-readable entries; nothing ever updates or deletes them.
package activity

import (
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ActivityLog is one entry in the tenant's activity trail. ActorID is nil
// for system-generated activity (sync workers, schedulers). LoggableType
// and LoggableID point at the record the activity is about.
type ActivityLog struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	ActorID      *uuid.UUID
	Action       string
	LoggableType string
	LoggableID   uuid.UUID
	Metadata     map[string]interface{}
	CreatedAt    time.Time
}

// NewActivityLog creates a new activity entry
func NewActivityLog(tenantID uuid.UUID, action, loggableType string, loggableID uuid.UUID) (*ActivityLog, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	if err := validateAction(action); err != nil {
		return nil, err
	}
	if strings.TrimSpace(loggableType) == "" {
		return nil, shared.NewDomainError("INVALID_LOGGABLE", "Loggable type cannot be empty")
	}
	if loggableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOGGABLE", "Loggable ID cannot be empty")
	}

	return &ActivityLog{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Action:       strings.TrimSpace(action),
		LoggableType: strings.TrimSpace(loggableType),
		LoggableID:   loggableID,
		Metadata:     make(map[string]interface{}),
		CreatedAt:    time.Now(),
	}, nil
}

// WithActor attaches the acting user
func (a *ActivityLog) WithActor(actorID uuid.UUID) *ActivityLog {
	if actorID != uuid.Nil {
		a.ActorID = &actorID
	}
	return a
}

// WithMetadata attaches structured detail to the entry
func (a *ActivityLog) WithMetadata(metadata map[string]interface{}) *ActivityLog {
	if metadata != nil {
		a.Metadata = metadata
	}
	return a
}

// IsSystemActivity reports whether the entry was produced without a user
func (a *ActivityLog) IsSystemActivity() bool {
	return a.ActorID == nil
}

func validateAction(action string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return shared.NewDomainError("INVALID_ACTION", "Action cannot be empty")
	}
	if len(action) > 100 {
		return shared.NewDomainError("INVALID_ACTION", "Action cannot exceed 100 characters")
	}
	return nil
}
