package activity

import (
	"time"

	"github.com/bos/backend/internal/domain/activity"
	"github.com/google/uuid"
)

// ActivityLogResponse represents an activity trail entry in API responses.
// ActorID is null for system-generated activity.
type ActivityLogResponse struct {
	ID           uuid.UUID              `json:"id"`
	TenantID     uuid.UUID              `json:"tenant_id"`
	ActorID      *uuid.UUID             `json:"actor_id,omitempty"`
	Action       string                 `json:"action"`
	LoggableType string                 `json:"loggable_type"`
	LoggableID   uuid.UUID              `json:"loggable_id"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ActivityListFilter represents filter options for activity trail queries
type ActivityListFilter struct {
	ActorID      *uuid.UUID `form:"actor_id"`
	Action       string     `form:"action"`
	LoggableType string     `form:"loggable_type"`
	LoggableID   *uuid.UUID `form:"loggable_id"`
	Since        *time.Time `form:"since"`
	Until        *time.Time `form:"until"`
	Page         int        `form:"page" binding:"min=1"`
	PageSize     int        `form:"page_size" binding:"min=1,max=100"`
}

// ToActivityLogResponse converts a domain ActivityLog to ActivityLogResponse
func ToActivityLogResponse(l *activity.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:           l.ID,
		TenantID:     l.TenantID,
		ActorID:      l.ActorID,
		Action:       l.Action,
		LoggableType: l.LoggableType,
		LoggableID:   l.LoggableID,
		Metadata:     l.Metadata,
		CreatedAt:    l.CreatedAt,
	}
}

// ToActivityLogResponses converts a slice of domain ActivityLogs to responses
func ToActivityLogResponses(logs []activity.ActivityLog) []ActivityLogResponse {
	responses := make([]ActivityLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToActivityLogResponse(&logs[i])
	}
	return responses
}
