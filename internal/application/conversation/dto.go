package conversation

import (
	"time"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/google/uuid"
)

// ConversationResponse represents a synced helpdesk conversation in API responses
type ConversationResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TenantID            uuid.UUID  `json:"tenant_id"`
	Platform            string     `json:"platform"`
	PlatformID          string     `json:"platform_id"`
	Subject             string     `json:"subject"`
	Status              string     `json:"status"`
	StatusCategory      string     `json:"status_category"`
	AssigneeHandle      string     `json:"assignee_handle,omitempty"`
	RecipientHandle     string     `json:"recipient_handle,omitempty"`
	RecipientNormalized string     `json:"recipient_normalized,omitempty"`
	Tags                []string   `json:"tags,omitempty"`
	LastMessageAt       *time.Time `json:"last_message_at,omitempty"`
	APIUpdatedAt        time.Time  `json:"api_updated_at"`
	MatchedPersonID     *uuid.UUID `json:"matched_person_id,omitempty"`
	MatchedClientID     *uuid.UUID `json:"matched_client_id,omitempty"`
	MatchedAt           *time.Time `json:"matched_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// ConversationListFilter represents filter options for conversation list
type ConversationListFilter struct {
	Search         string     `form:"search"`
	StatusCategory string     `form:"status_category" binding:"omitempty,oneof=open archived snoozed deleted spam unknown"`
	Matched        *bool      `form:"matched"`
	PersonID       *uuid.UUID `form:"person_id"`
	ClientID       *uuid.UUID `form:"client_id"`
	Page           int        `form:"page" binding:"min=1"`
	PageSize       int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// RelinkConversationRequest links a conversation to a person by hand,
// overriding (or supplying) the automatic handle match
type RelinkConversationRequest struct {
	PersonID uuid.UUID `json:"person_id" binding:"required"`
}

// SyncStateResponse reports the polling watermark for a tenant/platform pair
type SyncStateResponse struct {
	TenantID            uuid.UUID  `json:"tenant_id"`
	Platform            string     `json:"platform"`
	Cursor              time.Time  `json:"cursor"`
	LastPolledAt        *time.Time `json:"last_polled_at,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
}

// ToConversationResponse converts a domain FrontConversation to ConversationResponse
func ToConversationResponse(c *conversation.FrontConversation) ConversationResponse {
	return ConversationResponse{
		ID:                  c.ID,
		TenantID:            c.TenantID,
		Platform:            c.Platform.String(),
		PlatformID:          c.PlatformID,
		Subject:             c.Subject,
		Status:              c.Status,
		StatusCategory:      c.StatusCategory.String(),
		AssigneeHandle:      c.AssigneeHandle,
		RecipientHandle:     c.RecipientHandle,
		RecipientNormalized: c.RecipientNormalized,
		Tags:                c.Tags,
		LastMessageAt:       c.LastMessageAt,
		APIUpdatedAt:        c.APIUpdatedAt,
		MatchedPersonID:     c.MatchedPersonID,
		MatchedClientID:     c.MatchedClientID,
		MatchedAt:           c.MatchedAt,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// ToConversationResponses converts a slice of domain conversations
func ToConversationResponses(conversations []conversation.FrontConversation) []ConversationResponse {
	responses := make([]ConversationResponse, len(conversations))
	for i := range conversations {
		responses[i] = ToConversationResponse(&conversations[i])
	}
	return responses
}

// ToSyncStateResponse converts a domain SyncState to SyncStateResponse
func ToSyncStateResponse(s *conversation.SyncState) SyncStateResponse {
	return SyncStateResponse{
		TenantID:            s.TenantID,
		Platform:            s.Platform.String(),
		Cursor:              s.Cursor,
		LastPolledAt:        s.LastPolledAt,
		ConsecutiveFailures: s.ConsecutiveFailures,
	}
}
