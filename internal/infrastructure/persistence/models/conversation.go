package models

import (
	"encoding/json"
	"time"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FrontConversationModel is the persistence model for the synced helpdesk
// conversation row. Tags and the raw platform payload are stored as jsonb.
type FrontConversationModel struct {
	TenantAggregateModel
	Platform            conversation.PlatformCode   `gorm:"type:varchar(20);not null"`
	PlatformID          string                      `gorm:"type:varchar(100);not null;uniqueIndex:idx_conversation_tenant_platform_id,priority:2"`
	Subject             string                      `gorm:"type:varchar(500)"`
	Status              string                      `gorm:"type:varchar(50);not null"`
	StatusCategory      conversation.StatusCategory `gorm:"type:varchar(20);not null;index"`
	AssigneeHandle      string                      `gorm:"type:varchar(255)"`
	RecipientHandle     string                      `gorm:"type:varchar(255)"`
	RecipientNormalized string                      `gorm:"type:varchar(255);index"`
	TagsJSON            string                      `gorm:"column:tags;type:jsonb;default:'[]'"`
	LastMessageAt       *time.Time
	APIUpdatedAt        time.Time  `gorm:"column:api_updated_at;not null;index"`
	RawDataJSON         string     `gorm:"column:raw_data;type:jsonb"`
	MatchedPersonID     *uuid.UUID `gorm:"type:uuid;index"`
	MatchedClientID     *uuid.UUID `gorm:"type:uuid;index"`
	MatchedAt           *time.Time
}

// TableName returns the table name for GORM
func (FrontConversationModel) TableName() string {
	return "front_conversations"
}

// ToDomain converts the persistence model to a domain FrontConversation entity.
func (m *FrontConversationModel) ToDomain() *conversation.FrontConversation {
	c := &conversation.FrontConversation{
		Platform:            m.Platform,
		PlatformID:          m.PlatformID,
		Subject:             m.Subject,
		Status:              m.Status,
		StatusCategory:      m.StatusCategory,
		AssigneeHandle:      m.AssigneeHandle,
		RecipientHandle:     m.RecipientHandle,
		RecipientNormalized: m.RecipientNormalized,
		Tags:                make([]string, 0),
		LastMessageAt:       m.LastMessageAt,
		APIUpdatedAt:        m.APIUpdatedAt,
		MatchedPersonID:     m.MatchedPersonID,
		MatchedClientID:     m.MatchedClientID,
		MatchedAt:           m.MatchedAt,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)

	if m.TagsJSON != "" && m.TagsJSON != "[]" {
		var tags []string
		if err := json.Unmarshal([]byte(m.TagsJSON), &tags); err != nil {
			modelLogger.Warn("failed to parse conversation tags JSON",
				zap.String("platform_id", m.PlatformID),
				zap.Error(err))
		} else {
			c.Tags = tags
		}
	}

	if m.RawDataJSON != "" {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(m.RawDataJSON), &raw); err != nil {
			modelLogger.Warn("failed to parse conversation raw_data JSON",
				zap.String("platform_id", m.PlatformID),
				zap.Error(err))
		} else {
			c.RawData = raw
		}
	}

	return c
}

// FromDomain populates the persistence model from a domain FrontConversation entity.
func (m *FrontConversationModel) FromDomain(c *conversation.FrontConversation) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Platform = c.Platform
	m.PlatformID = c.PlatformID
	m.Subject = c.Subject
	m.Status = c.Status
	m.StatusCategory = c.StatusCategory
	m.AssigneeHandle = c.AssigneeHandle
	m.RecipientHandle = c.RecipientHandle
	m.RecipientNormalized = c.RecipientNormalized
	m.LastMessageAt = c.LastMessageAt
	m.APIUpdatedAt = c.APIUpdatedAt
	m.MatchedPersonID = c.MatchedPersonID
	m.MatchedClientID = c.MatchedClientID
	m.MatchedAt = c.MatchedAt

	if jsonBytes, err := json.Marshal(c.Tags); err == nil && c.Tags != nil {
		m.TagsJSON = string(jsonBytes)
	} else {
		m.TagsJSON = "[]"
	}

	if c.RawData != nil {
		if jsonBytes, err := json.Marshal(c.RawData); err == nil {
			m.RawDataJSON = string(jsonBytes)
		}
	}
}

// FrontConversationModelFromDomain creates a new persistence model from a domain entity.
func FrontConversationModelFromDomain(c *conversation.FrontConversation) *FrontConversationModel {
	m := &FrontConversationModel{}
	m.FromDomain(c)
	return m
}

// SyncStateModel is the persistence model for the per-tenant polling
// watermark. One row per tenant/platform pair.
type SyncStateModel struct {
	ID                  uuid.UUID                 `gorm:"type:uuid;primary_key"`
	TenantID            uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_sync_state_tenant_platform,priority:1"`
	Platform            conversation.PlatformCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_sync_state_tenant_platform,priority:2"`
	Cursor              time.Time                 `gorm:"not null"`
	LastPolledAt        *time.Time
	ConsecutiveFailures int       `gorm:"not null;default:0"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncStateModel) TableName() string {
	return "conversation_sync_states"
}

// ToDomain converts the persistence model to a domain SyncState.
func (m *SyncStateModel) ToDomain() *conversation.SyncState {
	return &conversation.SyncState{
		ID:                  m.ID,
		TenantID:            m.TenantID,
		Platform:            m.Platform,
		Cursor:              m.Cursor,
		LastPolledAt:        m.LastPolledAt,
		ConsecutiveFailures: m.ConsecutiveFailures,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SyncState.
func (m *SyncStateModel) FromDomain(s *conversation.SyncState) {
	m.ID = s.ID
	m.TenantID = s.TenantID
	m.Platform = s.Platform
	m.Cursor = s.Cursor
	m.LastPolledAt = s.LastPolledAt
	m.ConsecutiveFailures = s.ConsecutiveFailures
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}
