package conversation

import (
	"time"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FrontConversation is the synced local row for a helpdesk conversation.
// It is a read model of the platform's state plus the CRM-side match:
// remote fields only move forward along the platform's updated timestamp,
// which makes re-applying a webhook or poll result idempotent.
type FrontConversation struct {
	shared.TenantAggregateRoot
	Platform            PlatformCode   `gorm:"type:varchar(20);not null"`
	PlatformID          string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_conversation_tenant_platform_id,priority:2"`
	Subject             string         `gorm:"type:varchar(500)"`
	Status              string         `gorm:"type:varchar(50);not null"`
	StatusCategory      StatusCategory `gorm:"type:varchar(20);not null;index"`
	AssigneeHandle      string         `gorm:"type:varchar(255)"`
	RecipientHandle     string         `gorm:"type:varchar(255)"`
	RecipientNormalized string         `gorm:"type:varchar(255);index"`
	Tags                []string       `gorm:"-"`
	LastMessageAt       *time.Time     ``
	APIUpdatedAt        time.Time      `gorm:"not null;index"`
	RawData             map[string]interface{} `gorm:"-"`
	MatchedPersonID     *uuid.UUID     `gorm:"type:uuid;index"`
	MatchedClientID     *uuid.UUID     `gorm:"type:uuid;index"`
	MatchedAt           *time.Time     ``
}

// NewFrontConversationFromRemote creates a local row from a platform
// conversation.
func NewFrontConversationFromRemote(tenantID uuid.UUID, pc *PlatformConversation) (*FrontConversation, error) {
	if tenantID == uuid.Nil {
		return nil, ErrSyncInvalidTenantID
	}
	if err := pc.Validate(); err != nil {
		return nil, err
	}

	c := &FrontConversation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Platform:            pc.PlatformCode,
		PlatformID:          pc.PlatformID,
		Subject:             pc.Subject,
		Status:              pc.Status,
		StatusCategory:      pc.StatusCategory(),
		AssigneeHandle:      pc.AssigneeHandle,
		RecipientHandle:     pc.RecipientHandle,
		RecipientNormalized: client.NormalizeHandle(pc.RecipientHandle),
		Tags:                pc.Tags,
		LastMessageAt:       pc.LastMessageAt,
		APIUpdatedAt:        pc.UpdatedAt,
		RawData:             pc.RawData,
	}

	c.AddDomainEvent(NewConversationSyncedEvent(c, true))
	return c, nil
}

// ApplyRemote folds a fresh platform snapshot into the local row. Snapshots
// older than what is stored are ignored (last write wins on the platform's
// clock); equal or newer snapshots re-apply, which is safe because the
// operation is idempotent. Returns true when the row changed.
func (c *FrontConversation) ApplyRemote(pc *PlatformConversation) (bool, error) {
	if err := pc.Validate(); err != nil {
		return false, err
	}
	if pc.PlatformID != c.PlatformID {
		return false, ErrSyncInvalidConversationID
	}
	if pc.UpdatedAt.Before(c.APIUpdatedAt) {
		return false, nil
	}

	previousHandle := c.RecipientNormalized

	c.Subject = pc.Subject
	c.Status = pc.Status
	c.StatusCategory = pc.StatusCategory()
	c.AssigneeHandle = pc.AssigneeHandle
	c.RecipientHandle = pc.RecipientHandle
	c.RecipientNormalized = client.NormalizeHandle(pc.RecipientHandle)
	c.Tags = pc.Tags
	c.LastMessageAt = pc.LastMessageAt
	c.APIUpdatedAt = pc.UpdatedAt
	c.RawData = pc.RawData
	c.UpdatedAt = time.Now()

	// A changed handle invalidates the CRM link; the matcher re-links it.
	if c.RecipientNormalized != previousHandle && c.MatchedPersonID != nil {
		c.unlink()
	}

	c.AddDomainEvent(NewConversationSyncedEvent(c, false))
	return true, nil
}

// LinkPerson attaches the conversation to a CRM person and their client
func (c *FrontConversation) LinkPerson(personID, clientID uuid.UUID) error {
	if personID == uuid.Nil || clientID == uuid.Nil {
		return shared.NewDomainError("INVALID_MATCH", "person and client are required for a match")
	}
	if c.MatchedPersonID != nil && *c.MatchedPersonID == personID {
		return nil
	}

	now := time.Now()
	c.MatchedPersonID = &personID
	c.MatchedClientID = &clientID
	c.MatchedAt = &now
	c.UpdatedAt = now
	c.AddDomainEvent(NewConversationMatchedEvent(c, personID, clientID))
	return nil
}

// Unlink detaches the conversation from the CRM
func (c *FrontConversation) Unlink() {
	if c.MatchedPersonID == nil {
		return
	}
	c.unlink()
	c.UpdatedAt = time.Now()
}

func (c *FrontConversation) unlink() {
	c.MatchedPersonID = nil
	c.MatchedClientID = nil
	c.MatchedAt = nil
	c.AddDomainEvent(NewConversationUnlinkedEvent(c))
}

// IsMatched reports whether the conversation is linked to a person
func (c *FrontConversation) IsMatched() bool {
	return c.MatchedPersonID != nil
}

// HasHandle reports whether the recipient handle normalized to something
// matchable
func (c *FrontConversation) HasHandle() bool {
	return c.RecipientNormalized != ""
}
