package front

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bos/backend/internal/domain/conversation"
)

// ---------------------------------------------------------------------------
// Front API Wire Types
// ---------------------------------------------------------------------------

// frontListResponse is the response for the conversation listing endpoint.
// Results stay raw so each conversation can be decoded into both the typed
// struct and the audit payload.
type frontListResponse struct {
	Pagination frontPagination   `json:"_pagination"`
	Results    []json.RawMessage `json:"_results"`
}

// frontPagination carries the link to the next page; empty on the last page
type frontPagination struct {
	Next string `json:"next,omitempty"`
}

// frontConversation represents a conversation as the Front API reports it.
// Timestamps are epoch seconds with a fractional part.
type frontConversation struct {
	ID           string          `json:"id"`            // Conversation ID (cnv_...)
	Subject      string          `json:"subject"`       // Subject line
	Status       string          `json:"status"`        // Raw status (assigned, unassigned, archived, ...)
	Assignee     *frontTeammate  `json:"assignee"`      // Assigned teammate, null when unassigned
	Recipient    *frontRecipient `json:"recipient"`     // Customer-side handle of the last message
	Tags         []frontTag      `json:"tags"`          // Tags on the conversation
	CreatedAt    float64         `json:"created_at"`    // Creation time
	UpdatedAt    float64         `json:"updated_at"`    // Last activity time (absent on older API versions)
	WaitingSince float64         `json:"waiting_since"` // Time waiting for a reply
	IsPrivate    bool            `json:"is_private"`    // Private conversation flag
	LastMessage  *frontMessage   `json:"last_message"`  // Most recent message
}

// frontTeammate represents a Front teammate
type frontTeammate struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// frontRecipient represents the customer-side participant of a message
type frontRecipient struct {
	Handle string `json:"handle"` // Email address or phone number
	Role   string `json:"role"`   // from or to
}

// frontTag represents a tag attached to a conversation
type frontTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// frontMessage is the slice of a message the sync cares about
type frontMessage struct {
	ID        string  `json:"id"`
	CreatedAt float64 `json:"created_at"`
}

// frontWebhookEvent is the envelope Front posts to the webhook endpoint
type frontWebhookEvent struct {
	ID           string             `json:"id"`   // Event ID (evt_...)
	Type         string             `json:"type"` // Event type (inbound, outbound, assign, ...)
	EmittedAt    float64            `json:"emitted_at"`
	Conversation *frontConversation `json:"conversation"` // Affected conversation
}

// WebhookEvent is the slice of a verified webhook payload the sync needs:
// which conversation changed, and an event ID for deduplication
type WebhookEvent struct {
	EventID        string
	Type           string
	ConversationID string
	EmittedAt      time.Time
}

// ParseWebhookEvent parses a webhook payload. The payload is already
// authenticated by signature at this point; a payload that parses but
// names no conversation yields an event with an empty ConversationID,
// which the receiver acks without work.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var evt frontWebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrPlatformInvalidResponse, err)
	}

	event := &WebhookEvent{
		EventID:   evt.ID,
		Type:      evt.Type,
		EmittedAt: epochToTime(evt.EmittedAt),
	}
	if evt.Conversation != nil {
		event.ConversationID = evt.Conversation.ID
	}
	return event, nil
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

// epochToTime converts Front's fractional epoch seconds to a time. The
// fraction is kept to millisecond precision.
func epochToTime(sec float64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(sec * 1000)).UTC()
}

// updatedTime resolves the conversation's last-activity timestamp. Older
// API responses omit updated_at, so the last message's creation time and
// finally the conversation's creation time stand in.
func (c *frontConversation) updatedTime() time.Time {
	if c.UpdatedAt > 0 {
		return epochToTime(c.UpdatedAt)
	}
	if c.LastMessage != nil && c.LastMessage.CreatedAt > 0 {
		return epochToTime(c.LastMessage.CreatedAt)
	}
	return epochToTime(c.CreatedAt)
}

// toPlatformConversation maps the wire conversation to the domain value
// object. RawData is attached separately by decodeConversation.
func (c *frontConversation) toPlatformConversation() conversation.PlatformConversation {
	pc := conversation.PlatformConversation{
		PlatformID:   c.ID,
		PlatformCode: conversation.PlatformCodeFront,
		Subject:      c.Subject,
		Status:       c.Status,
		CreatedAt:    epochToTime(c.CreatedAt),
		UpdatedAt:    c.updatedTime(),
	}

	if c.Assignee != nil {
		pc.AssigneeHandle = c.Assignee.Username
		if pc.AssigneeHandle == "" {
			pc.AssigneeHandle = c.Assignee.Email
		}
	}

	if c.Recipient != nil {
		pc.RecipientHandle = c.Recipient.Handle
		pc.RecipientRole = c.Recipient.Role
	}

	for _, tag := range c.Tags {
		if tag.Name != "" {
			pc.Tags = append(pc.Tags, tag.Name)
		}
	}

	if c.LastMessage != nil && c.LastMessage.CreatedAt > 0 {
		lastMessageAt := epochToTime(c.LastMessage.CreatedAt)
		pc.LastMessageAt = &lastMessageAt
	}

	return pc
}

// decodeConversation parses one conversation payload into the domain value
// object, retaining the original JSON as RawData for audit
func decodeConversation(raw []byte) (*conversation.PlatformConversation, error) {
	var fc frontConversation
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrPlatformInvalidResponse, err)
	}
	if fc.ID == "" {
		return nil, fmt.Errorf("%w: conversation without id", conversation.ErrPlatformInvalidResponse)
	}

	pc := fc.toPlatformConversation()

	var rawData map[string]interface{}
	if err := json.Unmarshal(raw, &rawData); err == nil {
		pc.RawData = rawData
	}

	return &pc, nil
}
