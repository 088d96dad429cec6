package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// HelpdeskPlatform Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotConfigured    = errors.New("conversation: platform not configured")
	ErrPlatformNotEnabled       = errors.New("conversation: platform not enabled")
	ErrPlatformUnavailable      = errors.New("conversation: platform temporarily unavailable")
	ErrPlatformRequestFailed    = errors.New("conversation: platform request failed")
	ErrPlatformInvalidResponse  = errors.New("conversation: invalid platform response")
	ErrPlatformAuthFailed       = errors.New("conversation: platform authentication failed")
	ErrPlatformRateLimited      = errors.New("conversation: platform rate limited")
	ErrPlatformInvalidSignature = errors.New("conversation: invalid webhook signature")

	// Sync errors
	ErrSyncInvalidTenantID       = errors.New("conversation: invalid tenant ID")
	ErrSyncInvalidPlatformCode   = errors.New("conversation: invalid platform code")
	ErrSyncConversationNotFound  = errors.New("conversation: platform conversation not found")
	ErrSyncInvalidConversationID = errors.New("conversation: invalid platform conversation ID")
)

// RateLimitError reports that the platform throttled a request. RetryAfter
// carries the platform's requested wait when it sent one.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("conversation: platform rate limited, retry after %s", e.RetryAfter)
	}
	return "conversation: platform rate limited"
}

// Unwrap lets errors.Is match ErrPlatformRateLimited
func (e *RateLimitError) Unwrap() error {
	return ErrPlatformRateLimited
}

// ---------------------------------------------------------------------------
// PlatformCode represents the type of helpdesk platform
// ---------------------------------------------------------------------------

// PlatformCode represents the type of helpdesk platform
type PlatformCode string

const (
	// PlatformCodeFront represents the Front customer-communication platform
	PlatformCodeFront PlatformCode = "FRONT"
)

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformCodeFront:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformCodeFront:
		return "Front"
	default:
		return string(c)
	}
}

// ---------------------------------------------------------------------------
// StatusCategory groups the platform's free-form conversation statuses
// ---------------------------------------------------------------------------

// StatusCategory groups the platform's conversation statuses into the
// buckets the CRM cares about. The raw status string is kept alongside.
type StatusCategory string

const (
	StatusCategoryOpen     StatusCategory = "open"
	StatusCategoryArchived StatusCategory = "archived"
	StatusCategorySnoozed  StatusCategory = "snoozed"
	StatusCategoryDeleted  StatusCategory = "deleted"
	StatusCategorySpam     StatusCategory = "spam"
	StatusCategoryUnknown  StatusCategory = "unknown"
)

// IsValid returns true if the category is valid
func (s StatusCategory) IsValid() bool {
	switch s {
	case StatusCategoryOpen, StatusCategoryArchived, StatusCategorySnoozed,
		StatusCategoryDeleted, StatusCategorySpam, StatusCategoryUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of StatusCategory
func (s StatusCategory) String() string {
	return string(s)
}

// CategorizeStatus maps a platform status string to a StatusCategory.
// Front reports assignment state as the status, so both assigned and
// unassigned conversations count as open.
func CategorizeStatus(status string) StatusCategory {
	switch status {
	case "open", "assigned", "unassigned":
		return StatusCategoryOpen
	case "archived":
		return StatusCategoryArchived
	case "snoozed":
		return StatusCategorySnoozed
	case "deleted", "trashed":
		return StatusCategoryDeleted
	case "spam", "blocked":
		return StatusCategorySpam
	default:
		return StatusCategoryUnknown
	}
}

// ---------------------------------------------------------------------------
// SyncStatus represents the synchronization status
// ---------------------------------------------------------------------------

// SyncStatus represents the synchronization status
type SyncStatus string

const (
	// SyncStatusPending indicates sync is pending
	SyncStatusPending SyncStatus = "PENDING"
	// SyncStatusInProgress indicates sync is in progress
	SyncStatusInProgress SyncStatus = "IN_PROGRESS"
	// SyncStatusSuccess indicates sync was successful
	SyncStatusSuccess SyncStatus = "SUCCESS"
	// SyncStatusPartial indicates partial sync success
	SyncStatusPartial SyncStatus = "PARTIAL"
	// SyncStatusFailed indicates sync failed
	SyncStatusFailed SyncStatus = "FAILED"
)

// IsValid returns true if the status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusPending, SyncStatusInProgress, SyncStatusSuccess, SyncStatusPartial, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// PlatformConversation represents a conversation as the helpdesk platform
// reports it. RawData retains the original payload for audit.
type PlatformConversation struct {
	// PlatformID is the conversation ID on the platform (e.g. cnv_55c8c149)
	PlatformID string
	// PlatformCode identifies which platform this conversation is from
	PlatformCode PlatformCode
	// Subject is the conversation subject line
	Subject string
	// Status is the raw status string reported by the platform
	Status string
	// AssigneeHandle is the teammate the conversation is assigned to
	AssigneeHandle string
	// RecipientHandle is the customer-side handle (email address or phone)
	RecipientHandle string
	// RecipientRole is the recipient's role in the last message (from/to)
	RecipientRole string
	// Tags are the platform tag names on the conversation
	Tags []string
	// CreatedAt is when the conversation was created on the platform
	CreatedAt time.Time
	// UpdatedAt is the platform's last-activity timestamp; it drives the
	// idempotent upsert guard and the polling watermark
	UpdatedAt time.Time
	// LastMessageAt is when the last message arrived
	LastMessageAt *time.Time
	// RawData contains the original platform payload
	RawData map[string]interface{}
}

// StatusCategory derives the category bucket from the raw status
func (p *PlatformConversation) StatusCategory() StatusCategory {
	return CategorizeStatus(p.Status)
}

// Validate checks the conversation has the fields sync depends on
func (p *PlatformConversation) Validate() error {
	if p.PlatformID == "" {
		return ErrSyncInvalidConversationID
	}
	if !p.PlatformCode.IsValid() {
		return ErrSyncInvalidPlatformCode
	}
	if p.UpdatedAt.IsZero() {
		return fmt.Errorf("conversation: %s has no updated timestamp: %w", p.PlatformID, ErrPlatformInvalidResponse)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Request/Response DTOs
// ---------------------------------------------------------------------------

// ConversationPullRequest represents a request to list conversations from a
// platform, either a full walk or a delta since UpdatedAfter.
type ConversationPullRequest struct {
	// TenantID is the tenant making the request
	TenantID uuid.UUID
	// UpdatedAfter limits results to conversations active after this time.
	// Zero means a full walk.
	UpdatedAfter time.Time
	// PageToken continues a previous page walk (platform-opaque)
	PageToken string
	// PageSize is the number of conversations per page
	PageSize int
}

// Validate validates the pull request and applies paging defaults
func (r *ConversationPullRequest) Validate() error {
	if r.TenantID == uuid.Nil {
		return ErrSyncInvalidTenantID
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		r.PageSize = 50
	}
	return nil
}

// ConversationPage is one page of a conversation listing
type ConversationPage struct {
	// Conversations contains the pulled conversations
	Conversations []PlatformConversation
	// NextPageToken continues the walk; empty when this is the last page
	NextPageToken string
}

// HasMore indicates whether another page follows
func (p *ConversationPage) HasMore() bool {
	return p.NextPageToken != ""
}

// SyncResult represents the result of a sync operation
type SyncResult struct {
	// Status is the overall sync status
	Status SyncStatus
	// FetchedCount is how many conversations the platform returned
	FetchedCount int
	// UpsertedCount is how many rows were created or changed
	UpsertedCount int
	// MatchedCount is how many conversations were linked to a person
	MatchedCount int
	// FailedCount is the number of failed items
	FailedCount int
	// FailedItems contains details about failed items
	FailedItems []SyncFailure
	// SyncedAt is when the sync completed
	SyncedAt time.Time
}

// SyncFailure represents a failed sync item
type SyncFailure struct {
	// ItemID is the platform conversation ID of the failed item
	ItemID string
	// ErrorMessage is the error description
	ErrorMessage string
}

// ---------------------------------------------------------------------------
// HelpdeskPlatform Port Interface
// ---------------------------------------------------------------------------

// HelpdeskPlatform defines the port interface for external helpdesk
// platforms. The interface lives in the domain layer; concrete adapters
// (Front) are in the infrastructure layer.
type HelpdeskPlatform interface {
	// PlatformCode returns the platform code this adapter handles
	PlatformCode() PlatformCode

	// IsEnabled returns true if this platform is enabled for the tenant
	IsEnabled(ctx context.Context, tenantID uuid.UUID) (bool, error)

	// ListConversations lists conversations, one page at a time
	ListConversations(ctx context.Context, req *ConversationPullRequest) (*ConversationPage, error)

	// GetConversation retrieves a single conversation from the platform
	GetConversation(ctx context.Context, tenantID uuid.UUID, platformID string) (*PlatformConversation, error)

	// VerifyWebhookSignature checks the signature the platform attached to
	// a webhook payload. Returns ErrPlatformInvalidSignature on mismatch.
	VerifyWebhookSignature(payload []byte, signature string) error

	// HealthCheck verifies the platform is reachable with the tenant's
	// credentials
	HealthCheck(ctx context.Context, tenantID uuid.UUID) error
}

// HelpdeskPlatformRegistry provides access to configured helpdesk platforms
type HelpdeskPlatformRegistry interface {
	// GetPlatform returns the platform adapter for the specified code
	GetPlatform(platformCode PlatformCode) (HelpdeskPlatform, error)

	// ListPlatforms returns all registered platform adapters
	ListPlatforms() []HelpdeskPlatform

	// IsEnabled returns true if the platform is enabled for the tenant
	IsEnabled(ctx context.Context, tenantID uuid.UUID, platformCode PlatformCode) (bool, error)
}
