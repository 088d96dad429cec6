package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/bos/backend/internal/domain/conversation"
)

// ---------------------------------------------------------------------------
// Conversation Sync Job Types
// ---------------------------------------------------------------------------

// SyncTrigger records what caused a sync job to be enqueued
type SyncTrigger string

const (
	// SyncTriggerWebhook marks jobs enqueued by a verified webhook event
	SyncTriggerWebhook SyncTrigger = "WEBHOOK"
	// SyncTriggerPoll marks jobs enqueued by the periodic delta poll
	SyncTriggerPoll SyncTrigger = "POLL"
	// SyncTriggerManual marks jobs requested through the API
	SyncTriggerManual SyncTrigger = "MANUAL"
)

// SyncJobStatus represents the status of a conversation sync job
type SyncJobStatus string

const (
	SyncJobStatusPending SyncJobStatus = "PENDING"
	SyncJobStatusRunning SyncJobStatus = "RUNNING"
	SyncJobStatusSuccess SyncJobStatus = "SUCCESS"
	SyncJobStatusPartial SyncJobStatus = "PARTIAL"
	SyncJobStatusFailed  SyncJobStatus = "FAILED"
)

// ConversationSyncJob is one unit of sync work: either a targeted fetch of
// a single conversation (webhook and manual triggers) or a delta poll that
// walks every conversation updated after a watermark.
type ConversationSyncJob struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Platform conversation.PlatformCode
	Trigger  SyncTrigger

	// TargetConversationID fetches exactly one conversation when set.
	// Empty means a delta poll from UpdatedAfter.
	TargetConversationID string
	// UpdatedAfter is the poll floor; conversations last active before it
	// are skipped by the platform listing.
	UpdatedAfter time.Time

	Status      SyncJobStatus
	LastError   string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time

	// Sync results
	FetchedCount  int
	UpsertedCount int
	MatchedCount  int
	FailedCount   int
	FailedIDs     []string
}

// NewDeltaPollJob creates a job that walks conversations updated after the
// watermark
func NewDeltaPollJob(tenantID uuid.UUID, platform conversation.PlatformCode, updatedAfter time.Time, trigger SyncTrigger, maxRetries int) *ConversationSyncJob {
	return &ConversationSyncJob{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Platform:     platform,
		Trigger:      trigger,
		UpdatedAfter: updatedAfter,
		Status:       SyncJobStatusPending,
		MaxRetries:   maxRetries,
	}
}

// NewTargetedSyncJob creates a job that fetches one conversation by its
// platform ID
func NewTargetedSyncJob(tenantID uuid.UUID, platform conversation.PlatformCode, conversationID string, trigger SyncTrigger, maxRetries int) *ConversationSyncJob {
	return &ConversationSyncJob{
		ID:                   uuid.New(),
		TenantID:             tenantID,
		Platform:             platform,
		Trigger:              trigger,
		TargetConversationID: conversationID,
		Status:               SyncJobStatusPending,
		MaxRetries:           maxRetries,
	}
}

// IsTargeted reports whether the job fetches a single conversation
func (j *ConversationSyncJob) IsTargeted() bool {
	return j.TargetConversationID != ""
}

// Start marks the job as running
func (j *ConversationSyncJob) Start() {
	now := time.Now()
	j.Status = SyncJobStatusRunning
	j.StartedAt = &now
	j.LastError = ""
}

// Complete records counters and derives the final status. Item-level
// failures make the job partial; they are not retried because the
// unadvanced watermark re-covers them on the next poll.
func (j *ConversationSyncJob) Complete(fetched, upserted, matched, failed int) {
	now := time.Now()
	j.FetchedCount = fetched
	j.UpsertedCount = upserted
	j.MatchedCount = matched
	j.FailedCount = failed
	j.CompletedAt = &now

	switch {
	case failed == 0:
		j.Status = SyncJobStatusSuccess
	case failed < fetched:
		j.Status = SyncJobStatusPartial
	default:
		j.Status = SyncJobStatusFailed
	}
}

// Fail marks the job as failed
func (j *ConversationSyncJob) Fail(err string) {
	now := time.Now()
	j.Status = SyncJobStatusFailed
	j.CompletedAt = &now
	j.LastError = err
}

// ShouldRetry returns true if the job should be retried
func (j *ConversationSyncJob) ShouldRetry() bool {
	return j.Status == SyncJobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry with exponential backoff:
// baseDelay * 2^(retryCount-1), capped at maxDelay. A positive retryAfter
// (the platform's requested wait on a 429) wins when it exceeds the
// computed backoff.
func (j *ConversationSyncJob) ScheduleRetry(baseDelay, maxDelay, retryAfter time.Duration) {
	j.RetryCount++
	j.Status = SyncJobStatusPending

	delay := baseDelay * time.Duration(1<<(j.RetryCount-1))
	if delay > maxDelay {
		delay = maxDelay
	}
	if retryAfter > delay {
		delay = retryAfter
	}

	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.LastError = ""
}
