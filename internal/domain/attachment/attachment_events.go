package attachment

import (
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeJobAttachment = "JobAttachment"

// Event type constants
const (
	EventTypeAttachmentUploaded = "AttachmentUploaded"
	EventTypeAttachmentDeleted  = "AttachmentDeleted"
)

// AttachmentUploadedEvent is published when a file is attached to a job
type AttachmentUploadedEvent struct {
	shared.BaseDomainEvent
	AttachmentID uuid.UUID `json:"attachment_id"`
	JobID        uuid.UUID `json:"job_id"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedBy   uuid.UUID `json:"uploaded_by"`
}

// NewAttachmentUploadedEvent creates a new AttachmentUploadedEvent
func NewAttachmentUploadedEvent(a *JobAttachment) *AttachmentUploadedEvent {
	return &AttachmentUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttachmentUploaded, AggregateTypeJobAttachment, a.ID, a.TenantID),
		AttachmentID:    a.ID,
		JobID:           a.JobID,
		FileName:        a.FileName,
		ContentType:     a.ContentType,
		SizeBytes:       a.SizeBytes,
		UploadedBy:      a.UploadedBy,
	}
}

// AttachmentDeletedEvent is published when an attachment row is removed.
// The object-store delete is best-effort; the event carries the storage key
// so cleanup can retry.
type AttachmentDeletedEvent struct {
	shared.BaseDomainEvent
	AttachmentID uuid.UUID `json:"attachment_id"`
	JobID        uuid.UUID `json:"job_id"`
	StorageKey   string    `json:"storage_key"`
}

// NewAttachmentDeletedEvent creates a new AttachmentDeletedEvent
func NewAttachmentDeletedEvent(a *JobAttachment) *AttachmentDeletedEvent {
	return &AttachmentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAttachmentDeleted, AggregateTypeJobAttachment, a.ID, a.TenantID),
		AttachmentID:    a.ID,
		JobID:           a.JobID,
		StorageKey:      a.StorageKey,
	}
}
