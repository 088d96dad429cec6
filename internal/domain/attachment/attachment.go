// Package attachment contains job attachments: photos and documents field
// technicians capture on site. File bytes live in object storage; the
// aggregate holds the metadata and the storage key.
package attachment

import (
	"fmt"
	"strings"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxFileNameLength bounds the stored file name
const MaxFileNameLength = 255

// JobAttachment represents one file attached to a job
type JobAttachment struct {
	shared.TenantAggregateRoot
	JobID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	SizeBytes   int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewJobAttachment creates an attachment record for an uploaded file.
// The storage key is derived here so every adapter writes the same layout.
func NewJobAttachment(tenantID, jobID, uploadedBy uuid.UUID, fileName, contentType string, sizeBytes int64) (*JobAttachment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB_ID", "Job ID cannot be empty")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPLOADER", "Uploader cannot be empty")
	}
	fileName = sanitizeFileName(fileName)
	if err := validateFileName(fileName); err != nil {
		return nil, err
	}
	if err := validateContentType(contentType); err != nil {
		return nil, err
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}

	a := &JobAttachment{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, uploadedBy),
		JobID:               jobID,
		FileName:            fileName,
		ContentType:         strings.TrimSpace(contentType),
		SizeBytes:           sizeBytes,
		UploadedBy:          uploadedBy,
	}
	a.StorageKey = buildStorageKey(tenantID, jobID, a.ID)

	a.AddDomainEvent(NewAttachmentUploadedEvent(a))

	return a, nil
}

// buildStorageKey lays files out as tenants/<tid>/jobs/<jid>/<attachment id>
func buildStorageKey(tenantID, jobID, attachmentID uuid.UUID) string {
	return fmt.Sprintf("tenants/%s/jobs/%s/%s", tenantID, jobID, attachmentID)
}

// sanitizeFileName strips any path component a client smuggled in
func sanitizeFileName(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	if idx := strings.LastIndexAny(fileName, "/\\"); idx >= 0 {
		fileName = fileName[idx+1:]
	}
	return fileName
}

func validateFileName(fileName string) error {
	if fileName == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(fileName) > MaxFileNameLength {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	return nil
}

func validateContentType(contentType string) error {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	if len(contentType) > 100 {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot exceed 100 characters")
	}
	if !strings.Contains(contentType, "/") {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type must be a media type like image/jpeg")
	}
	return nil
}
