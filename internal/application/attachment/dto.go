package attachment

import (
	"io"
	"time"

	"github.com/bos/backend/internal/domain/attachment"
	"github.com/google/uuid"
)

// UploadAttachmentRequest carries one uploaded file into the service. The
// handler assembles it from the multipart form; Body streams the file
// bytes straight through to object storage.
type UploadAttachmentRequest struct {
	JobID       uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// AttachmentResponse represents an attachment in API responses. The
// storage key stays internal; downloads go through GetDownloadURL.
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	JobID       uuid.UUID `json:"job_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// DownloadURLResponse carries a time-limited presigned download link
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttachmentListFilter represents filter options for attachment lists
type AttachmentListFilter struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

// ToAttachmentResponse converts a domain JobAttachment to AttachmentResponse
func ToAttachmentResponse(a *attachment.JobAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		TenantID:    a.TenantID,
		JobID:       a.JobID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAttachmentResponses converts a slice of domain JobAttachments to responses
func ToAttachmentResponses(attachments []attachment.JobAttachment) []AttachmentResponse {
	responses := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = ToAttachmentResponse(&attachments[i])
	}
	return responses
}
