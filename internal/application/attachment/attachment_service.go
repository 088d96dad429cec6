package attachment

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/attachment"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedContentTypes is the upload whitelist. Executables and scripts
// never belong on a job; SVG is excluded because it can carry scripts.
// HEIC/HEIF are included because phone cameras produce them.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
	"image/heic": true,
	"image/heif": true,

	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,

	"text/plain": true,
	"text/csv":   true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or any compatible store).
type ObjectStorageService interface {
	// Upload streams an object to storage
	Upload(ctx context.Context, storageKey, contentType string, body io.Reader, size int64) error

	// GenerateDownloadURL generates a presigned URL for downloading an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// AttachmentServiceConfig holds limits for the attachment service
type AttachmentServiceConfig struct {
	// MaxFileSizeBytes caps a single upload
	MaxFileSizeBytes int64
	// MaxAttachmentsPerJob caps how many files one job can carry
	MaxAttachmentsPerJob int
	// DownloadURLExpiry is how long presigned download links stay valid
	DownloadURLExpiry time.Duration
}

// DefaultAttachmentServiceConfig returns the default limits
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		MaxFileSizeBytes:     10 << 20,
		MaxAttachmentsPerJob: 100,
		DownloadURLExpiry:    1 * time.Hour,
	}
}

// AttachmentService handles job attachment operations
type AttachmentService struct {
	attachmentRepo attachment.JobAttachmentRepository
	jobRepo        job.JobRepository
	storageService ObjectStorageService
	config         AttachmentServiceConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo attachment.JobAttachmentRepository,
	jobRepo job.JobRepository,
	storageService ObjectStorageService,
	zapLogger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		jobRepo:        jobRepo,
		storageService: storageService,
		config:         DefaultAttachmentServiceConfig(),
		logger:         zapLogger,
	}
}

// SetConfig sets the service limits
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// SetEventPublisher wires a publisher for events that cannot ride the
// outbox (deletions)
func (s *AttachmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Upload streams a file to object storage and records the attachment.
// The object is written first; if the record cannot be saved the object
// is removed again.
func (s *AttachmentService) Upload(ctx context.Context, tenantID uuid.UUID, req UploadAttachmentRequest, uploadedBy uuid.UUID) (*AttachmentResponse, error) {
	if _, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, req.JobID); err != nil {
		return nil, err
	}

	if req.SizeBytes > s.config.MaxFileSizeBytes {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the %d byte upload limit", s.config.MaxFileSizeBytes))
	}

	count, err := s.attachmentRepo.CountByJobID(ctx, tenantID, req.JobID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.config.MaxAttachmentsPerJob) {
		return nil, shared.NewDomainError("ATTACHMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d attachments per job allowed", s.config.MaxAttachmentsPerJob))
	}

	if !isAllowedContentType(req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Allowed types: images, PDF, Office documents, and text files.", req.ContentType))
	}

	a, err := attachment.NewJobAttachment(tenantID, req.JobID, uploadedBy, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return nil, err
	}

	if err := s.storageService.Upload(ctx, a.StorageKey, a.ContentType, req.Body, a.SizeBytes); err != nil {
		s.logger.Error("Attachment upload to storage failed",
			zap.String("storage_key", a.StorageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store the uploaded file")
	}

	if err := s.attachmentRepo.Save(ctx, a); err != nil {
		if cleanupErr := s.storageService.DeleteObject(ctx, a.StorageKey); cleanupErr != nil {
			s.logger.Warn("Failed to remove orphaned object after save failure",
				zap.String("storage_key", a.StorageKey),
				zap.Error(cleanupErr))
		}
		return nil, err
	}

	response := ToAttachmentResponse(a)
	return &response, nil
}

// GetByID retrieves an attachment by ID
func (s *AttachmentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AttachmentResponse, error) {
	a, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToAttachmentResponse(a)
	return &response, nil
}

// ListByJob retrieves attachments on a job, newest first
func (s *AttachmentService) ListByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter AttachmentListFilter) ([]AttachmentResponse, int64, error) {
	if _, err := s.jobRepo.FindByIDForTenant(ctx, tenantID, jobID); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	attachments, err := s.attachmentRepo.FindByJobID(ctx, tenantID, jobID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.attachmentRepo.CountByJobID(ctx, tenantID, jobID)
	if err != nil {
		return nil, 0, err
	}

	return ToAttachmentResponses(attachments), count, nil
}

// GetDownloadURL generates a time-limited presigned link for an attachment
func (s *AttachmentService) GetDownloadURL(ctx context.Context, tenantID, id uuid.UUID) (*DownloadURLResponse, error) {
	a, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storageService.GenerateDownloadURL(ctx, a.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	return &DownloadURLResponse{
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}

// Delete removes the attachment record and, best-effort, the stored
// object. The deleted event carries the storage key so cleanup can retry
// if the object delete fails.
func (s *AttachmentService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	a, err := s.attachmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.storageService.DeleteObject(ctx, a.StorageKey); err != nil {
		s.logger.Warn("Failed to delete attachment object from storage",
			zap.String("attachment_id", a.ID.String()),
			zap.String("storage_key", a.StorageKey),
			zap.Error(err))
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, attachment.NewAttachmentDeletedEvent(a))
	}
	return nil
}

// isAllowedContentType checks a content type against the whitelist,
// ignoring any media-type parameters
func isAllowedContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if base, _, found := strings.Cut(contentType, ";"); found {
		contentType = strings.TrimSpace(base)
	}
	return AllowedContentTypes[contentType]
}
