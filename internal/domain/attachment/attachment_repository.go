package attachment

import (
	"context"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobAttachmentRepository defines the interface for attachment persistence
type JobAttachmentRepository interface {
	// FindByID finds an attachment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*JobAttachment, error)

	// FindByIDForTenant finds an attachment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*JobAttachment, error)

	// FindByJobID lists attachments on a job
	FindByJobID(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]JobAttachment, error)

	// Save creates or updates an attachment record
	Save(ctx context.Context, a *JobAttachment) error

	// Delete deletes an attachment record within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByJobID counts attachments on a job
	CountByJobID(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error)
}
