package models

import (
	"github.com/bos/backend/internal/domain/attachment"
	"github.com/google/uuid"
)

// JobAttachmentModel is the persistence model for files attached to jobs.
// The bytes live in object storage; this row carries the metadata and the
// storage key.
type JobAttachmentModel struct {
	TenantAggregateModel
	JobID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null"`
	SizeBytes   int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (JobAttachmentModel) TableName() string {
	return "job_attachments"
}

// ToDomain converts the persistence model to a domain JobAttachment entity.
func (m *JobAttachmentModel) ToDomain() *attachment.JobAttachment {
	a := &attachment.JobAttachment{
		JobID:       m.JobID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		StorageKey:  m.StorageKey,
		UploadedBy:  m.UploadedBy,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain JobAttachment entity.
func (m *JobAttachmentModel) FromDomain(a *attachment.JobAttachment) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.JobID = a.JobID
	m.FileName = a.FileName
	m.ContentType = a.ContentType
	m.SizeBytes = a.SizeBytes
	m.StorageKey = a.StorageKey
	m.UploadedBy = a.UploadedBy
}

// JobAttachmentModelFromDomain creates a new persistence model from a domain entity.
func JobAttachmentModelFromDomain(a *attachment.JobAttachment) *JobAttachmentModel {
	m := &JobAttachmentModel{}
	m.FromDomain(a)
	return m
}
