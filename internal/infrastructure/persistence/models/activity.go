package models

import (
	"encoding/json"
	"time"

	"github.com/bos/backend/internal/domain/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityLogModel is the persistence model for the append-only activity
// trail. Rows are never updated or deleted, so there is no version column.
type ActivityLogModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_tenant_created,priority:1"`
	ActorID      *uuid.UUID `gorm:"type:uuid;index"`
	Action       string     `gorm:"type:varchar(100);not null;index"`
	LoggableType string     `gorm:"type:varchar(100);not null;index:idx_activity_loggable,priority:1"`
	LoggableID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_activity_loggable,priority:2"`
	MetadataJSON string     `gorm:"column:metadata;type:jsonb;default:'{}'"`
	CreatedAt    time.Time  `gorm:"not null;index:idx_activity_tenant_created,priority:2"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain ActivityLog.
func (m *ActivityLogModel) ToDomain() *activity.ActivityLog {
	log := &activity.ActivityLog{
		ID:           m.ID,
		TenantID:     m.TenantID,
		ActorID:      m.ActorID,
		Action:       m.Action,
		LoggableType: m.LoggableType,
		LoggableID:   m.LoggableID,
		Metadata:     make(map[string]interface{}),
		CreatedAt:    m.CreatedAt,
	}

	if m.MetadataJSON != "" && m.MetadataJSON != "{}" {
		var metadata map[string]interface{}
		if err := json.Unmarshal([]byte(m.MetadataJSON), &metadata); err != nil {
			modelLogger.Warn("failed to parse activity metadata JSON",
				zap.String("activity_id", m.ID.String()),
				zap.Error(err))
		} else {
			log.Metadata = metadata
		}
	}

	return log
}

// FromDomain populates the persistence model from a domain ActivityLog.
func (m *ActivityLogModel) FromDomain(log *activity.ActivityLog) {
	m.ID = log.ID
	m.TenantID = log.TenantID
	m.ActorID = log.ActorID
	m.Action = log.Action
	m.LoggableType = log.LoggableType
	m.LoggableID = log.LoggableID
	m.CreatedAt = log.CreatedAt

	if len(log.Metadata) > 0 {
		if jsonBytes, err := json.Marshal(log.Metadata); err == nil {
			m.MetadataJSON = string(jsonBytes)
		} else {
			m.MetadataJSON = "{}"
		}
	} else {
		m.MetadataJSON = "{}"
	}
}

// ActivityLogModelFromDomain creates a new persistence model from a domain entity.
func ActivityLogModelFromDomain(log *activity.ActivityLog) *ActivityLogModel {
	m := &ActivityLogModel{}
	m.FromDomain(log)
	return m
}
