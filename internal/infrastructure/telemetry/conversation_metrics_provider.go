// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConversationMetricsProvider implements ConversationMetricsProvider using
// GORM. It queries the front_conversations table directly for aggregated
// metrics.
type GormConversationMetricsProvider struct {
	db *gorm.DB
}

// NewGormConversationMetricsProvider creates a new GormConversationMetricsProvider.
func NewGormConversationMetricsProvider(db *gorm.DB) *GormConversationMetricsProvider {
	return &GormConversationMetricsProvider{db: db}
}

// GetOpenCountByPlatform returns the open conversation count per platform for a tenant.
func (p *GormConversationMetricsProvider) GetOpenCountByPlatform(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	type result struct {
		Platform  string `gorm:"column:platform"`
		OpenCount int64  `gorm:"column:open_count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("front_conversations").
		Select("platform, COUNT(*) as open_count").
		Where("tenant_id = ? AND status_category = ?", tenantID, "open").
		Group("platform").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Platform] = r.OpenCount
	}

	return m, nil
}

// GetUnmatchedCount returns the count of conversations without a linked person for a tenant.
func (p *GormConversationMetricsProvider) GetUnmatchedCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("front_conversations").
		Where("tenant_id = ? AND matched_person_id IS NULL", tenantID).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}
