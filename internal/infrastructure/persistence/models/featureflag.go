package models

import (
	"github.com/bos/backend/internal/domain/featureflag"
)

// FeatureFlagModel is the persistence model for the FeatureFlag aggregate root.
type FeatureFlagModel struct {
	TenantAggregateModel
	Key         string `gorm:"type:varchar(100);not null;uniqueIndex:idx_feature_flag_tenant_key,priority:2"`
	Enabled     bool   `gorm:"not null;default:false"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (FeatureFlagModel) TableName() string {
	return "feature_flags"
}

// ToDomain converts the persistence model to a domain FeatureFlag entity.
func (m *FeatureFlagModel) ToDomain() *featureflag.FeatureFlag {
	f := &featureflag.FeatureFlag{
		Key:         m.Key,
		Enabled:     m.Enabled,
		Description: m.Description,
	}
	m.PopulateTenantAggregateRoot(&f.TenantAggregateRoot)
	return f
}

// FromDomain populates the persistence model from a domain FeatureFlag entity.
func (m *FeatureFlagModel) FromDomain(f *featureflag.FeatureFlag) {
	m.FromDomainTenantAggregateRoot(f.TenantAggregateRoot)
	m.Key = f.Key
	m.Enabled = f.Enabled
	m.Description = f.Description
}

// FeatureFlagModelFromDomain creates a new persistence model from a domain entity.
func FeatureFlagModelFromDomain(f *featureflag.FeatureFlag) *FeatureFlagModel {
	m := &FeatureFlagModel{}
	m.FromDomain(f)
	return m
}
