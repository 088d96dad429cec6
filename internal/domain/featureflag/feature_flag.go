// Package featureflag contains per-tenant on/off switches. The Front
// integration ships dark and is turned on tenant by tenant through the
// front_sync flag; routes and the poll worker both check it.
package featureflag

import (
	"regexp"
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Well-known flag keys
const (
	// KeyFrontSync gates the Front helpdesk integration
	KeyFrontSync = "front_sync"
)

// FeatureFlag represents a tenant-scoped feature switch
type FeatureFlag struct {
	shared.TenantAggregateRoot
	Key         string `gorm:"type:varchar(100);not null;uniqueIndex:idx_feature_flag_tenant_key,priority:2"`
	Enabled     bool   `gorm:"not null;default:false"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (FeatureFlag) TableName() string {
	return "feature_flags"
}

// NewFeatureFlag creates a new disabled flag
func NewFeatureFlag(tenantID uuid.UUID, key, description string) (*FeatureFlag, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT_ID", "Tenant ID cannot be empty")
	}
	key = strings.TrimSpace(key)
	if err := validateFlagKey(key); err != nil {
		return nil, err
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_FLAG_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	flag := &FeatureFlag{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Key:                 key,
		Enabled:             false,
		Description:         description,
	}

	flag.AddDomainEvent(NewFeatureFlagCreatedEvent(flag))

	return flag, nil
}

// Enable turns the flag on
func (f *FeatureFlag) Enable() error {
	if f.Enabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Flag is already enabled")
	}

	f.Enabled = true
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	f.AddDomainEvent(NewFeatureFlagToggledEvent(f))

	return nil
}

// Disable turns the flag off
func (f *FeatureFlag) Disable() error {
	if !f.Enabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Flag is already disabled")
	}

	f.Enabled = false
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	f.AddDomainEvent(NewFeatureFlagToggledEvent(f))

	return nil
}

// SetDescription updates the flag's description
func (f *FeatureFlag) SetDescription(description string) error {
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_FLAG_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	f.Description = description
	f.UpdatedAt = time.Now()
	f.IncrementVersion()

	return nil
}

var flagKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validateFlagKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_FLAG_KEY", "Flag key cannot be empty")
	}
	if len(key) > 100 {
		return shared.NewDomainError("INVALID_FLAG_KEY", "Flag key cannot exceed 100 characters")
	}
	if !flagKeyRegex.MatchString(key) {
		return shared.NewDomainError("INVALID_FLAG_KEY", "Flag key must be snake_case starting with a letter")
	}
	return nil
}
