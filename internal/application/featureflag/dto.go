package featureflag

import (
	"time"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/google/uuid"
)

// CreateFlagRequest is the payload for creating a feature flag
type CreateFlagRequest struct {
	Key         string `json:"key" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateFlagRequest updates mutable flag fields
type UpdateFlagRequest struct {
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// FlagResponse is the wire representation of a feature flag
type FlagResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Key         string    `json:"key"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FlagListFilter narrows flag listings
type FlagListFilter struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFlagResponse converts a domain flag to its response form
func ToFlagResponse(f *featureflag.FeatureFlag) *FlagResponse {
	return &FlagResponse{
		ID:          f.ID,
		TenantID:    f.TenantID,
		Key:         f.Key,
		Enabled:     f.Enabled,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
