package handler

import (
	featureflagapp "github.com/bos/backend/internal/application/featureflag"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FeatureFlagHandler handles feature flag API endpoints. Flags gate
// tenant-level features such as the Front sync.
type FeatureFlagHandler struct {
	BaseHandler
	flagService *featureflagapp.FlagService
}

// NewFeatureFlagHandler creates a new FeatureFlagHandler
func NewFeatureFlagHandler(flagService *featureflagapp.FlagService) *FeatureFlagHandler {
	return &FeatureFlagHandler{
		flagService: flagService,
	}
}

// Create godoc
// @ID           createFeatureFlag
// @Summary      Create a feature flag
// @Description  Create a feature flag for the tenant. New flags start disabled.
// @Tags         feature-flags
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body featureflagapp.CreateFlagRequest true "Flag creation request"
// @Success      201 {object} APIResponse[featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags [post]
func (h *FeatureFlagHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req featureflagapp.CreateFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.flagService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// List godoc
// @ID           listFeatureFlags
// @Summary      List feature flags
// @Description  Retrieve the tenant's feature flags
// @Tags         feature-flags
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search term (key, description)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags [get]
func (h *FeatureFlagHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter featureflagapp.FlagListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	flags, err := h.flagService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, flags)
}

// GetByID godoc
// @ID           getFeatureFlagById
// @Summary      Get feature flag by ID
// @Description  Retrieve a feature flag by its ID
// @Tags         feature-flags
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Feature Flag ID" format(uuid)
// @Success      200 {object} APIResponse[featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags/{id} [get]
func (h *FeatureFlagHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid feature flag ID format")
		return
	}

	result, err := h.flagService.GetByID(c.Request.Context(), tenantID, flagID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByKey godoc
// @ID           getFeatureFlagByKey
// @Summary      Get feature flag by key
// @Description  Retrieve a feature flag by its key
// @Tags         feature-flags
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        key path string true "Feature Flag Key"
// @Success      200 {object} APIResponse[featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags/key/{key} [get]
func (h *FeatureFlagHandler) GetByKey(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Feature flag key is required")
		return
	}

	result, err := h.flagService.GetByKey(c.Request.Context(), tenantID, key)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Update godoc
// @ID           updateFeatureFlag
// @Summary      Update a feature flag
// @Description  Update a feature flag's description. The key is immutable; toggling goes through enable/disable.
// @Tags         feature-flags
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Feature Flag ID" format(uuid)
// @Param        request body featureflagapp.UpdateFlagRequest true "Flag update request"
// @Success      200 {object} APIResponse[featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags/{id} [put]
func (h *FeatureFlagHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid feature flag ID format")
		return
	}

	var req featureflagapp.UpdateFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.flagService.Update(c.Request.Context(), tenantID, flagID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Enable godoc
// @ID           enableFeatureFlag
// @Summary      Enable a feature flag
// @Description  Turn a feature flag on for the tenant
// @Tags         feature-flags
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Feature Flag ID" format(uuid)
// @Success      200 {object} APIResponse[featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags/{id}/enable [post]
func (h *FeatureFlagHandler) Enable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid feature flag ID format")
		return
	}

	result, err := h.flagService.Enable(c.Request.Context(), tenantID, flagID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Disable godoc
// @ID           disableFeatureFlag
// @Summary      Disable a feature flag
// @Description  Turn a feature flag off for the tenant
// @Tags         feature-flags
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Feature Flag ID" format(uuid)
// @Success      200 {object} APIResponse[featureflagapp.FlagResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags/{id}/disable [post]
func (h *FeatureFlagHandler) Disable(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid feature flag ID format")
		return
	}

	result, err := h.flagService.Disable(c.Request.Context(), tenantID, flagID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteFeatureFlag
// @Summary      Delete a feature flag
// @Description  Delete a feature flag. Gated features fall back to disabled.
// @Tags         feature-flags
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Feature Flag ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /feature-flags/{id} [delete]
func (h *FeatureFlagHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid feature flag ID format")
		return
	}

	if err := h.flagService.Delete(c.Request.Context(), tenantID, flagID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
