package middleware

import (
	"context"
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeatureFlagContextKey is the key for storing evaluated feature flags in context
const FeatureFlagContextKey = "feature_flags"

// FlagEvaluator answers whether a feature is enabled for a tenant. The
// featureflag application service satisfies this; lookups go through its
// redis read-through cache.
type FlagEvaluator interface {
	IsEnabled(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)
}

// FeatureMiddlewareConfig holds configuration for feature gate middleware
type FeatureMiddlewareConfig struct {
	// Evaluator is required for flag lookups
	Evaluator FlagEvaluator
	// FailOpen lets requests through when the flag lookup itself fails.
	// Default is fail closed: an errored lookup denies.
	FailOpen bool
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the gate denies (optional)
	OnDenied func(c *gin.Context, flagKey string)
}

// RequireFeature creates middleware that admits a request only when the
// tenant has the feature flag enabled. Gated routes return 403 with
// ERR_FEATURE_DISABLED while a tenant's flag is off, so integrations can
// ship dark and roll out per tenant.
func RequireFeature(evaluator FlagEvaluator, flagKey string) gin.HandlerFunc {
	return RequireFeatureWithConfig(flagKey, FeatureMiddlewareConfig{Evaluator: evaluator})
}

// RequireFeatureWithConfig creates feature gate middleware with custom configuration
func RequireFeatureWithConfig(flagKey string, cfg FeatureMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Evaluator == nil {
			handleFeatureDenied(c, cfg, flagKey, "Feature availability could not be determined")
			return
		}

		// Tenant comes from JWT claims, falling back to the tenant
		// middleware for header-identified requests.
		tenantIDStr := GetJWTTenantID(c)
		if tenantIDStr == "" {
			tenantIDStr = GetTenantID(c)
		}
		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil || tenantID == uuid.Nil {
			handleFeatureDenied(c, cfg, flagKey, "No tenant context found")
			return
		}

		enabled, err := cfg.Evaluator.IsEnabled(c.Request.Context(), tenantID, flagKey)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Feature flag lookup failed",
					zap.String("flag_key", flagKey),
					zap.String("tenant_id", tenantIDStr),
					zap.Error(err),
				)
			}
			if cfg.FailOpen {
				c.Next()
				return
			}
			handleFeatureDenied(c, cfg, flagKey, "Feature availability could not be determined")
			return
		}

		setEvaluatedFlag(c, flagKey, enabled)

		if !enabled {
			handleFeatureDenied(c, cfg, flagKey, "")
			return
		}

		c.Next()
	}
}

// setEvaluatedFlag records a flag decision on the request for handlers
func setEvaluatedFlag(c *gin.Context, key string, enabled bool) {
	flags := map[string]bool{}
	if existing, ok := c.Get(FeatureFlagContextKey); ok {
		if m, ok := existing.(map[string]bool); ok {
			flags = m
		}
	}
	flags[key] = enabled
	c.Set(FeatureFlagContextKey, flags)
}

// GetFeatureFlag retrieves an evaluated feature flag value from gin.Context.
// Returns false if the flag has not been evaluated on this request.
func GetFeatureFlag(c *gin.Context, key string) bool {
	if flags, ok := c.Get(FeatureFlagContextKey); ok {
		if m, ok := flags.(map[string]bool); ok {
			return m[key]
		}
	}
	return false
}

// GetAllFlags retrieves every flag evaluated on this request
func GetAllFlags(c *gin.Context) map[string]bool {
	result := make(map[string]bool)
	if flags, ok := c.Get(FeatureFlagContextKey); ok {
		if m, ok := flags.(map[string]bool); ok {
			maps.Copy(result, m)
		}
	}
	return result
}

// handleFeatureDenied handles feature gate denials
func handleFeatureDenied(c *gin.Context, cfg FeatureMiddlewareConfig, flagKey string, customMessage string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, flagKey)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("Feature gate denied request",
			zap.String("flag_key", flagKey),
			zap.String("path", c.Request.URL.Path),
		)
	}

	message := customMessage
	if message == "" {
		message = "This feature is not enabled for your workspace"
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FEATURE_DISABLED",
			"message": message,
		},
	})
}
