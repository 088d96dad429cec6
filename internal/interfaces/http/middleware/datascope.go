// Package middleware provides HTTP middleware for the BOS API.
package middleware

import (
	"net/http"

	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/infrastructure/persistence/datascope"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DataScope context keys
const (
	DataScopeFilterKey = "data_scope_filter"
	UserRoleKey        = "user_role"
)

// DataScopeMiddlewareConfig holds configuration for DataScope middleware
type DataScopeMiddlewareConfig struct {
	// SkipPaths are paths that don't require data scope filtering
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require data scope filtering
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultDataScopeConfig returns default DataScope middleware configuration
func DefaultDataScopeConfig() DataScopeMiddlewareConfig {
	return DataScopeMiddlewareConfig{
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/health",
			"/api/v1/ping",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/csrf",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
			"/api/v1/webhooks/",
		},
		Logger: nil,
	}
}

// DataScopeMiddleware creates middleware that resolves the acting user's role
// into a row-level scope filter. This middleware should run after
// JWTAuthMiddleware as it depends on JWT claims.
func DataScopeMiddleware() gin.HandlerFunc {
	return DataScopeMiddlewareWithConfig(DefaultDataScopeConfig())
}

// DataScopeMiddlewareWithConfig creates DataScope middleware with custom config
func DataScopeMiddlewareWithConfig(cfg DataScopeMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// Check skip paths
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		// Check skip path prefixes
		for _, prefix := range cfg.SkipPathPrefixes {
			if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
				c.Next()
				return
			}
		}

		// Get role from JWT claims (set by JWTAuthMiddleware)
		roleStr := GetJWTRole(c)
		if roleStr == "" {
			// No authenticated role (optional auth route) - nothing to scope
			c.Next()
			return
		}

		role := identity.Role(roleStr)
		if !role.IsValid() && cfg.Logger != nil {
			// The filter still applies; an unknown role has no grants and
			// sees no rows.
			cfg.Logger.Warn("Unknown role in JWT claims",
				zap.String("role", roleStr),
				zap.String("user_id", GetJWTUserID(c)),
			)
		}

		// Store the role in the request context so repositories and services
		// can rebuild the filter downstream.
		ctx := datascope.WithRole(c.Request.Context(), role)
		c.Request = c.Request.WithContext(ctx)

		filter := datascope.NewFilter(ctx, role)
		c.Set(DataScopeFilterKey, filter)
		c.Set(UserRoleKey, role)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Data scope resolved",
				zap.String("role", role.String()),
				zap.String("user_id", GetJWTUserID(c)),
			)
		}

		c.Next()
	}
}

// GetDataScopeFilter retrieves the DataScope filter from gin.Context
func GetDataScopeFilter(c *gin.Context) *datascope.Filter {
	if filter, exists := c.Get(DataScopeFilterKey); exists {
		if f, ok := filter.(*datascope.Filter); ok {
			return f
		}
	}
	return nil
}

// GetUserRole retrieves the acting user's role from gin.Context
func GetUserRole(c *gin.Context) identity.Role {
	if role, exists := c.Get(UserRoleKey); exists {
		if r, ok := role.(identity.Role); ok {
			return r
		}
	}
	return ""
}

// RequireDataScope is a middleware that requires a minimum row-level scope
// for a resource/action pair. This can be used to restrict routes that only
// make sense with tenant-wide data access, such as exports.
func RequireDataScope(resource, action string, minScope identity.DataScope, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := GetDataScopeFilter(c)
		if filter == nil {
			// No filter means no restrictions - allow access
			c.Next()
			return
		}

		actualScope, ok := filter.Scope(resource, action)
		if !ok || !meetsMinimumScope(actualScope, minScope) {
			if logger != nil {
				logger.Warn("Insufficient data scope",
					zap.String("resource", resource),
					zap.String("action", action),
					zap.String("required", string(minScope)),
					zap.String("actual", string(actualScope)),
					zap.String("user_id", GetJWTUserID(c)),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_DATA_SCOPE",
					"message": "You don't have sufficient data access for this operation",
				},
			})
			return
		}

		c.Next()
	}
}

// meetsMinimumScope checks if actualScope meets or exceeds minScope
func meetsMinimumScope(actualScope, minScope identity.DataScope) bool {
	scopeLevels := map[identity.DataScope]int{
		identity.DataScopeOwn:      10,
		identity.DataScopeAssigned: 50,
		identity.DataScopeAll:      100,
	}

	actualLevel := scopeLevels[actualScope]
	minLevel := scopeLevels[minScope]

	return actualLevel >= minLevel
}
