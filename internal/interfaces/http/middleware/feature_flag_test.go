package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFlagEvaluator implements FlagEvaluator for testing
type mockFlagEvaluator struct {
	flags map[string]bool
	err   error
	calls int
}

func (m *mockFlagEvaluator) IsEnabled(_ context.Context, _ uuid.UUID, key string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	return m.flags[key], nil
}

func setupFeatureGateRouter(evaluator FlagEvaluator, cfg *FeatureMiddlewareConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, uuid.New().String())
		c.Next()
	})
	if cfg != nil {
		router.Use(RequireFeatureWithConfig(featureflag.KeyFrontSync, *cfg))
	} else {
		router.Use(RequireFeature(evaluator, featureflag.KeyFrontSync))
	}
	router.GET("/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequireFeature_Enabled(t *testing.T) {
	evaluator := &mockFlagEvaluator{flags: map[string]bool{featureflag.KeyFrontSync: true}}
	router := setupFeatureGateRouter(evaluator, nil)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, evaluator.calls)
}

func TestRequireFeature_Disabled(t *testing.T) {
	evaluator := &mockFlagEvaluator{flags: map[string]bool{}}
	router := setupFeatureGateRouter(evaluator, nil)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_FEATURE_DISABLED")
	assert.Contains(t, rec.Body.String(), "not enabled for your workspace")
}

func TestRequireFeature_NoTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	evaluator := &mockFlagEvaluator{flags: map[string]bool{featureflag.KeyFrontSync: true}}

	router := gin.New()
	router.Use(RequireFeature(evaluator, featureflag.KeyFrontSync))
	router.GET("/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tenant context found")
	assert.Equal(t, 0, evaluator.calls)
}

func TestRequireFeature_LookupErrorFailsClosed(t *testing.T) {
	evaluator := &mockFlagEvaluator{err: errors.New("cache down")}
	router := setupFeatureGateRouter(evaluator, nil)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be determined")
}

func TestRequireFeature_LookupErrorFailOpen(t *testing.T) {
	evaluator := &mockFlagEvaluator{err: errors.New("cache down")}
	cfg := FeatureMiddlewareConfig{Evaluator: evaluator, FailOpen: true}
	router := setupFeatureGateRouter(evaluator, &cfg)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireFeature_NilEvaluator(t *testing.T) {
	router := setupFeatureGateRouter(nil, &FeatureMiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireFeature_OnDenied(t *testing.T) {
	gin.SetMode(gin.TestMode)
	evaluator := &mockFlagEvaluator{flags: map[string]bool{}}

	var deniedKey string
	cfg := FeatureMiddlewareConfig{
		Evaluator: evaluator,
		OnDenied: func(c *gin.Context, flagKey string) {
			deniedKey = flagKey
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"custom": "denied"})
		},
	}
	router := setupFeatureGateRouter(evaluator, &cfg)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, featureflag.KeyFrontSync, deniedKey)
}

func TestRequireFeature_TenantFromHeaderMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	evaluator := &mockFlagEvaluator{flags: map[string]bool{featureflag.KeyFrontSync: true}}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		// Tenant middleware path: no JWT, tenant resolved from header.
		c.Set(TenantIDKey, uuid.New().String())
		c.Next()
	})
	router.Use(RequireFeature(evaluator, featureflag.KeyFrontSync))
	router.GET("/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetFeatureFlag_AfterGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	evaluator := &mockFlagEvaluator{flags: map[string]bool{featureflag.KeyFrontSync: true}}

	var inHandler bool
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, uuid.New().String())
		c.Next()
	})
	router.Use(RequireFeature(evaluator, featureflag.KeyFrontSync))
	router.GET("/conversations", func(c *gin.Context) {
		inHandler = GetFeatureFlag(c, featureflag.KeyFrontSync)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, inHandler)
}

func TestGetFeatureFlag_NotEvaluated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.False(t, GetFeatureFlag(c, featureflag.KeyFrontSync))
	assert.Empty(t, GetAllFlags(c))
}

func TestGetAllFlags_ReturnsCopy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	setEvaluatedFlag(c, "front_sync", true)
	setEvaluatedFlag(c, "beta_reports", false)

	flags := GetAllFlags(c)
	assert.Len(t, flags, 2)
	assert.True(t, flags["front_sync"])

	flags["front_sync"] = false
	assert.True(t, GetFeatureFlag(c, "front_sync"))
}

// Mirrors the sync control route chain: JWT, then the permission check,
// then the flag gate. Holding the permission is not enough while the
// tenant's integration flag is off.
func TestRequireFeature_GatesSyncControlRoutes(t *testing.T) {
	jwtService := newTestJWTServiceForPermission()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    uuid.New(),
		UserID:      uuid.New(),
		Name:        "Test Admin",
		Role:        string(identity.RoleAdmin),
		Permissions: identity.CompilePermissions(identity.RoleAdmin),
	})
	require.NoError(t, err)

	evaluator := &mockFlagEvaluator{flags: map[string]bool{}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.POST("/sync/front/trigger",
		RequirePermission("conversations:sync"),
		RequireFeature(evaluator, featureflag.KeyFrontSync),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
	)

	t.Run("flag off denies despite permission", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sync/front/trigger", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "ERR_FEATURE_DISABLED")
	})

	t.Run("flag on admits", func(t *testing.T) {
		evaluator.flags[featureflag.KeyFrontSync] = true

		req := httptest.NewRequest(http.MethodPost, "/sync/front/trigger", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
