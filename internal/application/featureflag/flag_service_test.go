package featureflag

import (
	"context"
	"testing"
	"time"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockFeatureFlagRepository is a mock implementation of FeatureFlagRepository
type MockFeatureFlagRepository struct {
	mock.Mock
}

func (m *MockFeatureFlagRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*featureflag.FeatureFlag, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*featureflag.FeatureFlag), args.Error(1)
}

func (m *MockFeatureFlagRepository) FindByKey(ctx context.Context, tenantID uuid.UUID, key string) (*featureflag.FeatureFlag, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*featureflag.FeatureFlag), args.Error(1)
}

func (m *MockFeatureFlagRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]featureflag.FeatureFlag, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]featureflag.FeatureFlag), args.Error(1)
}

func (m *MockFeatureFlagRepository) Save(ctx context.Context, flag *featureflag.FeatureFlag) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

func (m *MockFeatureFlagRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockFeatureFlagRepository) ExistsByKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	args := m.Called(ctx, tenantID, key)
	return args.Bool(0), args.Error(1)
}

// fakeFlagCache is a hand-rolled FlagCache that records busts and can be
// forced to fail
type fakeFlagCache struct {
	entries map[string]bool
	deleted []string
	getErr  error
	setErr  error
}

func newFakeFlagCache() *fakeFlagCache {
	return &fakeFlagCache{entries: make(map[string]bool)}
}

func (c *fakeFlagCache) cacheKey(tenantID uuid.UUID, key string) string {
	return tenantID.String() + ":" + key
}

func (c *fakeFlagCache) Get(ctx context.Context, tenantID uuid.UUID, key string) (*bool, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	enabled, ok := c.entries[c.cacheKey(tenantID, key)]
	if !ok {
		return nil, nil
	}
	return &enabled, nil
}

func (c *fakeFlagCache) Set(ctx context.Context, tenantID uuid.UUID, key string, enabled bool, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[c.cacheKey(tenantID, key)] = enabled
	return nil
}

func (c *fakeFlagCache) Delete(ctx context.Context, tenantID uuid.UUID, key string) error {
	delete(c.entries, c.cacheKey(tenantID, key))
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeFlagCache) Close() error { return nil }

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestFlag(t *testing.T, tenantID uuid.UUID, key string, enabled bool) *featureflag.FeatureFlag {
	t.Helper()
	flag, err := featureflag.NewFeatureFlag(tenantID, key, "")
	require.NoError(t, err)
	if enabled {
		require.NoError(t, flag.Enable())
	}
	flag.ClearDomainEvents()
	return flag
}

func TestFlagService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates a disabled flag", func(t *testing.T) {
		flagRepo := new(MockFeatureFlagRepository)
		service := NewFlagService(flagRepo, zap.NewNop())

		flagRepo.On("ExistsByKey", mock.Anything, tenantID, "front_sync").Return(false, nil)
		flagRepo.On("Save", mock.Anything, mock.MatchedBy(func(f *featureflag.FeatureFlag) bool {
			return f.Key == "front_sync" && !f.Enabled && len(f.GetDomainEvents()) == 1
		})).Return(nil)

		resp, err := service.Create(context.Background(), tenantID, CreateFlagRequest{Key: "  front_sync  "})
		require.NoError(t, err)
		assert.Equal(t, "front_sync", resp.Key)
		assert.False(t, resp.Enabled)
		flagRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate key", func(t *testing.T) {
		flagRepo := new(MockFeatureFlagRepository)
		service := NewFlagService(flagRepo, zap.NewNop())

		flagRepo.On("ExistsByKey", mock.Anything, tenantID, "front_sync").Return(true, nil)

		_, err := service.Create(context.Background(), tenantID, CreateFlagRequest{Key: "front_sync"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FLAG_EXISTS", domainErr.Code)
		flagRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed key", func(t *testing.T) {
		flagRepo := new(MockFeatureFlagRepository)
		service := NewFlagService(flagRepo, zap.NewNop())

		flagRepo.On("ExistsByKey", mock.Anything, tenantID, "Front-Sync").Return(false, nil)

		_, err := service.Create(context.Background(), tenantID, CreateFlagRequest{Key: "Front-Sync"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_FLAG_KEY", domainErr.Code)
	})
}

func TestFlagService_Enable(t *testing.T) {
	tenantID := uuid.New()

	t.Run("enables and busts cache", func(t *testing.T) {
		flag := newTestFlag(t, tenantID, "front_sync", false)
		flagRepo := new(MockFeatureFlagRepository)
		cache := newFakeFlagCache()
		require.NoError(t, cache.Set(context.Background(), tenantID, "front_sync", false, 0))

		service := NewFlagService(flagRepo, zap.NewNop())
		service.SetCache(cache, time.Minute)

		flagRepo.On("FindByID", mock.Anything, tenantID, flag.ID).Return(flag, nil)
		flagRepo.On("Save", mock.Anything, mock.MatchedBy(func(f *featureflag.FeatureFlag) bool {
			return f.Enabled && len(f.GetDomainEvents()) == 1
		})).Return(nil)

		resp, err := service.Enable(context.Background(), tenantID, flag.ID)
		require.NoError(t, err)
		assert.True(t, resp.Enabled)
		assert.Contains(t, cache.deleted, "front_sync")

		cached, err := cache.Get(context.Background(), tenantID, "front_sync")
		require.NoError(t, err)
		assert.Nil(t, cached, "stale decision must be gone")
	})

	t.Run("enabling an enabled flag fails", func(t *testing.T) {
		flag := newTestFlag(t, tenantID, "front_sync", true)
		flagRepo := new(MockFeatureFlagRepository)
		service := NewFlagService(flagRepo, zap.NewNop())

		flagRepo.On("FindByID", mock.Anything, tenantID, flag.ID).Return(flag, nil)

		_, err := service.Enable(context.Background(), tenantID, flag.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_ENABLED", domainErr.Code)
		flagRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestFlagService_Disable(t *testing.T) {
	tenantID := uuid.New()
	flag := newTestFlag(t, tenantID, "front_sync", true)

	flagRepo := new(MockFeatureFlagRepository)
	cache := newFakeFlagCache()
	service := NewFlagService(flagRepo, zap.NewNop())
	service.SetCache(cache, time.Minute)

	flagRepo.On("FindByID", mock.Anything, tenantID, flag.ID).Return(flag, nil)
	flagRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Disable(context.Background(), tenantID, flag.ID)
	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.Contains(t, cache.deleted, "front_sync")
}

func TestFlagService_IsEnabled(t *testing.T) {
	tenantID := uuid.New()

	t.Run("reads through to the repository and caches the decision", func(t *testing.T) {
		flag := newTestFlag(t, tenantID, "front_sync", true)
		flagRepo := new(MockFeatureFlagRepository)
		cache := newFakeFlagCache()
		service := NewFlagService(flagRepo, zap.NewNop())
		service.SetCache(cache, time.Minute)

		flagRepo.On("FindByKey", mock.Anything, tenantID, "front_sync").Return(flag, nil)

		enabled, err := service.IsEnabled(context.Background(), tenantID, "front_sync")
		require.NoError(t, err)
		assert.True(t, enabled)

		// Second call is served from the cache
		enabled, err = service.IsEnabled(context.Background(), tenantID, "front_sync")
		require.NoError(t, err)
		assert.True(t, enabled)
		flagRepo.AssertNumberOfCalls(t, "FindByKey", 1)
	})

	t.Run("unknown flag is disabled, not an error", func(t *testing.T) {
		flagRepo := new(MockFeatureFlagRepository)
		cache := newFakeFlagCache()
		service := NewFlagService(flagRepo, zap.NewNop())
		service.SetCache(cache, time.Minute)

		flagRepo.On("FindByKey", mock.Anything, tenantID, "unknown_feature").Return(nil, shared.ErrNotFound)

		enabled, err := service.IsEnabled(context.Background(), tenantID, "unknown_feature")
		require.NoError(t, err)
		assert.False(t, enabled)

		// The negative is cached too
		_, err = service.IsEnabled(context.Background(), tenantID, "unknown_feature")
		require.NoError(t, err)
		flagRepo.AssertNumberOfCalls(t, "FindByKey", 1)
	})

	t.Run("cache read failure falls back to the repository", func(t *testing.T) {
		flag := newTestFlag(t, tenantID, "front_sync", true)
		flagRepo := new(MockFeatureFlagRepository)
		cache := newFakeFlagCache()
		cache.getErr = assert.AnError
		service := NewFlagService(flagRepo, zap.NewNop())
		service.SetCache(cache, time.Minute)

		flagRepo.On("FindByKey", mock.Anything, tenantID, "front_sync").Return(flag, nil)

		enabled, err := service.IsEnabled(context.Background(), tenantID, "front_sync")
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("works without a cache", func(t *testing.T) {
		flag := newTestFlag(t, tenantID, "front_sync", true)
		flagRepo := new(MockFeatureFlagRepository)
		service := NewFlagService(flagRepo, zap.NewNop())

		flagRepo.On("FindByKey", mock.Anything, tenantID, "front_sync").Return(flag, nil)

		enabled, err := service.IsEnabled(context.Background(), tenantID, "front_sync")
		require.NoError(t, err)
		assert.True(t, enabled)
	})
}

func TestFlagService_Delete(t *testing.T) {
	tenantID := uuid.New()
	flag := newTestFlag(t, tenantID, "front_sync", true)

	flagRepo := new(MockFeatureFlagRepository)
	cache := newFakeFlagCache()
	publisher := &recordingPublisher{}
	service := NewFlagService(flagRepo, zap.NewNop())
	service.SetCache(cache, time.Minute)
	service.SetEventPublisher(publisher)

	flagRepo.On("FindByID", mock.Anything, tenantID, flag.ID).Return(flag, nil)
	flagRepo.On("Delete", mock.Anything, tenantID, flag.ID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), tenantID, flag.ID))

	assert.Contains(t, cache.deleted, "front_sync")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, featureflag.EventTypeFeatureFlagDeleted, publisher.events[0].EventType())
	assert.Equal(t, flag.ID, publisher.events[0].AggregateID())
}

func TestFlagService_List(t *testing.T) {
	tenantID := uuid.New()
	flags := []featureflag.FeatureFlag{
		*newTestFlag(t, tenantID, "front_sync", true),
		*newTestFlag(t, tenantID, "pdf_rendering", false),
	}

	flagRepo := new(MockFeatureFlagRepository)
	service := NewFlagService(flagRepo, zap.NewNop())

	flagRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "key" && f.OrderDir == "asc"
	})).Return(flags, nil)

	responses, err := service.List(context.Background(), tenantID, FlagListFilter{})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "front_sync", responses[0].Key)
}

func TestFlagService_Update(t *testing.T) {
	tenantID := uuid.New()
	flag := newTestFlag(t, tenantID, "front_sync", false)

	flagRepo := new(MockFeatureFlagRepository)
	service := NewFlagService(flagRepo, zap.NewNop())

	flagRepo.On("FindByID", mock.Anything, tenantID, flag.ID).Return(flag, nil)
	flagRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	desc := "Gates the Front helpdesk integration"
	resp, err := service.Update(context.Background(), tenantID, flag.ID, UpdateFlagRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, resp.Description)
}
