package featureflag

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FlagService manages tenant feature flags and answers the hot-path
// question "is this feature on for this tenant" through a read-through
// cache. Routes and the sync worker both ask on every pass, so IsEnabled
// must stay cheap.
type FlagService struct {
	flagRepo       featureflag.FeatureFlagRepository
	cache          featureflag.FlagCache
	cacheTTL       time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewFlagService creates a new FlagService without a cache; every
// IsEnabled call hits the repository until SetCache is called.
func NewFlagService(flagRepo featureflag.FeatureFlagRepository, logger *zap.Logger) *FlagService {
	return &FlagService{
		flagRepo: flagRepo,
		logger:   logger,
	}
}

// SetCache wires a decision cache. Zero ttl uses the cache's default.
func (s *FlagService) SetCache(cache featureflag.FlagCache, ttl time.Duration) {
	s.cache = cache
	s.cacheTTL = ttl
}

// SetEventPublisher wires a publisher for events that cannot ride the
// outbox (deletions)
func (s *FlagService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new flag. Flags start disabled; integrations ship
// dark and are enabled tenant by tenant.
func (s *FlagService) Create(ctx context.Context, tenantID uuid.UUID, req CreateFlagRequest) (*FlagResponse, error) {
	key := strings.TrimSpace(req.Key)

	exists, err := s.flagRepo.ExistsByKey(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("FLAG_EXISTS", "A flag with this key already exists")
	}

	flag, err := featureflag.NewFeatureFlag(tenantID, key, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.flagRepo.Save(ctx, flag); err != nil {
		return nil, err
	}

	return ToFlagResponse(flag), nil
}

// GetByID retrieves a flag by ID
func (s *FlagService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*FlagResponse, error) {
	flag, err := s.flagRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToFlagResponse(flag), nil
}

// GetByKey retrieves a flag by its key
func (s *FlagService) GetByKey(ctx context.Context, tenantID uuid.UUID, key string) (*FlagResponse, error) {
	flag, err := s.flagRepo.FindByKey(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	return ToFlagResponse(flag), nil
}

// List returns the tenant's flags ordered by key
func (s *FlagService) List(ctx context.Context, tenantID uuid.UUID, filter FlagListFilter) ([]FlagResponse, error) {
	flags, err := s.flagRepo.FindAllForTenant(ctx, tenantID, buildFlagFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]FlagResponse, len(flags))
	for i := range flags {
		responses[i] = *ToFlagResponse(&flags[i])
	}
	return responses, nil
}

// Update changes a flag's description. The decision itself only moves
// through Enable and Disable.
func (s *FlagService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateFlagRequest) (*FlagResponse, error) {
	flag, err := s.flagRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if err := flag.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.flagRepo.Save(ctx, flag); err != nil {
		return nil, err
	}

	return ToFlagResponse(flag), nil
}

// Enable turns a flag on and busts the cached decision
func (s *FlagService) Enable(ctx context.Context, tenantID, id uuid.UUID) (*FlagResponse, error) {
	return s.toggle(ctx, tenantID, id, (*featureflag.FeatureFlag).Enable)
}

// Disable turns a flag off and busts the cached decision
func (s *FlagService) Disable(ctx context.Context, tenantID, id uuid.UUID) (*FlagResponse, error) {
	return s.toggle(ctx, tenantID, id, (*featureflag.FeatureFlag).Disable)
}

func (s *FlagService) toggle(ctx context.Context, tenantID, id uuid.UUID, flip func(*featureflag.FeatureFlag) error) (*FlagResponse, error) {
	flag, err := s.flagRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := flip(flag); err != nil {
		return nil, err
	}

	if err := s.flagRepo.Save(ctx, flag); err != nil {
		return nil, err
	}

	s.bustCache(ctx, tenantID, flag.Key)

	return ToFlagResponse(flag), nil
}

// Delete removes a flag. An unknown key evaluates to disabled, so deleting
// an enabled flag turns the feature off.
func (s *FlagService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	flag, err := s.flagRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.flagRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.bustCache(ctx, tenantID, flag.Key)

	if s.eventPublisher != nil {
		event := featureflag.NewFeatureFlagDeletedEvent(tenantID, flag.ID, flag.Key)
		_ = s.eventPublisher.Publish(ctx, event)
	}

	return nil
}

// IsEnabled answers whether a feature is on for a tenant. Unknown flags
// are disabled. Cache failures fall back to the repository; flag checks
// must not take a feature down just because redis is.
func (s *FlagService) IsEnabled(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tenantID, key)
		if err != nil {
			s.logger.Warn("Flag cache read failed, falling back to repository",
				zap.String("key", key),
				zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	enabled := false
	flag, err := s.flagRepo.FindByKey(ctx, tenantID, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return false, err
		}
		// Unknown flags stay disabled; the negative is cached below so
		// route checks don't hammer the repository for keys nobody created.
	} else {
		enabled = flag.Enabled
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, key, enabled, s.cacheTTL); err != nil {
			s.logger.Warn("Flag cache write failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	return enabled, nil
}

func (s *FlagService) bustCache(ctx context.Context, tenantID uuid.UUID, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, tenantID, key); err != nil {
		s.logger.Warn("Flag cache bust failed, stale decision possible until TTL expiry",
			zap.String("key", key),
			zap.Error(err))
	}
}

func buildFlagFilter(filter FlagListFilter) shared.Filter {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "key",
		OrderDir: "asc",
		Search:   filter.Search,
	}
}
