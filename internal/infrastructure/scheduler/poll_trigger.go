package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// TenantSource
// ---------------------------------------------------------------------------

// TenantSource lists the tenants configured for a platform. The
// config-backed credential source provides this.
type TenantSource interface {
	SyncEnabledTenants(ctx context.Context, platform conversation.PlatformCode) ([]uuid.UUID, error)
}

// ---------------------------------------------------------------------------
// PollTriggerConfig
// ---------------------------------------------------------------------------

// PollTriggerConfig holds configuration for the delta poll trigger
type PollTriggerConfig struct {
	// CheckInterval is how often the trigger looks for due tenants
	CheckInterval time.Duration

	// PollInterval is how often each tenant is delta-polled
	PollInterval time.Duration

	// Overlap is subtracted from the watermark when building the poll
	// floor. It absorbs clock skew against the platform and conversations
	// that landed exactly on the previous watermark.
	Overlap time.Duration

	// FirstSyncLookback bounds the backfill window for tenants that have
	// never been polled
	FirstSyncLookback time.Duration
}

// DefaultPollTriggerConfig returns default configuration
func DefaultPollTriggerConfig() PollTriggerConfig {
	return PollTriggerConfig{
		CheckInterval:     time.Minute,
		PollInterval:      5 * time.Minute,
		Overlap:           time.Minute,
		FirstSyncLookback: 24 * time.Hour,
	}
}

// ---------------------------------------------------------------------------
// PollTrigger
// ---------------------------------------------------------------------------

// PollTrigger periodically enqueues delta polls for every tenant with a
// configured platform. The poll floor comes from the tenant's persisted
// watermark, so restarts resume where the last successful poll ended.
type PollTrigger struct {
	config    PollTriggerConfig
	scheduler *ConversationSyncScheduler
	platforms conversation.HelpdeskPlatformRegistry
	tenants   TenantSource
	stateRepo conversation.SyncStateRepository
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Track last scheduled time per tenant/platform to avoid flooding the
	// queue when polls outlast the check interval
	lastScheduledMu sync.RWMutex
	lastScheduled   map[string]time.Time
}

// NewPollTrigger creates a new delta poll trigger
func NewPollTrigger(
	config PollTriggerConfig,
	scheduler *ConversationSyncScheduler,
	platforms conversation.HelpdeskPlatformRegistry,
	tenants TenantSource,
	stateRepo conversation.SyncStateRepository,
	logger *zap.Logger,
) *PollTrigger {
	return &PollTrigger{
		config:        config,
		scheduler:     scheduler,
		platforms:     platforms,
		tenants:       tenants,
		stateRepo:     stateRepo,
		logger:        logger,
		lastScheduled: make(map[string]time.Time),
	}
}

// Start starts the poll trigger
func (t *PollTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Conversation poll trigger started",
		zap.Duration("check_interval", t.config.CheckInterval),
		zap.Duration("poll_interval", t.config.PollInterval),
		zap.Duration("overlap", t.config.Overlap),
	)

	return nil
}

// Stop stops the poll trigger
func (t *PollTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Conversation poll trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop periodically checks and schedules delta polls
func (t *PollTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	// Run immediately on start
	t.checkAndSchedule(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndSchedule(ctx)
		}
	}
}

// checkAndSchedule enqueues a delta poll for every due tenant
func (t *PollTrigger) checkAndSchedule(ctx context.Context) {
	now := time.Now()

	for _, platform := range t.platforms.ListPlatforms() {
		code := platform.PlatformCode()

		tenantIDs, err := t.tenants.SyncEnabledTenants(ctx, code)
		if err != nil {
			t.logger.Error("Failed to list sync-enabled tenants",
				zap.String("platform", string(code)),
				zap.Error(err),
			)
			continue
		}

		for _, tenantID := range tenantIDs {
			if !t.isDue(tenantID, code, now) {
				continue
			}

			updatedAfter := t.pollFloor(ctx, tenantID, code, now)

			t.logger.Debug("Scheduling delta poll",
				zap.String("tenant_id", tenantID.String()),
				zap.String("platform", string(code)),
				zap.Time("updated_after", updatedAfter),
			)

			if err := t.scheduler.ScheduleDeltaPoll(tenantID, code, updatedAfter, SyncTriggerPoll); err != nil {
				t.logger.Error("Failed to schedule delta poll",
					zap.String("tenant_id", tenantID.String()),
					zap.String("platform", string(code)),
					zap.Error(err),
				)
				continue
			}

			t.markScheduled(tenantID, code, now)
		}
	}
}

// isDue reports whether the tenant's poll interval has elapsed
func (t *PollTrigger) isDue(tenantID uuid.UUID, platform conversation.PlatformCode, now time.Time) bool {
	t.lastScheduledMu.RLock()
	last, exists := t.lastScheduled[t.makeKey(tenantID, platform)]
	t.lastScheduledMu.RUnlock()

	return !exists || now.Sub(last) >= t.config.PollInterval
}

// pollFloor computes the updated-after floor for a tenant from its
// persisted watermark
func (t *PollTrigger) pollFloor(ctx context.Context, tenantID uuid.UUID, platform conversation.PlatformCode, now time.Time) time.Time {
	state, err := t.stateRepo.FindByTenant(ctx, tenantID, platform)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			t.logger.Warn("Failed to load sync state, using first-sync lookback",
				zap.String("tenant_id", tenantID.String()),
				zap.String("platform", string(platform)),
				zap.Error(err),
			)
		}
		return now.Add(-t.config.FirstSyncLookback)
	}
	return state.Cursor.Add(-t.config.Overlap)
}

// makeKey creates a unique key for a tenant/platform combination
func (t *PollTrigger) makeKey(tenantID uuid.UUID, platform conversation.PlatformCode) string {
	return tenantID.String() + ":" + string(platform)
}

// markScheduled updates the last scheduled time for a tenant/platform
func (t *PollTrigger) markScheduled(tenantID uuid.UUID, platform conversation.PlatformCode, at time.Time) {
	t.lastScheduledMu.Lock()
	t.lastScheduled[t.makeKey(tenantID, platform)] = at
	t.lastScheduledMu.Unlock()
}

// TriggerManualSync enqueues an immediate delta poll for a tenant. A zero
// updatedAfter falls back to the persisted watermark.
func (t *PollTrigger) TriggerManualSync(ctx context.Context, tenantID uuid.UUID, platform conversation.PlatformCode, updatedAfter time.Time) error {
	now := time.Now()
	if updatedAfter.IsZero() {
		updatedAfter = t.pollFloor(ctx, tenantID, platform, now)
	}
	if updatedAfter.After(now) {
		return ErrSyncInvalidWindow
	}

	t.logger.Info("Manual conversation sync triggered",
		zap.String("tenant_id", tenantID.String()),
		zap.String("platform", string(platform)),
		zap.Time("updated_after", updatedAfter),
	)

	return t.scheduler.ScheduleDeltaPoll(tenantID, platform, updatedAfter, SyncTriggerManual)
}

// TriggerManualConversationSync enqueues a single-conversation fetch
func (t *PollTrigger) TriggerManualConversationSync(tenantID uuid.UUID, platform conversation.PlatformCode, conversationID string) error {
	if conversationID == "" {
		return conversation.ErrSyncInvalidConversationID
	}

	t.logger.Info("Manual single-conversation sync triggered",
		zap.String("tenant_id", tenantID.String()),
		zap.String("platform", string(platform)),
		zap.String("conversation_id", conversationID),
	)

	return t.scheduler.ScheduleTargetedSync(tenantID, platform, conversationID, SyncTriggerManual)
}

// Stats returns trigger statistics for the sync status endpoint
func (t *PollTrigger) Stats() map[string]interface{} {
	t.lastScheduledMu.RLock()
	defer t.lastScheduledMu.RUnlock()

	t.mu.Lock()
	running := t.isRunning
	t.mu.Unlock()

	lastScheduledTimes := make(map[string]string, len(t.lastScheduled))
	for key, at := range t.lastScheduled {
		lastScheduledTimes[key] = at.Format(time.RFC3339)
	}

	return map[string]interface{}{
		"is_running":     running,
		"check_interval": t.config.CheckInterval.String(),
		"poll_interval":  t.config.PollInterval.String(),
		"last_scheduled": lastScheduledTimes,
	}
}
