package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/shared"
)

// ---------------------------------------------------------------------------
// Executor ports
// ---------------------------------------------------------------------------

// IngestOutcome reports what ingesting one conversation did
type IngestOutcome struct {
	// Created is true when the conversation was seen for the first time
	Created bool
	// Changed is true when the local row was created or updated
	Changed bool
	// Matched is true when this ingest linked the conversation to a person
	Matched bool
}

// ConversationIngestFunc folds one platform snapshot into the local store.
// The application sync service provides this; the executor stays unaware
// of repositories.
type ConversationIngestFunc func(ctx context.Context, tenantID uuid.UUID, pc *conversation.PlatformConversation) (IngestOutcome, error)

// FeatureGate answers whether a feature is enabled for a tenant
type FeatureGate interface {
	IsEnabled(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)
}

// ---------------------------------------------------------------------------
// SyncExecutorConfig
// ---------------------------------------------------------------------------

// SyncExecutorConfig holds configuration for the sync executor
type SyncExecutorConfig struct {
	// PageSize is the number of conversations fetched per page
	PageSize int
	// FirstSyncLookback bounds the backfill window when a tenant has no
	// sync state yet
	FirstSyncLookback time.Duration
}

// DefaultSyncExecutorConfig returns default configuration
func DefaultSyncExecutorConfig() SyncExecutorConfig {
	return SyncExecutorConfig{
		PageSize:          50,
		FirstSyncLookback: 24 * time.Hour,
	}
}

// ---------------------------------------------------------------------------
// SyncExecutor
// ---------------------------------------------------------------------------

// SyncExecutor pulls conversations from the helpdesk platform and hands
// them to the ingest callback one at a time. Delta polls walk pages until
// exhausted and advance the tenant's watermark only when every page came
// back and no item failed, so anything missed is re-covered by the next
// poll instead of silently skipped.
type SyncExecutor struct {
	config    SyncExecutorConfig
	platforms conversation.HelpdeskPlatformRegistry
	stateRepo conversation.SyncStateRepository
	logger    *zap.Logger

	// Optional per-poll feature gate; nil means always on
	featureGate FeatureGate

	ingest          ConversationIngestFunc
	onSyncCompleted func(ctx context.Context, job *ConversationSyncJob)
}

// NewSyncExecutor creates a new sync executor
func NewSyncExecutor(
	config SyncExecutorConfig,
	platforms conversation.HelpdeskPlatformRegistry,
	stateRepo conversation.SyncStateRepository,
	ingest ConversationIngestFunc,
	logger *zap.Logger,
) *SyncExecutor {
	if config.PageSize <= 0 {
		config.PageSize = DefaultSyncExecutorConfig().PageSize
	}
	if config.FirstSyncLookback <= 0 {
		config.FirstSyncLookback = DefaultSyncExecutorConfig().FirstSyncLookback
	}
	return &SyncExecutor{
		config:    config,
		platforms: platforms,
		stateRepo: stateRepo,
		ingest:    ingest,
		logger:    logger,
	}
}

// SetFeatureGate wires the per-tenant front_sync flag check. The gate runs
// on every execution so disabling the flag stops webhook fetches and polls
// alike without a restart.
func (e *SyncExecutor) SetFeatureGate(gate FeatureGate) {
	e.featureGate = gate
}

// SetOnSyncCompleted sets a callback invoked after a job completes.
// Used for sync metrics.
func (e *SyncExecutor) SetOnSyncCompleted(cb func(ctx context.Context, job *ConversationSyncJob)) {
	e.onSyncCompleted = cb
}

// Execute fetches conversations from the platform and ingests them
func (e *SyncExecutor) Execute(ctx context.Context, job *ConversationSyncJob) error {
	platform, err := e.platforms.GetPlatform(job.Platform)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncPlatformUnavailable, err)
	}

	enabled, err := platform.IsEnabled(ctx, job.TenantID)
	if err != nil {
		return fmt.Errorf("failed to check platform status: %w", err)
	}
	if !enabled {
		return fmt.Errorf("%w: platform %s not configured for tenant", ErrSyncPlatformUnavailable, job.Platform)
	}

	if e.featureGate != nil {
		on, err := e.featureGate.IsEnabled(ctx, job.TenantID, featureflag.KeyFrontSync)
		if err != nil {
			return fmt.Errorf("failed to check feature flag: %w", err)
		}
		if !on {
			return ErrSyncFeatureDisabled
		}
	}

	if job.IsTargeted() {
		err = e.executeTargeted(ctx, platform, job)
	} else {
		err = e.executePoll(ctx, platform, job)
	}
	if err != nil {
		return err
	}

	if e.onSyncCompleted != nil {
		e.onSyncCompleted(ctx, job)
	}
	return nil
}

// executeTargeted fetches and ingests a single conversation
func (e *SyncExecutor) executeTargeted(ctx context.Context, platform conversation.HelpdeskPlatform, job *ConversationSyncJob) error {
	pc, err := platform.GetConversation(ctx, job.TenantID, job.TargetConversationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	outcome, err := e.ingest(ctx, job.TenantID, pc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	upserted, matched := 0, 0
	if outcome.Changed {
		upserted = 1
	}
	if outcome.Matched {
		matched = 1
	}
	job.Complete(1, upserted, matched, 0)
	return nil
}

// executePoll walks the delta pages and advances the watermark on full
// success
func (e *SyncExecutor) executePoll(ctx context.Context, platform conversation.HelpdeskPlatform, job *ConversationSyncJob) error {
	pollStart := time.Now()

	req := &conversation.ConversationPullRequest{
		TenantID:     job.TenantID,
		UpdatedAfter: job.UpdatedAfter,
		PageSize:     e.config.PageSize,
	}

	var (
		fetched, upserted, matched, failed int
		failedIDs                          []string
		maxSeen                            time.Time
		walkedAllPages                     bool
	)

	for {
		select {
		case <-ctx.Done():
			return ErrSyncTimeout
		default:
		}

		page, err := platform.ListConversations(ctx, req)
		if err != nil {
			if errors.Is(err, conversation.ErrPlatformRateLimited) {
				e.logger.Warn("Rate limited by platform, will retry later",
					zap.String("tenant_id", job.TenantID.String()),
					zap.String("platform", string(job.Platform)),
					zap.Error(err),
				)
				return err
			}
			if fetched == 0 {
				return fmt.Errorf("%w: %v", ErrSyncFailed, err)
			}
			// Mid-walk failure with earlier pages ingested: finish as
			// partial; the watermark stays put and the next poll re-covers
			// the window.
			e.logger.Error("Failed to pull conversation page",
				zap.String("job_id", job.ID.String()),
				zap.String("page_token", req.PageToken),
				zap.Error(err),
			)
			break
		}

		fetched += len(page.Conversations)

		for i := range page.Conversations {
			pc := &page.Conversations[i]
			if pc.UpdatedAt.After(maxSeen) {
				maxSeen = pc.UpdatedAt
			}

			outcome, err := e.ingest(ctx, job.TenantID, pc)
			if err != nil {
				e.logger.Error("Failed to ingest conversation",
					zap.String("platform_id", pc.PlatformID),
					zap.Error(err),
				)
				failed++
				failedIDs = append(failedIDs, pc.PlatformID)
				continue
			}
			if outcome.Changed {
				upserted++
			}
			if outcome.Matched {
				matched++
			}
		}

		e.logger.Debug("Processed page of conversations",
			zap.String("job_id", job.ID.String()),
			zap.Int("in_page", len(page.Conversations)),
			zap.Int("total_so_far", fetched),
		)

		if !page.HasMore() {
			walkedAllPages = true
			break
		}
		req.PageToken = page.NextPageToken
	}

	job.Complete(fetched, upserted, matched, failed)
	job.FailedIDs = failedIDs

	// A transport failure mid-walk leaves pages unvisited even when every
	// ingested item succeeded
	if !walkedAllPages && job.Status == SyncJobStatusSuccess {
		job.Status = SyncJobStatusPartial
	}

	if walkedAllPages && failed == 0 {
		watermark := maxSeen
		if fetched == 0 {
			// Nothing changed in the window; everything up to the poll
			// start is covered. The trigger's overlap absorbs clock skew.
			watermark = pollStart
		}
		e.advanceWatermark(ctx, job, watermark)
	} else {
		e.recordPollFailure(ctx, job)
	}

	e.logger.Info("Conversation poll finished",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(job.Status)),
		zap.Int("fetched", fetched),
		zap.Int("upserted", upserted),
		zap.Int("matched", matched),
		zap.Int("failed", failed),
		zap.Bool("watermark_advanced", walkedAllPages && failed == 0),
	)

	return nil
}

// advanceWatermark moves the tenant's cursor forward after a fully
// successful page walk
func (e *SyncExecutor) advanceWatermark(ctx context.Context, job *ConversationSyncJob, to time.Time) {
	state, err := e.loadOrInitState(ctx, job)
	if err != nil {
		e.logger.Error("Failed to load sync state, watermark not advanced",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Error(err),
		)
		return
	}

	state.AdvanceCursor(to)
	if err := e.stateRepo.Save(ctx, state); err != nil {
		// Not fatal: the next poll re-covers the same window
		e.logger.Error("Failed to save sync state, watermark not advanced",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Error(err),
		)
	}
}

// recordPollFailure bumps the consecutive failure count without moving
// the cursor
func (e *SyncExecutor) recordPollFailure(ctx context.Context, job *ConversationSyncJob) {
	state, err := e.loadOrInitState(ctx, job)
	if err != nil {
		return
	}
	state.RecordFailure()
	if err := e.stateRepo.Save(ctx, state); err != nil {
		e.logger.Warn("Failed to record poll failure",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Error(err),
		)
	}
}

func (e *SyncExecutor) loadOrInitState(ctx context.Context, job *ConversationSyncJob) (*conversation.SyncState, error) {
	state, err := e.stateRepo.FindByTenant(ctx, job.TenantID, job.Platform)
	if errors.Is(err, shared.ErrNotFound) {
		return conversation.NewSyncState(job.TenantID, job.Platform, e.config.FirstSyncLookback)
	}
	return state, err
}

// Ensure SyncExecutor implements ConversationSyncExecutor
var _ ConversationSyncExecutor = (*SyncExecutor)(nil)
