package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bos/backend/internal/domain/conversation"
)

// ---------------------------------------------------------------------------
// ConversationSyncExecutor Interface
// ---------------------------------------------------------------------------

// ConversationSyncExecutor executes conversation sync jobs
type ConversationSyncExecutor interface {
	// Execute fetches conversations from the platform and ingests them
	Execute(ctx context.Context, job *ConversationSyncJob) error
}

// ---------------------------------------------------------------------------
// SyncSchedulerConfig
// ---------------------------------------------------------------------------

// SyncSchedulerConfig holds configuration for the conversation sync scheduler
type SyncSchedulerConfig struct {
	// Workers is the number of concurrent sync workers
	Workers int
	// QueueSize is the buffered job queue capacity
	QueueSize int
	// JobTimeout is the maximum time a job can run
	JobTimeout time.Duration
	// MaxRetries is the number of retry attempts for failed jobs
	MaxRetries int
	// BaseRetryDelay is the first retry delay; it doubles per attempt
	BaseRetryDelay time.Duration
	// MaxRetryDelay is the backoff ceiling
	MaxRetryDelay time.Duration
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Workers:        4,
		QueueSize:      100,
		JobTimeout:     2 * time.Minute,
		MaxRetries:     5,
		BaseRetryDelay: 30 * time.Second,
		MaxRetryDelay:  30 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidConfig
	}
	if c.QueueSize <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.MaxRetries < 0 {
		return ErrInvalidConfig
	}
	if c.BaseRetryDelay <= 0 {
		return ErrInvalidConfig
	}
	if c.MaxRetryDelay < c.BaseRetryDelay {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// ConversationSyncScheduler
// ---------------------------------------------------------------------------

// ConversationSyncScheduler runs sync jobs on a bounded worker pool.
// Webhook fetches, delta polls, and manual syncs all go through the same
// queue, so one burst of webhooks cannot starve the pollers of the API
// rate budget faster than the workers drain it.
type ConversationSyncScheduler struct {
	config   SyncSchedulerConfig
	executor ConversationSyncExecutor
	logger   *zap.Logger

	jobs      chan *ConversationSyncJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// Job history for the sync status endpoint (in-memory, limited size)
	historyMu  sync.RWMutex
	history    []*ConversationSyncJob
	maxHistory int
}

// NewConversationSyncScheduler creates a new conversation sync scheduler
func NewConversationSyncScheduler(config SyncSchedulerConfig, executor ConversationSyncExecutor, logger *zap.Logger) (*ConversationSyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ConversationSyncScheduler{
		config:     config,
		executor:   executor,
		logger:     logger,
		jobs:       make(chan *ConversationSyncJob, config.QueueSize),
		history:    make([]*ConversationSyncJob, 0, 100),
		maxHistory: 100,
	}, nil
}

// Start starts the scheduler
func (s *ConversationSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Conversation sync scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ConversationSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// The queue stays open: retry requeues race with shutdown, and a send
	// on a closed channel panics. Jobs still queued when the workers exit
	// are dropped; unadvanced watermarks re-cover them on the next poll.
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Conversation sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Conversation sync scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution
func (s *ConversationSyncScheduler) SubmitJob(job *ConversationSyncJob) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("Sync job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("platform", string(job.Platform)),
			zap.String("trigger", string(job.Trigger)),
			zap.String("target", job.TargetConversationID),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// ScheduleDeltaPoll enqueues a delta poll from the given watermark
func (s *ConversationSyncScheduler) ScheduleDeltaPoll(tenantID uuid.UUID, platform conversation.PlatformCode, updatedAfter time.Time, trigger SyncTrigger) error {
	job := NewDeltaPollJob(tenantID, platform, updatedAfter, trigger, s.config.MaxRetries)
	return s.SubmitJob(job)
}

// ScheduleTargetedSync enqueues a single-conversation fetch
func (s *ConversationSyncScheduler) ScheduleTargetedSync(tenantID uuid.UUID, platform conversation.PlatformCode, conversationID string, trigger SyncTrigger) error {
	job := NewTargetedSyncJob(tenantID, platform, conversationID, trigger, s.config.MaxRetries)
	return s.SubmitJob(job)
}

// worker processes jobs from the queue
func (s *ConversationSyncScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Sync worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Sync worker stopping", zap.Int("worker_id", workerID))
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *ConversationSyncScheduler) processJob(ctx context.Context, job *ConversationSyncJob, workerID int) {
	// Jobs waiting on a retry delay go back to the queue
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case s.jobs <- job:
		default:
			s.logger.Warn("Failed to re-queue sync job for retry",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	job.Start()
	s.logger.Info("Processing sync job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("platform", string(job.Platform)),
		zap.String("trigger", string(job.Trigger)),
		zap.String("target", job.TargetConversationID),
		zap.Time("updated_after", job.UpdatedAfter),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("Sync job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("platform", string(job.Platform)),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.BaseRetryDelay, s.config.MaxRetryDelay, retryAfterOf(err))
			s.logger.Info("Sync job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
				zap.Time("next_retry_at", *job.NextRetryAt),
			)
			select {
			case s.jobs <- job:
			default:
				s.logger.Warn("Failed to re-queue sync job for retry",
					zap.String("job_id", job.ID.String()),
				)
			}
		}

		s.addToHistory(job)
		return
	}

	s.logger.Info("Sync job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("platform", string(job.Platform)),
		zap.String("status", string(job.Status)),
		zap.Int("fetched", job.FetchedCount),
		zap.Int("upserted", job.UpsertedCount),
		zap.Int("matched", job.MatchedCount),
		zap.Int("failed", job.FailedCount),
	)

	s.addToHistory(job)
}

// retryAfterOf extracts the platform's requested wait from a rate-limit
// error chain, zero otherwise
func retryAfterOf(err error) time.Duration {
	var rle *conversation.RateLimitError
	if errors.As(err, &rle) {
		return rle.RetryAfter
	}
	return 0
}

// addToHistory adds a completed job to history
func (s *ConversationSyncScheduler) addToHistory(job *ConversationSyncJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*ConversationSyncJob{job}, s.history...)

	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}

// GetJobHistory returns recent job history, newest first
func (s *ConversationSyncScheduler) GetJobHistory(limit int) []*ConversationSyncJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	result := make([]*ConversationSyncJob, limit)
	copy(result, s.history[:limit])
	return result
}

// GetJobHistoryByTenant returns job history for a specific tenant
func (s *ConversationSyncScheduler) GetJobHistoryByTenant(tenantID uuid.UUID, limit int) []*ConversationSyncJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	result := make([]*ConversationSyncJob, 0, limit)
	for _, job := range s.history {
		if job.TenantID == tenantID {
			result = append(result, job)
			if len(result) >= limit {
				break
			}
		}
	}
	return result
}
