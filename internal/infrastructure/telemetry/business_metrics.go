// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the CRM backend.
// It tracks helpdesk sync activity, webhook deliveries, and conversation
// matching health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	syncJobsTotal              *Counter
	conversationsUpsertedTotal *Counter
	webhookEventsTotal         *Counter

	// Gauge metrics (point-in-time values)
	conversationsUnmatched *Gauge
	conversationsOpen      *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	conversationProvider ConversationMetricsProvider
}

// ConversationMetricsProvider provides conversation data for periodic metrics
// collection. This interface allows the telemetry layer to query conversation
// state without depending on the conversation domain directly.
type ConversationMetricsProvider interface {
	// GetOpenCountByPlatform returns the open conversation count per platform for a tenant
	GetOpenCountByPlatform(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)

	// GetUnmatchedCount returns the count of conversations not linked to a person for a tenant
	GetUnmatchedCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter                metric.Meter
	Logger               *zap.Logger
	CollectInterval      time.Duration // Default: 5 minutes
	ConversationProvider ConversationMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:                cfg.Meter,
		logger:               logger,
		stopChan:             make(chan struct{}),
		conversationProvider: cfg.ConversationProvider,
	}

	// Initialize counter metrics
	var err error

	// Sync metrics
	bm.syncJobsTotal, err = NewCounter(
		cfg.Meter,
		"bos_sync_jobs_total",
		"Total number of conversation sync jobs executed",
		"{jobs}",
	)
	if err != nil {
		return nil, err
	}

	bm.conversationsUpsertedTotal, err = NewCounter(
		cfg.Meter,
		"bos_conversations_upserted_total",
		"Total number of conversation rows created or updated by sync",
		"{conversations}",
	)
	if err != nil {
		return nil, err
	}

	// Webhook metrics
	bm.webhookEventsTotal, err = NewCounter(
		cfg.Meter,
		"bos_webhook_events_total",
		"Total number of webhook deliveries received",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	// Conversation gauge metrics
	bm.conversationsUnmatched, err = NewGauge(
		cfg.Meter,
		"bos_conversations_unmatched",
		"Current number of conversations not linked to a person",
		"{conversations}",
	)
	if err != nil {
		return nil, err
	}

	bm.conversationsOpen, err = NewGauge(
		cfg.Meter,
		"bos_conversations_open",
		"Current number of open conversations",
		"{conversations}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Sync Metrics
// =============================================================================

// RecordSyncJob records one executed sync job. Trigger and status accept the
// scheduler and sync enum values (WEBHOOK/POLL/MANUAL, SUCCESS/PARTIAL/FAILED)
// and are lowercased for label hygiene.
func (bm *BusinessMetrics) RecordSyncJob(ctx context.Context, tenantID uuid.UUID, trigger, status string) {
	bm.syncJobsTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrSyncTrigger.String(strings.ToLower(trigger)),
		AttrSyncStatus.String(strings.ToLower(status)),
	)
}

// RecordConversationsUpserted records conversation rows created or updated by
// a sync pass. Stale snapshots that were skipped do not count.
func (bm *BusinessMetrics) RecordConversationsUpserted(ctx context.Context, tenantID uuid.UUID, platform string, count int64) {
	if count <= 0 {
		return
	}
	bm.conversationsUpsertedTotal.Add(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrPlatform.String(strings.ToLower(platform)),
	)
}

// =============================================================================
// Webhook Metrics
// =============================================================================

// WebhookOutcome represents the handling outcome of a webhook delivery for
// metrics labeling.
type WebhookOutcome string

const (
	// WebhookOutcomeAccepted marks deliveries that passed verification and were enqueued
	WebhookOutcomeAccepted WebhookOutcome = "accepted"
	// WebhookOutcomeDuplicate marks deliveries dropped by event deduplication
	WebhookOutcomeDuplicate WebhookOutcome = "duplicate"
	// WebhookOutcomeBadSignature marks deliveries that failed signature verification
	WebhookOutcomeBadSignature WebhookOutcome = "bad_signature"
	// WebhookOutcomeRejected marks deliveries rejected for any other reason
	WebhookOutcomeRejected WebhookOutcome = "rejected"
)

// RecordWebhookEvent records a webhook delivery.
// This should be called once per delivery after the outcome is known.
func (bm *BusinessMetrics) RecordWebhookEvent(ctx context.Context, tenantID uuid.UUID, platform string, outcome WebhookOutcome) {
	bm.webhookEventsTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPlatform.String(strings.ToLower(platform)),
		AttrWebhookOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Conversation Metrics
// =============================================================================

// RecordUnmatchedConversations records the current number of conversations
// without a linked person. This is a gauge metric that should be updated
// periodically.
func (bm *BusinessMetrics) RecordUnmatchedConversations(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.conversationsUnmatched.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordOpenConversations records the current number of open conversations on
// a platform. This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenConversations(ctx context.Context, tenantID uuid.UUID, platform string, count int64) {
	bm.conversationsOpen.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrPlatform.String(strings.ToLower(platform)),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects conversation metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectConversationMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectConversationMetrics(ctx, tenantProvider)
		}
	}
}

// collectConversationMetrics collects conversation gauge metrics for all tenants.
func (bm *BusinessMetrics) collectConversationMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.conversationProvider == nil {
		bm.logger.Debug("No conversation provider configured, skipping conversation metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantConversationMetrics(ctx, tenantID)
	}
}

// collectTenantConversationMetrics collects conversation metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantConversationMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect open conversation count by platform
	openByPlatform, err := bm.conversationProvider.GetOpenCountByPlatform(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open conversation count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for platform, count := range openByPlatform {
			bm.RecordOpenConversations(ctx, tenantID, platform, count)
		}
	}

	// Collect unmatched conversation count
	unmatchedCount, err := bm.conversationProvider.GetUnmatchedCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get unmatched conversation count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordUnmatchedConversations(ctx, tenantID, unmatchedCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
