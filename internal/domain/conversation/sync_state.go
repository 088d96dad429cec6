package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SyncState is the per-tenant polling watermark for a platform. Cursor is
// the platform updated-at time up to which conversations have been fully
// synced; it only advances after a complete, successful page walk, so a
// crashed or failed poll re-covers its window on the next run.
type SyncState struct {
	ID                  uuid.UUID
	TenantID            uuid.UUID
	Platform            PlatformCode
	Cursor              time.Time
	LastPolledAt        *time.Time
	ConsecutiveFailures int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewSyncState creates the initial state for a tenant/platform pair.
// The cursor starts at lookback before now so the first poll backfills a
// bounded window instead of the platform's full history.
func NewSyncState(tenantID uuid.UUID, platform PlatformCode, lookback time.Duration) (*SyncState, error) {
	if tenantID == uuid.Nil {
		return nil, ErrSyncInvalidTenantID
	}
	if !platform.IsValid() {
		return nil, ErrSyncInvalidPlatformCode
	}
	now := time.Now()
	return &SyncState{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Platform:  platform,
		Cursor:    now.Add(-lookback),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AdvanceCursor moves the watermark forward after a successful poll.
// Backward moves are ignored.
func (s *SyncState) AdvanceCursor(to time.Time) {
	if to.After(s.Cursor) {
		s.Cursor = to
	}
	now := time.Now()
	s.LastPolledAt = &now
	s.ConsecutiveFailures = 0
	s.UpdatedAt = now
}

// RecordFailure notes a failed poll without touching the cursor
func (s *SyncState) RecordFailure() {
	now := time.Now()
	s.LastPolledAt = &now
	s.ConsecutiveFailures++
	s.UpdatedAt = now
}

// SyncStateRepository defines the interface for persisting sync states
type SyncStateRepository interface {
	// FindByTenant finds the state for a tenant/platform pair.
	// Returns shared.ErrNotFound when the tenant has never been polled.
	FindByTenant(ctx context.Context, tenantID uuid.UUID, platform PlatformCode) (*SyncState, error)

	// ListAll returns every known sync state
	ListAll(ctx context.Context) ([]SyncState, error)

	// Save creates or updates a sync state
	Save(ctx context.Context, state *SyncState) error
}
