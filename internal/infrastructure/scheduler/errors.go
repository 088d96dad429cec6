package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("sync job queue is full")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrSyncFailed is returned when a conversation sync fails
	ErrSyncFailed = errors.New("conversation sync failed")

	// ErrSyncTimeout is returned when a conversation sync times out
	ErrSyncTimeout = errors.New("conversation sync timed out")

	// ErrSyncPlatformUnavailable is returned when the platform adapter is
	// missing or not configured for the tenant
	ErrSyncPlatformUnavailable = errors.New("platform unavailable for conversation sync")

	// ErrSyncFeatureDisabled is returned when the tenant's front_sync
	// feature flag is off
	ErrSyncFeatureDisabled = errors.New("conversation sync feature disabled for tenant")

	// ErrSyncInvalidWindow is returned for invalid sync time windows
	ErrSyncInvalidWindow = errors.New("invalid conversation sync window")
)
