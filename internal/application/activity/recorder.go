package activity

import (
	"context"

	"github.com/bos/backend/internal/domain/activity"
	"github.com/bos/backend/internal/domain/attachment"
	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventActions maps domain event types to the dotted action names stored in
// the activity trail. Events not listed here are not recorded.
// FrontConversationSynced is deliberately absent: it fires on every sync
// upsert and would drown the trail in noise.
var eventActions = map[string]string{
	client.EventTypeClientCreated:    "client.created",
	client.EventTypeClientUpdated:    "client.updated",
	client.EventTypeClientArchived:   "client.archived",
	client.EventTypeClientUnarchived: "client.unarchived",
	client.EventTypeClientDeleted:    "client.deleted",

	client.EventTypePersonCreated:     "person.created",
	client.EventTypePersonUpdated:     "person.updated",
	client.EventTypePersonDeactivated: "person.deactivated",
	client.EventTypePersonActivated:   "person.activated",
	client.EventTypePersonDeleted:     "person.deleted",

	client.EventTypeContactMethodCreated: "contact_method.created",
	client.EventTypeContactMethodUpdated: "contact_method.updated",
	client.EventTypeContactMethodDeleted: "contact_method.deleted",

	job.EventTypeJobCreated:       "job.created",
	job.EventTypeJobUpdated:       "job.updated",
	job.EventTypeJobStatusChanged: "job.status_changed",
	job.EventTypeJobAssigned:      "job.assigned",
	job.EventTypeJobUnassigned:    "job.unassigned",
	job.EventTypeJobDeleted:       "job.deleted",

	job.EventTypeTaskCreated:       "task.created",
	job.EventTypeTaskUpdated:       "task.updated",
	job.EventTypeTaskStatusChanged: "task.status_changed",
	job.EventTypeTaskDeleted:       "task.deleted",

	identity.EventTypeUserCreated:         "user.created",
	identity.EventTypeUserDisabled:        "user.disabled",
	identity.EventTypeUserEnabled:         "user.enabled",
	identity.EventTypeUserPasswordChanged: "user.password_changed",
	identity.EventTypeUserRoleChanged:     "user.role_changed",

	identity.EventTypeTenantCreated:   "tenant.created",
	identity.EventTypeTenantSuspended: "tenant.suspended",
	identity.EventTypeTenantActivated: "tenant.activated",

	conversation.EventTypeConversationMatched:  "conversation.matched",
	conversation.EventTypeConversationUnlinked: "conversation.unlinked",

	featureflag.EventTypeFeatureFlagCreated: "feature_flag.created",
	featureflag.EventTypeFeatureFlagToggled: "feature_flag.toggled",
	featureflag.EventTypeFeatureFlagDeleted: "feature_flag.deleted",

	attachment.EventTypeAttachmentUploaded: "attachment.uploaded",
	attachment.EventTypeAttachmentDeleted:  "attachment.deleted",
}

// ActivityRecorder subscribes to domain events and appends human-readable
// entries to the tenant's activity trail. The actor is taken from the
// request context when present; events delivered through the outbox run
// without a request context and are recorded as system activity.
type ActivityRecorder struct {
	activityRepo activity.ActivityLogRepository
	logger       *zap.Logger
}

// NewActivityRecorder creates a new ActivityRecorder
func NewActivityRecorder(activityRepo activity.ActivityLogRepository, zapLogger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{
		activityRepo: activityRepo,
		logger:       zapLogger,
	}
}

// EventTypes returns the event types this recorder subscribes to
func (r *ActivityRecorder) EventTypes() []string {
	types := make([]string, 0, len(eventActions))
	for eventType := range eventActions {
		types = append(types, eventType)
	}
	return types
}

// Handle translates a domain event into an activity trail entry
func (r *ActivityRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	action, ok := eventActions[event.EventType()]
	if !ok {
		return nil
	}

	entry, err := activity.NewActivityLog(event.TenantID(), action, event.AggregateType(), event.AggregateID())
	if err != nil {
		r.logger.Error("Failed to build activity entry",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err))
		return nil
	}

	if actorID := actorFromContext(ctx); actorID != uuid.Nil {
		entry.WithActor(actorID)
	}
	if metadata := eventMetadata(event); len(metadata) > 0 {
		entry.WithMetadata(metadata)
	}

	if err := r.activityRepo.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to record activity",
			zap.String("action", action),
			zap.String("loggable_type", entry.LoggableType),
			zap.String("loggable_id", entry.LoggableID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func actorFromContext(ctx context.Context) uuid.UUID {
	userIDStr := logger.GetUserID(ctx)
	if userIDStr == "" {
		return uuid.Nil
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil
	}
	return userID
}

// eventMetadata extracts display detail from event payloads worth keeping
// in the trail
func eventMetadata(event shared.DomainEvent) map[string]interface{} {
	switch e := event.(type) {
	case *job.JobStatusChangedEvent:
		return map[string]interface{}{
			"title": e.Title,
			"from":  e.OldStatus.String(),
			"to":    e.NewStatus.String(),
		}
	case *job.JobAssignedEvent:
		return map[string]interface{}{
			"user_id": e.UserID.String(),
		}
	case *job.JobUnassignedEvent:
		return map[string]interface{}{
			"user_id": e.UserID.String(),
		}
	case *job.TaskStatusChangedEvent:
		return map[string]interface{}{
			"job_id": e.JobID.String(),
			"from":   e.OldStatus.String(),
			"to":     e.NewStatus.String(),
		}
	case *conversation.ConversationMatchedEvent:
		return map[string]interface{}{
			"platform_id": e.PlatformID,
			"person_id":   e.PersonID.String(),
			"client_id":   e.ClientID.String(),
		}
	case *conversation.ConversationUnlinkedEvent:
		return map[string]interface{}{
			"platform_id": e.PlatformID,
		}
	case *identity.UserRoleChangedEvent:
		return map[string]interface{}{
			"email": e.Email,
			"from":  e.OldRole.String(),
			"to":    e.NewRole.String(),
		}
	case *featureflag.FeatureFlagToggledEvent:
		return map[string]interface{}{
			"key":     e.Key,
			"enabled": e.Enabled,
		}
	case *attachment.AttachmentUploadedEvent:
		return map[string]interface{}{
			"job_id":     e.JobID.String(),
			"file_name":  e.FileName,
			"size_bytes": e.SizeBytes,
		}
	default:
		return nil
	}
}

var _ shared.EventHandler = (*ActivityRecorder)(nil)
