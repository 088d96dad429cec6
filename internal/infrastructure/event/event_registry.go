package event

import (
	"github.com/bos/backend/internal/domain/attachment"
	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/featureflag"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Client domain events
	serializer.Register(client.EventTypeClientCreated, &client.ClientCreatedEvent{})
	serializer.Register(client.EventTypeClientUpdated, &client.ClientUpdatedEvent{})
	serializer.Register(client.EventTypeClientArchived, &client.ClientArchivedEvent{})
	serializer.Register(client.EventTypeClientUnarchived, &client.ClientUnarchivedEvent{})
	serializer.Register(client.EventTypeClientDeleted, &client.ClientDeletedEvent{})

	// Client domain - Person events
	serializer.Register(client.EventTypePersonCreated, &client.PersonCreatedEvent{})
	serializer.Register(client.EventTypePersonUpdated, &client.PersonUpdatedEvent{})
	serializer.Register(client.EventTypePersonDeactivated, &client.PersonDeactivatedEvent{})
	serializer.Register(client.EventTypePersonActivated, &client.PersonActivatedEvent{})
	serializer.Register(client.EventTypePersonDeleted, &client.PersonDeletedEvent{})

	// Client domain - Contact method events
	serializer.Register(client.EventTypeContactMethodCreated, &client.ContactMethodCreatedEvent{})
	serializer.Register(client.EventTypeContactMethodUpdated, &client.ContactMethodUpdatedEvent{})
	serializer.Register(client.EventTypeContactMethodDeleted, &client.ContactMethodDeletedEvent{})

	// Job domain events
	serializer.Register(job.EventTypeJobCreated, &job.JobCreatedEvent{})
	serializer.Register(job.EventTypeJobUpdated, &job.JobUpdatedEvent{})
	serializer.Register(job.EventTypeJobStatusChanged, &job.JobStatusChangedEvent{})
	serializer.Register(job.EventTypeJobAssigned, &job.JobAssignedEvent{})
	serializer.Register(job.EventTypeJobUnassigned, &job.JobUnassignedEvent{})
	serializer.Register(job.EventTypeJobDeleted, &job.JobDeletedEvent{})

	// Job domain - Task events
	serializer.Register(job.EventTypeTaskCreated, &job.TaskCreatedEvent{})
	serializer.Register(job.EventTypeTaskUpdated, &job.TaskUpdatedEvent{})
	serializer.Register(job.EventTypeTaskStatusChanged, &job.TaskStatusChangedEvent{})
	serializer.Register(job.EventTypeTaskDeleted, &job.TaskDeletedEvent{})

	// Conversation domain events (Front sync)
	serializer.Register(conversation.EventTypeConversationSynced, &conversation.ConversationSyncedEvent{})
	serializer.Register(conversation.EventTypeConversationMatched, &conversation.ConversationMatchedEvent{})
	serializer.Register(conversation.EventTypeConversationUnlinked, &conversation.ConversationUnlinkedEvent{})

	// Identity domain - Tenant events
	serializer.Register(identity.EventTypeTenantCreated, &identity.TenantCreatedEvent{})
	serializer.Register(identity.EventTypeTenantSuspended, &identity.TenantSuspendedEvent{})
	serializer.Register(identity.EventTypeTenantActivated, &identity.TenantActivatedEvent{})

	// Identity domain - User events
	serializer.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	serializer.Register(identity.EventTypeUserDisabled, &identity.UserDisabledEvent{})
	serializer.Register(identity.EventTypeUserEnabled, &identity.UserEnabledEvent{})
	serializer.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	serializer.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})

	// Attachment domain events
	serializer.Register(attachment.EventTypeAttachmentUploaded, &attachment.AttachmentUploadedEvent{})
	serializer.Register(attachment.EventTypeAttachmentDeleted, &attachment.AttachmentDeletedEvent{})

	// Feature flag events
	serializer.Register(featureflag.EventTypeFeatureFlagCreated, &featureflag.FeatureFlagCreatedEvent{})
	serializer.Register(featureflag.EventTypeFeatureFlagToggled, &featureflag.FeatureFlagToggledEvent{})
	serializer.Register(featureflag.EventTypeFeatureFlagDeleted, &featureflag.FeatureFlagDeletedEvent{})
}
