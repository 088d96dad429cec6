// Package conversation contains the helpdesk integration bounded context.
// It manages conversations synced from external customer-communication
// platforms (Front) and their links into the CRM.
//
// Key concepts:
//   - HelpdeskPlatform: Port interface for connecting to helpdesk platforms
//   - FrontConversation: Aggregate holding a synced conversation row
//   - PlatformConversation: Value object representing a conversation as the
//     platform reports it
//   - SyncState: Per-tenant polling watermark so restarts resume where the
//     last successful poll ended
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package conversation
