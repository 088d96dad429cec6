package conversation

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestResult reports what happened to one pulled conversation
type IngestResult struct {
	// Created is true when the conversation was seen for the first time
	Created bool
	// Changed is true when the local row was created or updated. False
	// means the snapshot was older than what is stored and was skipped.
	Changed bool
	// Matched is true when this ingest linked the conversation to a person
	Matched bool
}

// SyncService folds platform conversation snapshots into local rows and
// links them to CRM people by their contact handle. It is the per-item
// target of the sync scheduler: webhook fetches, delta polls, and manual
// syncs all funnel through Ingest, which is idempotent, so overlapping
// deliveries of the same snapshot are safe.
type SyncService struct {
	conversationRepo conversation.FrontConversationRepository
	contactRepo      client.ContactMethodRepository
	personRepo       client.PersonRepository
	logger           *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	conversationRepo conversation.FrontConversationRepository,
	contactRepo client.ContactMethodRepository,
	personRepo client.PersonRepository,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		conversationRepo: conversationRepo,
		contactRepo:      contactRepo,
		personRepo:       personRepo,
		logger:           logger,
	}
}

// Ingest upserts one platform snapshot and attempts the handle match.
// Snapshots older than the stored row are skipped without a write.
func (s *SyncService) Ingest(ctx context.Context, tenantID uuid.UUID, pc *conversation.PlatformConversation) (*IngestResult, error) {
	result := &IngestResult{}

	c, err := s.conversationRepo.FindByPlatformID(ctx, tenantID, pc.PlatformCode, pc.PlatformID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		c, err = conversation.NewFrontConversationFromRemote(tenantID, pc)
		if err != nil {
			return nil, err
		}
		result.Created = true
		result.Changed = true
	case err != nil:
		return nil, err
	default:
		changed, err := c.ApplyRemote(pc)
		if err != nil {
			return nil, err
		}
		if !changed {
			s.logger.Debug("skipping stale conversation snapshot",
				zap.String("tenant_id", tenantID.String()),
				zap.String("platform_id", pc.PlatformID),
				zap.Time("stored_updated_at", c.APIUpdatedAt),
				zap.Time("snapshot_updated_at", pc.UpdatedAt),
			)
			return result, nil
		}
		result.Changed = true
	}

	if !c.IsMatched() && c.HasHandle() {
		matched, err := s.tryMatch(ctx, c)
		if err != nil {
			return nil, err
		}
		result.Matched = matched
	}

	if err := s.conversationRepo.Upsert(ctx, c); err != nil {
		return nil, err
	}

	return result, nil
}

// tryMatch links the conversation to the person owning its recipient
// handle. No owner is not an error; the conversation stays unmatched until
// the contact method shows up.
func (s *SyncService) tryMatch(ctx context.Context, c *conversation.FrontConversation) (bool, error) {
	cm, err := s.contactRepo.FindByNormalizedValue(ctx, c.TenantID, c.RecipientNormalized)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	p, err := s.personRepo.FindByIDForTenant(ctx, c.TenantID, cm.PersonID)
	if err != nil {
		return false, err
	}

	if err := c.LinkPerson(p.ID, p.ClientID); err != nil {
		return false, err
	}

	s.logger.Info("conversation matched to person",
		zap.String("tenant_id", c.TenantID.String()),
		zap.String("platform_id", c.PlatformID),
		zap.String("person_id", p.ID.String()),
		zap.String("client_id", p.ClientID.String()),
	)
	return true, nil
}
