package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConversationRepository implements FrontConversationRepository using GORM
type GormConversationRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormConversationRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a conversation by ID
func (r *GormConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*conversation.FrontConversation, error) {
	var model models.FrontConversationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a conversation by ID within a tenant
func (r *GormConversationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*conversation.FrontConversation, error) {
	var model models.FrontConversationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPlatformID finds a conversation by its platform-side ID within a tenant
func (r *GormConversationRepository) FindByPlatformID(ctx context.Context, tenantID uuid.UUID, platform conversation.PlatformCode, platformID string) (*conversation.FrontConversation, error) {
	var model models.FrontConversationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND platform = ? AND platform_id = ?", tenantID, platform, platformID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all conversations for a tenant
func (r *GormConversationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]conversation.FrontConversation, error) {
	var conversationModels []models.FrontConversationModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.FrontConversationModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&conversationModels).Error; err != nil {
		return nil, err
	}

	conversations := make([]conversation.FrontConversation, len(conversationModels))
	for i, model := range conversationModels {
		conversations[i] = *model.ToDomain()
	}
	return conversations, nil
}

// FindByMatchedPerson finds conversations linked to a person
func (r *GormConversationRepository) FindByMatchedPerson(ctx context.Context, tenantID, personID uuid.UUID, filter shared.Filter) ([]conversation.FrontConversation, error) {
	var conversationModels []models.FrontConversationModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.FrontConversationModel{}).
			Where("tenant_id = ? AND matched_person_id = ?", tenantID, personID),
		filter,
	)

	if err := query.Find(&conversationModels).Error; err != nil {
		return nil, err
	}

	conversations := make([]conversation.FrontConversation, len(conversationModels))
	for i, model := range conversationModels {
		conversations[i] = *model.ToDomain()
	}
	return conversations, nil
}

// FindUnmatchedByHandle finds conversations carrying the normalized handle
// that are not linked to anyone yet
func (r *GormConversationRepository) FindUnmatchedByHandle(ctx context.Context, tenantID uuid.UUID, normalizedHandle string) ([]conversation.FrontConversation, error) {
	var conversationModels []models.FrontConversationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND recipient_normalized = ? AND matched_person_id IS NULL", tenantID, normalizedHandle).
		Order("api_updated_at DESC").
		Find(&conversationModels).Error; err != nil {
		return nil, err
	}

	conversations := make([]conversation.FrontConversation, len(conversationModels))
	for i, model := range conversationModels {
		conversations[i] = *model.ToDomain()
	}
	return conversations, nil
}

// Upsert inserts the conversation or folds it into the existing row for the
// same (tenant, platform ID). The DO UPDATE is guarded so a row that
// already carries a newer platform snapshot is left alone; replayed
// webhooks and polls that race each other cannot move a conversation
// backwards.
func (r *GormConversationRepository) Upsert(ctx context.Context, c *conversation.FrontConversation) error {
	model := models.FrontConversationModelFromDomain(c)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "platform_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"subject",
				"status",
				"status_category",
				"assignee_handle",
				"recipient_handle",
				"recipient_normalized",
				"tags",
				"last_message_at",
				"api_updated_at",
				"raw_data",
				"matched_person_id",
				"matched_client_id",
				"version",
				"updated_at",
			}),
			Where: clause.Where{
				Exprs: []clause.Expression{
					gorm.Expr("front_conversations.api_updated_at <= excluded.api_updated_at"),
				},
			},
		}).
		Create(model).Error
}

// Save creates or updates a conversation by primary key
func (r *GormConversationRepository) Save(ctx context.Context, c *conversation.FrontConversation) error {
	model := models.FrontConversationModelFromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, c)
	})
}

// Delete deletes a conversation within a tenant
func (r *GormConversationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FrontConversationModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts conversations for a tenant
func (r *GormConversationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.FrontConversationModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormConversationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ConversationSortFields, "api_updated_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormConversationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("subject ILIKE ? OR recipient_handle ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status_category":
			query = query.Where("status_category = ?", value)
		case "platform":
			query = query.Where("platform = ?", value)
		case "matched":
			if matched, ok := value.(bool); ok {
				if matched {
					query = query.Where("matched_person_id IS NOT NULL")
				} else {
					query = query.Where("matched_person_id IS NULL")
				}
			}
		case "matched_client_id":
			query = query.Where("matched_client_id = ?", value)
		case "assignee_handle":
			query = query.Where("assignee_handle = ?", value)
		}
	}

	return query
}

// Ensure GormConversationRepository implements FrontConversationRepository
var _ conversation.FrontConversationRepository = (*GormConversationRepository)(nil)
