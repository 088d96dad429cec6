package persistence

import (
	"context"
	"errors"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/persistence/datascope"
	"github.com/bos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactMethodRepository implements ContactMethodRepository using GORM
type GormContactMethodRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormContactMethodRepository creates a new GormContactMethodRepository
func NewGormContactMethodRepository(db *gorm.DB) *GormContactMethodRepository {
	return &GormContactMethodRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormContactMethodRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a contact method by ID
func (r *GormContactMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.ContactMethod, error) {
	var model models.ContactMethodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a contact method by ID within a tenant
func (r *GormContactMethodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*client.ContactMethod, error) {
	var model models.ContactMethodModel
	query := datascope.ApplyFromContext(ctx,
		r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id),
		"contact_methods", "read")
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPersonID finds all contact methods of a person, primary first
func (r *GormContactMethodRepository) FindByPersonID(ctx context.Context, tenantID, personID uuid.UUID) ([]client.ContactMethod, error) {
	var methodModels []models.ContactMethodModel
	query := datascope.ApplyFromContext(ctx,
		r.db.WithContext(ctx).
			Where("tenant_id = ? AND person_id = ?", tenantID, personID).
			Order("is_primary DESC, created_at ASC"),
		"contact_methods", "read")
	if err := query.Find(&methodModels).Error; err != nil {
		return nil, err
	}

	methods := make([]client.ContactMethod, len(methodModels))
	for i, model := range methodModels {
		methods[i] = *model.ToDomain()
	}
	return methods, nil
}

// FindByNormalizedValue resolves a normalized handle to a contact method
// within a tenant. When several people share the handle the oldest row
// wins, keeping conversation matching deterministic.
func (r *GormContactMethodRepository) FindByNormalizedValue(ctx context.Context, tenantID uuid.UUID, normalized string) (*client.ContactMethod, error) {
	var model models.ContactMethodModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND normalized_value = ?", tenantID, normalized).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByNormalizedValue checks whether a normalized handle is already
// registered in the tenant
func (r *GormContactMethodRepository) ExistsByNormalizedValue(ctx context.Context, tenantID uuid.UUID, contactType client.ContactType, normalized string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ContactMethodModel{}).
		Where("tenant_id = ? AND type = ? AND normalized_value = ?", tenantID, contactType, normalized).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a contact method
func (r *GormContactMethodRepository) Save(ctx context.Context, cm *client.ContactMethod) error {
	model := models.ContactMethodModelFromDomain(cm)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, cm)
	})
}

// ClearPrimary unsets the primary flag on every contact method of the
// given type for a person
func (r *GormContactMethodRepository) ClearPrimary(ctx context.Context, tenantID, personID uuid.UUID, contactType client.ContactType) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactMethodModel{}).
		Where("tenant_id = ? AND person_id = ? AND type = ? AND is_primary = ?", tenantID, personID, contactType, true).
		Update("is_primary", false).Error
}

// Delete deletes a contact method within a tenant
func (r *GormContactMethodRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactMethodModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormContactMethodRepository implements ContactMethodRepository
var _ client.ContactMethodRepository = (*GormContactMethodRepository)(nil)
