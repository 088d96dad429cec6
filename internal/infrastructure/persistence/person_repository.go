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

// GormPersonRepository implements PersonRepository using GORM
type GormPersonRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormPersonRepository creates a new GormPersonRepository
func NewGormPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormPersonRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a person by ID
func (r *GormPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Person, error) {
	var model models.PersonModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a person by ID within a tenant
func (r *GormPersonRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*client.Person, error) {
	var model models.PersonModel
	query := datascope.ApplyFromContext(ctx,
		r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id),
		"people", "read")
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClientID finds all people attached to a client
func (r *GormPersonRepository) FindByClientID(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]client.Person, error) {
	var personModels []models.PersonModel
	query := r.applyFilter(
		datascope.ApplyFromContext(ctx,
			r.db.WithContext(ctx).Model(&models.PersonModel{}).
				Where("tenant_id = ? AND client_id = ?", tenantID, clientID),
			"people", "read"),
		filter,
	)

	if err := query.Find(&personModels).Error; err != nil {
		return nil, err
	}

	people := make([]client.Person, len(personModels))
	for i, model := range personModels {
		people[i] = *model.ToDomain()
	}
	return people, nil
}

// FindAllForTenant finds all people for a tenant
func (r *GormPersonRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]client.Person, error) {
	var personModels []models.PersonModel
	query := r.applyFilter(
		datascope.ApplyFromContext(ctx,
			r.db.WithContext(ctx).Model(&models.PersonModel{}).Where("tenant_id = ?", tenantID),
			"people", "read"),
		filter,
	)

	if err := query.Find(&personModels).Error; err != nil {
		return nil, err
	}

	people := make([]client.Person, len(personModels))
	for i, model := range personModels {
		people[i] = *model.ToDomain()
	}
	return people, nil
}

// Save creates or updates a person
func (r *GormPersonRepository) Save(ctx context.Context, p *client.Person) error {
	model := models.PersonModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, p)
	})
}

// SaveWithLock saves a person with optimistic locking (version check)
func (r *GormPersonRepository) SaveWithLock(ctx context.Context, p *client.Person) error {
	model := models.PersonModelFromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).
			Where("id = ? AND version = ?", p.ID, p.Version-1).
			Updates(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return saveAggregateEvents(ctx, tx, r.outboxSaver, p)
	})
}

// Delete deletes a person within a tenant
func (r *GormPersonRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PersonModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByClientID counts people attached to a client
func (r *GormPersonRepository) CountByClientID(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PersonModel{}).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPersonRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name_first ILIKE ? OR name_last ILIKE ? OR name_preferred ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PersonSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// Ensure GormPersonRepository implements PersonRepository
var _ client.PersonRepository = (*GormPersonRepository)(nil)
