package client

import (
	"context"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// FindByIDForTenant finds a client by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)

	// FindByCode finds a client by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Client, error)

	// FindAllForTenant finds all clients for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)

	// FindByStatus finds clients by status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ClientStatus, filter shared.Filter) ([]Client, error)

	// FindByIDs finds multiple clients by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Client, error)

	// Save creates or updates a client
	Save(ctx context.Context, c *Client) error

	// SaveWithLock saves a client with optimistic locking (version check).
	// Returns shared.ErrConcurrencyConflict if the version has changed.
	SaveWithLock(ctx context.Context, c *Client) error

	// Delete deletes a client within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts clients for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a client with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// PersonRepository defines the interface for person persistence
type PersonRepository interface {
	// FindByID finds a person by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Person, error)

	// FindByIDForTenant finds a person by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Person, error)

	// FindByClientID finds all people attached to a client
	FindByClientID(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]Person, error)

	// FindAllForTenant finds all people for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Person, error)

	// Save creates or updates a person
	Save(ctx context.Context, p *Person) error

	// SaveWithLock saves a person with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *Person) error

	// Delete deletes a person within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// CountByClientID counts people attached to a client
	CountByClientID(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error)
}

// ContactMethodRepository defines the interface for contact method persistence
type ContactMethodRepository interface {
	// FindByID finds a contact method by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ContactMethod, error)

	// FindByIDForTenant finds a contact method by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ContactMethod, error)

	// FindByPersonID finds all contact methods of a person
	FindByPersonID(ctx context.Context, tenantID, personID uuid.UUID) ([]ContactMethod, error)

	// FindByNormalizedValue resolves a normalized handle (phone/email) to a
	// contact method within a tenant. Returns shared.ErrNotFound when no
	// contact method carries the handle.
	FindByNormalizedValue(ctx context.Context, tenantID uuid.UUID, normalized string) (*ContactMethod, error)

	// ExistsByNormalizedValue checks whether a normalized handle is already
	// registered in the tenant
	ExistsByNormalizedValue(ctx context.Context, tenantID uuid.UUID, contactType ContactType, normalized string) (bool, error)

	// Save creates or updates a contact method
	Save(ctx context.Context, cm *ContactMethod) error

	// ClearPrimary unsets the primary flag on every contact method of the
	// given type for a person. Used before promoting a new primary.
	ClearPrimary(ctx context.Context, tenantID, personID uuid.UUID, contactType ContactType) error

	// Delete deletes a contact method within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
