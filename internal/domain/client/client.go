package client

import (
	"regexp"
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientStatus represents the lifecycle status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived"
)

// ClientType distinguishes residential households from commercial accounts
type ClientType string

const (
	ClientTypeResidential ClientType = "residential"
	ClientTypeCommercial  ClientType = "commercial"
)

var clientCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// Client is the aggregate root for a serviced account. People and their
// contact methods hang off a client; jobs reference it.
type Client struct {
	shared.TenantAggregateRoot
	Code           string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_client_tenant_code,priority:2"`
	Name           string       `gorm:"type:varchar(255);not null"`
	NameNormalized string       `gorm:"type:varchar(255);not null;index"`
	Type           ClientType   `gorm:"type:varchar(20);not null"`
	Status         ClientStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Address        string       `gorm:"type:varchar(500)"`
	Notes          string       `gorm:"type:text"`
}

// NewClient creates a new active client
func NewClient(tenantID uuid.UUID, code, name string, clientType ClientType) (*Client, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)

	if err := validateClientCode(code); err != nil {
		return nil, err
	}
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateClientType(clientType); err != nil {
		return nil, err
	}

	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		NameNormalized:      NormalizeName(name),
		Type:                clientType,
		Status:              ClientStatusActive,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))
	return client, nil
}

// Rename changes the client name and maintains the normalized search column
func (c *Client) Rename(name string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if err := validateClientName(name); err != nil {
		return err
	}

	c.Name = name
	c.NameNormalized = NormalizeName(name)
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
	return nil
}

// SetAddress updates the service address
func (c *Client) SetAddress(address string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	address = strings.TrimSpace(address)
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "address cannot exceed 500 characters")
	}
	c.Address = address
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
	return nil
}

// SetNotes updates free-form notes
func (c *Client) SetNotes(notes string) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	c.Notes = strings.TrimSpace(notes)
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
	return nil
}

// ChangeType switches between residential and commercial
func (c *Client) ChangeType(clientType ClientType) error {
	if err := c.ensureMutable(); err != nil {
		return err
	}
	if err := validateClientType(clientType); err != nil {
		return err
	}
	if c.Type == clientType {
		return nil
	}
	c.Type = clientType
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
	return nil
}

// Archive retires the client. Archived clients reject every mutation
// except Unarchive.
func (c *Client) Archive() error {
	if c.Status == ClientStatusArchived {
		return shared.NewDomainError("CLIENT_ARCHIVED", "client is already archived")
	}
	c.Status = ClientStatusArchived
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientArchivedEvent(c))
	return nil
}

// Unarchive restores an archived client to active
func (c *Client) Unarchive() error {
	if c.Status != ClientStatusArchived {
		return shared.NewDomainError("CLIENT_NOT_ARCHIVED", "client is not archived")
	}
	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewClientUnarchivedEvent(c))
	return nil
}

// IsArchived returns true when the client has been archived
func (c *Client) IsArchived() bool {
	return c.Status == ClientStatusArchived
}

// IsResidential returns true for residential clients
func (c *Client) IsResidential() bool {
	return c.Type == ClientTypeResidential
}

// IsCommercial returns true for commercial clients
func (c *Client) IsCommercial() bool {
	return c.Type == ClientTypeCommercial
}

func (c *Client) ensureMutable() error {
	if c.Status == ClientStatusArchived {
		return shared.NewDomainError("CLIENT_ARCHIVED", "archived client cannot be modified")
	}
	return nil
}

// NormalizeName lowercases a name and collapses internal whitespace.
// The result backs case-insensitive client search.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func validateClientCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "client code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "client code cannot exceed 50 characters")
	}
	if !clientCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "client code can only contain letters, numbers, underscores and hyphens")
	}
	return nil
}

func validateClientName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "client name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "client name cannot exceed 255 characters")
	}
	return nil
}

func validateClientType(clientType ClientType) error {
	switch clientType {
	case ClientTypeResidential, ClientTypeCommercial:
		return nil
	default:
		return shared.NewDomainError("INVALID_CLIENT_TYPE", "client type must be residential or commercial")
	}
}
