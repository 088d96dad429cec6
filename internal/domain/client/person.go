package client

import (
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Person is a contact person attached to a client. For residential clients
// this is usually the household member; commercial clients carry several.
type Person struct {
	shared.TenantAggregateRoot
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	NameFirst     string    `gorm:"type:varchar(100)"`
	NameLast      string    `gorm:"type:varchar(100)"`
	NamePreferred string    `gorm:"type:varchar(100)"`
	Title         string    `gorm:"type:varchar(100)"`
	IsActive      bool      `gorm:"not null;default:true"`
}

// NewPerson creates a new active person under a client.
// At least one of first/last name is required.
func NewPerson(tenantID, clientID uuid.UUID, nameFirst, nameLast string) (*Person, error) {
	nameFirst = strings.TrimSpace(nameFirst)
	nameLast = strings.TrimSpace(nameLast)

	if err := validatePersonName(nameFirst, nameLast); err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "person must belong to a client")
	}

	person := &Person{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		NameFirst:           nameFirst,
		NameLast:            nameLast,
		IsActive:            true,
	}

	person.AddDomainEvent(NewPersonCreatedEvent(person))
	return person, nil
}

// UpdateName changes the person's name parts
func (p *Person) UpdateName(nameFirst, nameLast, namePreferred string) error {
	nameFirst = strings.TrimSpace(nameFirst)
	nameLast = strings.TrimSpace(nameLast)
	namePreferred = strings.TrimSpace(namePreferred)

	if err := validatePersonName(nameFirst, nameLast); err != nil {
		return err
	}

	p.NameFirst = nameFirst
	p.NameLast = nameLast
	p.NamePreferred = namePreferred
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewPersonUpdatedEvent(p))
	return nil
}

// UpdateTitle changes the person's title/role at the client
func (p *Person) UpdateTitle(title string) error {
	title = strings.TrimSpace(title)
	if len(title) > 100 {
		return shared.NewDomainError("INVALID_TITLE", "title cannot exceed 100 characters")
	}
	p.Title = title
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewPersonUpdatedEvent(p))
	return nil
}

// Deactivate marks the person inactive (left the company, moved out)
func (p *Person) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("PERSON_INACTIVE", "person is already inactive")
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewPersonDeactivatedEvent(p))
	return nil
}

// Activate restores an inactive person
func (p *Person) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("PERSON_ACTIVE", "person is already active")
	}
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewPersonActivatedEvent(p))
	return nil
}

// FullName returns the preferred name when set, otherwise the joined
// non-empty name parts.
func (p *Person) FullName() string {
	if p.NamePreferred != "" {
		return p.NamePreferred
	}
	parts := make([]string, 0, 2)
	if p.NameFirst != "" {
		parts = append(parts, p.NameFirst)
	}
	if p.NameLast != "" {
		parts = append(parts, p.NameLast)
	}
	return strings.Join(parts, " ")
}

func validatePersonName(nameFirst, nameLast string) error {
	if nameFirst == "" && nameLast == "" {
		return shared.NewDomainError("INVALID_NAME", "person requires a first or last name")
	}
	if len(nameFirst) > 100 || len(nameLast) > 100 {
		return shared.NewDomainError("INVALID_NAME", "name parts cannot exceed 100 characters")
	}
	return nil
}
