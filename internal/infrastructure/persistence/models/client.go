package models

import (
	"github.com/bos/backend/internal/domain/client"
	"github.com/google/uuid"
)

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	TenantAggregateModel
	Code           string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_client_tenant_code,priority:2"`
	Name           string              `gorm:"type:varchar(255);not null"`
	NameNormalized string              `gorm:"type:varchar(255);not null;index"`
	Type           client.ClientType   `gorm:"type:varchar(20);not null"`
	Status         client.ClientStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	Address        string              `gorm:"type:varchar(500)"`
	Notes          string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *client.Client {
	c := &client.Client{
		Code:           m.Code,
		Name:           m.Name,
		NameNormalized: m.NameNormalized,
		Type:           m.Type,
		Status:         m.Status,
		Address:        m.Address,
		Notes:          m.Notes,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *client.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.NameNormalized = c.NameNormalized
	m.Type = c.Type
	m.Status = c.Status
	m.Address = c.Address
	m.Notes = c.Notes
}

// ClientModelFromDomain creates a new persistence model from a domain entity.
func ClientModelFromDomain(c *client.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// PersonModel is the persistence model for the Person aggregate root.
type PersonModel struct {
	TenantAggregateModel
	ClientID      uuid.UUID `gorm:"type:uuid;not null;index"`
	NameFirst     string    `gorm:"type:varchar(100)"`
	NameLast      string    `gorm:"type:varchar(100)"`
	NamePreferred string    `gorm:"type:varchar(100)"`
	Title         string    `gorm:"type:varchar(100)"`
	IsActive      bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PersonModel) TableName() string {
	return "people"
}

// ToDomain converts the persistence model to a domain Person entity.
func (m *PersonModel) ToDomain() *client.Person {
	p := &client.Person{
		ClientID:      m.ClientID,
		NameFirst:     m.NameFirst,
		NameLast:      m.NameLast,
		NamePreferred: m.NamePreferred,
		Title:         m.Title,
		IsActive:      m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Person entity.
func (m *PersonModel) FromDomain(p *client.Person) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ClientID = p.ClientID
	m.NameFirst = p.NameFirst
	m.NameLast = p.NameLast
	m.NamePreferred = p.NamePreferred
	m.Title = p.Title
	m.IsActive = p.IsActive
}

// PersonModelFromDomain creates a new persistence model from a domain entity.
func PersonModelFromDomain(p *client.Person) *PersonModel {
	m := &PersonModel{}
	m.FromDomain(p)
	return m
}

// ContactMethodModel is the persistence model for the ContactMethod
// aggregate root. NormalizedValue backs the per-tenant uniqueness check and
// the conversation matching lookup, so it carries the composite index.
type ContactMethodModel struct {
	TenantAggregateModel
	PersonID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	Type            client.ContactType `gorm:"type:varchar(20);not null"`
	Value           string             `gorm:"type:varchar(255);not null"`
	NormalizedValue string             `gorm:"type:varchar(255);not null;index:idx_contact_tenant_normalized,priority:2"`
	IsPrimary       bool               `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ContactMethodModel) TableName() string {
	return "contact_methods"
}

// ToDomain converts the persistence model to a domain ContactMethod entity.
func (m *ContactMethodModel) ToDomain() *client.ContactMethod {
	cm := &client.ContactMethod{
		PersonID:        m.PersonID,
		Type:            m.Type,
		Value:           m.Value,
		NormalizedValue: m.NormalizedValue,
		IsPrimary:       m.IsPrimary,
	}
	m.PopulateTenantAggregateRoot(&cm.TenantAggregateRoot)
	return cm
}

// FromDomain populates the persistence model from a domain ContactMethod entity.
func (m *ContactMethodModel) FromDomain(cm *client.ContactMethod) {
	m.FromDomainTenantAggregateRoot(cm.TenantAggregateRoot)
	m.PersonID = cm.PersonID
	m.Type = cm.Type
	m.Value = cm.Value
	m.NormalizedValue = cm.NormalizedValue
	m.IsPrimary = cm.IsPrimary
}

// ContactMethodModelFromDomain creates a new persistence model from a domain entity.
func ContactMethodModelFromDomain(cm *client.ContactMethod) *ContactMethodModel {
	m := &ContactMethodModel{}
	m.FromDomain(cm)
	return m
}
