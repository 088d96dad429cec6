package client

import (
	"time"

	"github.com/bos/backend/internal/domain/client"
	"github.com/google/uuid"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Type    string `json:"type" binding:"required,oneof=residential commercial"`
	Address string `json:"address" binding:"max=500"`
	Notes   string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Type    *string `json:"type" binding:"omitempty,oneof=residential commercial"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Notes   *string `json:"notes"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ClientListResponse represents a list item for clients
type ClientListResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientListFilter represents filter options for client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived"`
	Type     string `form:"type" binding:"omitempty,oneof=residential commercial"`
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Code:      c.Code,
		Name:      c.Name,
		Type:      string(c.Type),
		Status:    string(c.Status),
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToClientListResponse converts a domain Client to ClientListResponse
func ToClientListResponse(c *client.Client) ClientListResponse {
	return ClientListResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Type:      string(c.Type),
		Status:    string(c.Status),
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
	}
}

// ToClientListResponses converts a slice of clients to list responses
func ToClientListResponses(clients []client.Client) []ClientListResponse {
	responses := make([]ClientListResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientListResponse(&clients[i])
	}
	return responses
}

// =============================================================================
// Person DTOs
// =============================================================================

// CreatePersonRequest represents a request to create a person under a client
type CreatePersonRequest struct {
	NameFirst     string `json:"name_first" binding:"max=100"`
	NameLast      string `json:"name_last" binding:"max=100"`
	NamePreferred string `json:"name_preferred" binding:"max=100"`
	Title         string `json:"title" binding:"max=100"`
}

// UpdatePersonRequest represents a request to update a person
type UpdatePersonRequest struct {
	NameFirst     *string `json:"name_first" binding:"omitempty,max=100"`
	NameLast      *string `json:"name_last" binding:"omitempty,max=100"`
	NamePreferred *string `json:"name_preferred" binding:"omitempty,max=100"`
	Title         *string `json:"title" binding:"omitempty,max=100"`
}

// PersonResponse represents a person in API responses
type PersonResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	ClientID      uuid.UUID `json:"client_id"`
	NameFirst     string    `json:"name_first"`
	NameLast      string    `json:"name_last"`
	NamePreferred string    `json:"name_preferred"`
	Title         string    `json:"title"`
	FullName      string    `json:"full_name"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PersonListFilter represents filter options for person list
type PersonListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPersonResponse converts a domain Person to PersonResponse
func ToPersonResponse(p *client.Person) PersonResponse {
	return PersonResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		ClientID:      p.ClientID,
		NameFirst:     p.NameFirst,
		NameLast:      p.NameLast,
		NamePreferred: p.NamePreferred,
		Title:         p.Title,
		FullName:      p.FullName(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPersonResponses converts a slice of people to responses
func ToPersonResponses(people []client.Person) []PersonResponse {
	responses := make([]PersonResponse, len(people))
	for i := range people {
		responses[i] = ToPersonResponse(&people[i])
	}
	return responses
}

// =============================================================================
// Contact method DTOs
// =============================================================================

// CreateContactMethodRequest represents a request to add a contact method
type CreateContactMethodRequest struct {
	Type      string `json:"type" binding:"required,oneof=phone email address"`
	Value     string `json:"value" binding:"required,min=1,max=255"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateContactMethodRequest represents a request to update a contact method
type UpdateContactMethodRequest struct {
	Value string `json:"value" binding:"required,min=1,max=255"`
}

// ContactMethodResponse represents a contact method in API responses
type ContactMethodResponse struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	PersonID        uuid.UUID `json:"person_id"`
	Type            string    `json:"type"`
	Value           string    `json:"value"`
	NormalizedValue string    `json:"normalized_value"`
	IsPrimary       bool      `json:"is_primary"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToContactMethodResponse converts a domain ContactMethod to response
func ToContactMethodResponse(cm *client.ContactMethod) ContactMethodResponse {
	return ContactMethodResponse{
		ID:              cm.ID,
		TenantID:        cm.TenantID,
		PersonID:        cm.PersonID,
		Type:            string(cm.Type),
		Value:           cm.Value,
		NormalizedValue: cm.NormalizedValue,
		IsPrimary:       cm.IsPrimary,
		CreatedAt:       cm.CreatedAt,
		UpdatedAt:       cm.UpdatedAt,
	}
}

// ToContactMethodResponses converts a slice of contact methods to responses
func ToContactMethodResponses(methods []client.ContactMethod) []ContactMethodResponse {
	responses := make([]ContactMethodResponse, len(methods))
	for i := range methods {
		responses[i] = ToContactMethodResponse(&methods[i])
	}
	return responses
}
