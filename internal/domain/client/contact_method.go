package client

import (
	"regexp"
	"strings"
	"time"

	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactType classifies a contact method
type ContactType string

const (
	ContactTypePhone   ContactType = "phone"
	ContactTypeEmail   ContactType = "email"
	ContactTypeAddress ContactType = "address"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// ContactMethod is a way to reach a person: phone, email or mailing address.
// Value keeps the user's input; NormalizedValue is the canonical form used
// for uniqueness and for matching inbound helpdesk conversations to people.
type ContactMethod struct {
	shared.TenantAggregateRoot
	PersonID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	Type            ContactType `gorm:"type:varchar(20);not null"`
	Value           string      `gorm:"type:varchar(255);not null"`
	NormalizedValue string      `gorm:"type:varchar(255);not null;index:idx_contact_tenant_normalized,priority:2"`
	IsPrimary       bool        `gorm:"not null;default:false"`
}

// NewContactMethod creates a contact method, normalizing the value for its
// type. Phone and email normalization can fail on malformed input.
func NewContactMethod(tenantID, personID uuid.UUID, contactType ContactType, value string) (*ContactMethod, error) {
	if personID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PERSON", "contact method must belong to a person")
	}
	if err := validateContactType(contactType); err != nil {
		return nil, err
	}

	normalized, err := Normalize(contactType, value)
	if err != nil {
		return nil, err
	}

	cm := &ContactMethod{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PersonID:            personID,
		Type:                contactType,
		Value:               strings.TrimSpace(value),
		NormalizedValue:     normalized,
	}

	cm.AddDomainEvent(NewContactMethodCreatedEvent(cm))
	return cm, nil
}

// UpdateValue replaces the value and re-normalizes it
func (cm *ContactMethod) UpdateValue(value string) error {
	normalized, err := Normalize(cm.Type, value)
	if err != nil {
		return err
	}
	cm.Value = strings.TrimSpace(value)
	cm.NormalizedValue = normalized
	cm.UpdatedAt = time.Now()
	cm.AddDomainEvent(NewContactMethodUpdatedEvent(cm))
	return nil
}

// MarkPrimary flags this method as the person's primary for its type.
// The service clears the previous primary before saving.
func (cm *ContactMethod) MarkPrimary() {
	if cm.IsPrimary {
		return
	}
	cm.IsPrimary = true
	cm.UpdatedAt = time.Now()
	cm.AddDomainEvent(NewContactMethodUpdatedEvent(cm))
}

// Normalize canonicalizes a contact value for its type.
func Normalize(contactType ContactType, value string) (string, error) {
	switch contactType {
	case ContactTypePhone:
		return NormalizePhone(value)
	case ContactTypeEmail:
		return NormalizeEmail(value)
	case ContactTypeAddress:
		return NormalizeAddress(value)
	default:
		return "", shared.NewDomainError("INVALID_CONTACT_TYPE", "contact type must be phone, email or address")
	}
}

// NormalizePhone canonicalizes a phone number to +<digits>. Everything but
// digits is stripped; bare 10-digit NANP numbers gain the 1 country code.
func NormalizePhone(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", shared.NewDomainError("INVALID_PHONE", "phone cannot be empty")
	}

	hasPlus := strings.HasPrefix(value, "+")
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	if len(d) < 7 {
		return "", shared.NewDomainError("INVALID_PHONE", "phone must contain at least 7 digits")
	}
	if len(d) > 15 {
		return "", shared.NewDomainError("INVALID_PHONE", "phone cannot exceed 15 digits")
	}

	if !hasPlus {
		switch {
		case len(d) == 10:
			d = "1" + d
		case len(d) == 11 && strings.HasPrefix(d, "1"):
			// already carries the NANP country code
		}
	}
	return "+" + d, nil
}

// NormalizeEmail canonicalizes an email address (trim + lowercase)
func NormalizeEmail(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "email cannot be empty")
	}
	if len(normalized) > 255 {
		return "", shared.NewDomainError("INVALID_EMAIL", "email cannot exceed 255 characters")
	}
	if !emailPattern.MatchString(normalized) {
		return "", shared.NewDomainError("INVALID_EMAIL", "email format is invalid")
	}
	return normalized, nil
}

// NormalizeAddress collapses whitespace in a mailing address
func NormalizeAddress(value string) (string, error) {
	normalized := strings.Join(strings.Fields(value), " ")
	if normalized == "" {
		return "", shared.NewDomainError("INVALID_ADDRESS", "address cannot be empty")
	}
	if len(normalized) > 255 {
		return "", shared.NewDomainError("INVALID_ADDRESS", "address cannot exceed 255 characters")
	}
	return normalized, nil
}

// NormalizeHandle canonicalizes an inbound conversation handle without
// knowing its type: values containing @ normalize as email, otherwise as
// phone. Returns the empty string when the handle fits neither shape.
func NormalizeHandle(value string) string {
	if strings.Contains(value, "@") {
		if normalized, err := NormalizeEmail(value); err == nil {
			return normalized
		}
		return ""
	}
	if normalized, err := NormalizePhone(value); err == nil {
		return normalized
	}
	return ""
}

func validateContactType(contactType ContactType) error {
	switch contactType {
	case ContactTypePhone, ContactTypeEmail, ContactTypeAddress:
		return nil
	default:
		return shared.NewDomainError("INVALID_CONTACT_TYPE", "contact type must be phone, email or address")
	}
}
