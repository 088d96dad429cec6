package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"formatted NANP number", "(415) 555-1212", "+14155551212", false},
		{"dotted NANP number", "415.555.1212", "+14155551212", false},
		{"already has country code", "1-415-555-1212", "+14155551212", false},
		{"e164 input unchanged", "+14155551212", "+14155551212", false},
		{"international with plus", "+44 20 7946 0958", "+442079460958", false},
		{"seven digit local", "555-1212", "+5551212", false},
		{"too short", "12345", "", true},
		{"too long", "+123456789012345678", "", true},
		{"empty", "  ", "", true},
		{"letters only", "call me", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Run("lowercases and trims", func(t *testing.T) {
		got, err := NormalizeEmail("  Jane.Doe@Example.COM ")

		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", got)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NormalizeEmail("not-an-email")
		assert.Error(t, err)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		_, err := NormalizeEmail("")
		assert.Error(t, err)
	})
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeHandle("Jane@Example.com"))
	assert.Equal(t, "+14155551212", NormalizeHandle("(415) 555-1212"))
	assert.Equal(t, "", NormalizeHandle("not a handle"))
	assert.Equal(t, "", NormalizeHandle("broken@"))
}

func TestNewContactMethod(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()

	t.Run("creates phone contact method", func(t *testing.T) {
		cm, err := NewContactMethod(tenantID, personID, ContactTypePhone, "(415) 555-1212")

		require.NoError(t, err)
		assert.Equal(t, "(415) 555-1212", cm.Value)
		assert.Equal(t, "+14155551212", cm.NormalizedValue)
		assert.False(t, cm.IsPrimary)
		assert.Len(t, cm.GetDomainEvents(), 1)
	})

	t.Run("creates email contact method", func(t *testing.T) {
		cm, err := NewContactMethod(tenantID, personID, ContactTypeEmail, "Jane@Example.com")

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", cm.NormalizedValue)
	})

	t.Run("creates address contact method", func(t *testing.T) {
		cm, err := NewContactMethod(tenantID, personID, ContactTypeAddress, " 123  Main   St ")

		require.NoError(t, err)
		assert.Equal(t, "123 Main St", cm.NormalizedValue)
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		cm, err := NewContactMethod(tenantID, personID, ContactType("fax"), "415-555-1212")

		assert.Error(t, err)
		assert.Nil(t, cm)
	})

	t.Run("fails with malformed value", func(t *testing.T) {
		cm, err := NewContactMethod(tenantID, personID, ContactTypeEmail, "nope")

		assert.Error(t, err)
		assert.Nil(t, cm)
	})

	t.Run("fails without person", func(t *testing.T) {
		cm, err := NewContactMethod(tenantID, uuid.Nil, ContactTypePhone, "415-555-1212")

		assert.Error(t, err)
		assert.Nil(t, cm)
	})
}

func TestContactMethodUpdateValue(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	cm, _ := NewContactMethod(tenantID, personID, ContactTypePhone, "415-555-1212")
	cm.ClearDomainEvents()

	t.Run("renormalizes on update", func(t *testing.T) {
		err := cm.UpdateValue("+44 20 7946 0958")

		require.NoError(t, err)
		assert.Equal(t, "+442079460958", cm.NormalizedValue)
		assert.Len(t, cm.GetDomainEvents(), 1)
	})

	t.Run("keeps old value on invalid update", func(t *testing.T) {
		err := cm.UpdateValue("123")

		assert.Error(t, err)
		assert.Equal(t, "+442079460958", cm.NormalizedValue)
	})
}

func TestContactMethodMarkPrimary(t *testing.T) {
	tenantID := uuid.New()
	personID := uuid.New()
	cm, _ := NewContactMethod(tenantID, personID, ContactTypeEmail, "jane@example.com")
	cm.ClearDomainEvents()

	cm.MarkPrimary()
	assert.True(t, cm.IsPrimary)
	assert.Len(t, cm.GetDomainEvents(), 1)

	// marking twice is a no-op
	cm.MarkPrimary()
	assert.Len(t, cm.GetDomainEvents(), 1)
}
