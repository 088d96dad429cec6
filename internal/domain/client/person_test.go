package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerson(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()

	t.Run("creates person successfully", func(t *testing.T) {
		p, err := NewPerson(tenantID, clientID, "Jane", "Doe")

		require.NoError(t, err)
		assert.Equal(t, clientID, p.ClientID)
		assert.Equal(t, "Jane", p.NameFirst)
		assert.Equal(t, "Doe", p.NameLast)
		assert.True(t, p.IsActive)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("accepts single name part", func(t *testing.T) {
		p, err := NewPerson(tenantID, clientID, "Cher", "")

		require.NoError(t, err)
		assert.Equal(t, "Cher", p.FullName())
	})

	t.Run("fails without any name", func(t *testing.T) {
		p, err := NewPerson(tenantID, clientID, " ", "")

		assert.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails without client", func(t *testing.T) {
		p, err := NewPerson(tenantID, uuid.Nil, "Jane", "Doe")

		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestPersonFullName(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()

	t.Run("joins name parts", func(t *testing.T) {
		p, _ := NewPerson(tenantID, clientID, "Jane", "Doe")
		assert.Equal(t, "Jane Doe", p.FullName())
	})

	t.Run("preferred name wins", func(t *testing.T) {
		p, _ := NewPerson(tenantID, clientID, "Jane", "Doe")
		require.NoError(t, p.UpdateName("Jane", "Doe", "JD"))
		assert.Equal(t, "JD", p.FullName())
	})
}

func TestPersonUpdate(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()
	p, _ := NewPerson(tenantID, clientID, "Jane", "Doe")
	p.ClearDomainEvents()

	t.Run("updates name", func(t *testing.T) {
		err := p.UpdateName("Janet", "Doe", "")

		require.NoError(t, err)
		assert.Equal(t, "Janet", p.NameFirst)
		assert.Len(t, p.GetDomainEvents(), 1)
	})

	t.Run("updates title", func(t *testing.T) {
		err := p.UpdateTitle("Office Manager")

		require.NoError(t, err)
		assert.Equal(t, "Office Manager", p.Title)
	})

	t.Run("rejects clearing both names", func(t *testing.T) {
		err := p.UpdateName("", "", "Still JD")

		assert.Error(t, err)
	})
}

func TestPersonActivation(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()

	t.Run("deactivate then activate", func(t *testing.T) {
		p, _ := NewPerson(tenantID, clientID, "Jane", "Doe")
		p.ClearDomainEvents()

		require.NoError(t, p.Deactivate())
		assert.False(t, p.IsActive)

		require.NoError(t, p.Activate())
		assert.True(t, p.IsActive)
		assert.Len(t, p.GetDomainEvents(), 2)
	})

	t.Run("double deactivate fails", func(t *testing.T) {
		p, _ := NewPerson(tenantID, clientID, "Jane", "Doe")
		require.NoError(t, p.Deactivate())

		assert.Error(t, p.Deactivate())
	})
}
