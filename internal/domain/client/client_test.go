package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates residential client successfully", func(t *testing.T) {
		c, err := NewClient(tenantID, "ACME001", "Acme Household", ClientTypeResidential)

		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, "ACME001", c.Code)
		assert.Equal(t, "Acme Household", c.Name)
		assert.Equal(t, "acme household", c.NameNormalized)
		assert.Equal(t, ClientTypeResidential, c.Type)
		assert.Equal(t, ClientStatusActive, c.Status)
		assert.Equal(t, tenantID, c.TenantID)
		assert.True(t, c.IsResidential())
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("creates commercial client successfully", func(t *testing.T) {
		c, err := NewClient(tenantID, "ACME002", "Acme Corp", ClientTypeCommercial)

		require.NoError(t, err)
		assert.Equal(t, ClientTypeCommercial, c.Type)
		assert.True(t, c.IsCommercial())
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		c, err := NewClient(tenantID, "acme003", "Acme", ClientTypeResidential)

		require.NoError(t, err)
		assert.Equal(t, "ACME003", c.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		c, err := NewClient(tenantID, "", "Acme", ClientTypeResidential)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		c, err := NewClient(tenantID, "ACME@01", "Acme", ClientTypeResidential)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "can only contain")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		c, err := NewClient(tenantID, "ACME001", "  ", ClientTypeResidential)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		c, err := NewClient(tenantID, "ACME001", "Acme", ClientType("government"))

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "residential")
	})
}

func TestClientRename(t *testing.T) {
	tenantID := uuid.New()
	c, _ := NewClient(tenantID, "ACME001", "Original Name", ClientTypeCommercial)
	c.ClearDomainEvents()

	t.Run("renames and renormalizes", func(t *testing.T) {
		err := c.Rename("  New   Fancy  Name ")

		require.NoError(t, err)
		assert.Equal(t, "New   Fancy  Name", c.Name)
		assert.Equal(t, "new fancy name", c.NameNormalized)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		err := c.Rename("")

		assert.Error(t, err)
	})
}

func TestClientArchive(t *testing.T) {
	tenantID := uuid.New()

	t.Run("archive then unarchive", func(t *testing.T) {
		c, _ := NewClient(tenantID, "ACME001", "Acme", ClientTypeResidential)
		c.ClearDomainEvents()

		require.NoError(t, c.Archive())
		assert.True(t, c.IsArchived())

		require.NoError(t, c.Unarchive())
		assert.False(t, c.IsArchived())
		assert.Len(t, c.GetDomainEvents(), 2)
	})

	t.Run("archived client rejects mutations", func(t *testing.T) {
		c, _ := NewClient(tenantID, "ACME001", "Acme", ClientTypeResidential)
		require.NoError(t, c.Archive())

		assert.Error(t, c.Rename("New Name"))
		assert.Error(t, c.SetAddress("123 Main St"))
		assert.Error(t, c.ChangeType(ClientTypeCommercial))
	})

	t.Run("double archive fails", func(t *testing.T) {
		c, _ := NewClient(tenantID, "ACME001", "Acme", ClientTypeResidential)
		require.NoError(t, c.Archive())

		assert.Error(t, c.Archive())
	})

	t.Run("unarchive active client fails", func(t *testing.T) {
		c, _ := NewClient(tenantID, "ACME001", "Acme", ClientTypeResidential)

		assert.Error(t, c.Unarchive())
	})
}

func TestClientChangeType(t *testing.T) {
	tenantID := uuid.New()
	c, _ := NewClient(tenantID, "ACME001", "Acme", ClientTypeResidential)
	c.ClearDomainEvents()

	t.Run("changes type", func(t *testing.T) {
		err := c.ChangeType(ClientTypeCommercial)

		require.NoError(t, err)
		assert.Equal(t, ClientTypeCommercial, c.Type)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("same type is a no-op", func(t *testing.T) {
		c.ClearDomainEvents()
		err := c.ChangeType(ClientTypeCommercial)

		require.NoError(t, err)
		assert.Empty(t, c.GetDomainEvents())
	})
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acme plumbing co", NormalizeName("  Acme   Plumbing  Co "))
	assert.Equal(t, "o'brien & sons", NormalizeName("O'Brien & Sons"))
	assert.Equal(t, "", NormalizeName("   "))
}
