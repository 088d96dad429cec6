package activity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityLog(t *testing.T) {
	tenantID := uuid.New()
	loggableID := uuid.New()

	t.Run("creates entry successfully", func(t *testing.T) {
		entry, err := NewActivityLog(tenantID, "job.status_changed", "Job", loggableID)

		require.NoError(t, err)
		assert.Equal(t, tenantID, entry.TenantID)
		assert.Equal(t, "job.status_changed", entry.Action)
		assert.Equal(t, "Job", entry.LoggableType)
		assert.Equal(t, loggableID, entry.LoggableID)
		assert.Nil(t, entry.ActorID)
		assert.True(t, entry.IsSystemActivity())
		assert.NotZero(t, entry.CreatedAt)
	})

	t.Run("attaches actor and metadata", func(t *testing.T) {
		actorID := uuid.New()
		entry, err := NewActivityLog(tenantID, "client.created", "Client", loggableID)
		require.NoError(t, err)

		entry.WithActor(actorID).WithMetadata(map[string]interface{}{"name": "Acme"})

		require.NotNil(t, entry.ActorID)
		assert.Equal(t, actorID, *entry.ActorID)
		assert.False(t, entry.IsSystemActivity())
		assert.Equal(t, "Acme", entry.Metadata["name"])
	})

	t.Run("nil actor stays system activity", func(t *testing.T) {
		entry, err := NewActivityLog(tenantID, "conversation.synced", "FrontConversation", loggableID)
		require.NoError(t, err)

		entry.WithActor(uuid.Nil)

		assert.True(t, entry.IsSystemActivity())
	})

	t.Run("fails with empty tenant", func(t *testing.T) {
		entry, err := NewActivityLog(uuid.Nil, "client.created", "Client", loggableID)

		assert.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("fails with empty action", func(t *testing.T) {
		entry, err := NewActivityLog(tenantID, "  ", "Client", loggableID)

		assert.Error(t, err)
		assert.Nil(t, entry)
	})

	t.Run("fails with empty loggable", func(t *testing.T) {
		_, err := NewActivityLog(tenantID, "client.created", "", loggableID)
		assert.Error(t, err)

		_, err = NewActivityLog(tenantID, "client.created", "Client", uuid.Nil)
		assert.Error(t, err)
	})
}
