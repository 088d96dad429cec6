package featureflag

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeatureFlag(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates disabled flag", func(t *testing.T) {
		flag, err := NewFeatureFlag(tenantID, KeyFrontSync, "Front helpdesk integration")

		require.NoError(t, err)
		assert.Equal(t, tenantID, flag.TenantID)
		assert.Equal(t, "front_sync", flag.Key)
		assert.False(t, flag.Enabled)
		assert.Equal(t, "Front helpdesk integration", flag.Description)
		assert.Len(t, flag.GetDomainEvents(), 1)
	})

	t.Run("fails with empty tenant", func(t *testing.T) {
		flag, err := NewFeatureFlag(uuid.Nil, "some_flag", "")

		assert.Error(t, err)
		assert.Nil(t, flag)
	})

	t.Run("fails with empty key", func(t *testing.T) {
		flag, err := NewFeatureFlag(tenantID, "", "")

		assert.Error(t, err)
		assert.Nil(t, flag)
	})

	t.Run("rejects non snake_case keys", func(t *testing.T) {
		for _, key := range []string{"FrontSync", "front-sync", "1front", "front sync"} {
			flag, err := NewFeatureFlag(tenantID, key, "")
			assert.Error(t, err, "key %q", key)
			assert.Nil(t, flag)
		}
	})

	t.Run("rejects overlong key and description", func(t *testing.T) {
		_, err := NewFeatureFlag(tenantID, strings.Repeat("a", 101), "")
		assert.Error(t, err)

		_, err = NewFeatureFlag(tenantID, "ok_key", strings.Repeat("d", 501))
		assert.Error(t, err)
	})
}

func TestFeatureFlagToggle(t *testing.T) {
	tenantID := uuid.New()
	flag, err := NewFeatureFlag(tenantID, KeyFrontSync, "")
	require.NoError(t, err)
	flag.ClearDomainEvents()

	t.Run("enables disabled flag", func(t *testing.T) {
		err := flag.Enable()

		require.NoError(t, err)
		assert.True(t, flag.Enabled)

		events := flag.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*FeatureFlagToggledEvent)
		require.True(t, ok)
		assert.True(t, evt.Enabled)
	})

	t.Run("rejects double enable", func(t *testing.T) {
		err := flag.Enable()

		assert.Error(t, err)
	})

	t.Run("disables enabled flag", func(t *testing.T) {
		err := flag.Disable()

		require.NoError(t, err)
		assert.False(t, flag.Enabled)
	})

	t.Run("rejects double disable", func(t *testing.T) {
		err := flag.Disable()

		assert.Error(t, err)
	})
}

func TestFeatureFlagSetDescription(t *testing.T) {
	tenantID := uuid.New()
	flag, err := NewFeatureFlag(tenantID, "some_flag", "old")
	require.NoError(t, err)

	require.NoError(t, flag.SetDescription("new"))
	assert.Equal(t, "new", flag.Description)

	assert.Error(t, flag.SetDescription(strings.Repeat("d", 501)))
	assert.Equal(t, "new", flag.Description)
}
