package attachment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobAttachment(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()
	userID := uuid.New()

	t.Run("creates attachment successfully", func(t *testing.T) {
		a, err := NewJobAttachment(tenantID, jobID, userID, "furnace.jpg", "image/jpeg", 204800)

		require.NoError(t, err)
		assert.Equal(t, tenantID, a.TenantID)
		assert.Equal(t, jobID, a.JobID)
		assert.Equal(t, "furnace.jpg", a.FileName)
		assert.Equal(t, "image/jpeg", a.ContentType)
		assert.Equal(t, int64(204800), a.SizeBytes)
		assert.Equal(t, userID, a.UploadedBy)
		require.NotNil(t, a.CreatedBy)
		assert.Equal(t, userID, *a.CreatedBy)
		assert.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("storage key follows the tenant/job layout", func(t *testing.T) {
		a, err := NewJobAttachment(tenantID, jobID, userID, "report.pdf", "application/pdf", 1024)

		require.NoError(t, err)
		expected := fmt.Sprintf("tenants/%s/jobs/%s/%s", tenantID, jobID, a.ID)
		assert.Equal(t, expected, a.StorageKey)
	})

	t.Run("strips path components from file name", func(t *testing.T) {
		a, err := NewJobAttachment(tenantID, jobID, userID, "../../etc/passwd", "text/plain", 10)

		require.NoError(t, err)
		assert.Equal(t, "passwd", a.FileName)

		b, err := NewJobAttachment(tenantID, jobID, userID, `C:\photos\site.png`, "image/png", 10)

		require.NoError(t, err)
		assert.Equal(t, "site.png", b.FileName)
	})

	t.Run("fails with missing ids", func(t *testing.T) {
		_, err := NewJobAttachment(uuid.Nil, jobID, userID, "a.jpg", "image/jpeg", 10)
		assert.Error(t, err)

		_, err = NewJobAttachment(tenantID, uuid.Nil, userID, "a.jpg", "image/jpeg", 10)
		assert.Error(t, err)

		_, err = NewJobAttachment(tenantID, jobID, uuid.Nil, "a.jpg", "image/jpeg", 10)
		assert.Error(t, err)
	})

	t.Run("fails with empty file name", func(t *testing.T) {
		_, err := NewJobAttachment(tenantID, jobID, userID, "  ", "image/jpeg", 10)

		assert.Error(t, err)
	})

	t.Run("fails with overlong file name", func(t *testing.T) {
		_, err := NewJobAttachment(tenantID, jobID, userID, strings.Repeat("x", 300), "image/jpeg", 10)

		assert.Error(t, err)
	})

	t.Run("fails with invalid content type", func(t *testing.T) {
		_, err := NewJobAttachment(tenantID, jobID, userID, "a.jpg", "jpeg", 10)

		assert.Error(t, err)
	})

	t.Run("fails with non-positive size", func(t *testing.T) {
		_, err := NewJobAttachment(tenantID, jobID, userID, "a.jpg", "image/jpeg", 0)
		assert.Error(t, err)

		_, err = NewJobAttachment(tenantID, jobID, userID, "a.jpg", "image/jpeg", -5)
		assert.Error(t, err)
	})
}
