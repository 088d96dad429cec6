package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormClientRepository(gormDB), mock, mockDB
}

func TestNewGormClientRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "name_normalized", "type", "status"}).
			AddRow(clientID, tenantID, "ACME01", "Acme Plumbing", "acme plumbing", "company", "active")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, clientID, c.ID)
		assert.Equal(t, "ACME01", c.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByID(context.Background(), clientID)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds client within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "name_normalized", "type", "status"}).
			AddRow(clientID, tenantID, "ACME01", "Acme Plumbing", "acme plumbing", "company", "active")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, clientID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByIDForTenant(context.Background(), tenantID, clientID)

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, tenantID, c.TenantID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for wrong tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		c, err := repo.FindByIDForTenant(context.Background(), tenantID, clientID)

		assert.Error(t, err)
		assert.Nil(t, c)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByCode(t *testing.T) {
	t.Run("finds client by code", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "name_normalized", "type", "status"}).
			AddRow(clientID, tenantID, "ACME01", "Acme Plumbing", "acme plumbing", "company", "active")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE tenant_id = \$1 AND code = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "ACME01", 1).
			WillReturnRows(rows)

		c, err := repo.FindByCode(context.Background(), tenantID, "acme01") // lowercase to test uppercasing

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, "ACME01", c.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByIDs(t *testing.T) {
	t.Run("finds multiple clients by IDs", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "name_normalized", "type", "status"}).
			AddRow(id1, tenantID, "ACME01", "Acme Plumbing", "acme plumbing", "company", "active").
			AddRow(id2, tenantID, "BRGHT1", "Brightside HOA", "brightside hoa", "company", "active")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE tenant_id = \$1 AND id IN \(\$2,\$3\)`).
			WithArgs(tenantID, id1, id2).
			WillReturnRows(rows)

		clients, err := repo.FindByIDs(context.Background(), tenantID, []uuid.UUID{id1, id2})

		assert.NoError(t, err)
		assert.Len(t, clients, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for empty IDs", func(t *testing.T) {
		repo, _, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clients, err := repo.FindByIDs(context.Background(), uuid.New(), []uuid.UUID{})

		assert.NoError(t, err)
		assert.Empty(t, clients)
	})
}

func TestGormClientRepository_ExistsByCode(t *testing.T) {
	t.Run("returns true when code exists", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(1)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE tenant_id = \$1 AND code = \$2`).
			WithArgs(tenantID, "ACME01").
			WillReturnRows(rows)

		exists, err := repo.ExistsByCode(context.Background(), tenantID, "acme01")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when code does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(0)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE tenant_id = \$1 AND code = \$2`).
			WithArgs(tenantID, "NOPE").
			WillReturnRows(rows)

		exists, err := repo.ExistsByCode(context.Background(), tenantID, "NOPE")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Save(t *testing.T) {
	t.Run("saves client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		c, err := client.NewClient(tenantID, "ACME01", "Acme Plumbing", client.ClientTypeCommercial)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), c)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_SaveWithLock(t *testing.T) {
	t.Run("saves when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		c, err := client.NewClient(tenantID, "ACME01", "Acme Plumbing", client.ClientTypeCommercial)
		require.NoError(t, err)
		c.Version = 2

		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), c)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		c, err := client.NewClient(tenantID, "ACME01", "Acme Plumbing", client.ClientTypeCommercial)
		require.NoError(t, err)
		c.Version = 2

		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), c)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Delete(t *testing.T) {
	t.Run("deletes existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		clientID := uuid.New()

		mock.ExpectExec(`DELETE FROM "clients" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, clientID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), tenantID, clientID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		clientID := uuid.New()

		mock.ExpectExec(`DELETE FROM "clients" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, clientID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, clientID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_CountForTenant(t *testing.T) {
	t.Run("counts clients for tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(42)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(rows)

		count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
