package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/logger"
	"github.com/bos/backend/internal/infrastructure/persistence/datascope"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockJobRepository creates a GormJobRepository with a mocked SQL connection
func newMockJobRepository(t *testing.T) (*GormJobRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormJobRepository(gormDB), mock, mockDB
}

func TestGormJobRepository_FindByID(t *testing.T) {
	t.Run("finds job and loads assignments", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		jobID := uuid.New()
		tenantID := uuid.New()
		clientID := uuid.New()
		technicianID := uuid.New()

		jobRows := sqlmock.NewRows([]string{"id", "tenant_id", "client_id", "title", "status", "priority", "quoted_total"}).
			AddRow(jobID, tenantID, clientID, "Fix water heater", "open", "normal", decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(jobID, 1).
			WillReturnRows(jobRows)

		assignmentRows := sqlmock.NewRows([]string{"id", "job_id", "user_id"}).
			AddRow(uuid.New(), jobID, technicianID)

		mock.ExpectQuery(`SELECT \* FROM "job_assignments" WHERE job_id = \$1 ORDER BY created_at ASC`).
			WithArgs(jobID).
			WillReturnRows(assignmentRows)

		j, err := repo.FindByID(context.Background(), jobID)

		assert.NoError(t, err)
		assert.NotNil(t, j)
		assert.Equal(t, jobID, j.ID)
		require.Len(t, j.Assignments, 1)
		assert.Equal(t, technicianID, j.Assignments[0].UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent job", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		jobID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(jobID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		j, err := repo.FindByID(context.Background(), jobID)

		assert.Error(t, err)
		assert.Nil(t, j)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds job within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		jobID := uuid.New()
		tenantID := uuid.New()
		clientID := uuid.New()

		jobRows := sqlmock.NewRows([]string{"id", "tenant_id", "client_id", "title", "status", "priority", "quoted_total"}).
			AddRow(jobID, tenantID, clientID, "Fix water heater", "open", "normal", decimal.Zero)

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, jobID, 1).
			WillReturnRows(jobRows)

		mock.ExpectQuery(`SELECT \* FROM "job_assignments" WHERE job_id = \$1 ORDER BY created_at ASC`).
			WithArgs(jobID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "user_id"}))

		j, err := repo.FindByIDForTenant(context.Background(), tenantID, jobID)

		assert.NoError(t, err)
		assert.NotNil(t, j)
		assert.Equal(t, tenantID, j.TenantID)
		assert.Empty(t, j.Assignments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_Save(t *testing.T) {
	t.Run("saves job and rewrites assignments", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		clientID := uuid.New()
		technicianID := uuid.New()

		j, err := job.NewJob(tenantID, clientID, "Fix water heater", "", job.JobPriorityNormal)
		require.NoError(t, err)
		require.NoError(t, j.Assign(technicianID))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "jobs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "job_assignments" WHERE job_id = \$1`).
			WithArgs(j.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "job_assignments"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.Save(context.Background(), j)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_SaveWithLock(t *testing.T) {
	t.Run("returns conflict when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		clientID := uuid.New()

		j, err := job.NewJob(tenantID, clientID, "Fix water heater", "", job.JobPriorityNormal)
		require.NoError(t, err)
		j.Version = 3

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "jobs" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.SaveWithLock(context.Background(), j)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_Delete(t *testing.T) {
	t.Run("deletes job and its assignments", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		jobID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "jobs" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, jobID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "job_assignments" WHERE job_id = \$1`).
			WithArgs(jobID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), tenantID, jobID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing job", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		jobID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "jobs" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, jobID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), tenantID, jobID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_CountAssignedToUser(t *testing.T) {
	t.Run("counts via assignment membership", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(3)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "jobs" WHERE tenant_id = \$1 AND \(EXISTS \(SELECT 1 FROM job_assignments`).
			WithArgs(tenantID, userID).
			WillReturnRows(rows)

		count, err := repo.CountAssignedToUser(context.Background(), tenantID, userID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJobRepository_RowScopeFromContext(t *testing.T) {
	t.Run("technician list carries assignment membership clause", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		technicianID := uuid.New()

		ctx := datascope.WithRole(context.Background(), identity.RoleTechnician)
		ctx, _ = logger.WithUserID(ctx, zap.NewNop(), technicianID.String())

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE tenant_id = \$1 AND \(EXISTS \(SELECT 1 FROM job_assignments WHERE job_assignments\.job_id = jobs\.id AND job_assignments\.user_id = \$2\)\) ORDER BY`).
			WithArgs(tenantID, technicianID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		jobs, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})

		assert.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("office role lists the whole tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		ctx := datascope.WithRole(context.Background(), identity.RoleAdmin)
		ctx, _ = logger.WithUserID(ctx, zap.NewNop(), uuid.New().String())

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE tenant_id = \$1 ORDER BY`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		jobs, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})

		assert.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("context without a role passes through for background work", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE tenant_id = \$1 ORDER BY`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		jobs, err := repo.FindAllForTenant(context.Background(), tenantID, shared.Filter{})

		assert.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("technician without a known user sees no rows", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		ctx := datascope.WithRole(context.Background(), identity.RoleTechnician)

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE tenant_id = \$1 AND 1 = 0 ORDER BY`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		jobs, err := repo.FindAllForTenant(ctx, tenantID, shared.Filter{})

		assert.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("technician single-row lookup is membership checked", func(t *testing.T) {
		repo, mock, mockDB := newMockJobRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		jobID := uuid.New()
		technicianID := uuid.New()

		ctx := datascope.WithRole(context.Background(), identity.RoleTechnician)
		ctx, _ = logger.WithUserID(ctx, zap.NewNop(), technicianID.String())

		mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE \(tenant_id = \$1 AND id = \$2\) AND \(EXISTS \(SELECT 1 FROM job_assignments`).
			WithArgs(tenantID, jobID, technicianID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		j, err := repo.FindByIDForTenant(ctx, tenantID, jobID)

		assert.Nil(t, j)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
