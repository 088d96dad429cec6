package job

import (
	"context"
	"testing"
	"time"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/job"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJobRepository is a mock implementation of job.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *MockJobRepository) FindByClientID(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *MockJobRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status job.JobStatus, filter shared.Filter) ([]job.Job, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *MockJobRepository) FindAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]job.Job), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) SaveWithLock(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) CountByClientID(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) CountAssignedToUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepository is a mock implementation of client.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*client.Client, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]client.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status client.ClientStatus, filter shared.Filter) ([]client.Client, error) {
	args := m.Called(ctx, tenantID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]client.Client, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, tenantID uuid.UUID, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, role, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestJobService(jobRepo *MockJobRepository, clientRepo *MockClientRepository, userRepo *MockUserRepository) *JobService {
	if jobRepo == nil {
		jobRepo = new(MockJobRepository)
	}
	if clientRepo == nil {
		clientRepo = new(MockClientRepository)
	}
	if userRepo == nil {
		userRepo = new(MockUserRepository)
	}
	return NewJobService(jobRepo, clientRepo, userRepo)
}

func newTestClient(t *testing.T, tenantID uuid.UUID) *client.Client {
	t.Helper()
	c, err := client.NewClient(tenantID, "ACME-01", "Acme Plumbing", client.ClientTypeCommercial)
	require.NoError(t, err)
	return c
}

func newTestJob(t *testing.T, tenantID, clientID uuid.UUID) *job.Job {
	t.Helper()
	j, err := job.NewJob(tenantID, clientID, "Replace water heater", "", job.JobPriorityNormal)
	require.NoError(t, err)
	j.ClearDomainEvents()
	return j
}

func TestJobService_Create(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestClient(t, tenantID)
	due := time.Now().Add(72 * time.Hour)
	quote := decimal.NewFromFloat(1250.00)

	clientRepo := new(MockClientRepository)
	clientRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	jobRepo := new(MockJobRepository)
	jobRepo.On("Save", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil)

	svc := newTestJobService(jobRepo, clientRepo, nil)

	resp, err := svc.Create(context.Background(), tenantID, CreateJobRequest{
		ClientID:    existing.ID,
		Title:       "Replace water heater",
		Description: "40-gal unit in basement",
		Priority:    "high",
		DueAt:       &due,
		QuotedTotal: &quote,
	})

	require.NoError(t, err)
	assert.Equal(t, "Replace water heater", resp.Title)
	assert.Equal(t, "open", resp.Status)
	assert.Equal(t, "high", resp.Priority)
	require.NotNil(t, resp.DueAt)
	assert.True(t, resp.QuotedTotal.Equal(quote))
	assert.Empty(t, resp.Assignments)
	jobRepo.AssertExpectations(t)
}

func TestJobService_Create_ArchivedClient(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestClient(t, tenantID)
	require.NoError(t, existing.Archive())

	clientRepo := new(MockClientRepository)
	clientRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	jobRepo := new(MockJobRepository)
	svc := newTestJobService(jobRepo, clientRepo, nil)

	_, err := svc.Create(context.Background(), tenantID, CreateJobRequest{
		ClientID: existing.ID,
		Title:    "Fix leak",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CLIENT_ARCHIVED", domainErr.Code)
	jobRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestJobService_Create_ClientNotFound(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()

	clientRepo := new(MockClientRepository)
	clientRepo.On("FindByIDForTenant", mock.Anything, tenantID, clientID).Return(nil, shared.ErrNotFound)

	svc := newTestJobService(nil, clientRepo, nil)

	_, err := svc.Create(context.Background(), tenantID, CreateJobRequest{
		ClientID: clientID,
		Title:    "Fix leak",
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestJobService_ChangeStatus(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)
	jobRepo.On("SaveWithLock", mock.Anything, existing).Return(nil)

	svc := newTestJobService(jobRepo, nil, nil)

	resp, err := svc.ChangeStatus(context.Background(), tenantID, existing.ID, ChangeJobStatusRequest{
		Status: "in_progress",
	})

	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
	assert.NotNil(t, resp.StartedAt)
	jobRepo.AssertExpectations(t)
}

func TestJobService_ChangeStatus_InvalidTransition(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	svc := newTestJobService(jobRepo, nil, nil)

	_, err := svc.ChangeStatus(context.Background(), tenantID, existing.ID, ChangeJobStatusRequest{
		Status: "paused",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	jobRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestJobService_Assign(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())
	tech, err := identity.NewUser(tenantID, "tech@example.com", "Dana Tech", "Passw0rd123", identity.RoleTechnician)
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)
	jobRepo.On("SaveWithLock", mock.Anything, existing).Return(nil)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByIDForTenant", mock.Anything, tenantID, tech.ID).Return(tech, nil)

	svc := newTestJobService(jobRepo, nil, userRepo)

	resp, err := svc.Assign(context.Background(), tenantID, existing.ID, AssignJobRequest{UserID: tech.ID})

	require.NoError(t, err)
	require.Len(t, resp.Assignments, 1)
	assert.Equal(t, tech.ID, resp.Assignments[0].UserID)
	jobRepo.AssertExpectations(t)
}

func TestJobService_Assign_UserNotFound(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())
	userID := uuid.New()

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByIDForTenant", mock.Anything, tenantID, userID).Return(nil, shared.ErrNotFound)

	svc := newTestJobService(jobRepo, nil, userRepo)

	_, err := svc.Assign(context.Background(), tenantID, existing.ID, AssignJobRequest{UserID: userID})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	jobRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestJobService_Unassign_NotAssigned(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	svc := newTestJobService(jobRepo, nil, nil)

	_, err := svc.Unassign(context.Background(), tenantID, existing.ID, uuid.New())

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_ASSIGNED", domainErr.Code)
}

func TestJobService_Update(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())
	newTitle := "Replace water heater and expansion tank"
	newPriority := "critical"
	quote := decimal.NewFromFloat(1800.00)

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)
	jobRepo.On("SaveWithLock", mock.Anything, existing).Return(nil)

	svc := newTestJobService(jobRepo, nil, nil)

	resp, err := svc.Update(context.Background(), tenantID, existing.ID, UpdateJobRequest{
		Title:       &newTitle,
		Priority:    &newPriority,
		QuotedTotal: &quote,
	})

	require.NoError(t, err)
	assert.Equal(t, newTitle, resp.Title)
	assert.Equal(t, "critical", resp.Priority)
	assert.True(t, resp.QuotedTotal.Equal(quote))
	jobRepo.AssertExpectations(t)
}

func TestJobService_Update_ClearDueAt(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())
	due := time.Now().Add(24 * time.Hour)
	require.NoError(t, existing.SetDueAt(&due))

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)
	jobRepo.On("SaveWithLock", mock.Anything, existing).Return(nil)

	svc := newTestJobService(jobRepo, nil, nil)

	resp, err := svc.Update(context.Background(), tenantID, existing.ID, UpdateJobRequest{
		ClearDueAt: true,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.DueAt)
}

func TestJobService_Update_TerminalJobRejected(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())
	require.NoError(t, existing.ChangeStatus(job.JobStatusCancelled))
	newTitle := "New title"

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)

	svc := newTestJobService(jobRepo, nil, nil)

	_, err := svc.Update(context.Background(), tenantID, existing.ID, UpdateJobRequest{Title: &newTitle})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "JOB_CLOSED", domainErr.Code)
	jobRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestJobService_List(t *testing.T) {
	tenantID := uuid.New()
	j1 := newTestJob(t, tenantID, uuid.New())
	j2 := newTestJob(t, tenantID, uuid.New())

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]job.Job{*j1, *j2}, nil)
	jobRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Return(int64(2), nil)

	svc := newTestJobService(jobRepo, nil, nil)

	items, total, err := svc.List(context.Background(), tenantID, JobListFilter{})

	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), total)
}

func TestJobService_List_AssignedScope(t *testing.T) {
	tenantID := uuid.New()
	techID := uuid.New()
	mine := newTestJob(t, tenantID, uuid.New())
	require.NoError(t, mine.Assign(techID))

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindAssignedToUser", mock.Anything, tenantID, techID, mock.AnythingOfType("shared.Filter")).
		Return([]job.Job{*mine}, nil)
	jobRepo.On("CountAssignedToUser", mock.Anything, tenantID, techID, mock.AnythingOfType("shared.Filter")).
		Return(int64(1), nil)

	svc := newTestJobService(jobRepo, nil, nil)

	items, total, err := svc.List(context.Background(), tenantID, JobListFilter{AssignedTo: &techID})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	assert.Contains(t, items[0].AssignedUserIDs, techID)
	jobRepo.AssertNotCalled(t, "FindAllForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_List_StatusFilter(t *testing.T) {
	tenantID := uuid.New()
	open := newTestJob(t, tenantID, uuid.New())

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByStatus", mock.Anything, tenantID, job.JobStatusOpen, mock.AnythingOfType("shared.Filter")).
		Return([]job.Job{*open}, nil)
	jobRepo.On("CountForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "open"
	})).Return(int64(1), nil)

	svc := newTestJobService(jobRepo, nil, nil)

	items, total, err := svc.List(context.Background(), tenantID, JobListFilter{Status: "open"})

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
	jobRepo.AssertExpectations(t)
}

func TestJobService_Delete_PublishesEvent(t *testing.T) {
	tenantID := uuid.New()
	existing := newTestJob(t, tenantID, uuid.New())

	jobRepo := new(MockJobRepository)
	jobRepo.On("FindByIDForTenant", mock.Anything, tenantID, existing.ID).Return(existing, nil)
	jobRepo.On("Delete", mock.Anything, tenantID, existing.ID).Return(nil)

	publisher := &recordingPublisher{}
	svc := newTestJobService(jobRepo, nil, nil)
	svc.SetEventPublisher(publisher)

	err := svc.Delete(context.Background(), tenantID, existing.ID)

	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, job.EventTypeJobDeleted, publisher.events[0].EventType())
	jobRepo.AssertExpectations(t)
}

func TestJobService_GetStatusSummary(t *testing.T) {
	tenantID := uuid.New()

	jobRepo := new(MockJobRepository)
	for status, count := range map[string]int64{
		"open":                              4,
		"in_progress":                       2,
		"paused":                            1,
		"waiting_for_customer":              0,
		"waiting_for_scheduled_appointment": 3,
		"completed":                         10,
		"cancelled":                         1,
	} {
		status := status
		count := count
		jobRepo.On("CountForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["status"] == status
		})).Return(count, nil)
	}

	svc := newTestJobService(jobRepo, nil, nil)

	summary, err := svc.GetStatusSummary(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Open)
	assert.Equal(t, int64(2), summary.InProgress)
	assert.Equal(t, int64(10), summary.Completed)
	assert.Equal(t, int64(21), summary.Total)
}
