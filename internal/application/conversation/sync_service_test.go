package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/bos/backend/internal/domain/client"
	"github.com/bos/backend/internal/domain/conversation"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockConversationRepository is a mock implementation of conversation.FrontConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*conversation.FrontConversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.FrontConversation), args.Error(1)
}

func (m *MockConversationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*conversation.FrontConversation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.FrontConversation), args.Error(1)
}

func (m *MockConversationRepository) FindByPlatformID(ctx context.Context, tenantID uuid.UUID, platform conversation.PlatformCode, platformID string) (*conversation.FrontConversation, error) {
	args := m.Called(ctx, tenantID, platform, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversation.FrontConversation), args.Error(1)
}

func (m *MockConversationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]conversation.FrontConversation, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]conversation.FrontConversation), args.Error(1)
}

func (m *MockConversationRepository) FindByMatchedPerson(ctx context.Context, tenantID, personID uuid.UUID, filter shared.Filter) ([]conversation.FrontConversation, error) {
	args := m.Called(ctx, tenantID, personID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]conversation.FrontConversation), args.Error(1)
}

func (m *MockConversationRepository) FindUnmatchedByHandle(ctx context.Context, tenantID uuid.UUID, normalizedHandle string) ([]conversation.FrontConversation, error) {
	args := m.Called(ctx, tenantID, normalizedHandle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]conversation.FrontConversation), args.Error(1)
}

func (m *MockConversationRepository) Upsert(ctx context.Context, c *conversation.FrontConversation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConversationRepository) Save(ctx context.Context, c *conversation.FrontConversation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConversationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockConversationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPersonRepository is a mock implementation of client.PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*client.Person, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByClientID(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]client.Person, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Person), args.Error(1)
}

func (m *MockPersonRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]client.Person, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Person), args.Error(1)
}

func (m *MockPersonRepository) Save(ctx context.Context, p *client.Person) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPersonRepository) SaveWithLock(ctx context.Context, p *client.Person) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPersonRepository) CountByClientID(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockContactMethodRepository is a mock implementation of client.ContactMethodRepository
type MockContactMethodRepository struct {
	mock.Mock
}

func (m *MockContactMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.ContactMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ContactMethod), args.Error(1)
}

func (m *MockContactMethodRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*client.ContactMethod, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ContactMethod), args.Error(1)
}

func (m *MockContactMethodRepository) FindByPersonID(ctx context.Context, tenantID, personID uuid.UUID) ([]client.ContactMethod, error) {
	args := m.Called(ctx, tenantID, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.ContactMethod), args.Error(1)
}

func (m *MockContactMethodRepository) FindByNormalizedValue(ctx context.Context, tenantID uuid.UUID, normalized string) (*client.ContactMethod, error) {
	args := m.Called(ctx, tenantID, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ContactMethod), args.Error(1)
}

func (m *MockContactMethodRepository) ExistsByNormalizedValue(ctx context.Context, tenantID uuid.UUID, contactType client.ContactType, normalized string) (bool, error) {
	args := m.Called(ctx, tenantID, contactType, normalized)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactMethodRepository) Save(ctx context.Context, cm *client.ContactMethod) error {
	args := m.Called(ctx, cm)
	return args.Error(0)
}

func (m *MockContactMethodRepository) ClearPrimary(ctx context.Context, tenantID, personID uuid.UUID, contactType client.ContactType) error {
	args := m.Called(ctx, tenantID, personID, contactType)
	return args.Error(0)
}

func (m *MockContactMethodRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func newSnapshot(platformID, handle string, updatedAt time.Time) *conversation.PlatformConversation {
	return &conversation.PlatformConversation{
		PlatformID:      platformID,
		PlatformCode:    conversation.PlatformCodeFront,
		Subject:         "Water heater making noise",
		Status:          "open",
		RecipientHandle: handle,
		Tags:            []string{"plumbing"},
		CreatedAt:       updatedAt.Add(-time.Hour),
		UpdatedAt:       updatedAt,
	}
}

func newSyncService(conversationRepo *MockConversationRepository, contactRepo *MockContactMethodRepository, personRepo *MockPersonRepository) *SyncService {
	return NewSyncService(conversationRepo, contactRepo, personRepo, zap.NewNop())
}

func TestSyncService_Ingest_CreatesAndMatches(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()
	person, err := client.NewPerson(tenantID, clientID, "Jordan", "Lee")
	require.NoError(t, err)
	cm, err := client.NewContactMethod(tenantID, person.ID, client.ContactTypeEmail, "jordan@acme.com")
	require.NoError(t, err)

	snapshot := newSnapshot("cnv_001", "Jordan@Acme.com", time.Now())

	conversationRepo := new(MockConversationRepository)
	conversationRepo.On("FindByPlatformID", mock.Anything, tenantID, conversation.PlatformCodeFront, "cnv_001").
		Return(nil, shared.ErrNotFound)
	conversationRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *conversation.FrontConversation) bool {
		return c.IsMatched() && *c.MatchedPersonID == person.ID && *c.MatchedClientID == clientID
	})).Return(nil)

	contactRepo := new(MockContactMethodRepository)
	contactRepo.On("FindByNormalizedValue", mock.Anything, tenantID, "jordan@acme.com").Return(cm, nil)

	personRepo := new(MockPersonRepository)
	personRepo.On("FindByIDForTenant", mock.Anything, tenantID, person.ID).Return(person, nil)

	svc := newSyncService(conversationRepo, contactRepo, personRepo)

	result, err := svc.Ingest(context.Background(), tenantID, snapshot)

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.True(t, result.Changed)
	assert.True(t, result.Matched)
	conversationRepo.AssertExpectations(t)
}

func TestSyncService_Ingest_NoOwnerStaysUnmatched(t *testing.T) {
	tenantID := uuid.New()
	snapshot := newSnapshot("cnv_002", "stranger@example.com", time.Now())

	conversationRepo := new(MockConversationRepository)
	conversationRepo.On("FindByPlatformID", mock.Anything, tenantID, conversation.PlatformCodeFront, "cnv_002").
		Return(nil, shared.ErrNotFound)
	conversationRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *conversation.FrontConversation) bool {
		return !c.IsMatched()
	})).Return(nil)

	contactRepo := new(MockContactMethodRepository)
	contactRepo.On("FindByNormalizedValue", mock.Anything, tenantID, "stranger@example.com").
		Return(nil, shared.ErrNotFound)

	svc := newSyncService(conversationRepo, contactRepo, new(MockPersonRepository))

	result, err := svc.Ingest(context.Background(), tenantID, snapshot)

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Matched)
	conversationRepo.AssertExpectations(t)
}

func TestSyncService_Ingest_StaleSnapshotSkipped(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	existing, err := conversation.NewFrontConversationFromRemote(tenantID, newSnapshot("cnv_003", "jordan@acme.com", now))
	require.NoError(t, err)
	existing.ClearDomainEvents()

	stale := newSnapshot("cnv_003", "jordan@acme.com", now.Add(-time.Hour))

	conversationRepo := new(MockConversationRepository)
	conversationRepo.On("FindByPlatformID", mock.Anything, tenantID, conversation.PlatformCodeFront, "cnv_003").
		Return(existing, nil)

	svc := newSyncService(conversationRepo, new(MockContactMethodRepository), new(MockPersonRepository))

	result, err := svc.Ingest(context.Background(), tenantID, stale)

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.False(t, result.Changed)
	conversationRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSyncService_Ingest_ChangedHandleRelinks(t *testing.T) {
	tenantID := uuid.New()
	now := time.Now()

	oldOwner, err := client.NewPerson(tenantID, uuid.New(), "Jordan", "Lee")
	require.NoError(t, err)
	newClientID := uuid.New()
	newOwner, err := client.NewPerson(tenantID, newClientID, "Casey", "Park")
	require.NoError(t, err)
	newCM, err := client.NewContactMethod(tenantID, newOwner.ID, client.ContactTypeEmail, "casey@acme.com")
	require.NoError(t, err)

	existing, err := conversation.NewFrontConversationFromRemote(tenantID, newSnapshot("cnv_004", "jordan@acme.com", now.Add(-time.Hour)))
	require.NoError(t, err)
	require.NoError(t, existing.LinkPerson(oldOwner.ID, oldOwner.ClientID))
	existing.ClearDomainEvents()

	fresh := newSnapshot("cnv_004", "casey@acme.com", now)

	conversationRepo := new(MockConversationRepository)
	conversationRepo.On("FindByPlatformID", mock.Anything, tenantID, conversation.PlatformCodeFront, "cnv_004").
		Return(existing, nil)
	conversationRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(c *conversation.FrontConversation) bool {
		return c.IsMatched() && *c.MatchedPersonID == newOwner.ID
	})).Return(nil)

	contactRepo := new(MockContactMethodRepository)
	contactRepo.On("FindByNormalizedValue", mock.Anything, tenantID, "casey@acme.com").Return(newCM, nil)

	personRepo := new(MockPersonRepository)
	personRepo.On("FindByIDForTenant", mock.Anything, tenantID, newOwner.ID).Return(newOwner, nil)

	svc := newSyncService(conversationRepo, contactRepo, personRepo)

	result, err := svc.Ingest(context.Background(), tenantID, fresh)

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.Matched)
	assert.False(t, result.Created)
	conversationRepo.AssertExpectations(t)
}

func TestContactMethodCreatedHandler_LinksWaitingConversations(t *testing.T) {
	tenantID := uuid.New()
	clientID := uuid.New()
	person, err := client.NewPerson(tenantID, clientID, "Jordan", "Lee")
	require.NoError(t, err)
	cm, err := client.NewContactMethod(tenantID, person.ID, client.ContactTypeEmail, "jordan@acme.com")
	require.NoError(t, err)

	first, err := conversation.NewFrontConversationFromRemote(tenantID, newSnapshot("cnv_010", "jordan@acme.com", time.Now().Add(-2*time.Hour)))
	require.NoError(t, err)
	second, err := conversation.NewFrontConversationFromRemote(tenantID, newSnapshot("cnv_011", "jordan@acme.com", time.Now().Add(-time.Hour)))
	require.NoError(t, err)
	first.ClearDomainEvents()
	second.ClearDomainEvents()

	conversationRepo := new(MockConversationRepository)
	conversationRepo.On("FindUnmatchedByHandle", mock.Anything, tenantID, "jordan@acme.com").
		Return([]conversation.FrontConversation{*first, *second}, nil)
	conversationRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *conversation.FrontConversation) bool {
		return c.IsMatched() && *c.MatchedPersonID == person.ID && *c.MatchedClientID == clientID
	})).Return(nil).Twice()

	personRepo := new(MockPersonRepository)
	personRepo.On("FindByIDForTenant", mock.Anything, tenantID, person.ID).Return(person, nil)

	handler := NewContactMethodCreatedHandler(conversationRepo, personRepo, zap.NewNop())

	err = handler.Handle(context.Background(), client.NewContactMethodCreatedEvent(cm))

	require.NoError(t, err)
	conversationRepo.AssertExpectations(t)
}

func TestContactMethodCreatedHandler_NothingWaiting(t *testing.T) {
	tenantID := uuid.New()
	person, err := client.NewPerson(tenantID, uuid.New(), "Jordan", "Lee")
	require.NoError(t, err)
	cm, err := client.NewContactMethod(tenantID, person.ID, client.ContactTypeEmail, "jordan@acme.com")
	require.NoError(t, err)

	conversationRepo := new(MockConversationRepository)
	conversationRepo.On("FindUnmatchedByHandle", mock.Anything, tenantID, "jordan@acme.com").
		Return([]conversation.FrontConversation{}, nil)

	personRepo := new(MockPersonRepository)
	handler := NewContactMethodCreatedHandler(conversationRepo, personRepo, zap.NewNop())

	err = handler.Handle(context.Background(), client.NewContactMethodCreatedEvent(cm))

	require.NoError(t, err)
	personRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	conversationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
