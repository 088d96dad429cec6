package identity

import (
	"context"
	"testing"
	"time"

	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/auth"
	"github.com/bos/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func newTestAuthService(userRepo identity.UserRepository) (*AuthService, *auth.JWTService, *auth.InMemoryTokenBlacklist) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "bos-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(userRepo, jwtService, blacklist, zap.NewNop())
	return svc, jwtService, blacklist
}

func newActiveUser(t *testing.T, tenantID uuid.UUID, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenantID, "tech@example.com", "Dana Tech", "Passw0rd123", role)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleTechnician)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "tech@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	svc, jwtService, _ := newTestAuthService(userRepo)

	result, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "tech@example.com",
		Password: "Passw0rd123",
		IP:       "203.0.113.9",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "technician", result.User.Role)
	assert.Contains(t, result.User.Permissions, "jobs:update_status")
	assert.NotContains(t, result.User.Permissions, "users:create")

	// Access token claims carry identity and compiled permissions
	claims, err := jwtService.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "technician", claims.Role)
	assert.Contains(t, claims.Permissions, "jobs:read")

	// RecordLoginSuccess was persisted
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "203.0.113.9", user.LastLoginIP)
	userRepo.AssertCalled(t, "Save", mock.Anything, user)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	tenantID := uuid.New()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "ghost@example.com").
		Return(nil, shared.ErrNotFound)

	svc, _, _ := newTestAuthService(userRepo)

	_, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleAdmin)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "tech@example.com").Return(user, nil)

	svc, _, _ := newTestAuthService(userRepo)

	_, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "tech@example.com",
		Password: "wrong-password",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleTechnician)
	require.NoError(t, user.Disable())

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "tech@example.com").Return(user, nil)

	svc, _, _ := newTestAuthService(userRepo)

	_, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "tech@example.com",
		Password: "Passw0rd123",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "USER_DISABLED", domainErr.Code)
}

func TestAuthService_RefreshToken_RotatesAndRevokes(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleCustomerSpecialist)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "tech@example.com").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc, jwtService, _ := newTestAuthService(userRepo)

	login, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "tech@example.com",
		Password: "Passw0rd123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Rotated access token carries recompiled permissions
	claims, err := jwtService.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "customer_specialist", claims.Role)
	assert.Contains(t, claims.Permissions, "conversations:link")

	// The spent refresh token is single-use
	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestAuthService_RefreshToken_DisabledUser(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleTechnician)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "tech@example.com").Return(user, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc, _, _ := newTestAuthService(userRepo)

	login, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "tech@example.com",
		Password: "Passw0rd123",
	})
	require.NoError(t, err)

	require.NoError(t, user.Disable())

	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.RefreshToken,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "USER_DISABLED", domainErr.Code)
}

func TestAuthService_RefreshToken_InvalidToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _, _ := newTestAuthService(userRepo)

	_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: "not-a-token",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleOwner)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, tenantID, "tech@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc, _, _ := newTestAuthService(userRepo)

	login, err := svc.Login(context.Background(), LoginInput{
		TenantID: tenantID,
		Email:    "tech@example.com",
		Password: "Passw0rd123",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: login.AccessToken,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _, blacklist := newTestAuthService(userRepo)

	userID := uuid.New()
	err := svc.Logout(context.Background(), LogoutInput{
		UserID:   userID,
		TokenJTI: "test-jti",
		TokenTTL: 10 * time.Minute,
	})

	require.NoError(t, err)
	blacklisted, err := blacklist.IsBlacklisted(context.Background(), "test-jti")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestAuthService_Logout_Everywhere(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _, blacklist := newTestAuthService(userRepo)

	userID := uuid.New()
	issuedAt := time.Now().Add(-1 * time.Minute)

	err := svc.Logout(context.Background(), LogoutInput{
		UserID:     userID,
		Everywhere: true,
	})

	require.NoError(t, err)
	invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), userID.String(), issuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestAuthService_ChangePassword_InvalidatesTokens(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleAdmin)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc, _, blacklist := newTestAuthService(userRepo)

	issuedAt := time.Now().Add(-1 * time.Minute)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		TenantID:    tenantID,
		OldPassword: "Passw0rd123",
		NewPassword: "NewPassw0rd456",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("NewPassw0rd456"))

	invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), user.ID.String(), issuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleAdmin)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)

	svc, _, _ := newTestAuthService(userRepo)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		TenantID:    tenantID,
		OldPassword: "wrong",
		NewPassword: "NewPassw0rd456",
	})

	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	tenantID := uuid.New()
	user := newActiveUser(t, tenantID, identity.RoleOwner)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByIDForTenant", mock.Anything, tenantID, user.ID).Return(user, nil)

	svc, _, _ := newTestAuthService(userRepo)

	result, err := svc.GetCurrentUser(context.Background(), GetCurrentUserInput{
		UserID:   user.ID,
		TenantID: tenantID,
	})

	require.NoError(t, err)
	assert.Equal(t, user.Email, result.User.Email)
	assert.Equal(t, "owner", result.User.Role)
	assert.Contains(t, result.Permissions, "users:delete")
}

func TestAuthService_GetPermissionMatrix(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc, _, _ := newTestAuthService(userRepo)

	matrix := svc.GetPermissionMatrix(context.Background())

	require.Len(t, matrix.Roles, 4)
	assert.Contains(t, matrix.Roles, "owner")
	assert.Contains(t, matrix.Roles, "admin")
	assert.Contains(t, matrix.Roles, "technician")
	assert.Contains(t, matrix.Roles, "customer_specialist")
	assert.Contains(t, matrix.Roles["owner"], "feature_flags:manage")
	assert.NotContains(t, matrix.Roles["technician"], "users:create")
}
