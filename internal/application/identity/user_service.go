package identity

import (
	"context"
	"time"

	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	TenantID uuid.UUID
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateUserInput contains input for updating a user
type UpdateUserInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	Name     *string
}

// ChangeRoleInput contains input for changing a user's role
type ChangeRoleInput struct {
	TenantID uuid.UUID
	ID       uuid.UUID
	Role     string
}

// ResetPasswordInput contains input for an administrative password reset
type ResetPasswordInput struct {
	TenantID    uuid.UUID
	ID          uuid.UUID
	NewPassword string
}

// ListUsersInput contains input for listing users
type ListUsersInput struct {
	TenantID uuid.UUID
	Page     int
	PageSize int
	Search   string
	Role     string
	Status   string
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResult represents paginated user list result
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	s.logger.Info("Creating new user",
		zap.String("email", input.Email),
		zap.String("tenant_id", input.TenantID.String()))

	// Check if email already exists in the tenant
	exists, err := s.userRepo.ExistsByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already registered")
	}

	user, err := identity.NewUser(input.TenantID, input.Email, input.Name, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// List retrieves users with pagination and filtering
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}

	filter := shared.Filter{
		Page:     input.Page,
		PageSize: input.PageSize,
		Search:   input.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if input.Role != "" {
		filter.Filters["role"] = input.Role
	}
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}

	users, err := s.userRepo.FindAllForTenant(ctx, input.TenantID, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.CountForTenant(ctx, input.TenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}

	totalPages := int((total + int64(input.PageSize) - 1) / int64(input.PageSize))

	return &UserListResult{
		Users:      dtos,
		Total:      total,
		Page:       input.Page,
		PageSize:   input.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := user.SetName(*input.Name); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// ChangeRole changes a user's role. Outstanding tokens are invalidated so
// stale permission claims cannot outlive the change.
func (s *UserService) ChangeRole(ctx context.Context, input ChangeRoleInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if err := user.ChangeRole(identity.Role(input.Role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user after role change", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change role")
	}

	s.invalidateUserTokens(ctx, user.ID)

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// Disable disables a user account and invalidates its tokens
func (s *UserService) Disable(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := user.Disable(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user after disable", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to disable user")
	}

	s.invalidateUserTokens(ctx, user.ID)

	s.logger.Info("User disabled", zap.String("user_id", user.ID.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// Enable re-enables a disabled user account
func (s *UserService) Enable(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := user.Enable(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user after enable", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to enable user")
	}

	s.logger.Info("User enabled", zap.String("user_id", user.ID.String()))

	dto := toUserDTO(user)
	return &dto, nil
}

// ResetPassword sets a new password without requiring the old one and
// invalidates every outstanding token for the user
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.ID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user after password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.invalidateUserTokens(ctx, user.ID)

	s.logger.Info("User password reset", zap.String("user_id", user.ID.String()))

	return nil
}

// Delete removes a user. Self-deletion is rejected so a tenant cannot
// lock itself out of its last owner account.
func (s *UserService) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError("SELF_DELETE", "You cannot delete your own account")
	}

	if _, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, tenantID, id); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}

	s.invalidateUserTokens(ctx, id)

	s.logger.Info("User deleted", zap.String("user_id", id.String()))

	return nil
}

func (s *UserService) invalidateUserTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate user tokens",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func toUserDTO(user *identity.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role.String(),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
