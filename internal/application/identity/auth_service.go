package identity

import (
	"context"

	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/domain/shared"
	"github.com/bos/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("email", input.Email))

	// Find user by email within the tenant
	user, err := s.userRepo.FindByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	// Check if user can login
	if !user.CanLogin() {
		s.logger.Warn("Login attempt for disabled account", zap.String("email", input.Email))
		return nil, shared.NewDomainError("USER_DISABLED", "Account has been disabled")
	}

	// Verify password (constant-time bcrypt compare)
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	// Compile permissions from the user's role
	permissions := user.Permissions()

	// Generate token pair
	tokenInput := auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Name:        user.Name,
		Role:        user.Role.String(),
		Permissions: permissions,
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInput)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// Record successful login
	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
		// Don't fail the login - just log the error
	}

	s.logger.Info("User logged in successfully",
		zap.String("email", input.Email),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  toUserInfo(user, permissions),
	}, nil
}

// RefreshToken rotates the token pair using a valid refresh token.
// The old refresh token is revoked so each refresh token is single-use.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	// Validate the refresh token to extract user info
	refreshClaims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// Reject revoked refresh tokens
	if s.blacklist != nil {
		blacklisted, err := s.blacklist.IsBlacklisted(ctx, refreshClaims.ID)
		if err != nil {
			// Blacklist read errors fail open
			s.logger.Error("Blacklist check failed during refresh", zap.Error(err))
		} else if blacklisted {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("jti", refreshClaims.ID))
			return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token has been revoked")
		}

		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, refreshClaims.UserID, refreshClaims.GetIssuedAtTime())
		if err != nil {
			s.logger.Error("User invalidation check failed during refresh", zap.Error(err))
		} else if invalidated {
			return nil, shared.NewDomainError("INVALID_TOKEN", "Session has been invalidated. Please log in again")
		}
	}

	userID, err := refreshClaims.GetUserUUID()
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid user ID in token")
	}

	// Reload the user so role and permission changes take effect at rotation
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.CanLogin() {
		s.logger.Warn("Token refresh for disabled user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_DISABLED", "Account has been disabled")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, auth.RefreshTokenInput{
		Name:        user.Name,
		Role:        user.Role.String(),
		Permissions: user.Permissions(),
	})
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// Revoke the spent refresh token for the rest of its lifetime
	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, refreshClaims.ID, refreshClaims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke rotated refresh token",
				zap.String("jti", refreshClaims.ID), zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented access token. With Everywhere set it also
// stamps a per-user invalidation so every outstanding token dies.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout",
		zap.String("user_id", input.UserID.String()),
		zap.Bool("everywhere", input.Everywhere))

	if s.blacklist == nil {
		return nil
	}

	if input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token on logout",
				zap.String("jti", input.TokenJTI), zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
		}
	}

	if input.Everywhere {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate user tokens on logout", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke tokens")
		}
	}

	return nil
}

// GetCurrentUser retrieves the current user's information
func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	permissions := user.Permissions()

	return &CurrentUserResult{
		User:        toUserInfo(user, permissions),
		Permissions: permissions,
	}, nil
}

// ChangePassword changes a user's password and invalidates every token
// issued before the change.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if s.blacklist != nil {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate tokens after password change", zap.Error(err))
		}
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// GetPermissionMatrix returns the compiled role → permission matrix
func (s *AuthService) GetPermissionMatrix(_ context.Context) *PermissionMatrixResult {
	matrix := identity.CompileMatrix()
	roles := make(map[string][]string, len(matrix))
	for role, codes := range matrix {
		roles[role.String()] = codes
	}
	return &PermissionMatrixResult{Roles: roles}
}

func toUserInfo(user *identity.User, permissions []string) UserInfo {
	return UserInfo{
		ID:          user.ID,
		TenantID:    user.TenantID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role.String(),
		Status:      string(user.Status),
		Permissions: permissions,
	}
}

// mapTokenError translates JWT service errors into domain errors with the
// codes the HTTP layer turns into 401 responses.
func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("REFRESH_LIMIT", "Maximum token refresh count exceeded. Please log in again")
	case auth.ErrInvalidToken, auth.ErrInvalidTokenType, auth.ErrInvalidClaims,
		auth.ErrTokenNotYetValid, auth.ErrMissingTenantID, auth.ErrMissingUserID:
		return shared.NewDomainError("INVALID_TOKEN", "Invalid token")
	default:
		return shared.NewDomainError("INVALID_TOKEN", "Failed to validate token")
	}
}
