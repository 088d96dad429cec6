package identity

import (
	"time"

	"github.com/bos/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserDisabled        = "UserDisabled"
	EventTypeUserEnabled         = "UserEnabled"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserRoleChanged     = "UserRoleChanged"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.TenantID),
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		Status:          user.Status,
	}
}

// UserDisabledEvent is published when a user is disabled
type UserDisabledEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserDisabledEvent creates a new UserDisabledEvent
func NewUserDisabledEvent(user *User) *UserDisabledEvent {
	return &UserDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDisabled, AggregateTypeUser, user.ID, user.TenantID),
		Email:           user.Email,
	}
}

// UserEnabledEvent is published when a disabled user is re-enabled
type UserEnabledEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserEnabledEvent creates a new UserEnabledEvent
func NewUserEnabledEvent(user *User) *UserEnabledEvent {
	return &UserEnabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserEnabled, AggregateTypeUser, user.ID, user.TenantID),
		Email:           user.Email,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed.
// The auth service listens for it and revokes the user's outstanding tokens.
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	changedAt := time.Now()
	if user.PasswordChangedAt != nil {
		changedAt = *user.PasswordChangedAt
	}
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID, user.TenantID),
		Email:           user.Email,
		ChangedAt:       changedAt,
	}
}

// UserRoleChangedEvent is published when a user moves to a different role
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Email   string `json:"email"`
	OldRole Role   `json:"old_role"`
	NewRole Role   `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User, oldRole, newRole Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID, user.TenantID),
		Email:           user.Email,
		OldRole:         oldRole,
		NewRole:         newRole,
	}
}
