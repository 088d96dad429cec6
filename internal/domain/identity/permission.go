package identity

import (
	"regexp"
	"strings"

	"github.com/bos/backend/internal/domain/shared"
)

// Permission represents a functional permission (resource:action pattern)
// It is a value object
type Permission struct {
	Code     string // e.g., "jobs:update"
	Resource string // e.g., "jobs"
	Action   string // e.g., "update"
}

// NewPermission creates a new Permission value object
func NewPermission(resource, action string) (*Permission, error) {
	if err := validatePermissionResource(resource); err != nil {
		return nil, err
	}
	if err := validatePermissionAction(action); err != nil {
		return nil, err
	}

	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	return &Permission{
		Code:     resource + ":" + action,
		Resource: resource,
		Action:   action,
	}, nil
}

// NewPermissionFromCode creates a Permission from a code string (e.g., "jobs:update")
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(parts[0], parts[1])
}

// Equals checks if two permissions are equal
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// IsEmpty returns true if the permission is empty
func (p Permission) IsEmpty() bool {
	return p.Code == ""
}

// String returns the permission code
func (p Permission) String() string {
	return p.Code
}

var permissionPartRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validatePermissionResource(resource string) error {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if resource == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission resource cannot be empty")
	}
	if len(resource) > 50 {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission resource cannot exceed 50 characters")
	}
	if !permissionPartRegex.MatchString(resource) {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission resource can only contain lowercase letters, numbers, and underscores")
	}
	return nil
}

func validatePermissionAction(action string) error {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission action cannot be empty")
	}
	if len(action) > 50 {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission action cannot exceed 50 characters")
	}
	if !permissionPartRegex.MatchString(action) {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission action can only contain lowercase letters, numbers, and underscores")
	}
	return nil
}
