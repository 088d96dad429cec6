// Package datascope provides data-level permission filtering for GORM queries.
//
// The row-level reach of a grant comes from the identity policy registry:
//   - all: every row in the tenant
//   - assigned: rows reachable through the user's job assignments
//   - own: rows the user created
//
// Usage:
//
//	filter := datascope.NewFilter(ctx, role)
//	scopedDB := filter.Apply(db, "jobs", "read")
//	scopedDB.Find(&jobs) // membership EXISTS clause auto-added for technicians
package datascope

import (
	"context"

	"github.com/bos/backend/internal/domain/identity"
	"github.com/bos/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContextKey is the context key type for data scope values
type ContextKey string

// RoleKey is the context key for storing the acting user's role
const RoleKey ContextKey = "data_scope_role"

// Filter applies data scope filtering to GORM queries
type Filter struct {
	ctx    context.Context
	userID uuid.UUID
	role   identity.Role
}

// NewFilter creates a new data scope filter for a role. The acting user is
// taken from the request-scoped logging context.
func NewFilter(ctx context.Context, role identity.Role) *Filter {
	userIDStr := logger.GetUserID(ctx)
	var userID uuid.UUID
	if userIDStr != "" {
		userID, _ = uuid.Parse(userIDStr)
	}

	return &Filter{
		ctx:    ctx,
		userID: userID,
		role:   role,
	}
}

// NewFilterFromContext creates a Filter using the role stored in context
func NewFilterFromContext(ctx context.Context) *Filter {
	role, _ := RoleFromContext(ctx)
	return NewFilter(ctx, role)
}

// WithRole stores the acting user's role in context
func WithRole(ctx context.Context, role identity.Role) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

// RoleFromContext extracts the acting user's role from context
func RoleFromContext(ctx context.Context) (identity.Role, bool) {
	role, ok := ctx.Value(RoleKey).(identity.Role)
	return role, ok
}

// Apply applies data scope filtering for a resource/action pair. A role
// with no grant at all sees no rows; so does an assigned or own scope when
// the acting user is unknown.
func (f *Filter) Apply(db *gorm.DB, resource, action string) *gorm.DB {
	scope, ok := identity.ScopeFor(f.role, resource, action)
	if !ok {
		return db.Where("1 = 0")
	}

	switch scope {
	case identity.DataScopeAll:
		return db

	case identity.DataScopeAssigned:
		if f.userID == uuid.Nil {
			return db.Where("1 = 0")
		}
		membership, known := assignedScopeClauses[resource]
		if !known {
			return db.Where("1 = 0")
		}
		return db.Where(membership, f.userID)

	case identity.DataScopeOwn:
		if f.userID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("created_by = ?", f.userID)

	default:
		return db.Where("1 = 0")
	}
}

// ApplyFromContext applies data scope filtering using the role stored in
// context. Contexts without a role (background workers, migrations) pass
// through unfiltered; request contexts carry the role set by the data scope
// middleware and get the row-level clause for their grant.
func ApplyFromContext(ctx context.Context, db *gorm.DB, resource, action string) *gorm.DB {
	role, ok := RoleFromContext(ctx)
	if !ok {
		return db
	}
	return NewFilter(ctx, role).Apply(db, resource, action)
}

// ApplyToQuery applies data scope filtering and returns a GORM scope function
func (f *Filter) ApplyToQuery(resource, action string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return f.Apply(db, resource, action)
	}
}

// Scope returns the row-level scope the filter role has for a
// resource/action pair. The second return is false when there is no grant.
func (f *Filter) Scope(resource, action string) (identity.DataScope, bool) {
	return identity.ScopeFor(f.role, resource, action)
}

// CanAccessAll returns true if the role sees every tenant row for the
// resource/action pair
func (f *Filter) CanAccessAll(resource, action string) bool {
	scope, ok := identity.ScopeFor(f.role, resource, action)
	return ok && scope == identity.DataScopeAll
}

// GetUserID returns the current user ID
func (f *Filter) GetUserID() uuid.UUID {
	return f.userID
}

// IsOwner checks if the current user is the owner (creator) of a record
func (f *Filter) IsOwner(createdBy *uuid.UUID) bool {
	if createdBy == nil || f.userID == uuid.Nil {
		return false
	}
	return *createdBy == f.userID
}

// ScopeFunc is a GORM scope function type
type ScopeFunc func(*gorm.DB) *gorm.DB

// DataScopeScope creates a GORM scope for data scope filtering
func DataScopeScope(ctx context.Context, resource, action string, role identity.Role) ScopeFunc {
	filter := NewFilter(ctx, role)
	return filter.ApplyToQuery(resource, action)
}

// DataScopeScopeFromContext creates a GORM scope using the role from context
func DataScopeScopeFromContext(ctx context.Context, resource, action string) ScopeFunc {
	filter := NewFilterFromContext(ctx)
	return filter.ApplyToQuery(resource, action)
}

// assignedScopeClauses maps each resource the assigned scope can reach to
// the membership clause tying its rows to the user's job assignments. This
// is the single source of truth for assigned scoping; a resource missing
// here cannot be filtered and is denied outright.
var assignedScopeClauses = map[string]string{
	"jobs":            "EXISTS (SELECT 1 FROM job_assignments WHERE job_assignments.job_id = jobs.id AND job_assignments.user_id = ?)",
	"tasks":           "EXISTS (SELECT 1 FROM job_assignments WHERE job_assignments.job_id = tasks.job_id AND job_assignments.user_id = ?)",
	"clients":         "EXISTS (SELECT 1 FROM jobs JOIN job_assignments ON job_assignments.job_id = jobs.id WHERE jobs.client_id = clients.id AND job_assignments.user_id = ?)",
	"people":          "EXISTS (SELECT 1 FROM jobs JOIN job_assignments ON job_assignments.job_id = jobs.id WHERE jobs.client_id = people.client_id AND job_assignments.user_id = ?)",
	"contact_methods": "EXISTS (SELECT 1 FROM people JOIN jobs ON jobs.client_id = people.client_id JOIN job_assignments ON job_assignments.job_id = jobs.id WHERE people.id = contact_methods.person_id AND job_assignments.user_id = ?)",
}

// IsResourceAssignedScoped returns true if the resource supports
// assignment-based scoping
func IsResourceAssignedScoped(resource string) bool {
	_, exists := assignedScopeClauses[resource]
	return exists
}
