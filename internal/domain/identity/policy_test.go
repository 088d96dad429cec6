package identity

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePermissions(t *testing.T) {
	t.Run("output is sorted and deduplicated", func(t *testing.T) {
		perms := CompilePermissions(RoleOwner)

		require.NotEmpty(t, perms)
		assert.True(t, sort.StringsAreSorted(perms))

		seen := make(map[string]bool)
		for _, p := range perms {
			assert.False(t, seen[p], "duplicate permission %s", p)
			seen[p] = true
		}
	})

	t.Run("output is deterministic", func(t *testing.T) {
		first := CompilePermissions(RoleTechnician)
		second := CompilePermissions(RoleTechnician)

		assert.Equal(t, first, second)
	})

	t.Run("every code parses", func(t *testing.T) {
		for _, role := range AllRoles() {
			for _, code := range CompilePermissions(role) {
				perm, err := NewPermissionFromCode(code)
				require.NoError(t, err, "role %s permission %s", role, code)
				assert.Equal(t, code, perm.Code)
			}
		}
	})

	t.Run("owner is granted everything admin is", func(t *testing.T) {
		ownerPerms := make(map[string]bool)
		for _, p := range CompilePermissions(RoleOwner) {
			ownerPerms[p] = true
		}
		for _, p := range CompilePermissions(RoleAdmin) {
			assert.True(t, ownerPerms[p], "admin permission %s missing from owner", p)
		}
	})

	t.Run("technician gets assigned-job access but no user admin", func(t *testing.T) {
		perms := CompilePermissions(RoleTechnician)

		assert.Contains(t, perms, "jobs:read")
		assert.Contains(t, perms, "jobs:update_status")
		assert.Contains(t, perms, "tasks:update")
		assert.Contains(t, perms, "attachments:create")
		assert.NotContains(t, perms, "users:create")
		assert.NotContains(t, perms, "jobs:delete")
		assert.NotContains(t, perms, "feature_flags:manage")
	})

	t.Run("customer specialist manages clients but not users", func(t *testing.T) {
		perms := CompilePermissions(RoleCustomerSpecialist)

		assert.Contains(t, perms, "clients:create")
		assert.Contains(t, perms, "contact_methods:update")
		assert.Contains(t, perms, "conversations:link")
		assert.NotContains(t, perms, "users:read")
		assert.NotContains(t, perms, "conversations:sync")
	})

	t.Run("unknown role compiles to nothing", func(t *testing.T) {
		perms := CompilePermissions(Role("intern"))

		assert.Empty(t, perms)
	})
}

func TestCompileMatrix(t *testing.T) {
	matrix := CompileMatrix()

	require.Len(t, matrix, len(AllRoles()))
	for _, role := range AllRoles() {
		perms, ok := matrix[role]
		require.True(t, ok, "matrix missing role %s", role)
		assert.Equal(t, CompilePermissions(role), perms)
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		resource string
		action   string
		want     bool
	}{
		{"owner deletes users", RoleOwner, "users", "delete", true},
		{"admin cannot delete users", RoleAdmin, "users", "delete", false},
		{"admin manages imports", RoleAdmin, "imports", "create", true},
		{"technician reads jobs", RoleTechnician, "jobs", "read", true},
		{"technician cannot assign jobs", RoleTechnician, "jobs", "assign", false},
		{"specialist links conversations", RoleCustomerSpecialist, "conversations", "link", true},
		{"owner manages tenants", RoleOwner, "tenants", "manage", true},
		{"admin reads tenants but cannot manage", RoleAdmin, "tenants", "manage", false},
		{"admin retries outbox entries", RoleAdmin, "outbox", "retry", true},
		{"technician cannot read outbox", RoleTechnician, "outbox", "read", false},
		{"unknown resource is denied", RoleOwner, "payments", "read", false},
		{"unknown action is denied", RoleOwner, "jobs", "approve", false},
		{"unknown role is denied", Role("intern"), "jobs", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.role, tt.resource, tt.action))
		})
	}
}

func TestScopeFor(t *testing.T) {
	t.Run("full grant yields all scope", func(t *testing.T) {
		scope, ok := ScopeFor(RoleAdmin, "jobs", "read")

		require.True(t, ok)
		assert.Equal(t, DataScopeAll, scope)
	})

	t.Run("own-only grant yields the policy own scope", func(t *testing.T) {
		scope, ok := ScopeFor(RoleTechnician, "jobs", "read")

		require.True(t, ok)
		assert.Equal(t, DataScopeAssigned, scope)
	})

	t.Run("attachments own scope is own", func(t *testing.T) {
		scope, ok := ScopeFor(RoleTechnician, "attachments", "create")

		require.True(t, ok)
		assert.Equal(t, DataScopeOwn, scope)
	})

	t.Run("no grant yields not ok", func(t *testing.T) {
		_, ok := ScopeFor(RoleTechnician, "users", "read")

		assert.False(t, ok)
	})

	t.Run("unknown resource yields not ok", func(t *testing.T) {
		_, ok := ScopeFor(RoleOwner, "payments", "read")

		assert.False(t, ok)
	})
}

func TestPolicyRegistryIsWellFormed(t *testing.T) {
	seenResources := make(map[string]bool)

	for _, policy := range Policies() {
		assert.False(t, seenResources[policy.Resource], "duplicate policy for %s", policy.Resource)
		seenResources[policy.Resource] = true

		require.NotEmpty(t, policy.Rules, "policy %s has no rules", policy.Resource)
		assert.True(t, policy.OwnScope.IsValid(), "policy %s own scope", policy.Resource)

		for _, rule := range policy.Rules {
			_, err := NewPermission(policy.Resource, rule.Action)
			require.NoError(t, err, "policy %s action %s", policy.Resource, rule.Action)
			require.NotEmpty(t, rule.Roles, "policy %s action %s grants nobody", policy.Resource, rule.Action)
			for _, role := range rule.Roles {
				assert.True(t, role.IsValid(), "policy %s action %s role %s", policy.Resource, rule.Action, role)
			}
		}
	}

	// Every resource the HTTP surface exposes must be governed.
	for _, resource := range []string{
		"clients", "people", "contact_methods", "jobs", "tasks",
		"conversations", "users", "attachments", "feature_flags",
		"activity_logs", "imports", "documents",
	} {
		assert.True(t, seenResources[resource], "no policy registered for %s", resource)
	}
}

func TestNewPermissionFromCode(t *testing.T) {
	t.Run("parses valid code", func(t *testing.T) {
		p, err := NewPermissionFromCode("jobs:update_status")

		require.NoError(t, err)
		assert.Equal(t, "jobs", p.Resource)
		assert.Equal(t, "update_status", p.Action)
		assert.Equal(t, "jobs:update_status", p.Code)
	})

	t.Run("rejects missing separator", func(t *testing.T) {
		_, err := NewPermissionFromCode("jobsupdate")

		assert.Error(t, err)
	})

	t.Run("rejects empty parts", func(t *testing.T) {
		_, err := NewPermissionFromCode(":update")
		assert.Error(t, err)

		_, err = NewPermissionFromCode("jobs:")
		assert.Error(t, err)
	})

	t.Run("normalizes case", func(t *testing.T) {
		p, err := NewPermissionFromCode("Jobs:Update")

		require.NoError(t, err)
		assert.Equal(t, "jobs:update", p.Code)
	})
}
