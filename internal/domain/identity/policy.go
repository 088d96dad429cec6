package identity

import (
	"sort"
)

// PolicyRule grants one action on a resource to a set of roles.
// OwnOnly restricts the grant to rows within the acting user's reach
// (the policy's OwnScope decides whether that means assigned or created).
type PolicyRule struct {
	Action  string
	Roles   []Role
	OwnOnly bool
}

// Policy declares who may do what on one resource. OwnScope is the
// row-level filter applied when a rule is marked OwnOnly.
type Policy struct {
	Resource string
	OwnScope DataScope
	Rules    []PolicyRule
}

// allStaff is shorthand for the three office roles (everyone but technicians)
var allStaff = []Role{RoleOwner, RoleAdmin, RoleCustomerSpecialist}

// admins is shorthand for the two administrative roles
var admins = []Role{RoleOwner, RoleAdmin}

// everyone is shorthand for the full role set
var everyone = []Role{RoleOwner, RoleAdmin, RoleTechnician, RoleCustomerSpecialist}

// policyRegistry is the single source of truth for authorization.
// Permissions are compiled from it at startup and embedded in JWT claims;
// anything not granted here is denied.
var policyRegistry = []Policy{
	{
		Resource: "clients",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "create", Roles: allStaff},
			{Action: "read", Roles: everyone},
			{Action: "update", Roles: allStaff},
			{Action: "archive", Roles: allStaff},
			{Action: "delete", Roles: admins},
		},
	},
	{
		Resource: "people",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "create", Roles: allStaff},
			{Action: "read", Roles: everyone},
			{Action: "update", Roles: allStaff},
			{Action: "delete", Roles: admins},
		},
	},
	{
		Resource: "contact_methods",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "create", Roles: allStaff},
			{Action: "read", Roles: everyone},
			{Action: "update", Roles: allStaff},
			{Action: "delete", Roles: allStaff},
		},
	},
	{
		Resource: "jobs",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "create", Roles: allStaff},
			{Action: "read", Roles: allStaff},
			{Action: "read", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "update", Roles: allStaff},
			{Action: "update", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "update_status", Roles: allStaff},
			{Action: "update_status", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "assign", Roles: allStaff},
			{Action: "delete", Roles: admins},
		},
	},
	{
		Resource: "tasks",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "create", Roles: allStaff},
			{Action: "create", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "read", Roles: allStaff},
			{Action: "read", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "update", Roles: allStaff},
			{Action: "update", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "reorder", Roles: allStaff},
			{Action: "reorder", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "delete", Roles: allStaff},
		},
	},
	{
		Resource: "conversations",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "read", Roles: allStaff},
			{Action: "link", Roles: allStaff},
			{Action: "unlink", Roles: allStaff},
			{Action: "sync", Roles: admins},
		},
	},
	{
		Resource: "users",
		OwnScope: DataScopeOwn,
		Rules: []PolicyRule{
			{Action: "create", Roles: admins},
			{Action: "read", Roles: admins},
			{Action: "update", Roles: admins},
			{Action: "change_role", Roles: admins},
			{Action: "delete", Roles: []Role{RoleOwner}},
		},
	},
	{
		Resource: "attachments",
		OwnScope: DataScopeOwn,
		Rules: []PolicyRule{
			{Action: "create", Roles: allStaff},
			{Action: "create", Roles: []Role{RoleTechnician}, OwnOnly: true},
			{Action: "read", Roles: everyone},
			{Action: "delete", Roles: admins},
		},
	},
	{
		Resource: "feature_flags",
		OwnScope: DataScopeAll,
		Rules: []PolicyRule{
			{Action: "read", Roles: admins},
			{Action: "manage", Roles: []Role{RoleOwner}},
		},
	},
	{
		Resource: "activity_logs",
		OwnScope: DataScopeOwn,
		Rules: []PolicyRule{
			{Action: "read", Roles: allStaff},
		},
	},
	{
		Resource: "imports",
		OwnScope: DataScopeOwn,
		Rules: []PolicyRule{
			{Action: "create", Roles: admins},
			{Action: "read", Roles: admins},
		},
	},
	{
		Resource: "documents",
		OwnScope: DataScopeAssigned,
		Rules: []PolicyRule{
			{Action: "render", Roles: allStaff},
			{Action: "render", Roles: []Role{RoleTechnician}, OwnOnly: true},
		},
	},
	{
		Resource: "tenants",
		OwnScope: DataScopeAll,
		Rules: []PolicyRule{
			{Action: "read", Roles: admins},
			{Action: "manage", Roles: []Role{RoleOwner}},
		},
	},
	{
		Resource: "outbox",
		OwnScope: DataScopeAll,
		Rules: []PolicyRule{
			{Action: "read", Roles: admins},
			{Action: "retry", Roles: admins},
		},
	},
}

// Policies returns the registered policies
func Policies() []Policy {
	return policyRegistry
}

// CompilePermissions walks the policy registry and returns the sorted,
// deduplicated permission codes granted to a role. The output is
// deterministic so it can be embedded in tokens and compared in tests.
func CompilePermissions(role Role) []string {
	seen := make(map[string]bool)
	codes := make([]string, 0, 32)

	for _, policy := range policyRegistry {
		for _, rule := range policy.Rules {
			if !ruleAppliesTo(rule, role) {
				continue
			}
			code := policy.Resource + ":" + rule.Action
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}

	sort.Strings(codes)
	return codes
}

// CompileMatrix returns the permission codes for every role in the fixed
// set. This is what GET /auth/permissions serves.
func CompileMatrix() map[Role][]string {
	matrix := make(map[Role][]string, len(AllRoles()))
	for _, role := range AllRoles() {
		matrix[role] = CompilePermissions(role)
	}
	return matrix
}

// Allows reports whether a role may perform action on resource.
// Unknown resources and unknown actions are denied.
func Allows(role Role, resource, action string) bool {
	for _, policy := range policyRegistry {
		if policy.Resource != resource {
			continue
		}
		for _, rule := range policy.Rules {
			if rule.Action == action && ruleAppliesTo(rule, role) {
				return true
			}
		}
		return false
	}
	return false
}

// ScopeFor returns the row-level scope a role has when performing action
// on resource. A grant without OwnOnly yields DataScopeAll; a grant only
// through an OwnOnly rule yields the policy's OwnScope. The second return
// is false when the role has no grant at all.
func ScopeFor(role Role, resource, action string) (DataScope, bool) {
	for _, policy := range policyRegistry {
		if policy.Resource != resource {
			continue
		}
		ownOnly := false
		for _, rule := range policy.Rules {
			if rule.Action != action || !ruleAppliesTo(rule, role) {
				continue
			}
			if !rule.OwnOnly {
				return DataScopeAll, true
			}
			ownOnly = true
		}
		if ownOnly {
			return policy.OwnScope, true
		}
		return "", false
	}
	return "", false
}

func ruleAppliesTo(rule PolicyRule, role Role) bool {
	for _, r := range rule.Roles {
		if r == role {
			return true
		}
	}
	return false
}
