package identity

// Role represents a user's role in the business
// BOS ships a fixed role set; roles are not tenant-editable
type Role string

const (
	// RoleOwner is the business owner with unrestricted access
	RoleOwner Role = "owner"
	// RoleAdmin manages day-to-day operations including users
	RoleAdmin Role = "admin"
	// RoleTechnician performs field work on assigned jobs
	RoleTechnician Role = "technician"
	// RoleCustomerSpecialist handles client communication and scheduling
	RoleCustomerSpecialist Role = "customer_specialist"
)

// AllRoles returns every role in the fixed set, in rank order
func AllRoles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleTechnician, RoleCustomerSpecialist}
}

// IsValid returns true if the role is one of the fixed set
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleTechnician, RoleCustomerSpecialist:
		return true
	default:
		return false
	}
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role
func (r Role) DisplayName() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleAdmin:
		return "Administrator"
	case RoleTechnician:
		return "Technician"
	case RoleCustomerSpecialist:
		return "Customer Specialist"
	default:
		return string(r)
	}
}

// CanManageUsers returns true for roles allowed to administer accounts
func (r Role) CanManageUsers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// DataScope represents the row-level reach of a permission grant:
// every row in the tenant, rows assigned to the acting user, or rows
// the acting user created.
type DataScope string

const (
	DataScopeAll      DataScope = "all"
	DataScopeAssigned DataScope = "assigned"
	DataScopeOwn      DataScope = "own"
)

// IsValid returns true if the data scope is valid
func (s DataScope) IsValid() bool {
	switch s {
	case DataScopeAll, DataScopeAssigned, DataScopeOwn:
		return true
	default:
		return false
	}
}

// String returns the string representation of DataScope
func (s DataScope) String() string {
	return string(s)
}
