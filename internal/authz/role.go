package authz

// Role is a named category of principal from a closed set, assigned at
// authentication time and immutable within a request.
type Role string

const (
	// RoleSuperAdmin operates across all tenants.
	RoleSuperAdmin Role = "super_admin"
	// RoleTenantAdmin administers a single tenant.
	RoleTenantAdmin Role = "tenant_admin"
	// RoleManager manages the sales entities of a tenant.
	RoleManager Role = "manager"
	// RoleSalesUser works leads and deals.
	RoleSalesUser Role = "sales_user"
	// RoleSupportUser handles support interactions with contacts.
	RoleSupportUser Role = "support_user"
	// RoleAPIClient is a machine integration principal.
	RoleAPIClient Role = "api_client"
	// RoleReadOnly can only view data.
	RoleReadOnly Role = "read_only"
)

// Roles returns all roles in the closed enumeration.
func Roles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleTenantAdmin,
		RoleManager,
		RoleSalesUser,
		RoleSupportUser,
		RoleAPIClient,
		RoleReadOnly,
	}
}

// Valid reports whether the role is part of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleManager, RoleSalesUser, RoleSupportUser, RoleAPIClient, RoleReadOnly:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Action is an operation class applied to a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionShare  Action = "share"
	ActionAdmin  Action = "admin"
)

// Actions returns all actions in the closed enumeration.
func Actions() []Action {
	return []Action{ActionRead, ActionWrite, ActionDelete, ActionExport, ActionShare, ActionAdmin}
}

// Valid reports whether the action is part of the closed enumeration.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDelete, ActionExport, ActionShare, ActionAdmin:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	return string(a)
}

// ResourceWildcard matches any resource. There is no action wildcard.
const ResourceWildcard = "*"

// Permission grants one action on one resource, or on all resources when the
// resource is the wildcard.
type Permission struct {
	Resource string
	Action   Action
}

// Matches reports whether the permission satisfies the required
// resource/action pair.
func (p Permission) Matches(resource string, action Action) bool {
	if p.Action != action {
		return false
	}

	return p.Resource == ResourceWildcard || p.Resource == resource
}
