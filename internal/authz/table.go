package authz

// Resource names protected by the default table.
const (
	ResourceLeads    = "leads"
	ResourceDeals    = "deals"
	ResourceContacts = "contacts"
	ResourceUsers    = "users"
	ResourceReports  = "reports"
	ResourceSettings = "settings"
)

// PermissionTable maps roles to their granted permissions. It is built once
// at process configuration time and read-only afterwards, so arbitrarily many
// requests may consult it concurrently without synchronization.
type PermissionTable struct {
	grants map[Role][]Permission
}

// NewPermissionTable builds an immutable table from the given grants. Every
// role of the closed enumeration gets an entry, empty if absent from grants,
// so lookups for enumerated roles never miss. The input is deep-copied.
func NewPermissionTable(grants map[Role][]Permission) PermissionTable {
	copied := make(map[Role][]Permission, len(Roles()))

	for _, role := range Roles() {
		perms := grants[role]
		entry := make([]Permission, len(perms))
		copy(entry, perms)
		copied[role] = entry
	}

	return PermissionTable{grants: copied}
}

// Permissions returns the permission set for a role. The second result is
// false for roles outside the closed enumeration; such roles hold no implicit
// grant of any kind.
func (t PermissionTable) Permissions(role Role) ([]Permission, bool) {
	perms, ok := t.grants[role]
	return perms, ok
}

// DefaultPermissionTable returns the built-in role grants of the CRM.
func DefaultPermissionTable() PermissionTable {
	return NewPermissionTable(map[Role][]Permission{
		RoleSuperAdmin: {
			{Resource: ResourceWildcard, Action: ActionRead},
			{Resource: ResourceWildcard, Action: ActionWrite},
			{Resource: ResourceWildcard, Action: ActionDelete},
			{Resource: ResourceWildcard, Action: ActionExport},
			{Resource: ResourceWildcard, Action: ActionShare},
			{Resource: ResourceWildcard, Action: ActionAdmin},
		},
		RoleTenantAdmin: {
			{Resource: ResourceWildcard, Action: ActionRead},
			{Resource: ResourceWildcard, Action: ActionWrite},
			{Resource: ResourceWildcard, Action: ActionDelete},
			{Resource: ResourceWildcard, Action: ActionExport},
			{Resource: ResourceWildcard, Action: ActionShare},
			{Resource: ResourceUsers, Action: ActionAdmin},
			{Resource: ResourceSettings, Action: ActionAdmin},
		},
		RoleManager: {
			{Resource: ResourceLeads, Action: ActionRead},
			{Resource: ResourceLeads, Action: ActionWrite},
			{Resource: ResourceLeads, Action: ActionDelete},
			{Resource: ResourceLeads, Action: ActionExport},
			{Resource: ResourceLeads, Action: ActionShare},
			{Resource: ResourceDeals, Action: ActionRead},
			{Resource: ResourceDeals, Action: ActionWrite},
			{Resource: ResourceDeals, Action: ActionDelete},
			{Resource: ResourceDeals, Action: ActionExport},
			{Resource: ResourceDeals, Action: ActionShare},
			{Resource: ResourceContacts, Action: ActionRead},
			{Resource: ResourceContacts, Action: ActionWrite},
			{Resource: ResourceReports, Action: ActionRead},
			{Resource: ResourceReports, Action: ActionExport},
			{Resource: ResourceUsers, Action: ActionRead},
		},
		RoleSalesUser: {
			{Resource: ResourceLeads, Action: ActionRead},
			{Resource: ResourceLeads, Action: ActionWrite},
			{Resource: ResourceLeads, Action: ActionShare},
			{Resource: ResourceDeals, Action: ActionRead},
			{Resource: ResourceDeals, Action: ActionWrite},
			{Resource: ResourceDeals, Action: ActionShare},
			{Resource: ResourceContacts, Action: ActionRead},
			{Resource: ResourceContacts, Action: ActionWrite},
		},
		RoleSupportUser: {
			{Resource: ResourceLeads, Action: ActionRead},
			{Resource: ResourceDeals, Action: ActionRead},
			{Resource: ResourceContacts, Action: ActionRead},
			{Resource: ResourceContacts, Action: ActionWrite},
		},
		RoleAPIClient: {
			{Resource: ResourceWildcard, Action: ActionRead},
			{Resource: ResourceWildcard, Action: ActionWrite},
		},
		RoleReadOnly: {
			{Resource: ResourceWildcard, Action: ActionRead},
		},
	})
}
