package accesscontrol

// PermissionStore resolves role assignments and role permission sets. Both
// lookups hit the store on every authorization check: there is no cache, so a
// revoked role or permission is gone on the very next call.
type PermissionStore interface {
	GetRoleIDsForUser(userID int64) ([]int64, error)
	GetPermissionNamesForRole(roleID int64) ([]string, error)
}
