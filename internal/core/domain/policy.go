package domain

// Role policy for user management. Every access decision that depends on the
// actor's role goes through these functions; handlers and services never
// compare roles inline.

// CanAssignRole reports whether actor may create a user with, or change a user
// to, the target role. Only super_admin may hand out admin or super_admin.
func CanAssignRole(actor, target Role) bool {
	if !actor.IsStaff() {
		return false
	}
	if target == RoleSuperAdmin || target == RoleAdmin {
		return actor == RoleSuperAdmin
	}
	return true
}

// CanManageUser reports whether actor may edit an account whose current role
// is target. An admin may only manage client accounts.
func CanManageUser(actor, target Role) bool {
	if !actor.IsStaff() {
		return false
	}
	if target == RoleSuperAdmin || target == RoleAdmin {
		return actor == RoleSuperAdmin
	}
	return true
}

// CanDeactivateUser reports whether actor may soft-delete accounts at all.
// The self-deactivation guard is checked separately against the target id.
func CanDeactivateUser(actor Role) bool {
	return actor == RoleSuperAdmin
}

// CanManageRequests reports whether actor may read or mutate service requests
// (list, stats, get, status/priority/assignment, notes).
func CanManageRequests(actor Role) bool {
	return actor.IsStaff()
}

// CanDeleteRequest reports whether actor may hard-delete a service request.
func CanDeleteRequest(actor Role) bool {
	return actor == RoleSuperAdmin
}

// CanLogin reports whether an account with the given role may authenticate.
// Client accounts are rejected even with correct credentials.
func CanLogin(actor Role) bool {
	return actor.IsStaff()
}
