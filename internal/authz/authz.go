// Package authz is the pure role-membership check behind every
// authorization decision in the console.
package authz

import (
	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/session"
)

// Requirement is a single role or a non-empty set of roles. The zero value
// matches nobody.
type Requirement struct {
	roles []roles.Role
}

// One requires exactly role.
func One(role roles.Role) Requirement {
	return Requirement{roles: []roles.Role{role}}
}

// AnyOf requires membership in the given set. An empty set is a programming
// error: "no restriction" is expressed by not attaching a Requirement at all.
func AnyOf(set ...roles.Role) Requirement {
	if len(set) == 0 {
		panic("authz: AnyOf requires at least one role")
	}
	cp := make([]roles.Role, len(set))
	copy(cp, set)
	return Requirement{roles: cp}
}

// Roles returns a copy of the allowed roles.
func (r Requirement) Roles() []roles.Role {
	cp := make([]roles.Role, len(r.roles))
	copy(cp, r.roles)
	return cp
}

// Contains reports whether role is in the set.
func (r Requirement) Contains(role roles.Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Evaluate reports whether user satisfies req. No user, or a user whose role
// is not a recognised role, never passes.
func Evaluate(user *session.User, req Requirement) bool {
	if user == nil || !user.Role.IsValid() {
		return false
	}
	return req.Contains(user.Role)
}
