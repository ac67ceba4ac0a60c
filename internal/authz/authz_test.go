package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/admin-console/internal/roles"
	"github.com/odyssey-erp/admin-console/internal/session"
)

// subsets enumerates every non-empty subset of the role registry.
func subsets() [][]roles.Role {
	all := roles.All()
	var out [][]roles.Role
	for mask := 1; mask < 1<<len(all); mask++ {
		var set []roles.Role
		for i, r := range all {
			if mask&(1<<i) != 0 {
				set = append(set, r)
			}
		}
		out = append(out, set)
	}
	return out
}

func TestEvaluateIsSetMembership(t *testing.T) {
	for _, set := range subsets() {
		req := AnyOf(set...)
		for _, r := range roles.All() {
			user := &session.User{ID: "1", Role: r}
			expected := false
			for _, allowed := range set {
				if allowed == r {
					expected = true
				}
			}
			assert.Equal(t, expected, Evaluate(user, req), "role %s set %v", r, set)
		}
		assert.False(t, Evaluate(nil, req), "no user never passes")
	}
}

func TestEvaluateSingleRole(t *testing.T) {
	req := One(roles.PlatformAdmin)
	assert.True(t, Evaluate(&session.User{Role: roles.PlatformAdmin}, req))
	assert.False(t, Evaluate(&session.User{Role: roles.SupportStaff}, req))
	assert.False(t, Evaluate(nil, req))
}

func TestEvaluateUnknownRoleFailsEverything(t *testing.T) {
	user := &session.User{ID: "1", Role: roles.Role("")}
	for _, set := range subsets() {
		assert.False(t, Evaluate(user, AnyOf(set...)))
	}
	assert.False(t, Evaluate(user, Requirement{}))
}

func TestAnyOfRejectsEmptySet(t *testing.T) {
	assert.Panics(t, func() { AnyOf() })
}

func TestRolesReturnsCopy(t *testing.T) {
	req := AnyOf(roles.PlatformAdmin, roles.SupportStaff)
	got := req.Roles()
	got[0] = roles.WarehouseAdmin
	assert.True(t, req.Contains(roles.PlatformAdmin))
}
