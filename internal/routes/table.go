// Package routes holds the static route authorization table and the two
// consumers that must agree on it: the route guard and the navigation filter.
package routes

import (
	"strings"

	"github.com/odyssey-erp/admin-console/internal/authz"
	"github.com/odyssey-erp/admin-console/internal/roles"
)

const (
	LoginPath        = "/login"
	LogoutPath       = "/logout"
	UnauthorizedPath = "/unauthorized"
	DashboardPath    = "/dashboard"
)

// Rule associates a path prefix with an optional role requirement. A nil
// Roles admits any authenticated user.
type Rule struct {
	Path  string
	Label string
	Nav   bool
	Roles *authz.Requirement
}

// Table is an ordered set of rules. Navigation entries appear in table order.
type Table []Rule

func restrict(set ...roles.Role) *authz.Requirement {
	req := authz.AnyOf(set...)
	return &req
}

// Default is the console's route authorization table.
var Default = Table{
	{Path: "/"},
	{Path: DashboardPath, Label: "Dashboard", Nav: true},
	{Path: "/users", Label: "Users", Nav: true, Roles: restrict(roles.PlatformAdmin)},
	{Path: "/warehouses", Label: "Warehouses", Nav: true, Roles: restrict(roles.PlatformAdmin, roles.SupportStaff, roles.WarehouseAdmin)},
	{Path: "/announcements", Label: "Announcements", Nav: true, Roles: restrict(roles.PlatformAdmin, roles.SupportStaff, roles.WarehouseAdmin)},
	{Path: "/categories", Label: "Categories", Nav: true, Roles: restrict(roles.PlatformAdmin)},
}

// Lookup returns the rule with the longest path prefix matching path on a
// segment boundary.
func (t Table) Lookup(path string) (Rule, bool) {
	var (
		best  Rule
		found bool
	)
	for _, rule := range t {
		if !matches(rule.Path, path) {
			continue
		}
		if !found || len(rule.Path) > len(best.Path) {
			best, found = rule, true
		}
	}
	return best, found
}

func matches(prefix, path string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
