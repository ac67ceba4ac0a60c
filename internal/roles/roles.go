// Package roles is the closed registry of console roles.
package roles

// Role is an access level assigned to a user by the backend.
type Role string

const (
	PlatformAdmin  Role = "platform_admin"
	SupportStaff   Role = "support_staff"
	WarehouseAdmin Role = "warehouse_admin"
)

var labels = map[Role]string{
	PlatformAdmin:  "Platform Admin",
	SupportStaff:   "Support Staff",
	WarehouseAdmin: "Warehouse Admin",
}

// All returns every valid role in declaration order.
func All() []Role {
	return []Role{PlatformAdmin, SupportStaff, WarehouseAdmin}
}

// Parse identifies a backend role string.
func Parse(raw string) (Role, bool) {
	r := Role(raw)
	if !r.IsValid() {
		return "", false
	}
	return r, true
}

// IsValid reports whether r belongs to the closed set.
func (r Role) IsValid() bool {
	_, ok := labels[r]
	return ok
}

// Label returns the human readable name of r.
func (r Role) Label() string {
	if l, ok := labels[r]; ok {
		return l
	}
	return "Unknown"
}

func (r Role) String() string {
	return string(r)
}
