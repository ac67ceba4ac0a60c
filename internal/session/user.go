// Package session owns the console's authentication state: who is logged in,
// with which bearer token, and the login/logout/hydration state machine.
package session

import (
	"time"

	"github.com/odyssey-erp/admin-console/internal/roles"
)

// User is the identity record returned by the backend.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      roles.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

// RoleLabel returns the display label for the user's role.
func (u *User) RoleLabel() string {
	if u == nil {
		return ""
	}
	return u.Role.Label()
}

// State enumerates the lifecycle of a Store.
type State int

const (
	Uninitialized State = iota
	Loading
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of a Store at one point in time.
type Snapshot struct {
	State State
	Token string
	User  *User
}

// IsLoading reports whether hydration is still in flight.
func (s Snapshot) IsLoading() bool {
	return s.State == Loading || s.State == Uninitialized
}

// IsAuthenticated is true only when token and user are both present and the
// last backend validation succeeded.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == Authenticated && s.Token != "" && s.User != nil
}
