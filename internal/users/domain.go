package users

import (
	"time"

	"github.com/odyssey-erp/admin-console/internal/backend"
	"github.com/odyssey-erp/admin-console/internal/roles"
)

// User represents a console account for management.
type User struct {
	ID        backend.ID `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      roles.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CreateInput carries the fields needed to open an account.
type CreateInput struct {
	Email    string     `json:"email" validate:"required,email"`
	Name     string     `json:"name" validate:"required,max=255"`
	Role     roles.Role `json:"role" validate:"required,role"`
	Password string     `json:"password" validate:"required,min=8"`
}

// UpdateInput changes profile fields. An empty password keeps the current one.
type UpdateInput struct {
	Email    string     `json:"email" validate:"required,email"`
	Name     string     `json:"name" validate:"required,max=255"`
	Role     roles.Role `json:"role" validate:"required,role"`
	Password string     `json:"password,omitempty" validate:"omitempty,min=8"`
}
