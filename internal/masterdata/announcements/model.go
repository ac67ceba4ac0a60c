package announcements

import (
	"time"

	"github.com/odyssey-erp/admin-console/internal/backend"
)

// Announcement is a notice shown to console users.
type Announcement struct {
	ID        backend.ID `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Input is the writable part of an announcement. CreatedBy is only sent on
// create.
type Input struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
	CreatedBy string `json:"createdBy,omitempty" form:"-"`
}
