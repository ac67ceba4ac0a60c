package categories

import (
	"time"

	"github.com/odyssey-erp/admin-console/internal/backend"
)

// Category groups subcategories.
type Category struct {
	ID          backend.ID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SubCategory belongs to one Category. CategoryName is filled in by the
// backend.
type SubCategory struct {
	ID           backend.ID `json:"id"`
	Name         string     `json:"name"`
	Category     backend.ID `json:"category"`
	CategoryName string     `json:"category_name"`
	Description  string     `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// SubCategoryInput is the writable part of a subcategory.
type SubCategoryInput struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Category    backend.ID `json:"category" validate:"required"`
	Description string     `json:"description"`
}
