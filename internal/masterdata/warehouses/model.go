package warehouses

import (
	"time"

	"github.com/odyssey-erp/admin-console/internal/backend"
)

// Warehouse represents a warehouse entity
type Warehouse struct {
	ID        backend.ID `json:"id"`
	City      string     `json:"city"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Input is the writable part of a warehouse.
type Input struct {
	City      string  `json:"city" validate:"required,max=255"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}
