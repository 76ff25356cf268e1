package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the catalog record the checkout core reads. Catalog management
// itself lives in the product service; this service only consumes price and
// descriptive fields and mutates InventoryLevel during checkout.
type Item struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Image          string    `json:"image"`
	Price          int       `gorm:"not null" json:"price"` // minor currency units
	InventoryLevel int       `gorm:"not null;default:0" json:"inventory_level"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
