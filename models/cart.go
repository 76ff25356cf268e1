package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's pending cart. At most one row exists per
// (user, item) pair; a repeat add bumps Quantity on the existing row.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_user_item" json:"user_id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_item" json:"item_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Item      *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
