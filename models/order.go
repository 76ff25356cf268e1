package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the durable record of a completed checkout. It is created exactly
// once per successful charge and never mutated afterwards.
type Order struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Total  int       `gorm:"not null" json:"total"`
	Charge string    `gorm:"not null" json:"charge"` // gateway charge reference

	BillingAddressCity        string `json:"billing_address_city"`
	BillingAddressCountry     string `json:"billing_address_country"`
	BillingAddressCountryCode string `json:"billing_address_country_code"`
	BillingAddressLine1       string `json:"billing_address_line1"`
	BillingAddressState       string `json:"billing_address_state"`
	BillingAddressZip         string `json:"billing_address_zip"`
	BillingName               string `json:"billing_name"`

	ShippingAddressCity        string `json:"shipping_address_city"`
	ShippingAddressCountry     string `json:"shipping_address_country"`
	ShippingAddressCountryCode string `json:"shipping_address_country_code"`
	ShippingAddressLine1       string `json:"shipping_address_line1"`
	ShippingAddressState       string `json:"shipping_address_state"`
	ShippingAddressZip         string `json:"shipping_address_zip"`
	ShippingName               string `json:"shipping_name"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// OrderItem is an immutable snapshot of an Item at purchase time. It carries
// its own identity and no reference back to the live catalog row, so later
// price or title changes never rewrite purchase history.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `json:"image"`
	Price       int       `gorm:"not null" json:"price"`
	Quantity    int       `gorm:"not null" json:"quantity"`
}

// ChargeResult is the gateway's answer to a charge request. The orchestrator
// persists ChargeID into the Order but does not own the charge's lifecycle.
type ChargeResult struct {
	ChargeID      string `json:"charge_id"`
	AmountCharged int    `json:"amount_charged"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
}
