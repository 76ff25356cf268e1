package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReconciliationOpen     = "open"
	ReconciliationResolved = "resolved"
)

// ChargeReconciliation records a charge whose follow-up work failed: the
// order row could not be written, or inventory/cart cleanup did not complete.
// Rows stay "open" until an operator refunds the charge or repairs the state.
type ChargeReconciliation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ChargeID  string    `gorm:"not null;index" json:"charge_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	Status    string    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ReconciliationEvent is the kafka payload published alongside a
// ChargeReconciliation row so on-call tooling can pick it up.
type ReconciliationEvent struct {
	Event     string    `json:"event"`
	ChargeID  string    `json:"charge_id"`
	UserID    string    `json:"user_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
