package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkout is the durable ledger entry for a cart's committed total. The
// total is always derived from the cart's current line items plus the billing
// terms; it is never edited outside the recompute path.
type Checkout struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CartID        uint            `gorm:"not null;uniqueIndex" json:"cart_id"`
	Cart          *Cart           `gorm:"foreignKey:CartID" json:"-"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	BillingDetail *BillingDetail  `gorm:"foreignKey:CheckoutID" json:"billing_detail,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
