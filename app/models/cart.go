package models

import (
	"time"
)

// Cart is the ordered collection of line items behind one proposal. A cart is
// owned by at most one proposal workflow instance at a time and has at most
// one checkout.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    *uint      `gorm:"index" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Items     []LineItem `gorm:"foreignKey:CartID" json:"items"`
	Checkout  *Checkout  `gorm:"foreignKey:CartID" json:"checkout,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
