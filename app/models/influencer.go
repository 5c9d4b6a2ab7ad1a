package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Influencer is a catalog entry: a creator slot an operator can put on a
// proposal. The catalog is read-only to the proposal core; prices here are
// list prices which get snapshotted (and possibly overridden) onto line items.
type Influencer struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Handle    string          `gorm:"type:varchar(150);uniqueIndex;not null" json:"handle" validate:"required,max=150"`
	Platform  string          `gorm:"type:varchar(50);not null" json:"platform" validate:"required,oneof=youtube twitter instagram tiktok twitch"`
	Followers int64           `gorm:"not null;default:0" json:"followers" validate:"min=0"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category  string          `gorm:"type:varchar(100)" json:"category"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (i *Influencer) Validate() error {
	v := validator.New()

	return v.Struct(i)
}
