package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WebsiteListing is the second catalog variant: a website placement sold by
// domain rating ("DR" listing). Parallel to Influencer.
type WebsiteListing struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Domain         string          `gorm:"type:varchar(200);uniqueIndex;not null" json:"domain" validate:"required,max=200"`
	DomainRating   int             `gorm:"not null;default:0" json:"domain_rating" validate:"min=0,max=100"`
	MonthlyTraffic int64           `gorm:"not null;default:0" json:"monthly_traffic" validate:"min=0"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Language       string          `gorm:"type:varchar(50)" json:"language"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (w *WebsiteListing) Validate() error {
	v := validator.New()

	return v.Struct(w)
}
