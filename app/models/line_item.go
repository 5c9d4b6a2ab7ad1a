package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	ITEM_TYPE_INFLUENCER = "influencer"
	ITEM_TYPE_WEBSITE    = "website"
)

// LineItem is one priced unit inside a cart: either an influencer slot or a
// website (DR) listing. Name and price are snapshotted from the catalog at the
// time the proposal is built so later catalog edits do not change an offer
// already sent to a client.
type LineItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CartID           uint            `gorm:"not null;index" json:"cart_id"`
	ItemType         string          `gorm:"type:varchar(20);not null" json:"item_type" validate:"required,oneof=influencer website"`
	CatalogID        uint            `gorm:"not null;index" json:"catalog_id" validate:"required"`
	Name             string          `gorm:"type:varchar(200)" json:"name"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity         int             `gorm:"not null;default:1" json:"quantity" validate:"min=1"`
	Note             string          `gorm:"type:text" json:"note,omitempty"`
	ProofOfWork      string          `gorm:"type:text" json:"proof_of_work,omitempty"`
	IsClientApproved bool            `gorm:"not null;default:false" json:"is_client_approved"`
	Position         int             `gorm:"not null;default:0" json:"position"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (li *LineItem) Validate() error {
	v := validator.New()

	return v.Struct(li)
}

// LineTotal returns price multiplied by quantity.
func (li *LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
