package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Proposal, invoice and payment status values. The invoice/payment strings
// carry their historical casing because downstream invoice templates match on
// them verbatim.
const (
	PROPOSAL_SENT             = "sent"
	PROPOSAL_ASKED_FOR_CHANGE = "asked_for_change"
	PROPOSAL_APPROVED         = "approved"
	PROPOSAL_REJECTED         = "rejected"

	INVOICE_NOT_PAID  = "Not Paid"
	INVOICE_GENERATED = "generated"
	INVOICE_PAID      = "paid"

	PAYMENT_UNPAID = "Unpaid"
	PAYMENT_PAID   = "Paid"
)

// BillingDetail is the client-facing billing snapshot for one checkout:
// contact fields, fee terms and the status flags the proposal lifecycle
// advances through. TotalAmount mirrors Checkout.TotalAmount and is written
// only by the recompute path.
type BillingDetail struct {
	ID                      uint            `gorm:"primaryKey" json:"id"`
	CheckoutID              uint            `gorm:"not null;uniqueIndex" json:"checkout_id"`
	Checkout                *Checkout       `gorm:"foreignKey:CheckoutID" json:"-"`
	ClientName              string          `gorm:"type:varchar(200)" json:"client_name" validate:"required,max=200"`
	ProjectName             string          `gorm:"type:varchar(200)" json:"project_name" validate:"max=200"`
	ContactEmail            string          `gorm:"type:varchar(200)" json:"contact_email" validate:"required,email"`
	ContactPhone            string          `gorm:"type:varchar(50)" json:"contact_phone" validate:"max=50"`
	ManagementFeePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"management_fee_percentage"`
	Discount                decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount"`
	ProposalStatus          string          `gorm:"type:varchar(50);default:'sent'" json:"proposal_status" validate:"omitempty,oneof=sent asked_for_change approved rejected"`
	InvoiceStatus           string          `gorm:"type:varchar(50);default:'Not Paid'" json:"invoice_status"`
	PaymentStatus           string          `gorm:"type:varchar(50);default:'Unpaid'" json:"payment_status"`
	TotalAmount             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	CreatedAt               time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *BillingDetail) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

// IsDeletable reports whether the proposal may still be torn down. Approved
// proposals and proposals with a generated invoice are locked.
func (b *BillingDetail) IsDeletable() bool {
	return b.ProposalStatus != PROPOSAL_APPROVED && b.InvoiceStatus != INVOICE_GENERATED
}
