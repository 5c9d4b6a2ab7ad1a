package repository

import (
	"github.com/creatorkart/CreatorKart/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// checkoutRepository implements the CheckoutRepository interface
type checkoutRepository struct {
	db *gorm.DB
}

// NewCheckoutRepository creates a new checkout repository instance
func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

// Create creates a new checkout ledger row
func (r *checkoutRepository) Create(checkout *models.Checkout) error {
	return r.db.Create(checkout).Error
}

// GetByID retrieves a checkout by ID
func (r *checkoutRepository) GetByID(id uint) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.First(&checkout, id).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// GetByCartID retrieves the checkout belonging to a cart
func (r *checkoutRepository) GetByCartID(cartID uint) (*models.Checkout, error) {
	var checkout models.Checkout
	err := r.db.Where("cart_id = ?", cartID).First(&checkout).Error
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// UpdateTotal writes the recomputed total amount
func (r *checkoutRepository) UpdateTotal(id uint, total decimal.Decimal) error {
	return r.db.Model(&models.Checkout{}).Where("id = ?", id).
		Update("total_amount", total).Error
}

// Delete removes a checkout row
func (r *checkoutRepository) Delete(id uint) error {
	return r.db.Delete(&models.Checkout{}, id).Error
}

// billingDetailRepository implements the BillingDetailRepository interface
type billingDetailRepository struct {
	db *gorm.DB
}

// NewBillingDetailRepository creates a new billing detail repository instance
func NewBillingDetailRepository(db *gorm.DB) BillingDetailRepository {
	return &billingDetailRepository{db: db}
}

// Create creates a new billing detail row
func (r *billingDetailRepository) Create(detail *models.BillingDetail) error {
	return r.db.Create(detail).Error
}

// GetByCheckoutID retrieves the billing detail belonging to a checkout
func (r *billingDetailRepository) GetByCheckoutID(checkoutID uint) (*models.BillingDetail, error) {
	var detail models.BillingDetail
	err := r.db.Where("checkout_id = ?", checkoutID).First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update persists all fields of an existing billing detail
func (r *billingDetailRepository) Update(detail *models.BillingDetail) error {
	return r.db.Save(detail).Error
}

// Delete removes a billing detail row
func (r *billingDetailRepository) Delete(id uint) error {
	return r.db.Delete(&models.BillingDetail{}, id).Error
}
