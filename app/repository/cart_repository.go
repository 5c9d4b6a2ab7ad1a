package repository

import (
	"github.com/creatorkart/CreatorKart/app/models"
	"gorm.io/gorm"
)

// cartRepository implements the CartRepository interface
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository instance
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// Create creates a new cart, including any line items already attached
func (r *cartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// GetByID retrieves a cart by ID without its items
func (r *cartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.First(&cart, id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetWithItems retrieves a cart with its line items in position order
func (r *cartRepository) GetWithItems(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_items.position ASC, line_items.id ASC")
	}).First(&cart, id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Delete removes a cart row
func (r *cartRepository) Delete(id uint) error {
	return r.db.Delete(&models.Cart{}, id).Error
}

// GetItems retrieves the line items of a cart in position order
func (r *cartRepository) GetItems(cartID uint) ([]models.LineItem, error) {
	var items []models.LineItem
	err := r.db.Where("cart_id = ?", cartID).Order("position ASC, id ASC").Find(&items).Error
	return items, err
}

// AddItems inserts line items for a cart
func (r *cartRepository) AddItems(cartID uint, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = cartID
	}
	return r.db.Create(&items).Error
}

// UpdateItem persists all fields of an existing line item
func (r *cartRepository) UpdateItem(item *models.LineItem) error {
	return r.db.Save(item).Error
}

// DeleteItems removes all line items of a cart
func (r *cartRepository) DeleteItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.LineItem{}).Error
}

// DeleteItemsByID removes the given line items of a cart
func (r *cartRepository) DeleteItemsByID(cartID uint, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.Where("cart_id = ? AND id IN ?", cartID, itemIDs).Delete(&models.LineItem{}).Error
}

// UpdateItemApproval sets the client approval flag on one line item
func (r *cartRepository) UpdateItemApproval(itemID uint, approved bool) error {
	return r.db.Model(&models.LineItem{}).Where("id = ?", itemID).
		Update("is_client_approved", approved).Error
}
