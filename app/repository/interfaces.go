package repository

import (
	"context"
	"time"

	"github.com/creatorkart/CreatorKart/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations.
// Proposals only ever resolve an existing operator, so the surface stays small.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
}

// InfluencerRepository defines read access to the influencer catalog
type InfluencerRepository interface {
	GetByID(id uint) (*models.Influencer, error)
	List(offset, limit int) ([]models.Influencer, error)
	ListActive(offset, limit int) ([]models.Influencer, error)
	Count() (int64, error)
}

// WebsiteListingRepository defines read access to the website (DR) catalog
type WebsiteListingRepository interface {
	GetByID(id uint) (*models.WebsiteListing, error)
	List(offset, limit int) ([]models.WebsiteListing, error)
	ListActive(offset, limit int) ([]models.WebsiteListing, error)
	Count() (int64, error)
}

// CartRepository defines the interface for cart and line item operations
type CartRepository interface {
	Create(cart *models.Cart) error
	GetByID(id uint) (*models.Cart, error)
	GetWithItems(id uint) (*models.Cart, error)
	Delete(id uint) error
	GetItems(cartID uint) ([]models.LineItem, error)
	AddItems(cartID uint, items []models.LineItem) error
	UpdateItem(item *models.LineItem) error
	DeleteItems(cartID uint) error
	DeleteItemsByID(cartID uint, itemIDs []uint) error
	UpdateItemApproval(itemID uint, approved bool) error
}

// CheckoutRepository defines the interface for checkout ledger operations
type CheckoutRepository interface {
	Create(checkout *models.Checkout) error
	GetByID(id uint) (*models.Checkout, error)
	GetByCartID(cartID uint) (*models.Checkout, error)
	UpdateTotal(id uint, total decimal.Decimal) error
	Delete(id uint) error
}

// BillingDetailRepository defines the interface for billing record operations
type BillingDetailRepository interface {
	Create(detail *models.BillingDetail) error
	GetByCheckoutID(checkoutID uint) (*models.BillingDetail, error)
	Update(detail *models.BillingDetail) error
	Delete(id uint) error
}

// ProposalTokenRepository defines the interface for proposal token operations
type ProposalTokenRepository interface {
	Create(token *models.ProposalToken) error
	GetByToken(token string) (*models.ProposalToken, error)
	GetLatestByCartID(cartID uint) (*models.ProposalToken, error)
	// MarkUsed flips is_used from false to true in a single guarded update.
	// It reports false when the token was already used, so concurrent
	// submissions cannot both succeed.
	MarkUsed(id uint, usedAt time.Time) (bool, error)
}

// Repositories bundles all repository instances behind one injectable handle.
// Multi-entity mutations go through WithTx.
type Repositories struct {
	db             *gorm.DB
	User           UserRepository
	Influencer     InfluencerRepository
	WebsiteListing WebsiteListingRepository
	Cart           CartRepository
	Checkout       CheckoutRepository
	BillingDetail  BillingDetailRepository
	ProposalToken  ProposalTokenRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		User:           NewUserRepository(db),
		Influencer:     NewInfluencerRepository(db),
		WebsiteListing: NewWebsiteListingRepository(db),
		Cart:           NewCartRepository(db),
		Checkout:       NewCheckoutRepository(db),
		BillingDetail:  NewBillingDetailRepository(db),
		ProposalToken:  NewProposalTokenRepository(db),
	}
}

// DB exposes the underlying handle for callers that need raw access, e.g.
// migrations and test fixtures.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// WithTx runs fn inside one database transaction. The Repositories value
// passed to fn is bound to the transaction, so every repository call inside
// fn commits or rolls back as a unit.
func (r *Repositories) WithTx(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
