package repository

import (
	"time"

	"github.com/creatorkart/CreatorKart/app/models"
	"gorm.io/gorm"
)

// proposalTokenRepository implements the ProposalTokenRepository interface
type proposalTokenRepository struct {
	db *gorm.DB
}

// NewProposalTokenRepository creates a new proposal token repository instance
func NewProposalTokenRepository(db *gorm.DB) ProposalTokenRepository {
	return &proposalTokenRepository{db: db}
}

// Create creates a new proposal token row
func (r *proposalTokenRepository) Create(token *models.ProposalToken) error {
	return r.db.Create(token).Error
}

// GetByToken retrieves a proposal token by its token string
func (r *proposalTokenRepository) GetByToken(token string) (*models.ProposalToken, error) {
	var pt models.ProposalToken
	err := r.db.Where("token = ?", token).First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// GetLatestByCartID retrieves the newest token minted for a cart. Older rows
// stay in storage but are unreachable through this lookup, which is what
// supersedes them on resend.
func (r *proposalTokenRepository) GetLatestByCartID(cartID uint) (*models.ProposalToken, error) {
	var pt models.ProposalToken
	err := r.db.Where("cart_id = ?", cartID).Order("id DESC").First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// MarkUsed burns the token with a compare-and-set on is_used. The WHERE
// clause keeps the check and the write in one statement so two concurrent
// submissions cannot both observe is_used=false.
func (r *proposalTokenRepository) MarkUsed(id uint, usedAt time.Time) (bool, error) {
	res := r.db.Model(&models.ProposalToken{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": usedAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
