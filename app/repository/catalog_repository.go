package repository

import (
	"github.com/creatorkart/CreatorKart/app/models"
	"gorm.io/gorm"
)

// influencerRepository implements the InfluencerRepository interface
type influencerRepository struct {
	db *gorm.DB
}

// NewInfluencerRepository creates a new influencer catalog repository instance
func NewInfluencerRepository(db *gorm.DB) InfluencerRepository {
	return &influencerRepository{db: db}
}

// GetByID retrieves a catalog influencer by ID
func (r *influencerRepository) GetByID(id uint) (*models.Influencer, error) {
	var influencer models.Influencer
	err := r.db.First(&influencer, id).Error
	if err != nil {
		return nil, err
	}
	return &influencer, nil
}

// List retrieves influencers with pagination
func (r *influencerRepository) List(offset, limit int) ([]models.Influencer, error) {
	var influencers []models.Influencer
	err := r.db.Offset(offset).Limit(limit).Order("followers DESC").Find(&influencers).Error
	return influencers, err
}

// ListActive retrieves active influencers with pagination
func (r *influencerRepository) ListActive(offset, limit int) ([]models.Influencer, error) {
	var influencers []models.Influencer
	err := r.db.Where("is_active = ?", true).Offset(offset).Limit(limit).Order("followers DESC").Find(&influencers).Error
	return influencers, err
}

// Count returns the total number of catalog influencers
func (r *influencerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Influencer{}).Count(&count).Error
	return count, err
}

// websiteListingRepository implements the WebsiteListingRepository interface
type websiteListingRepository struct {
	db *gorm.DB
}

// NewWebsiteListingRepository creates a new website listing catalog repository instance
func NewWebsiteListingRepository(db *gorm.DB) WebsiteListingRepository {
	return &websiteListingRepository{db: db}
}

// GetByID retrieves a website listing by ID
func (r *websiteListingRepository) GetByID(id uint) (*models.WebsiteListing, error) {
	var listing models.WebsiteListing
	err := r.db.First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// List retrieves website listings with pagination
func (r *websiteListingRepository) List(offset, limit int) ([]models.WebsiteListing, error) {
	var listings []models.WebsiteListing
	err := r.db.Offset(offset).Limit(limit).Order("domain_rating DESC").Find(&listings).Error
	return listings, err
}

// ListActive retrieves active website listings with pagination
func (r *websiteListingRepository) ListActive(offset, limit int) ([]models.WebsiteListing, error) {
	var listings []models.WebsiteListing
	err := r.db.Where("is_active = ?", true).Offset(offset).Limit(limit).Order("domain_rating DESC").Find(&listings).Error
	return listings, err
}

// Count returns the total number of website listings
func (r *websiteListingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.WebsiteListing{}).Count(&count).Error
	return count, err
}
