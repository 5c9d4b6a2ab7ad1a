package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorkart/CreatorKart/app/repository"
)

// CatalogController serves the browsable influencer and website catalogs the
// operator picks line items from.
type CatalogController struct {
	repos *repository.Repositories
}

func NewCatalogController(repos *repository.Repositories) *CatalogController {
	return &CatalogController{repos: repos}
}

func paginationParams(c *fiber.Ctx) (offset, limit int) {
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit = c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}

// HandleListInfluencers returns the active influencer catalog page.
func (cc *CatalogController) HandleListInfluencers(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)

	influencers, err := cc.repos.Influencer.ListActive(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	total, err := cc.repos.Influencer.Count()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"influencers": influencers,
		"total":       total,
		"offset":      offset,
		"limit":       limit,
	})
}

// HandleListWebsites returns the active website listing catalog page.
func (cc *CatalogController) HandleListWebsites(c *fiber.Ctx) error {
	offset, limit := paginationParams(c)

	websites, err := cc.repos.WebsiteListing.ListActive(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	total, err := cc.repos.WebsiteListing.Count()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"websites": websites,
		"total":    total,
		"offset":   offset,
		"limit":    limit,
	})
}
