package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
)

// ProposalController exposes the operator-facing proposal endpoints.
type ProposalController struct {
	service *proposal.Service
}

// NewProposalController creates a proposal controller around the workflow service.
func NewProposalController(service *proposal.Service) *ProposalController {
	return &ProposalController{service: service}
}

type itemRequest struct {
	ItemType    string           `json:"item_type" validate:"required,oneof=influencer website"`
	CatalogID   uint             `json:"catalog_id" validate:"required"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    int              `json:"quantity" validate:"min=0"`
	Note        string           `json:"note,omitempty"`
	ProofOfWork string           `json:"proof_of_work,omitempty"`
}

type billingInfoRequest struct {
	ClientName              string          `json:"client_name" validate:"required"`
	ProjectName             string          `json:"project_name"`
	ContactEmail            string          `json:"contact_email" validate:"required,email"`
	ContactPhone            string          `json:"contact_phone"`
	ManagementFeePercentage decimal.Decimal `json:"management_fee_percentage"`
	Discount                decimal.Decimal `json:"discount"`
}

type billingUpdateRequest struct {
	ClientName              *string          `json:"client_name,omitempty"`
	ProjectName             *string          `json:"project_name,omitempty"`
	ContactEmail            *string          `json:"contact_email,omitempty"`
	ContactPhone            *string          `json:"contact_phone,omitempty"`
	ManagementFeePercentage *decimal.Decimal `json:"management_fee_percentage,omitempty"`
	Discount                *decimal.Decimal `json:"discount,omitempty"`
}

type createProposalRequest struct {
	UserID      uint               `json:"user_id" validate:"required"`
	BillingInfo billingInfoRequest `json:"billing_info" validate:"required"`
	Items       []itemRequest      `json:"items" validate:"required,min=1,dive"`
}

type editProposalRequest struct {
	BillingInfo billingUpdateRequest `json:"billing_info"`
	Items       []itemRequest        `json:"items" validate:"required,min=1,dive"`
}

func toItemInputs(items []itemRequest) []proposal.ItemInput {
	inputs := make([]proposal.ItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, proposal.ItemInput{
			ItemType:    it.ItemType,
			CatalogID:   it.CatalogID,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Note:        it.Note,
			ProofOfWork: it.ProofOfWork,
		})
	}
	return inputs
}

func toBillingInput(b billingInfoRequest) proposal.BillingInput {
	return proposal.BillingInput{
		ClientName:              b.ClientName,
		ProjectName:             b.ProjectName,
		ContactEmail:            b.ContactEmail,
		ContactPhone:            b.ContactPhone,
		ManagementFeePercentage: b.ManagementFeePercentage,
		Discount:                b.Discount,
	}
}

func toBillingUpdate(b billingUpdateRequest) proposal.BillingUpdate {
	return proposal.BillingUpdate{
		ClientName:              b.ClientName,
		ProjectName:             b.ProjectName,
		ContactEmail:            b.ContactEmail,
		ContactPhone:            b.ContactPhone,
		ManagementFeePercentage: b.ManagementFeePercentage,
		Discount:                b.Discount,
	}
}

// HandleCreateProposal builds a proposal and returns the checkout summary.
func (pc *ProposalController) HandleCreateProposal(c *fiber.Ctx) error {
	var req createProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := pc.service.Create(c.Context(), proposal.CreateInput{
		UserID:  req.UserID,
		Billing: toBillingInput(req.BillingInfo),
		Items:   toItemInputs(req.Items),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"checkout_id":  res.CheckoutID,
		"cart_id":      res.CartID,
		"total_amount": res.TotalAmount,
		"email":        res.Email,
	})
}

// HandleCreateProposalToken builds a proposal and hands back only the token;
// the proposal itself reaches the client through the notification mail.
func (pc *ProposalController) HandleCreateProposalToken(c *fiber.Ctx) error {
	var req createProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := pc.service.Create(c.Context(), proposal.CreateInput{
		UserID:  req.UserID,
		Billing: toBillingInput(req.BillingInfo),
		Items:   toItemInputs(req.Items),
		Notify:  true,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"cart_id":    res.CartID,
	})
}

// HandleEditProposal destructively replaces the proposal's items.
func (pc *ProposalController) HandleEditProposal(c *fiber.Ctx) error {
	checkoutID, err := parseIDParam(c, "checkoutId")
	if err != nil {
		return badRequest(c, "Invalid checkout id")
	}

	var req editProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := pc.service.Edit(c.Context(), checkoutID, toBillingUpdate(req.BillingInfo), toItemInputs(req.Items))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"checkout_id":  res.CheckoutID,
		"total_amount": res.TotalAmount,
	})
}

// HandleResendProposal reconciles items, recomputes the discounted total and
// mints a fresh token for the client.
func (pc *ProposalController) HandleResendProposal(c *fiber.Ctx) error {
	checkoutID, err := parseIDParam(c, "checkoutId")
	if err != nil {
		return badRequest(c, "Invalid checkout id")
	}

	var req editProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := pc.service.Resend(c.Context(), checkoutID, toBillingUpdate(req.BillingInfo), toItemInputs(req.Items))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"checkout_id":  res.CheckoutID,
		"token":        res.Token,
		"expires_at":   res.ExpiresAt,
		"total_amount": res.TotalAmount,
	})
}

// HandleDeleteProposal tears a proposal down unless it is locked.
func (pc *ProposalController) HandleDeleteProposal(c *fiber.Ctx) error {
	checkoutID, err := parseIDParam(c, "checkoutId")
	if err != nil {
		return badRequest(c, "Invalid checkout id")
	}

	if err := pc.service.Delete(c.Context(), checkoutID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
