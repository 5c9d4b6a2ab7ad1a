package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creatorkart/CreatorKart/internal/pkg/proposal"
)

// ProposalTokenController exposes the client-facing token endpoints.
type ProposalTokenController struct {
	service *proposal.Service
}

// NewProposalTokenController creates a token controller around the workflow service.
func NewProposalTokenController(service *proposal.Service) *ProposalTokenController {
	return &ProposalTokenController{service: service}
}

type approvalRequest struct {
	LineItemID uint `json:"line_item_id" validate:"required"`
	Approved   bool `json:"approved"`
}

type submitProposalRequest struct {
	BillingInfo billingUpdateRequest `json:"billing_info"`
	Items       []approvalRequest    `json:"items" validate:"dive"`
}

func toApprovals(items []approvalRequest) []proposal.ApprovalInput {
	approvals := make([]proposal.ApprovalInput, 0, len(items))
	for _, it := range items {
		approvals = append(approvals, proposal.ApprovalInput{
			LineItemID: it.LineItemID,
			Approved:   it.Approved,
		})
	}
	return approvals
}

// HandleGetProposalByToken resolves a client link. Submitted tokens get the
// terminal view; expired or unknown tokens fail.
func (tc *ProposalTokenController) HandleGetProposalByToken(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "Token missing")
	}

	view, err := tc.service.GetByToken(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	if view.IsSubmitted {
		return c.JSON(fiber.Map{"is_submitted": true})
	}
	return c.JSON(fiber.Map{
		"is_submitted": false,
		"billing_info": view.Billing,
		"items":        view.Items,
		"cart_id":      view.CartID,
		"email":        view.Email,
	})
}

// HandleApplyApprovals saves the client's approvals without the final commit.
// The token is consumed here as well; see HandleSubmitProposal for the
// committing variant.
func (tc *ProposalTokenController) HandleApplyApprovals(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "Token missing")
	}

	var req submitProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := tc.service.ApplyApprovals(c.Context(), token, toBillingUpdate(req.BillingInfo), toApprovals(req.Items))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"checkout_id": res.CheckoutID,
		"email":       res.Email,
	})
}

// HandleSubmitProposal is the final client commit: approvals are applied, the
// approved-only total is written and the token is burned.
func (tc *ProposalTokenController) HandleSubmitProposal(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "Token missing")
	}

	var req submitProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := tc.service.Submit(c.Context(), token, toBillingUpdate(req.BillingInfo), toApprovals(req.Items))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"checkout_id":        res.CheckoutID,
		"total_amount":       res.TotalAmount,
		"billing_details_id": res.BillingDetailID,
		"email":              res.Email,
	})
}
