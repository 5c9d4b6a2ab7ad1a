package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/creatorkart/CreatorKart/app/models"
	"github.com/creatorkart/CreatorKart/app/repository"
	"github.com/creatorkart/CreatorKart/internal/pkg/pricing"
)

// Service is the proposal workflow orchestrator. It owns the lifecycle of a
// proposal: building carts and line items from the catalogs, minting and
// burning tokens, applying client approvals and recomputing totals. Every
// multi-entity mutation runs inside one repository transaction.
type Service struct {
	repos  *repository.Repositories
	outbox Outbox
}

// NewService creates a proposal service from injected repositories and an
// outbox for after-commit side effects.
func NewService(repos *repository.Repositories, outbox Outbox) *Service {
	return &Service{repos: repos, outbox: outbox}
}

// ItemInput describes one line item the operator puts on a proposal. Price
// overrides the catalog list price when set; Quantity defaults to 1.
type ItemInput struct {
	ItemType    string
	CatalogID   uint
	Price       *decimal.Decimal
	Quantity    int
	Note        string
	ProofOfWork string
}

// BillingInput carries the full billing fields required at proposal creation.
type BillingInput struct {
	ClientName              string
	ProjectName             string
	ContactEmail            string
	ContactPhone            string
	ManagementFeePercentage decimal.Decimal
	Discount                decimal.Decimal
}

// BillingUpdate carries partial billing updates: nil fields keep their
// previous values.
type BillingUpdate struct {
	ClientName              *string
	ProjectName             *string
	ContactEmail            *string
	ContactPhone            *string
	ManagementFeePercentage *decimal.Decimal
	Discount                *decimal.Decimal
}

// ApprovalInput names one line item and the client's verdict for it. Items
// not named keep their prior approval flag.
type ApprovalInput struct {
	LineItemID uint
	Approved   bool
}

// CreateInput bundles everything needed to build a new proposal.
type CreateInput struct {
	UserID  uint
	Billing BillingInput
	Items   []ItemInput
	// Notify enqueues the proposal link mail after commit. The token is
	// minted either way.
	Notify bool
}

// CreateResult reports the rows a successful creation produced.
type CreateResult struct {
	CheckoutID      uint
	CartID          uint
	BillingDetailID uint
	Token           string
	ExpiresAt       time.Time
	TotalAmount     decimal.Decimal
	Email           string
}

// EditResult reports the recomputed total after an operator edit.
type EditResult struct {
	CheckoutID  uint
	TotalAmount decimal.Decimal
}

// ResendResult reports the fresh token and recomputed total after a resend.
type ResendResult struct {
	CheckoutID  uint
	Token       string
	ExpiresAt   time.Time
	TotalAmount decimal.Decimal
	Email       string
}

// SubmitResult reports the committed state after a client submission.
type SubmitResult struct {
	CheckoutID      uint
	BillingDetailID uint
	TotalAmount     decimal.Decimal
	Email           string
}

// TokenView is what a client sees when opening their proposal link. For a
// submitted token only IsSubmitted is populated.
type TokenView struct {
	IsSubmitted bool
	CartID      uint
	Email       string
	Billing     *BillingSnapshot
	Items       []ItemSnapshot
}

// Create builds cart, line items, checkout, billing detail and token in one
// transaction. The committed total at this stage is the plain sum of
// price×quantity; discount and management fee apply only at submission.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if err := validateBillingInput(in.Billing); err != nil {
		return nil, err
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	if _, err := s.repos.User.GetByID(in.UserID); err != nil {
		return nil, orNotFound(err, fmt.Sprintf("user %d", in.UserID))
	}

	var result *CreateResult
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		lineItems, err := resolveItems(tx, in.Items)
		if err != nil {
			return err
		}

		cart := &models.Cart{UserID: &in.UserID, Items: lineItems}
		if err := tx.Cart.Create(cart); err != nil {
			return err
		}

		total := pricing.Sum(toPricingItems(cart.Items))
		checkout := &models.Checkout{CartID: cart.ID, TotalAmount: total}
		if err := tx.Checkout.Create(checkout); err != nil {
			return err
		}

		detail := &models.BillingDetail{
			CheckoutID:              checkout.ID,
			ClientName:              in.Billing.ClientName,
			ProjectName:             in.Billing.ProjectName,
			ContactEmail:            in.Billing.ContactEmail,
			ContactPhone:            in.Billing.ContactPhone,
			ManagementFeePercentage: in.Billing.ManagementFeePercentage,
			Discount:                in.Billing.Discount,
			ProposalStatus:          models.PROPOSAL_SENT,
			InvoiceStatus:           models.INVOICE_NOT_PAID,
			PaymentStatus:           models.PAYMENT_UNPAID,
			TotalAmount:             total,
		}
		if err := tx.BillingDetail.Create(detail); err != nil {
			return err
		}

		token, err := mintToken(tx, cart.ID, detail, cart.Items)
		if err != nil {
			return err
		}

		result = &CreateResult{
			CheckoutID:      checkout.ID,
			CartID:          cart.ID,
			BillingDetailID: detail.ID,
			Token:           token.Token,
			ExpiresAt:       token.ExpiresAt,
			TotalAmount:     total,
			Email:           detail.ContactEmail,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.Notify {
		s.enqueueNotification(NotificationJob{
			Email:      result.Email,
			Token:      result.Token,
			ClientName: in.Billing.ClientName,
			ExpiresAt:  result.ExpiresAt,
		})
	}
	return result, nil
}

// Edit destructively replaces all line items of the cart and recomputes the
// total as the plain sum. Billing fields present in the update overwrite the
// stored ones; absent fields keep their previous values. Calling Edit twice
// with identical inputs yields an identical total.
func (s *Service) Edit(ctx context.Context, checkoutID uint, billing BillingUpdate, items []ItemInput) (*EditResult, error) {
	if err := validateBillingUpdate(billing); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var result *EditResult
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		checkout, err := tx.Checkout.GetByID(checkoutID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("checkout %d", checkoutID))
		}
		detail, err := tx.BillingDetail.GetByCheckoutID(checkout.ID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("billing detail for checkout %d", checkoutID))
		}

		if err := tx.Cart.DeleteItems(checkout.CartID); err != nil {
			return err
		}
		lineItems, err := resolveItems(tx, items)
		if err != nil {
			return err
		}
		if err := tx.Cart.AddItems(checkout.CartID, lineItems); err != nil {
			return err
		}

		total := pricing.Sum(toPricingItems(lineItems))
		if err := tx.Checkout.UpdateTotal(checkout.ID, total); err != nil {
			return err
		}

		applyBillingUpdate(detail, billing)
		detail.TotalAmount = total
		if err := tx.BillingDetail.Update(detail); err != nil {
			return err
		}

		result = &EditResult{CheckoutID: checkout.ID, TotalAmount: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Resend reconciles the cart against the submitted item set instead of
// replacing it: items matched by catalog identity are updated in place and
// keep their client approval flag, absent items are removed, new items are
// appended. The total is the full pricing pipeline over all items, and a
// fresh token supersedes the old one.
func (s *Service) Resend(ctx context.Context, checkoutID uint, billing BillingUpdate, items []ItemInput) (*ResendResult, error) {
	if err := validateBillingUpdate(billing); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var result *ResendResult
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		checkout, err := tx.Checkout.GetByID(checkoutID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("checkout %d", checkoutID))
		}
		detail, err := tx.BillingDetail.GetByCheckoutID(checkout.ID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("billing detail for checkout %d", checkoutID))
		}

		existing, err := tx.Cart.GetItems(checkout.CartID)
		if err != nil {
			return err
		}
		byCatalog := make(map[string]*models.LineItem, len(existing))
		for i := range existing {
			byCatalog[catalogKey(existing[i].ItemType, existing[i].CatalogID)] = &existing[i]
		}

		seen := make(map[string]bool, len(items))
		var fresh []ItemInput
		for _, in := range items {
			key := catalogKey(in.ItemType, in.CatalogID)
			seen[key] = true
			if current, ok := byCatalog[key]; ok {
				if in.Price != nil {
					current.Price = *in.Price
				}
				if in.Quantity > 0 {
					current.Quantity = in.Quantity
				}
				current.Note = in.Note
				if in.ProofOfWork != "" {
					current.ProofOfWork = in.ProofOfWork
				}
				// IsClientApproved is deliberately untouched
				if err := tx.Cart.UpdateItem(current); err != nil {
					return err
				}
				continue
			}
			fresh = append(fresh, in)
		}

		var removed []uint
		for key, it := range byCatalog {
			if !seen[key] {
				removed = append(removed, it.ID)
			}
		}
		if err := tx.Cart.DeleteItemsByID(checkout.CartID, removed); err != nil {
			return err
		}

		if len(fresh) > 0 {
			lineItems, err := resolveItems(tx, fresh)
			if err != nil {
				return err
			}
			// kept items retain their positions; new ones go after them
			nextPos := 0
			for i := range existing {
				if existing[i].Position >= nextPos {
					nextPos = existing[i].Position + 1
				}
			}
			for i := range lineItems {
				lineItems[i].Position = nextPos + i
			}
			if err := tx.Cart.AddItems(checkout.CartID, lineItems); err != nil {
				return err
			}
		}

		reconciled, err := tx.Cart.GetItems(checkout.CartID)
		if err != nil {
			return err
		}

		applyBillingUpdate(detail, billing)
		figures := pricing.Calculate(toPricingItems(reconciled), pricing.Terms{
			DiscountPercentage:      detail.Discount,
			ManagementFeePercentage: detail.ManagementFeePercentage,
		})
		if err := tx.Checkout.UpdateTotal(checkout.ID, figures.Total); err != nil {
			return err
		}
		detail.TotalAmount = figures.Total
		if err := tx.BillingDetail.Update(detail); err != nil {
			return err
		}

		token, err := mintToken(tx, checkout.CartID, detail, reconciled)
		if err != nil {
			return err
		}

		result = &ResendResult{
			CheckoutID:  checkout.ID,
			Token:       token.Token,
			ExpiresAt:   token.ExpiresAt,
			TotalAmount: figures.Total,
			Email:       detail.ContactEmail,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueNotification(NotificationJob{
		Email:     result.Email,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
	return result, nil
}

// Submit is the final client commit: the token is burned, the named approvals
// are applied, and the committed total is the pricing pipeline over approved
// items only. An invoice job is enqueued after the transaction commits.
func (s *Service) Submit(ctx context.Context, tokenStr string, billing BillingUpdate, approvals []ApprovalInput) (*SubmitResult, error) {
	result, err := s.consumeToken(ctx, tokenStr, billing, approvals, true)
	if err != nil {
		return nil, err
	}

	s.enqueueInvoice(InvoiceJob{
		CheckoutID:      result.CheckoutID,
		BillingDetailID: result.BillingDetailID,
		Email:           result.Email,
	})
	return result, nil
}

// ApplyApprovals applies client approvals without the final commit: statuses
// and totals stay untouched and no invoice job is enqueued. The token is
// still burned, matching the historical behavior of the save-without-submit
// endpoint.
func (s *Service) ApplyApprovals(ctx context.Context, tokenStr string, billing BillingUpdate, approvals []ApprovalInput) (*SubmitResult, error) {
	return s.consumeToken(ctx, tokenStr, billing, approvals, false)
}

func (s *Service) consumeToken(ctx context.Context, tokenStr string, billing BillingUpdate, approvals []ApprovalInput, finalize bool) (*SubmitResult, error) {
	if err := validateBillingUpdate(billing); err != nil {
		return nil, err
	}

	var result *SubmitResult
	err := s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		token, err := tx.ProposalToken.GetByToken(tokenStr)
		if err != nil {
			return orNotFound(err, "token")
		}
		if token.IsExpired() {
			return ErrExpired
		}
		ok, err := tx.ProposalToken.MarkUsed(token.ID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyUsed
		}
		if token.CartID == nil {
			return fmt.Errorf("token cart: %w", ErrNotFound)
		}
		cartID := *token.CartID

		checkout, err := tx.Checkout.GetByCartID(cartID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("checkout for cart %d", cartID))
		}
		detail, err := tx.BillingDetail.GetByCheckoutID(checkout.ID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("billing detail for checkout %d", checkout.ID))
		}

		items, err := tx.Cart.GetItems(cartID)
		if err != nil {
			return err
		}
		inCart := make(map[uint]bool, len(items))
		for _, it := range items {
			inCart[it.ID] = true
		}
		for _, approval := range approvals {
			if !inCart[approval.LineItemID] {
				continue
			}
			if err := tx.Cart.UpdateItemApproval(approval.LineItemID, approval.Approved); err != nil {
				return err
			}
		}

		applyBillingUpdate(detail, billing)

		total := checkout.TotalAmount
		if finalize {
			items, err = tx.Cart.GetItems(cartID)
			if err != nil {
				return err
			}
			var approved []models.LineItem
			for _, it := range items {
				if it.IsClientApproved {
					approved = append(approved, it)
				}
			}
			figures := pricing.Calculate(toPricingItems(approved), pricing.Terms{
				DiscountPercentage:      detail.Discount,
				ManagementFeePercentage: detail.ManagementFeePercentage,
			})
			total = figures.Total
			if err := tx.Checkout.UpdateTotal(checkout.ID, total); err != nil {
				return err
			}
			detail.TotalAmount = total
			detail.ProposalStatus = models.PROPOSAL_SENT
			detail.InvoiceStatus = models.INVOICE_NOT_PAID
			detail.PaymentStatus = models.PAYMENT_UNPAID
		}
		if err := tx.BillingDetail.Update(detail); err != nil {
			return err
		}

		result = &SubmitResult{
			CheckoutID:      checkout.ID,
			BillingDetailID: detail.ID,
			TotalAmount:     total,
			Email:           detail.ContactEmail,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByToken resolves a client link. Unknown tokens fail with ErrNotFound,
// expired unused tokens with ErrExpired; submitted tokens return the terminal
// already-submitted view instead of the editable snapshot.
func (s *Service) GetByToken(ctx context.Context, tokenStr string) (*TokenView, error) {
	_ = ctx
	token, err := s.repos.ProposalToken.GetByToken(tokenStr)
	if err != nil {
		return nil, orNotFound(err, "token")
	}
	if token.IsUsed {
		return &TokenView{IsSubmitted: true}, nil
	}
	if token.IsExpired() {
		return nil, ErrExpired
	}

	billing, items, err := readSnapshot(token)
	if err != nil {
		return nil, err
	}
	view := &TokenView{
		Email:   token.Email,
		Billing: &billing,
		Items:   items,
	}
	if token.CartID != nil {
		view.CartID = *token.CartID
	}
	return view, nil
}

// Delete tears a proposal down in dependency order. Approved proposals and
// proposals with a generated invoice are locked and fail with ErrConflict.
func (s *Service) Delete(ctx context.Context, checkoutID uint) error {
	return s.repos.WithTx(ctx, func(tx *repository.Repositories) error {
		checkout, err := tx.Checkout.GetByID(checkoutID)
		if err != nil {
			return orNotFound(err, fmt.Sprintf("checkout %d", checkoutID))
		}

		detail, err := tx.BillingDetail.GetByCheckoutID(checkout.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if detail != nil {
			if !detail.IsDeletable() {
				return fmt.Errorf("proposal %d is %s/%s: %w", checkoutID, detail.ProposalStatus, detail.InvoiceStatus, ErrConflict)
			}
		}

		if err := tx.Cart.DeleteItems(checkout.CartID); err != nil {
			return err
		}
		if detail != nil {
			if err := tx.BillingDetail.Delete(detail.ID); err != nil {
				return err
			}
		}
		if err := tx.Checkout.Delete(checkout.ID); err != nil {
			return err
		}
		return tx.Cart.Delete(checkout.CartID)
	})
}

func (s *Service) enqueueNotification(job NotificationJob) {
	if s.outbox == nil {
		return
	}
	if err := s.outbox.EnqueueProposalNotification(job); err != nil {
		log.Errorf("[Proposal] Failed to enqueue notification for %s: %v", job.Email, err)
	}
}

func (s *Service) enqueueInvoice(job InvoiceJob) {
	if s.outbox == nil {
		return
	}
	if err := s.outbox.EnqueueInvoiceGeneration(job); err != nil {
		log.Errorf("[Proposal] Failed to enqueue invoice for checkout %d: %v", job.CheckoutID, err)
	}
}

// mintToken creates a fresh token for the cart with a snapshot of the current
// billing terms and items. Any previously live token becomes unreachable
// because lookups only ever return the newest row.
func mintToken(tx *repository.Repositories, cartID uint, detail *models.BillingDetail, items []models.LineItem) (*models.ProposalToken, error) {
	token := &models.ProposalToken{CartID: &cartID, Email: detail.ContactEmail}
	if err := token.GenerateProposalToken(); err != nil {
		return nil, err
	}
	if err := writeSnapshot(token, billingSnapshotFromDetail(detail), itemSnapshotsFromItems(items)); err != nil {
		return nil, err
	}
	if err := tx.ProposalToken.Create(token); err != nil {
		return nil, err
	}
	return token, nil
}

// resolveItems turns item inputs into line items, snapshotting name and list
// price from the relevant catalog. A missing catalog entry fails the whole
// operation.
func resolveItems(tx *repository.Repositories, items []ItemInput) ([]models.LineItem, error) {
	lineItems := make([]models.LineItem, 0, len(items))
	for i, in := range items {
		li := models.LineItem{
			ItemType:    in.ItemType,
			CatalogID:   in.CatalogID,
			Quantity:    in.Quantity,
			Note:        in.Note,
			ProofOfWork: in.ProofOfWork,
			Position:    i,
		}
		if li.Quantity <= 0 {
			li.Quantity = 1
		}

		switch in.ItemType {
		case models.ITEM_TYPE_INFLUENCER:
			influencer, err := tx.Influencer.GetByID(in.CatalogID)
			if err != nil {
				return nil, orNotFound(err, fmt.Sprintf("influencer %d", in.CatalogID))
			}
			li.Name = influencer.Handle
			li.Price = influencer.Price
		case models.ITEM_TYPE_WEBSITE:
			listing, err := tx.WebsiteListing.GetByID(in.CatalogID)
			if err != nil {
				return nil, orNotFound(err, fmt.Sprintf("website listing %d", in.CatalogID))
			}
			li.Name = listing.Domain
			li.Price = listing.Price
		default:
			return nil, validationErrorf("item_type", "unknown item type %q", in.ItemType)
		}

		if in.Price != nil {
			li.Price = *in.Price
		}
		lineItems = append(lineItems, li)
	}
	return lineItems, nil
}

func toPricingItems(items []models.LineItem) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.Item{UnitPrice: it.Price, Quantity: it.Quantity})
	}
	return out
}

func applyBillingUpdate(detail *models.BillingDetail, update BillingUpdate) {
	if update.ClientName != nil {
		detail.ClientName = *update.ClientName
	}
	if update.ProjectName != nil {
		detail.ProjectName = *update.ProjectName
	}
	if update.ContactEmail != nil {
		detail.ContactEmail = *update.ContactEmail
	}
	if update.ContactPhone != nil {
		detail.ContactPhone = *update.ContactPhone
	}
	if update.ManagementFeePercentage != nil {
		detail.ManagementFeePercentage = *update.ManagementFeePercentage
	}
	if update.Discount != nil {
		detail.Discount = *update.Discount
	}
}

func catalogKey(itemType string, catalogID uint) string {
	return fmt.Sprintf("%s:%d", itemType, catalogID)
}

func orNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
