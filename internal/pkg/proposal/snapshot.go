package proposal

import (
	"encoding/json"

	"github.com/creatorkart/CreatorKart/app/models"
	"github.com/shopspring/decimal"
)

// SnapshotVersion is written next to every serialized snapshot so the format
// can evolve without guessing what an old token row contains.
const SnapshotVersion = 1

// BillingSnapshot is the typed billing view frozen onto a proposal token at
// issuance time. It is what the client sees when opening their link.
type BillingSnapshot struct {
	ClientName              string          `json:"client_name"`
	ProjectName             string          `json:"project_name"`
	ContactEmail            string          `json:"contact_email"`
	ContactPhone            string          `json:"contact_phone"`
	ManagementFeePercentage decimal.Decimal `json:"management_fee_percentage"`
	Discount                decimal.Decimal `json:"discount"`
}

// ItemSnapshot is one frozen line item inside a token snapshot. LineItemID
// ties the snapshot entry back to the live row so client approvals can be
// applied to it.
type ItemSnapshot struct {
	LineItemID       uint            `json:"line_item_id"`
	ItemType         string          `json:"item_type"`
	CatalogID        uint            `json:"catalog_id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int             `json:"quantity"`
	Note             string          `json:"note,omitempty"`
	IsClientApproved bool            `json:"is_client_approved"`
}

func billingSnapshotFromDetail(detail *models.BillingDetail) BillingSnapshot {
	return BillingSnapshot{
		ClientName:              detail.ClientName,
		ProjectName:             detail.ProjectName,
		ContactEmail:            detail.ContactEmail,
		ContactPhone:            detail.ContactPhone,
		ManagementFeePercentage: detail.ManagementFeePercentage,
		Discount:                detail.Discount,
	}
}

func itemSnapshotsFromItems(items []models.LineItem) []ItemSnapshot {
	snapshots := make([]ItemSnapshot, 0, len(items))
	for _, it := range items {
		snapshots = append(snapshots, ItemSnapshot{
			LineItemID:       it.ID,
			ItemType:         it.ItemType,
			CatalogID:        it.CatalogID,
			Name:             it.Name,
			Price:            it.Price,
			Quantity:         it.Quantity,
			Note:             it.Note,
			IsClientApproved: it.IsClientApproved,
		})
	}
	return snapshots
}

// writeSnapshot serializes the billing and item snapshots onto a token row.
func writeSnapshot(token *models.ProposalToken, billing BillingSnapshot, items []ItemSnapshot) error {
	billingJSON, err := json.Marshal(billing)
	if err != nil {
		return err
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}
	token.BillingInfo = string(billingJSON)
	token.Items = string(itemsJSON)
	token.SnapshotVersion = SnapshotVersion
	return nil
}

// readSnapshot deserializes the snapshots stored on a token row.
func readSnapshot(token *models.ProposalToken) (BillingSnapshot, []ItemSnapshot, error) {
	var billing BillingSnapshot
	var items []ItemSnapshot
	if token.BillingInfo != "" {
		if err := json.Unmarshal([]byte(token.BillingInfo), &billing); err != nil {
			return billing, nil, err
		}
	}
	if token.Items != "" {
		if err := json.Unmarshal([]byte(token.Items), &items); err != nil {
			return billing, nil, err
		}
	}
	return billing, items, nil
}
