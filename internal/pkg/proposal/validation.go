package proposal

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/creatorkart/CreatorKart/app/models"
)

var validate = validator.New()

// Discount outside [0,100] must be rejected before it reaches the pricing
// stage; a value above 100 would flip the post-discount subtotal negative.
func validateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return validationErrorf("discount", "must be between 0 and 100, got %s", d)
	}
	return nil
}

func validateManagementFee(d decimal.Decimal) error {
	if d.IsNegative() {
		return validationErrorf("management_fee_percentage", "must not be negative, got %s", d)
	}
	return nil
}

func validateBillingInput(in BillingInput) error {
	if in.ClientName == "" {
		return validationErrorf("client_name", "is required")
	}
	if in.ContactEmail == "" {
		return validationErrorf("contact_email", "is required")
	}
	if err := validate.Var(in.ContactEmail, "email"); err != nil {
		return validationErrorf("contact_email", "%q is not a valid email address", in.ContactEmail)
	}
	if err := validateDiscount(in.Discount); err != nil {
		return err
	}
	return validateManagementFee(in.ManagementFeePercentage)
}

func validateBillingUpdate(in BillingUpdate) error {
	if in.ClientName != nil && *in.ClientName == "" {
		return validationErrorf("client_name", "must not be empty")
	}
	if in.ContactEmail != nil {
		if err := validate.Var(*in.ContactEmail, "email"); err != nil {
			return validationErrorf("contact_email", "%q is not a valid email address", *in.ContactEmail)
		}
	}
	if in.Discount != nil {
		if err := validateDiscount(*in.Discount); err != nil {
			return err
		}
	}
	if in.ManagementFeePercentage != nil {
		if err := validateManagementFee(*in.ManagementFeePercentage); err != nil {
			return err
		}
	}
	return nil
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return validationErrorf("items", "at least one item is required")
	}
	for _, it := range items {
		if it.ItemType != models.ITEM_TYPE_INFLUENCER && it.ItemType != models.ITEM_TYPE_WEBSITE {
			return validationErrorf("item_type", "must be %q or %q, got %q",
				models.ITEM_TYPE_INFLUENCER, models.ITEM_TYPE_WEBSITE, it.ItemType)
		}
		if it.CatalogID == 0 {
			return validationErrorf("catalog_id", "is required")
		}
		if it.Quantity < 0 {
			return validationErrorf("quantity", "must not be negative, got %d", it.Quantity)
		}
		if it.Price != nil && it.Price.IsNegative() {
			return validationErrorf("price", "must not be negative, got %s", it.Price)
		}
	}
	return nil
}
