package pricing

import (
	"github.com/shopspring/decimal"
)

// airdropFeePercentage is computed for one invoice variant's display only.
// It is never added into the committed total.
const airdropFeePercentage = 5

var hundred = decimal.NewFromInt(100)

// Item is one priced position fed into the calculator. Callers decide which
// items to supply: the submission path pre-filters to client-approved items,
// the edit/preview path passes everything.
type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Terms carries the percentage parameters applied on top of the subtotal.
type Terms struct {
	DiscountPercentage      decimal.Decimal
	ManagementFeePercentage decimal.Decimal
}

// Result holds every intermediate figure of a pricing run. All values are
// unrounded; rounding happens only at display formatting so fees never
// compound a rounding error.
type Result struct {
	Subtotal              decimal.Decimal
	DiscountAmount        decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	ManagementFee         decimal.Decimal
	AirdropFee            decimal.Decimal
	Total                 decimal.Decimal
}

// Sum returns the unweighted total Σ unitPrice×quantity. Proposal creation and
// operator edits commit this figure directly, without discount or fee.
func Sum(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	return subtotal
}

// Calculate runs the full pricing pipeline:
//
//	subtotal              = Σ unitPrice×quantity
//	discountAmount        = subtotal × discount / 100
//	subtotalAfterDiscount = subtotal − discountAmount
//	managementFee         = subtotalAfterDiscount × feePct / 100
//	total                 = subtotalAfterDiscount + managementFee
//
// The airdrop fee (5% of the post-discount subtotal) is carried in the result
// for display but intentionally excluded from Total.
func Calculate(items []Item, terms Terms) Result {
	subtotal := Sum(items)
	discountAmount := subtotal.Mul(terms.DiscountPercentage).Div(hundred)
	afterDiscount := subtotal.Sub(discountAmount)
	managementFee := afterDiscount.Mul(terms.ManagementFeePercentage).Div(hundred)

	return Result{
		Subtotal:              subtotal,
		DiscountAmount:        discountAmount,
		SubtotalAfterDiscount: afterDiscount,
		ManagementFee:         managementFee,
		AirdropFee:            afterDiscount.Mul(decimal.NewFromInt(airdropFeePercentage)).Div(hundred),
		Total:                 afterDiscount.Add(managementFee),
	}
}

// FormatAmount renders a monetary value with two fraction digits using
// banker's rounding. Only display code should call this.
func FormatAmount(d decimal.Decimal) string {
	return d.RoundBank(2).StringFixed(2)
}
