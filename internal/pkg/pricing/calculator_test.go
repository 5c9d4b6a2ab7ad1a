package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(price string, qty int) Item {
	return Item{UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func terms(discount, fee string) Terms {
	return Terms{
		DiscountPercentage:      decimal.RequireFromString(discount),
		ManagementFeePercentage: decimal.RequireFromString(fee),
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name              string
		items             []Item
		terms             Terms
		wantSubtotal      string
		wantDiscount      string
		wantAfterDiscount string
		wantFee           string
		wantTotal         string
	}{
		{
			name:              "discount and fee applied",
			items:             []Item{item("100", 2), item("50", 1)},
			terms:             terms("10", "20"),
			wantSubtotal:      "250",
			wantDiscount:      "25",
			wantAfterDiscount: "225",
			wantFee:           "45",
			wantTotal:         "270",
		},
		{
			name:              "zero discount zero fee",
			items:             []Item{item("19.99", 3)},
			terms:             terms("0", "0"),
			wantSubtotal:      "59.97",
			wantDiscount:      "0",
			wantAfterDiscount: "59.97",
			wantFee:           "0",
			wantTotal:         "59.97",
		},
		{
			name:              "full discount",
			items:             []Item{item("100", 1)},
			terms:             terms("100", "15"),
			wantSubtotal:      "100",
			wantDiscount:      "100",
			wantAfterDiscount: "0",
			wantFee:           "0",
			wantTotal:         "0",
		},
		{
			name:              "no items",
			items:             nil,
			terms:             terms("10", "20"),
			wantSubtotal:      "0",
			wantDiscount:      "0",
			wantAfterDiscount: "0",
			wantFee:           "0",
			wantTotal:         "0",
		},
		{
			name:              "zero quantity treated as one",
			items:             []Item{item("40", 0)},
			terms:             terms("0", "0"),
			wantSubtotal:      "40",
			wantDiscount:      "0",
			wantAfterDiscount: "40",
			wantFee:           "0",
			wantTotal:         "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.items, tt.terms)

			assert.True(t, got.Subtotal.Equal(decimal.RequireFromString(tt.wantSubtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.DiscountAmount.Equal(decimal.RequireFromString(tt.wantDiscount)), "discount %s", got.DiscountAmount)
			assert.True(t, got.SubtotalAfterDiscount.Equal(decimal.RequireFromString(tt.wantAfterDiscount)), "after discount %s", got.SubtotalAfterDiscount)
			assert.True(t, got.ManagementFee.Equal(decimal.RequireFromString(tt.wantFee)), "fee %s", got.ManagementFee)
			assert.True(t, got.Total.Equal(decimal.RequireFromString(tt.wantTotal)), "total %s", got.Total)
		})
	}
}

func TestAirdropFeeExcludedFromTotal(t *testing.T) {
	got := Calculate([]Item{item("100", 2), item("50", 1)}, terms("10", "20"))

	// 5% of 225, informational only
	assert.True(t, got.AirdropFee.Equal(decimal.RequireFromString("11.25")), "airdrop fee %s", got.AirdropFee)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("270")), "total must not include airdrop fee, got %s", got.Total)
}

func TestFeeComputedFromUnroundedIntermediate(t *testing.T) {
	// 33.335 after discount would round to 33.34 before the fee; the fee must
	// come from the unrounded figure.
	got := Calculate([]Item{item("33.67", 1)}, terms("0.995", "10"))

	expectedAfter := decimal.RequireFromString("33.67").
		Sub(decimal.RequireFromString("33.67").Mul(decimal.RequireFromString("0.995")).Div(decimal.NewFromInt(100)))
	expectedFee := expectedAfter.Mul(decimal.NewFromInt(10)).Div(decimal.NewFromInt(100))

	assert.True(t, got.ManagementFee.Equal(expectedFee), "fee %s want %s", got.ManagementFee, expectedFee)
}

func TestSum(t *testing.T) {
	got := Sum([]Item{item("10", 2), item("5.50", 4)})
	assert.True(t, got.Equal(decimal.RequireFromString("42")), "sum %s", got)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"270", "270.00"},
		{"11.255", "11.26"},
		{"11.245", "11.24"}, // banker's rounding, ties to even
		{"11.235", "11.24"},
	}

	for _, tt := range tests {
		if got := FormatAmount(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("FormatAmount(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
