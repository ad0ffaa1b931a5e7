package pricing

import (
	"testing"
	"time"

	"bloomkart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// validCoupon returns a coupon that is active and inside its window at
// testNow.
func validCoupon(typ model.CouponType) *model.Coupon {
	return &model.Coupon{
		ID:        uuid.New(),
		Code:      "TESTCODE1",
		Type:      typ,
		IsActive:  true,
		ValidFrom: testNow.Add(-24 * time.Hour),
		ValidTo:   testNow.Add(24 * time.Hour),
		Scope:     model.ScopeAll,
	}
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestDiscountPreview_Percentage(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		maxDiscount *decimal.Decimal
		subtotal    string
		expected    string
	}{
		{
			name:     "Plain percentage",
			value:    "10",
			subtotal: "200.00",
			expected: "20",
		},
		{
			name:        "Capped by max discount",
			value:       "20",
			maxDiscount: decPtr("15"),
			subtotal:    "100.00",
			expected:    "15",
		},
		{
			name:        "Below cap unaffected",
			value:       "20",
			maxDiscount: decPtr("50"),
			subtotal:    "100.00",
			expected:    "20",
		},
		{
			name:     "Rounded to 2 decimal places",
			value:    "15",
			subtotal: "33.33",
			expected: "5",
		},
		{
			name:     "Zero subtotal",
			value:    "20",
			subtotal: "0",
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := validCoupon(model.CouponPercentage)
			coupon.Value = dec(tt.value)
			coupon.MaxDiscount = tt.maxDiscount

			got := DiscountPreview(coupon, dec(tt.subtotal), nil, testNow)

			assert.True(t, dec(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestDiscountPreview_Percentage_RoundsHalfUp(t *testing.T) {
	coupon := validCoupon(model.CouponPercentage)
	coupon.Value = dec("15")

	// 15% of 33.33 = 4.9995 -> 5.00
	got := DiscountPreview(coupon, dec("33.33"), nil, testNow)
	assert.Equal(t, "5.00", got.StringFixed(2))
}

func TestDiscountPreview_Fixed(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		subtotal string
		expected string
	}{
		{
			name:     "Below subtotal",
			value:    "10",
			subtotal: "40.00",
			expected: "10",
		},
		{
			name:     "Capped at subtotal",
			value:    "50",
			subtotal: "40.00",
			expected: "40.00",
		},
		{
			name:     "Equal to subtotal",
			value:    "40",
			subtotal: "40.00",
			expected: "40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := validCoupon(model.CouponFixed)
			coupon.Value = dec(tt.value)

			got := DiscountPreview(coupon, dec(tt.subtotal), nil, testNow)

			assert.True(t, dec(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
			assert.False(t, got.GreaterThan(dec(tt.subtotal)), "discount must never exceed subtotal")
		})
	}
}

func TestDiscountPreview_FreeShipping_ContributesZero(t *testing.T) {
	coupon := validCoupon(model.CouponFreeShipping)
	coupon.Value = dec("5")

	got := DiscountPreview(coupon, dec("100.00"), nil, testNow)

	assert.True(t, got.IsZero())
}

func TestDiscountPreview_BuyXGetY(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "P001", Category: "succulents", UnitPrice: dec("8.00"), Quantity: 5},
		{ProductID: "P002", Category: "herbs", UnitPrice: dec("3.00"), Quantity: 10},
	}

	coupon := validCoupon(model.CouponBuyXGetY)
	coupon.BuyQuantity = 2
	coupon.GetQuantity = 1
	coupon.MaxSets = 3

	// sets = min(floor(5/2), 3) = 2, free = 2 units at 8.00
	got := DiscountPreview(coupon, dec("70.00"), items, testNow)
	assert.Equal(t, "16.00", got.StringFixed(2))
}

func TestDiscountPreview_BuyXGetY_MaxSetsClamp(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "P001", UnitPrice: dec("4.00"), Quantity: 20},
	}

	coupon := validCoupon(model.CouponBuyXGetY)
	coupon.BuyQuantity = 2
	coupon.GetQuantity = 1
	coupon.MaxSets = 3

	// floor(20/2) = 10 sets, clamped to 3
	got := DiscountPreview(coupon, dec("80.00"), items, testNow)
	assert.Equal(t, "12.00", got.StringFixed(2))
}

// The first qualifying line item is the only one that earns free units.
// Later items qualify too here, but must not contribute.
func TestDiscountPreview_BuyXGetY_OnlyFirstQualifyingItem(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "P001", UnitPrice: dec("8.00"), Quantity: 5},
		{ProductID: "P002", UnitPrice: dec("100.00"), Quantity: 5},
	}

	coupon := validCoupon(model.CouponBuyXGetY)
	coupon.BuyQuantity = 2
	coupon.GetQuantity = 1
	coupon.MaxSets = 3

	got := DiscountPreview(coupon, dec("540.00"), items, testNow)

	// 2 free units of P001, P002 ignored
	assert.Equal(t, "16.00", got.StringFixed(2))
}

func TestDiscountPreview_BuyXGetY_ScopeSkipsNonMatching(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "P001", Category: "pots", UnitPrice: dec("8.00"), Quantity: 5},
		{ProductID: "P002", Category: "herbs", UnitPrice: dec("3.00"), Quantity: 6},
	}

	coupon := validCoupon(model.CouponBuyXGetY)
	coupon.BuyQuantity = 2
	coupon.GetQuantity = 1
	coupon.MaxSets = 3
	coupon.Scope = model.ScopeCategories
	coupon.ScopeIDs = []string{"herbs"}

	// P001 is out of scope; P002 earns min(floor(6/2),3)=3 free units at 3.00
	got := DiscountPreview(coupon, dec("58.00"), items, testNow)
	assert.Equal(t, "9.00", got.StringFixed(2))
}

func TestDiscountPreview_BuyXGetY_NoQualifyingItem(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "P001", UnitPrice: dec("8.00"), Quantity: 1},
	}

	coupon := validCoupon(model.CouponBuyXGetY)
	coupon.BuyQuantity = 2
	coupon.GetQuantity = 1
	coupon.MaxSets = 3

	got := DiscountPreview(coupon, dec("8.00"), items, testNow)
	assert.True(t, got.IsZero())
}

func TestDiscountPreview_InvalidCoupon_AlwaysZero(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Coupon)
	}{
		{
			name:   "Inactive",
			mutate: func(c *model.Coupon) { c.IsActive = false },
		},
		{
			name:   "Before validity window",
			mutate: func(c *model.Coupon) { c.ValidFrom = testNow.Add(time.Hour) },
		},
		{
			name:   "After validity window",
			mutate: func(c *model.Coupon) { c.ValidTo = testNow.Add(-time.Hour) },
		},
		{
			name: "Usage limit exhausted",
			mutate: func(c *model.Coupon) {
				c.UsageLimit = 5
				c.UsedCount = 5
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, typ := range []model.CouponType{
				model.CouponPercentage,
				model.CouponFixed,
				model.CouponFreeShipping,
				model.CouponBuyXGetY,
			} {
				coupon := validCoupon(typ)
				coupon.Value = dec("20")
				coupon.BuyQuantity, coupon.GetQuantity, coupon.MaxSets = 2, 1, 3
				tt.mutate(coupon)

				got := DiscountPreview(coupon, dec("100.00"), nil, testNow)
				assert.True(t, got.IsZero(), "type %s should yield zero", typ)
			}
		})
	}
}

func TestDiscountPreview_NilCoupon(t *testing.T) {
	got := DiscountPreview(nil, dec("100.00"), nil, testNow)
	assert.True(t, got.IsZero())
}

func TestDiscountPreview_UnknownType(t *testing.T) {
	coupon := validCoupon("loyalty_points")
	coupon.Value = dec("20")

	got := DiscountPreview(coupon, dec("100.00"), nil, testNow)
	assert.True(t, got.IsZero())
}

func TestDiscountPreview_NeverNegative(t *testing.T) {
	coupon := validCoupon(model.CouponPercentage)
	coupon.Value = dec("-10")

	got := DiscountPreview(coupon, dec("100.00"), nil, testNow)
	require.False(t, got.IsNegative())
	assert.True(t, got.IsZero())
}

// Scenario from the storefront: 20% off capped at 15 on a 100.00 cart.
func TestDiscountPreview_CappedPercentageScenario(t *testing.T) {
	coupon := validCoupon(model.CouponPercentage)
	coupon.Value = dec("20")
	coupon.MaxDiscount = decPtr("15")

	got := DiscountPreview(coupon, dec("100.00"), nil, testNow)
	assert.Equal(t, "15.00", got.StringFixed(2))
}
