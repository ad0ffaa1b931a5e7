// Package pricing holds the pure discount arithmetic used both for live
// previews and for authoritative cart recomputation. Nothing in this
// package performs I/O.
package pricing

import (
	"time"

	"bloomkart/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountPreview computes the monetary discount a single coupon yields for
// a cart with the given subtotal and line items. The result is non-negative
// and rounded to 2 decimal places. Coupons that are nil or not currently
// valid yield zero regardless of type.
func DiscountPreview(coupon *model.Coupon, subtotal decimal.Decimal, items []model.CartItem, now time.Time) decimal.Decimal {
	if coupon == nil || !coupon.IsCurrentlyValid(now) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.Type {
	case model.CouponPercentage:
		discount = subtotal.Mul(coupon.Value).Div(hundred)
		if coupon.MaxDiscount != nil && discount.GreaterThan(*coupon.MaxDiscount) {
			discount = *coupon.MaxDiscount
		}

	case model.CouponFixed:
		discount = coupon.Value
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}

	case model.CouponFreeShipping:
		// Shipping is priced at order level, not here.
		discount = decimal.Zero

	case model.CouponBuyXGetY:
		discount = buyXGetYDiscount(coupon, items)

	default:
		discount = decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount.Round(2)
}

// buyXGetYDiscount finds the first line item in scope whose quantity covers
// at least one buy-set and prices the free units it earns. Only that first
// qualifying item counts, even when several distinct products qualify.
func buyXGetYDiscount(coupon *model.Coupon, items []model.CartItem) decimal.Decimal {
	if coupon.BuyQuantity < 1 || coupon.GetQuantity < 1 || coupon.MaxSets < 1 {
		return decimal.Zero
	}
	for _, item := range items {
		if !inScope(coupon, item) {
			continue
		}
		if item.Quantity < coupon.BuyQuantity {
			continue
		}
		sets := item.Quantity / coupon.BuyQuantity
		if sets > coupon.MaxSets {
			sets = coupon.MaxSets
		}
		freeUnits := int64(sets * coupon.GetQuantity)
		return item.UnitPrice.Mul(decimal.NewFromInt(freeUnits))
	}
	return decimal.Zero
}

// inScope reports whether a cart item falls under the coupon's product or
// category restriction.
func inScope(coupon *model.Coupon, item model.CartItem) bool {
	switch coupon.Scope {
	case model.ScopeProducts:
		for _, id := range coupon.ScopeIDs {
			if id == item.ProductID {
				return true
			}
		}
		return false
	case model.ScopeCategories:
		for _, cat := range coupon.ScopeIDs {
			if cat == item.Category {
				return true
			}
		}
		return false
	default:
		return true
	}
}
