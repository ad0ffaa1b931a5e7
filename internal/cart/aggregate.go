// Package cart implements the cart aggregate: line-item and coupon
// mutations over a model.Cart, with derived totals recomputed after every
// change, plus the Store strategy that decides where carts live.
package cart

import (
	"time"

	"bloomkart/internal/model"
	"bloomkart/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItem adds quantity units of a product to the cart, merging into an
// existing line item for the same product. Quantity must be positive.
func AddItem(c *model.Cart, product *model.Product, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	if item := c.Item(product.ID); item != nil {
		item.Quantity += quantity
	} else {
		c.Items = append(c.Items, model.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
	}

	recompute(c, time.Now())
	return nil
}

// SetItemQuantity sets the quantity of an existing line item. A quantity of
// zero or less removes the item.
func SetItemQuantity(c *model.Cart, productID string, quantity int) error {
	item := c.Item(productID)
	if item == nil {
		return model.ErrProductNotFound
	}

	if quantity <= 0 {
		return RemoveItem(c, productID)
	}

	item.Quantity = quantity
	recompute(c, time.Now())
	return nil
}

// RemoveItem deletes the line item for the given product. Removing an
// absent product is a no-op.
func RemoveItem(c *model.Cart, productID string) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			recompute(c, time.Now())
			return nil
		}
	}
	return nil
}

// Clear empties the cart: items, coupons, and all derived totals.
func Clear(c *model.Cart) {
	c.Items = []model.CartItem{}
	c.AppliedCoupons = []model.AppliedCoupon{}
	recompute(c, time.Now())
}

// ApplyCoupon validates the coupon against the cart and, if it passes and
// does not conflict with stackability rules, appends it and recomputes the
// totals. The cart is left unchanged on rejection. Applying a coupon that
// is already on the cart is a no-op.
func ApplyCoupon(c *model.Cart, coupon *model.Coupon, userOrderCount int, now time.Time) error {
	if coupon == nil {
		return model.ErrCouponNotValid
	}

	if c.HasCoupon(coupon.ID) {
		return nil
	}

	result := pricing.CanApply(coupon, c.Items, c.Subtotal, userOrderCount, now)
	if !result.CanApply {
		return model.NewDomainError(model.ErrCodeCouponNotApplicable, result.Reason)
	}

	if len(c.AppliedCoupons) > 0 {
		if !coupon.Stackable {
			return model.ErrCouponConflict
		}
		for _, applied := range c.AppliedCoupons {
			if !applied.Stackable {
				return model.ErrCouponConflict
			}
		}
	}

	c.AppliedCoupons = append(c.AppliedCoupons, model.AppliedCoupon{
		CouponID:  coupon.ID,
		Code:      coupon.Code,
		Stackable: coupon.Stackable,
		Discount:  pricing.DiscountPreview(coupon, c.Subtotal, c.Items, now),
	})

	recompute(c, now)
	return nil
}

// RemoveCoupon deletes a coupon from the applied list by ID and recomputes
// the totals. Removing an absent coupon is a no-op.
func RemoveCoupon(c *model.Cart, couponID uuid.UUID) {
	for i := range c.AppliedCoupons {
		if c.AppliedCoupons[i].CouponID == couponID {
			c.AppliedCoupons = append(c.AppliedCoupons[:i], c.AppliedCoupons[i+1:]...)
			recompute(c, time.Now())
			return
		}
	}
}

// Reprice revalidates every applied coupon against the cart's current
// contents and recomputes its discount. Coupons whose definition is gone,
// or that the cart no longer qualifies for (minimum order value, scope,
// validity), are dropped. Called after item mutations so stale discounts
// and no-longer-earned coupons never survive.
func Reprice(c *model.Cart, coupons map[uuid.UUID]*model.Coupon, userOrderCount int, now time.Time) {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	kept := c.AppliedCoupons[:0]
	for _, applied := range c.AppliedCoupons {
		coupon, ok := coupons[applied.CouponID]
		if !ok {
			continue
		}
		if !pricing.CanApply(coupon, c.Items, subtotal, userOrderCount, now).CanApply {
			continue
		}
		applied.Discount = pricing.DiscountPreview(coupon, subtotal, c.Items, now)
		kept = append(kept, applied)
	}
	c.AppliedCoupons = kept
	recompute(c, now)
}

// recompute rebuilds the derived fields from the line items and applied
// coupons. Invariants on exit: TotalQuantity = Σ quantity, Subtotal =
// Σ quantity × unit price, FinalAmount = max(0, Subtotal − TotalDiscount).
func recompute(c *model.Cart, now time.Time) {
	totalQty := 0
	subtotal := decimal.Zero
	for _, item := range c.Items {
		totalQty += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}

	discount := decimal.Zero
	for _, applied := range c.AppliedCoupons {
		discount = discount.Add(applied.Discount)
	}

	final := subtotal.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	c.TotalQuantity = totalQty
	c.Subtotal = subtotal.Round(2)
	c.TotalDiscount = discount.Round(2)
	c.FinalAmount = final.Round(2)
	c.UpdatedAt = now
}
