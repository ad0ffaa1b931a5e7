package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one product-and-quantity line within a cart. Name and unit
// price are snapshotted when the item is added.
type CartItem struct {
	ProductID string          `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Category  string          `json:"category" db:"category"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// LineTotal returns quantity × unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AppliedCoupon records a coupon currently applied to a cart together with
// the discount it contributes.
type AppliedCoupon struct {
	CouponID  uuid.UUID       `json:"couponId" db:"coupon_id"`
	Code      string          `json:"code" db:"code"`
	Stackable bool            `json:"stackable" db:"stackable"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
}

// Cart is the aggregate of line items, applied coupons, and derived totals
// for one customer or guest session. Derived fields are recomputed after
// every mutation; FinalAmount never drops below zero.
type Cart struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OwnerKey       string          `json:"-" db:"owner_key"`
	Items          []CartItem      `json:"items"`
	AppliedCoupons []AppliedCoupon `json:"appliedCoupons"`
	TotalQuantity  int             `json:"totalQuantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalDiscount  decimal.Decimal `json:"totalDiscount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// NewCart returns an empty cart for the given owner key.
func NewCart(ownerKey string) *Cart {
	now := time.Now()
	return &Cart{
		ID:             uuid.New(),
		OwnerKey:       ownerKey,
		Items:          []CartItem{},
		AppliedCoupons: []AppliedCoupon{},
		Subtotal:       decimal.Zero,
		TotalDiscount:  decimal.Zero,
		FinalAmount:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Item returns the line item for the given product ID, or nil.
func (c *Cart) Item(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// HasCoupon reports whether the coupon is already applied.
func (c *Cart) HasCoupon(couponID uuid.UUID) bool {
	for _, ac := range c.AppliedCoupons {
		if ac.CouponID == couponID {
			return true
		}
	}
	return false
}
