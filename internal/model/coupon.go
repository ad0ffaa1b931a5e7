package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponType identifies the discount strategy of a coupon.
type CouponType string

const (
	// CouponPercentage discounts a percentage of the cart subtotal,
	// optionally capped by MaxDiscount.
	CouponPercentage CouponType = "percentage"
	// CouponFixed discounts a fixed amount, never exceeding the subtotal.
	CouponFixed CouponType = "fixed"
	// CouponFreeShipping waives the shipping fee. It contributes nothing
	// to the item-level discount.
	CouponFreeShipping CouponType = "free_shipping"
	// CouponBuyXGetY grants free units of a qualifying line item.
	CouponBuyXGetY CouponType = "buy_x_get_y"
)

// CouponScope restricts which cart items a coupon applies to.
type CouponScope string

const (
	// ScopeAll applies the coupon to every item.
	ScopeAll CouponScope = "all"
	// ScopeProducts applies the coupon only to listed product IDs.
	ScopeProducts CouponScope = "products"
	// ScopeCategories applies the coupon only to listed categories.
	ScopeCategories CouponScope = "categories"
)

// couponCodePattern matches valid coupon codes: uppercase alphanumeric,
// 3 to 20 characters.
var couponCodePattern = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// ValidCouponCode reports whether code satisfies the coupon code format.
func ValidCouponCode(code string) bool {
	return couponCodePattern.MatchString(code)
}

// Coupon is a discount rule created by an administrator. Pricing treats
// coupons as read-only; usage counters are incremented at checkout.
type Coupon struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Code          string           `json:"code" db:"code"`
	Type          CouponType       `json:"type" db:"type"`
	Value         decimal.Decimal  `json:"value" db:"value"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty" db:"max_discount"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue,omitempty" db:"min_order_value"`
	ValidFrom     time.Time        `json:"validFrom" db:"valid_from"`
	ValidTo       time.Time        `json:"validTo" db:"valid_to"`
	UsageLimit    int              `json:"usageLimit" db:"usage_limit"` // 0 = unlimited
	PerUserLimit  int              `json:"perUserLimit" db:"per_user_limit"`
	UsedCount     int              `json:"usedCount" db:"used_count"`
	IsActive      bool             `json:"isActive" db:"is_active"`
	FirstTimeOnly bool             `json:"firstTimeOnly" db:"first_time_only"`
	Stackable     bool             `json:"stackable" db:"stackable"`
	IsAutomatic   bool             `json:"isAutomatic" db:"is_automatic"`
	BuyQuantity   int              `json:"buyQuantity,omitempty" db:"buy_quantity"`
	GetQuantity   int              `json:"getQuantity,omitempty" db:"get_quantity"`
	MaxSets       int              `json:"maxSets,omitempty" db:"max_sets"`
	Scope         CouponScope      `json:"scope" db:"scope"`
	ScopeIDs      []string         `json:"scopeIds,omitempty" db:"scope_ids"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time        `json:"updatedAt" db:"updated_at"`
}

// IsCurrentlyValid reports whether the coupon can produce a discount at the
// given time: it must be active, inside its validity window, and not have
// exhausted its global usage limit.
func (c *Coupon) IsCurrentlyValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return false
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false
	}
	return true
}

// Validate checks the structural integrity of a coupon definition.
func (c *Coupon) Validate() error {
	if !ValidCouponCode(c.Code) {
		return ErrInvalidCouponCode
	}
	switch c.Type {
	case CouponPercentage:
		if c.Value.LessThanOrEqual(decimal.Zero) || c.Value.GreaterThan(decimal.NewFromInt(100)) {
			return NewDomainError(ErrCodeInvalidCoupon, "Percentage value must be between 0 and 100")
		}
	case CouponFixed:
		if c.Value.LessThanOrEqual(decimal.Zero) {
			return NewDomainError(ErrCodeInvalidCoupon, "Fixed discount value must be positive")
		}
	case CouponFreeShipping:
		// value is ignored
	case CouponBuyXGetY:
		if c.BuyQuantity < 1 || c.GetQuantity < 1 || c.MaxSets < 1 {
			return NewDomainError(ErrCodeInvalidCoupon, "Buy/get quantities and max sets must be at least 1")
		}
	default:
		return NewDomainError(ErrCodeInvalidCoupon, "Unknown coupon type")
	}
	if !c.ValidFrom.Before(c.ValidTo) {
		return NewDomainError(ErrCodeInvalidCoupon, "validFrom must be before validTo")
	}
	if c.Scope != ScopeAll && len(c.ScopeIDs) == 0 {
		return NewDomainError(ErrCodeInvalidCoupon, "Restricted coupons must list applicable products or categories")
	}
	return nil
}

// CouponStats aggregates redemption history for a single coupon.
type CouponStats struct {
	CouponID      uuid.UUID       `json:"couponId"`
	Code          string          `json:"code"`
	Redemptions   int             `json:"redemptions"`
	UniqueUsers   int             `json:"uniqueUsers"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
}
