package pricing

import (
	"fmt"
	"time"

	"bloomkart/internal/model"

	"github.com/shopspring/decimal"
)

// Applicability is the outcome of checking whether a coupon can be applied
// to a cart. Reason is empty when CanApply is true.
type Applicability struct {
	CanApply bool   `json:"canApply"`
	Reason   string `json:"reason,omitempty"`
}

// CanApply evaluates whether a coupon may be applied to a cart. Checks
// short-circuit in a fixed order: validity, minimum order value,
// first-time-customer restriction, then product/category scope.
func CanApply(coupon *model.Coupon, items []model.CartItem, subtotal decimal.Decimal, userOrderCount int, now time.Time) Applicability {
	if coupon == nil || !coupon.IsCurrentlyValid(now) {
		return Applicability{CanApply: false, Reason: "Coupon is not valid"}
	}

	if coupon.MinOrderValue != nil && subtotal.LessThan(*coupon.MinOrderValue) {
		return Applicability{
			CanApply: false,
			Reason:   fmt.Sprintf("Minimum order value of $%s required", formatAmount(*coupon.MinOrderValue)),
		}
	}

	if coupon.FirstTimeOnly && userOrderCount > 0 {
		return Applicability{CanApply: false, Reason: "Coupon is only valid for first-time customers"}
	}

	if coupon.Scope != model.ScopeAll {
		matched := false
		for _, item := range items {
			if inScope(coupon, item) {
				matched = true
				break
			}
		}
		if !matched {
			return Applicability{CanApply: false, Reason: "Coupon is not applicable to items in your cart"}
		}
	}

	return Applicability{CanApply: true}
}

// formatAmount renders a whole-dollar amount without cents ("50") and
// anything else with two decimal places ("49.50").
func formatAmount(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.Truncate(0).String()
	}
	return d.StringFixed(2)
}
