package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidCoupon       = "INVALID_COUPON"
	ErrCodeCouponNotApplicable = "COUPON_NOT_APPLICABLE"
	ErrCodeCouponConflict      = "COUPON_CONFLICT"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeCouponNotFound      = "COUPON_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeReturnNotFound      = "RETURN_NOT_FOUND"
	ErrCodeCartEmpty           = "CART_EMPTY"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeOutOfStock          = "OUT_OF_STOCK"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeNotEligible         = "NOT_ELIGIBLE"
	ErrCodePaymentFailed       = "PAYMENT_VERIFICATION_FAILED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation that maps to a 4xx response.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidCouponCode = NewDomainError(ErrCodeInvalidCoupon, "Coupon code must be 3-20 uppercase alphanumeric characters")
	ErrCouponNotFound    = NewDomainError(ErrCodeCouponNotFound, "Coupon not found")
	ErrCouponNotValid    = NewDomainError(ErrCodeInvalidCoupon, "Coupon is not valid")
	ErrCouponConflict    = NewDomainError(ErrCodeCouponConflict, "Coupon cannot be combined with the coupons already applied")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrReturnNotFound    = NewDomainError(ErrCodeReturnNotFound, "Return request not found")
	ErrCartEmpty         = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOutOfStock        = NewDomainError(ErrCodeOutOfStock, "Insufficient stock for one or more products")
	ErrPaymentFailed     = NewDomainError(ErrCodePaymentFailed, "Payment signature verification failed")
)
