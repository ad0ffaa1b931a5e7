package service

import (
	"context"

	"bloomkart/internal/model"
	"bloomkart/internal/returns"

	"github.com/google/uuid"
)

// Identity is the caller identity extracted from request headers. Signed-in
// customers carry a user ID; guests carry a session ID.
type Identity struct {
	UserID    string
	SessionID string
}

// IsGuest reports whether the caller has no user identity.
func (id Identity) IsGuest() bool {
	return id.UserID == ""
}

// OwnerKey returns the cart owner key for this identity.
func (id Identity) OwnerKey() string {
	if id.IsGuest() {
		return "session:" + id.SessionID
	}
	return "user:" + id.UserID
}

// Valid reports whether the identity can own a cart at all.
func (id Identity) Valid() bool {
	return id.UserID != "" || id.SessionID != ""
}

// ProductService defines operations for the product catalogue and search.
type ProductService interface {
	// GetAll retrieves active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Search retrieves products matching a query.
	Search(ctx context.Context, q model.SearchQuery) ([]model.Product, error)

	// Suggestions returns product-name suggestions for a partial term.
	Suggestions(ctx context.Context, term string, limit int) ([]string, error)

	// Categories returns category facets.
	Categories(ctx context.Context) ([]model.CategoryFacet, error)

	// PriceRanges returns price-bucket facets.
	PriceRanges(ctx context.Context) ([]model.PriceRange, error)
}

// CouponValidation is the outcome of validating a coupon against the
// caller's cart.
type CouponValidation struct {
	Valid    bool            `json:"valid"`
	Reason   string          `json:"reason,omitempty"`
	Discount string          `json:"discount,omitempty"`
	Coupon   *model.Coupon   `json:"coupon,omitempty"`
}

// BulkImportRequest describes a coupon-code file to import plus the
// template the created coupons share.
type BulkImportRequest struct {
	Source   string       `json:"source"` // "file" or "s3"
	Path     string       `json:"path"`
	Template model.Coupon `json:"template"`
}

// BulkImportResult summarises a bulk import.
type BulkImportResult struct {
	CodesRead int `json:"codesRead"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

// CouponService defines operations for coupon management and validation.
type CouponService interface {
	// Create adds a new coupon after validating its definition.
	Create(ctx context.Context, c *model.Coupon) (*model.Coupon, error)

	// Update edits an existing coupon.
	Update(ctx context.Context, c *model.Coupon) (*model.Coupon, error)

	// Delete removes a coupon.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves a coupon by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// List retrieves coupons with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)

	// Stats aggregates redemption history for one coupon.
	Stats(ctx context.Context, id uuid.UUID) (*model.CouponStats, error)

	// Validate checks a coupon code against the caller's current cart
	// without applying it.
	Validate(ctx context.Context, id Identity, code string) (*CouponValidation, error)

	// Available lists coupons the caller's cart currently qualifies for.
	Available(ctx context.Context, id Identity) ([]model.Coupon, error)

	// BulkImport creates coupons from a gzipped code file.
	BulkImport(ctx context.Context, req *BulkImportRequest) (*BulkImportResult, error)
}

// CartService defines the cart operations. Every mutation returns the full
// cart, which is the authoritative state for the caller.
type CartService interface {
	// Get returns the caller's cart, creating an empty one if needed.
	Get(ctx context.Context, id Identity) (*model.Cart, error)

	// AddItem adds quantity units of a product to the cart.
	AddItem(ctx context.Context, id Identity, productID string, quantity int) (*model.Cart, error)

	// UpdateItem sets a line item's quantity; zero or less removes it.
	UpdateItem(ctx context.Context, id Identity, productID string, quantity int) (*model.Cart, error)

	// RemoveItem removes a line item.
	RemoveItem(ctx context.Context, id Identity, productID string) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, id Identity) (*model.Cart, error)

	// ApplyCoupon applies a coupon code to the cart.
	ApplyCoupon(ctx context.Context, id Identity, code string) (*model.Cart, error)

	// RemoveCoupon removes an applied coupon by ID.
	RemoveCoupon(ctx context.Context, id Identity, couponID uuid.UUID) (*model.Cart, error)
}

// OrderService defines checkout and order management operations.
type OrderService interface {
	// Checkout places an order from the caller's cart and clears it.
	Checkout(ctx context.Context, id Identity, req *model.CheckoutRequest) (*model.Order, error)

	// GetByID retrieves an order visible to the caller.
	GetByID(ctx context.Context, id Identity, orderID uuid.UUID) (*model.Order, error)

	// ListMine retrieves the caller's orders.
	ListMine(ctx context.Context, id Identity, limit, offset int) ([]model.Order, error)

	// Cancel cancels the caller's order while it is still cancellable.
	Cancel(ctx context.Context, id Identity, orderID uuid.UUID) (*model.Order, error)

	// AdminUpdateStatus moves an order to a new fulfilment status.
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// ReturnView is a return request together with its display metadata.
type ReturnView struct {
	model.ReturnRequest
	Display returns.Display `json:"display"`
}

// ReturnService defines return-request operations.
type ReturnService interface {
	// Create opens a return request against an eligible order.
	Create(ctx context.Context, id Identity, req *model.CreateReturnRequest) (*ReturnView, error)

	// GetByID retrieves a return request visible to the caller.
	GetByID(ctx context.Context, id Identity, returnID uuid.UUID) (*ReturnView, error)

	// ListMine retrieves the caller's return requests.
	ListMine(ctx context.Context, id Identity) ([]ReturnView, error)

	// Update edits a return request still in the requested state.
	Update(ctx context.Context, id Identity, returnID uuid.UUID, req *model.UpdateReturnRequest) (*ReturnView, error)

	// Cancel cancels the caller's return request.
	Cancel(ctx context.Context, id Identity, returnID uuid.UUID) (*ReturnView, error)

	// CheckEligibility reports whether an order can still be returned.
	CheckEligibility(ctx context.Context, id Identity, orderID uuid.UUID) (*model.ReturnEligibility, error)

	// AdminList retrieves return requests, optionally filtered by status.
	AdminList(ctx context.Context, status *model.ReturnStatus, limit, offset int) ([]ReturnView, error)

	// AdminUpdateStatus performs an admin status transition.
	AdminUpdateStatus(ctx context.Context, returnID uuid.UUID, status model.ReturnStatus) (*ReturnView, error)
}

// PaymentOrder is the checkout handle handed to the frontend.
type PaymentOrder struct {
	OrderID        uuid.UUID `json:"orderId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	Key            string    `json:"key"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
}

// VerifyPaymentRequest carries the gateway's callback payload, forwarded
// verbatim by the frontend.
type VerifyPaymentRequest struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

// PaymentService defines the payment-gateway operations.
type PaymentService interface {
	// CreateOrder registers an order with the gateway for checkout.
	CreateOrder(ctx context.Context, id Identity, orderID uuid.UUID) (*PaymentOrder, error)

	// VerifyPayment checks the gateway callback signature and marks the
	// order paid.
	VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*model.Order, error)
}
