package repository

import (
	"context"

	"bloomkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Search retrieves products matching a search query.
	Search(ctx context.Context, q model.SearchQuery) ([]model.Product, error)

	// Suggest returns product names starting with or containing the term.
	Suggest(ctx context.Context, term string, limit int) ([]string, error)

	// Categories returns the distinct categories with product counts.
	Categories(ctx context.Context) ([]model.CategoryFacet, error)

	// PriceRanges returns price buckets with product counts.
	PriceRanges(ctx context.Context) ([]model.PriceRange, error)

	// DecrementStock reduces stock for a product inside a transaction,
	// failing when stock would go negative.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) error
}

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// Create inserts a new coupon.
	Create(ctx context.Context, c *model.Coupon) error

	// CreateBatch inserts many coupons inside one transaction, skipping
	// codes that already exist. Returns the number inserted.
	CreateBatch(ctx context.Context, coupons []*model.Coupon) (int, error)

	// Update replaces the mutable fields of a coupon.
	Update(ctx context.Context, c *model.Coupon) error

	// Delete removes a coupon by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves a coupon by ID, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// GetByCode retrieves a coupon by its code, or nil when absent.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByIDs retrieves multiple coupons keyed by ID.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Coupon, error)

	// List retrieves coupons with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)

	// Stats aggregates redemption history for one coupon.
	Stats(ctx context.Context, id uuid.UUID) (*model.CouponStats, error)

	// CountRedemptionsByUser counts how often a user has redeemed a coupon.
	CountRedemptionsByUser(ctx context.Context, couponID uuid.UUID, userID string) (int, error)

	// RecordRedemption inserts a redemption row and bumps the coupon's
	// used counter inside the provided transaction.
	RecordRedemption(ctx context.Context, tx pgx.Tx, couponID uuid.UUID, userID string, orderID uuid.UUID, discount string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts an order and its items within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error)

	// CountByUser counts a user's non-cancelled orders.
	CountByUser(ctx context.Context, userID string) (int, error)

	// UpdateStatus sets the fulfilment status of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error

	// SetPayment records gateway order/payment IDs and payment status.
	SetPayment(ctx context.Context, id uuid.UUID, gatewayOrderID, paymentID string, status model.PaymentStatus) error

	// GetByGatewayOrderID finds the order attached to a gateway order.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.Order, error)
}

// ReturnRepository defines the interface for return-request data access.
type ReturnRepository interface {
	// Create inserts a new return request with its items.
	Create(ctx context.Context, r *model.ReturnRequest) error

	// GetByID retrieves a return request, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error)

	// ListByUser retrieves a user's return requests, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.ReturnRequest, error)

	// ListAll retrieves return requests, optionally filtered by status.
	ListAll(ctx context.Context, status *model.ReturnStatus, limit, offset int) ([]model.ReturnRequest, error)

	// Update persists the mutable fields of a return request.
	Update(ctx context.Context, r *model.ReturnRequest) error

	// UpdateStatus sets the status of a return request.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReturnStatus) error

	// ExistsForOrder reports whether a non-cancelled return already exists
	// for an order.
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
}
