package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus tracks fulfilment progress of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks the payment gateway state of an order.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Address is a shipping or pickup address.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// OrderItem is a snapshotted cart line within an order.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Quantity  int             `json:"quantity" db:"quantity"`
}

// Order is a placed order with totals frozen at checkout time.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          string          `json:"userId" db:"user_id"`
	Items           []OrderItem     `json:"items"`
	CouponCodes     []string        `json:"couponCodes,omitempty" db:"coupon_codes"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	TotalDiscount   decimal.Decimal `json:"totalDiscount" db:"total_discount"`
	FinalAmount     decimal.Decimal `json:"finalAmount" db:"final_amount"`
	ShippingAddress Address         `json:"shippingAddress"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	GatewayOrderID  string          `json:"gatewayOrderId,omitempty" db:"gateway_order_id"`
	PaymentID       string          `json:"paymentId,omitempty" db:"payment_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// Cancellable reports whether the order may still be cancelled by the
// customer. Shipped and later states are too far along.
func (o *Order) Cancellable() bool {
	return o.Status == OrderPending || o.Status == OrderProcessing
}

// CheckoutRequest is the request payload for placing an order from the
// caller's current cart.
type CheckoutRequest struct {
	ShippingAddress Address `json:"shippingAddress"`
}

// OrderStatusUpdateRequest is the admin payload for moving an order to a
// new fulfilment status.
type OrderStatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}
