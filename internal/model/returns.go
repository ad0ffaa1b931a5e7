package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus is the lifecycle state of a return request.
type ReturnStatus string

const (
	ReturnRequested  ReturnStatus = "requested"
	ReturnApproved   ReturnStatus = "approved"
	ReturnRejected   ReturnStatus = "rejected"
	ReturnProcessing ReturnStatus = "processing"
	ReturnCompleted  ReturnStatus = "completed"
	ReturnCancelled  ReturnStatus = "cancelled"
)

// ReturnType is what the customer wants out of the return.
type ReturnType string

const (
	ReturnRefund      ReturnType = "refund"
	ReturnExchange    ReturnType = "exchange"
	ReturnStoreCredit ReturnType = "store_credit"
)

// ReturnItem is a single returned product line.
type ReturnItem struct {
	ProductID string `json:"productId" db:"product_id"`
	Quantity  int    `json:"quantity" db:"quantity"`
	Reason    string `json:"reason" db:"reason"`
	Condition string `json:"condition" db:"condition"`
}

// ReturnRequest is a customer's request to return items from an order.
// Refund issuance and notifications are external side effects; this entity
// only tracks the request and its status.
type ReturnRequest struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderID       uuid.UUID       `json:"orderId" db:"order_id"`
	UserID        string          `json:"userId" db:"user_id"`
	Items         []ReturnItem    `json:"items"`
	Reason        string          `json:"reason" db:"reason"`
	Description   string          `json:"description,omitempty" db:"description"`
	Type          ReturnType      `json:"type" db:"type"`
	PickupAddress Address         `json:"pickupAddress"`
	RefundAmount  decimal.Decimal `json:"refundAmount" db:"refund_amount"`
	Status        ReturnStatus    `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// ReturnEligibility is the result of checking whether an order can still be
// returned.
type ReturnEligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// CreateReturnRequest is the request payload for opening a return.
type CreateReturnRequest struct {
	OrderID       uuid.UUID    `json:"orderId"`
	Items         []ReturnItem `json:"items"`
	Reason        string       `json:"reason"`
	Description   string       `json:"description,omitempty"`
	Type          ReturnType   `json:"type"`
	PickupAddress Address      `json:"pickupAddress"`
}

// UpdateReturnRequest is the customer payload for editing a return that is
// still in the requested state.
type UpdateReturnRequest struct {
	Description   *string  `json:"description,omitempty"`
	PickupAddress *Address `json:"pickupAddress,omitempty"`
}

// ReturnStatusUpdateRequest is the admin payload for a status transition.
type ReturnStatusUpdateRequest struct {
	Status ReturnStatus `json:"status"`
}
