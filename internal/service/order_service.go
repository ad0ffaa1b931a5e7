package service

import (
	"context"
	"fmt"
	"time"

	"bloomkart/internal/cart"
	"bloomkart/internal/model"
	"bloomkart/internal/pricing"
	"bloomkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderStatusFlow lists the legal fulfilment transitions for admins.
var orderStatusFlow = map[model.OrderStatus][]model.OrderStatus{
	model.OrderPending:    {model.OrderProcessing, model.OrderCancelled},
	model.OrderProcessing: {model.OrderShipped, model.OrderCancelled},
	model.OrderShipped:    {model.OrderDelivered},
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	stores      CartStores
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	stores CartStores,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		stores:      stores,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout places an order from the caller's cart. Stock is decremented,
// applied coupons are re-validated and redeemed, and the order is inserted,
// all in one transaction. The cart is cleared on success. Guests must sign
// in to check out.
func (s *orderService) Checkout(ctx context.Context, id Identity, req *model.CheckoutRequest) (*model.Order, error) {
	if id.IsGuest() {
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "Sign in to place an order")
	}
	if err := validateAddress(&req.ShippingAddress); err != nil {
		return nil, err
	}

	c, err := s.stores.For(id).Get(ctx, id.OwnerKey())
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if c == nil || len(c.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	now := time.Now()

	// Re-validate applied coupons against current definitions. A coupon
	// that expired or was exhausted since it was applied fails checkout
	// rather than silently changing the total the customer approved.
	coupons, err := s.revalidateCoupons(ctx, id, c, now)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:              uuid.New(),
		UserID:          id.UserID,
		Subtotal:        c.Subtotal,
		TotalDiscount:   c.TotalDiscount,
		FinalAmount:     c.FinalAmount,
		ShippingAddress: req.ShippingAddress,
		Status:          model.OrderPending,
		PaymentStatus:   model.PaymentUnpaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range c.Items {
		order.Items = append(order.Items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	for _, applied := range c.AppliedCoupons {
		order.CouponCodes = append(order.CouponCodes, applied.Code)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range c.Items {
		if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", id.UserID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, applied := range c.AppliedCoupons {
		if _, ok := coupons[applied.CouponID]; !ok {
			continue
		}
		err := s.couponRepo.RecordRedemption(ctx, tx, applied.CouponID, id.UserID, order.ID, applied.Discount.StringFixed(2))
		if err != nil {
			return nil, fmt.Errorf("failed to record coupon redemption: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	if err := s.stores.For(id).Delete(ctx, id.OwnerKey()); err != nil {
		s.logger.Warn().Err(err).Str("owner", id.OwnerKey()).Msg("failed to clear cart after checkout")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", id.UserID).
		Str("final_amount", order.FinalAmount.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order placed")

	return order, nil
}

// GetByID retrieves an order. Customers only see their own orders.
func (s *orderService) GetByID(ctx context.Context, id Identity, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != id.UserID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ListMine retrieves the caller's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, id Identity, limit, offset int) ([]model.Order, error) {
	if id.IsGuest() {
		return []model.Order{}, nil
	}
	limit, offset = clampPage(limit, offset)

	orders, err := s.orderRepo.ListByUser(ctx, id.UserID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.UserID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Cancel cancels the caller's order while it is still pending or processing.
func (s *orderService) Cancel(ctx context.Context, id Identity, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.GetByID(ctx, id, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Cancellable() {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("Order in status %q can no longer be cancelled", order.Status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, model.OrderCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	order.Status = model.OrderCancelled
	s.logger.Info().Str("order_id", orderID.String()).Msg("order cancelled by customer")
	return order, nil
}

// AdminUpdateStatus moves an order along the fulfilment flow.
func (s *orderService) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	allowed := false
	for _, next := range orderStatusFlow[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition,
			fmt.Sprintf("Cannot move order from %q to %q", order.Status, status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = status
	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", string(status)).
		Msg("order status updated")
	return order, nil
}

// revalidateCoupons checks every applied coupon against its current
// definition, the cart's contents, and the caller's history, returning the
// definitions keyed by ID for redemption recording. A coupon the cart no
// longer earns fails checkout rather than silently changing the total.
func (s *orderService) revalidateCoupons(ctx context.Context, id Identity, c *model.Cart, now time.Time) (map[uuid.UUID]*model.Coupon, error) {
	if len(c.AppliedCoupons) == 0 {
		return map[uuid.UUID]*model.Coupon{}, nil
	}

	ids := make([]uuid.UUID, 0, len(c.AppliedCoupons))
	for _, applied := range c.AppliedCoupons {
		ids = append(ids, applied.CouponID)
	}
	coupons, err := s.couponRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}

	orderCount, err := s.orderRepo.CountByUser(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	for _, applied := range c.AppliedCoupons {
		coupon, ok := coupons[applied.CouponID]
		if !ok || !coupon.IsCurrentlyValid(now) {
			return nil, model.NewDomainError(model.ErrCodeInvalidCoupon,
				fmt.Sprintf("Coupon %s is no longer valid, remove it to continue", applied.Code))
		}
		if coupon.FirstTimeOnly && orderCount > 0 {
			return nil, model.NewDomainError(model.ErrCodeCouponNotApplicable,
				fmt.Sprintf("Coupon %s is only valid for first-time customers", applied.Code))
		}
		if result := pricing.CanApply(coupon, c.Items, c.Subtotal, orderCount, now); !result.CanApply {
			return nil, model.NewDomainError(model.ErrCodeCouponNotApplicable,
				fmt.Sprintf("Coupon %s no longer applies to this cart: %s", applied.Code, result.Reason))
		}
		if coupon.PerUserLimit > 0 {
			used, err := s.couponRepo.CountRedemptionsByUser(ctx, coupon.ID, id.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to count redemptions: %w", err)
			}
			if used >= coupon.PerUserLimit {
				return nil, model.NewDomainError(model.ErrCodeCouponNotApplicable,
					fmt.Sprintf("Coupon %s has already been used the maximum number of times", applied.Code))
			}
		}
	}

	// recompute discounts before freezing totals
	cart.Reprice(c, coupons, orderCount, now)

	return coupons, nil
}

// validateAddress checks the required shipping address fields.
func validateAddress(a *model.Address) error {
	switch {
	case a.Line1 == "":
		return model.NewDomainError(model.ErrCodeMissingField, "Shipping address line1 is required")
	case a.City == "":
		return model.NewDomainError(model.ErrCodeMissingField, "Shipping address city is required")
	case a.PostalCode == "":
		return model.NewDomainError(model.ErrCodeMissingField, "Shipping address postal code is required")
	case a.Country == "":
		return model.NewDomainError(model.ErrCodeMissingField, "Shipping address country is required")
	}
	return nil
}
