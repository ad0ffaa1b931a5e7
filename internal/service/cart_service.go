package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloomkart/internal/cart"
	"bloomkart/internal/model"
	"bloomkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService. All mutations load the cart from the
// caller's store, mutate it through the cart aggregate, reprice the applied
// coupons, and save it back.
type cartService struct {
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	stores      CartStores
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	stores CartStores,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		productRepo: productRepo,
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		stores:      stores,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the caller's cart, creating an empty one if none exists.
func (s *cartService) Get(ctx context.Context, id Identity) (*model.Cart, error) {
	return s.load(ctx, id)
}

// AddItem adds quantity units of a product to the cart.
func (s *cartService) AddItem(ctx context.Context, id Identity, productID string, quantity int) (*model.Cart, error) {
	product, err := s.activeProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, func(c *model.Cart) error {
		current := 0
		if item := c.Item(productID); item != nil {
			current = item.Quantity
		}
		if current+quantity > product.Stock {
			return model.ErrOutOfStock
		}
		return cart.AddItem(c, product, quantity)
	})
}

// UpdateItem sets a line item's quantity; zero or less removes it.
func (s *cartService) UpdateItem(ctx context.Context, id Identity, productID string, quantity int) (*model.Cart, error) {
	if quantity > 0 {
		product, err := s.activeProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if quantity > product.Stock {
			return nil, model.ErrOutOfStock
		}
	}

	return s.mutate(ctx, id, func(c *model.Cart) error {
		return cart.SetItemQuantity(c, productID, quantity)
	})
}

// RemoveItem removes a line item. Removing an absent item is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, id Identity, productID string) (*model.Cart, error) {
	return s.mutate(ctx, id, func(c *model.Cart) error {
		return cart.RemoveItem(c, productID)
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, id Identity) (*model.Cart, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	cart.Clear(c)
	if err := s.stores.For(id).Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// ApplyCoupon applies a coupon code to the cart after validating it against
// the cart's contents and the caller's history.
func (s *cartService) ApplyCoupon(ctx context.Context, id Identity, code string) (*model.Cart, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !model.ValidCouponCode(code) {
		return nil, model.ErrInvalidCouponCode
	}

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return nil, model.ErrCouponNotValid
	}

	if coupon.PerUserLimit > 0 && !id.IsGuest() {
		used, err := s.couponRepo.CountRedemptionsByUser(ctx, coupon.ID, id.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count redemptions: %w", err)
		}
		if used >= coupon.PerUserLimit {
			return nil, model.NewDomainError(model.ErrCodeCouponNotApplicable,
				"You have already used this coupon the maximum number of times")
		}
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cart.ApplyCoupon(c, coupon, s.userOrderCount(ctx, id), time.Now()); err != nil {
		return nil, err
	}

	if err := s.stores.For(id).Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Info().
		Str("owner", c.OwnerKey).
		Str("code", coupon.Code).
		Str("discount", c.TotalDiscount.StringFixed(2)).
		Msg("coupon applied to cart")

	return c, nil
}

// RemoveCoupon removes an applied coupon by ID. Removing an absent coupon
// is a no-op.
func (s *cartService) RemoveCoupon(ctx context.Context, id Identity, couponID uuid.UUID) (*model.Cart, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	cart.RemoveCoupon(c, couponID)

	if err := s.reprice(ctx, id, c); err != nil {
		return nil, err
	}
	if err := s.stores.For(id).Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// load fetches the caller's cart, creating an empty one when none exists.
func (s *cartService) load(ctx context.Context, id Identity) (*model.Cart, error) {
	if !id.Valid() {
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "A user or session identity is required")
	}

	c, err := s.stores.For(id).Get(ctx, id.OwnerKey())
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if c == nil {
		c = model.NewCart(id.OwnerKey())
	}
	return c, nil
}

// mutate runs an item mutation against the caller's cart, reprices the
// applied coupons against the new contents, and saves the result.
func (s *cartService) mutate(ctx context.Context, id Identity, fn func(*model.Cart) error) (*model.Cart, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	if err := s.reprice(ctx, id, c); err != nil {
		return nil, err
	}
	if err := s.stores.For(id).Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// reprice revalidates and recomputes the applied coupons against fresh
// definitions and the cart's new contents. A mutation that drops the cart
// below a coupon's minimum order value, or removes the items a scoped
// coupon covered, removes that coupon here.
func (s *cartService) reprice(ctx context.Context, id Identity, c *model.Cart) error {
	if len(c.AppliedCoupons) == 0 {
		cart.Reprice(c, nil, 0, time.Now())
		return nil
	}

	ids := make([]uuid.UUID, 0, len(c.AppliedCoupons))
	for _, applied := range c.AppliedCoupons {
		ids = append(ids, applied.CouponID)
	}

	coupons, err := s.couponRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to get coupons: %w", err)
	}

	cart.Reprice(c, coupons, s.userOrderCount(ctx, id), time.Now())
	return nil
}

// activeProduct fetches a product and confirms it can still be sold.
func (s *cartService) activeProduct(ctx context.Context, productID string) (*model.Product, error) {
	if productID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product ID is required")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// userOrderCount returns the caller's non-cancelled order count for the
// first-time-customer rule.
func (s *cartService) userOrderCount(ctx context.Context, id Identity) int {
	if id.IsGuest() {
		return 0
	}
	count, err := s.orderRepo.CountByUser(ctx, id.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", id.UserID).Msg("failed to count orders, assuming first-time")
		return 0
	}
	return count
}
