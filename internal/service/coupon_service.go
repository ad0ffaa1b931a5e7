package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloomkart/internal/cart"
	"bloomkart/internal/coupon"
	"bloomkart/internal/model"
	"bloomkart/internal/pricing"
	"bloomkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartStores bundles the per-identity cart stores. Guest carts live in
// memory; signed-in carts live in the database.
type CartStores struct {
	User  cart.Store
	Guest cart.Store
}

// For returns the store that holds the given identity's cart.
func (s CartStores) For(id Identity) cart.Store {
	if id.IsGuest() {
		return s.Guest
	}
	return s.User
}

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	orderRepo  repository.OrderRepository
	stores     CartStores
	loaders    map[string]coupon.Loader
	logger     zerolog.Logger
}

// NewCouponService creates a new coupon service. The loaders map keys are
// bulk-import sources ("file", "s3").
func NewCouponService(
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	stores CartStores,
	loaders map[string]coupon.Loader,
	logger zerolog.Logger,
) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		orderRepo:  orderRepo,
		stores:     stores,
		loaders:    loaders,
		logger:     logger.With().Str("service", "coupon").Logger(),
	}
}

// Create adds a new coupon after validating its definition.
func (s *couponService) Create(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ID = uuid.New()
	c.UsedCount = 0
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.couponRepo.Create(ctx, c); err != nil {
		if _, ok := err.(*model.DomainError); ok {
			return nil, err
		}
		s.logger.Error().Err(err).Str("code", c.Code).Msg("failed to create coupon")
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info().
		Str("coupon_id", c.ID.String()).
		Str("code", c.Code).
		Str("type", string(c.Type)).
		Msg("coupon created")

	return c, nil
}

// Update edits an existing coupon. The code and redemption counters are
// immutable.
func (s *couponService) Update(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	existing, err := s.couponRepo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCouponNotFound
	}

	c.Code = existing.Code
	c.UsedCount = existing.UsedCount
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Update(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to update coupon")
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	return c, nil
}

// Delete removes a coupon.
func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get coupon: %w", err)
	}
	if existing == nil {
		return model.ErrCouponNotFound
	}

	if err := s.couponRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	s.logger.Info().Str("coupon_id", id.String()).Str("code", existing.Code).Msg("coupon deleted")
	return nil
}

// GetByID retrieves a coupon by ID.
func (s *couponService) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	c, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return nil, model.ErrCouponNotFound
	}
	return c, nil
}

// List retrieves coupons with pagination.
func (s *couponService) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	limit, offset = clampPage(limit, offset)

	coupons, err := s.couponRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list coupons")
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// Stats aggregates redemption history for one coupon.
func (s *couponService) Stats(ctx context.Context, id uuid.UUID) (*model.CouponStats, error) {
	existing, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCouponNotFound
	}

	stats, err := s.couponRepo.Stats(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to get coupon stats")
		return nil, fmt.Errorf("failed to get coupon stats: %w", err)
	}
	return stats, nil
}

// Validate checks a coupon code against the caller's current cart without
// applying it. An unknown or rejected coupon yields Valid=false with a
// reason, not an error.
func (s *couponService) Validate(ctx context.Context, id Identity, code string) (*CouponValidation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !model.ValidCouponCode(code) {
		return &CouponValidation{Valid: false, Reason: model.ErrInvalidCouponCode.Message}, nil
	}

	c, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c == nil {
		return &CouponValidation{Valid: false, Reason: "Coupon is not valid"}, nil
	}

	current, err := s.currentCart(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := pricing.CanApply(c, current.Items, current.Subtotal, s.orderCount(ctx, id), now)
	if result.CanApply {
		if ok, reason := s.withinPerUserLimit(ctx, id, c); !ok {
			result = pricing.Applicability{CanApply: false, Reason: reason}
		}
	}
	if !result.CanApply {
		return &CouponValidation{Valid: false, Reason: result.Reason}, nil
	}

	discount := pricing.DiscountPreview(c, current.Subtotal, current.Items, now)
	return &CouponValidation{
		Valid:    true,
		Discount: discount.StringFixed(2),
		Coupon:   c,
	}, nil
}

// Available lists coupons the caller's cart currently qualifies for.
// Automatic coupons are excluded since they are never entered by hand.
func (s *couponService) Available(ctx context.Context, id Identity) ([]model.Coupon, error) {
	coupons, err := s.couponRepo.List(ctx, 100, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	current, err := s.currentCart(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	orderCount := s.orderCount(ctx, id)

	available := []model.Coupon{}
	for i := range coupons {
		c := &coupons[i]
		if c.IsAutomatic {
			continue
		}
		if !pricing.CanApply(c, current.Items, current.Subtotal, orderCount, now).CanApply {
			continue
		}
		if ok, _ := s.withinPerUserLimit(ctx, id, c); !ok {
			continue
		}
		available = append(available, *c)
	}
	return available, nil
}

// BulkImport creates one coupon per code in a gzipped code file, using the
// request's template for everything but the code.
func (s *couponService) BulkImport(ctx context.Context, req *BulkImportRequest) (*BulkImportResult, error) {
	loader, ok := s.loaders[req.Source]
	if !ok {
		return nil, model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("Unknown import source %q", req.Source))
	}

	template := req.Template
	template.Code = "TEMPLATE0" // placeholder so the template itself validates
	if err := template.Validate(); err != nil {
		return nil, err
	}

	set, err := loader.Load(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon codes: %w", err)
	}

	now := time.Now()
	coupons := make([]*model.Coupon, 0, set.Size())
	for _, code := range set.Codes() {
		c := req.Template
		c.ID = uuid.New()
		c.Code = code
		c.UsedCount = 0
		c.CreatedAt = now
		c.UpdatedAt = now
		coupons = append(coupons, &c)
	}

	created, err := s.couponRepo.CreateBatch(ctx, coupons)
	if err != nil {
		s.logger.Error().Err(err).Str("source", req.Source).Msg("bulk coupon import failed")
		return nil, fmt.Errorf("failed to import coupons: %w", err)
	}

	s.logger.Info().
		Str("source", req.Source).
		Str("path", req.Path).
		Int("codes", set.Size()).
		Int("created", created).
		Msg("bulk coupon import complete")

	return &BulkImportResult{
		CodesRead: set.Size(),
		Created:   created,
		Skipped:   set.Size() - created,
	}, nil
}

// currentCart fetches the caller's cart, substituting an empty cart when
// none exists yet.
func (s *couponService) currentCart(ctx context.Context, id Identity) (*model.Cart, error) {
	if !id.Valid() {
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "A user or session identity is required")
	}

	current, err := s.stores.For(id).Get(ctx, id.OwnerKey())
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if current == nil {
		current = model.NewCart(id.OwnerKey())
	}
	return current, nil
}

// orderCount returns the caller's non-cancelled order count, used for the
// first-time-customer rule. Guests have no history, so zero.
func (s *couponService) orderCount(ctx context.Context, id Identity) int {
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

// withinPerUserLimit checks the coupon's per-user redemption limit for
// signed-in callers. Guests cannot be tracked per user, so they pass.
func (s *couponService) withinPerUserLimit(ctx context.Context, id Identity, c *model.Coupon) (bool, string) {
	if c.PerUserLimit <= 0 || id.IsGuest() {
		return true, ""
	}
	used, err := s.couponRepo.CountRedemptionsByUser(ctx, c.ID, id.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to count redemptions")
		return true, ""
	}
	if used >= c.PerUserLimit {
		return false, "You have already used this coupon the maximum number of times"
	}
	return true, ""
}
