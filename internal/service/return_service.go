package service

import (
	"context"
	"fmt"
	"time"

	"bloomkart/internal/model"
	"bloomkart/internal/repository"
	"bloomkart/internal/returns"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// returnWindow is how long after delivery an order stays returnable.
const returnWindow = 30 * 24 * time.Hour

// returnService implements ReturnService.
type returnService struct {
	returnRepo repository.ReturnRepository
	orderRepo  repository.OrderRepository
	logger     zerolog.Logger
}

// NewReturnService creates a new return service.
func NewReturnService(returnRepo repository.ReturnRepository, orderRepo repository.OrderRepository, logger zerolog.Logger) ReturnService {
	return &returnService{
		returnRepo: returnRepo,
		orderRepo:  orderRepo,
		logger:     logger.With().Str("service", "return").Logger(),
	}
}

// Create opens a return request against an eligible order. The refund
// amount is computed from the order's unit prices, scaled by the order's
// overall discount so a discounted order never refunds more than was paid.
func (s *returnService) Create(ctx context.Context, id Identity, req *model.CreateReturnRequest) (*ReturnView, error) {
	if id.IsGuest() {
		return nil, model.NewDomainError(model.ErrCodeUnauthorised, "Sign in to request a return")
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != id.UserID {
		return nil, model.ErrOrderNotFound
	}

	if elig := s.eligibility(ctx, order); !elig.Eligible {
		return nil, model.NewDomainError(model.ErrCodeNotEligible, elig.Reason)
	}

	if err := validateReturnRequest(req, order); err != nil {
		return nil, err
	}

	now := time.Now()
	r := &model.ReturnRequest{
		ID:            uuid.New(),
		OrderID:       order.ID,
		UserID:        id.UserID,
		Items:         req.Items,
		Reason:        req.Reason,
		Description:   req.Description,
		Type:          req.Type,
		PickupAddress: req.PickupAddress,
		RefundAmount:  refundAmount(req.Items, order),
		Status:        model.ReturnRequested,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.returnRepo.Create(ctx, r); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create return request")
		return nil, fmt.Errorf("failed to create return request: %w", err)
	}

	s.logger.Info().
		Str("return_id", r.ID.String()).
		Str("order_id", order.ID.String()).
		Str("refund_amount", r.RefundAmount.StringFixed(2)).
		Msg("return request created")

	return view(r), nil
}

// GetByID retrieves a return request. Customers only see their own.
func (s *returnService) GetByID(ctx context.Context, id Identity, returnID uuid.UUID) (*ReturnView, error) {
	r, err := s.owned(ctx, id, returnID)
	if err != nil {
		return nil, err
	}
	return view(r), nil
}

// ListMine retrieves the caller's return requests.
func (s *returnService) ListMine(ctx context.Context, id Identity) ([]ReturnView, error) {
	if id.IsGuest() {
		return []ReturnView{}, nil
	}

	list, err := s.returnRepo.ListByUser(ctx, id.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id.UserID).Msg("failed to list return requests")
		return nil, fmt.Errorf("failed to list return requests: %w", err)
	}
	return views(list), nil
}

// Update edits a return request still in the requested state. Only the
// description and pickup address can change once a request exists.
func (s *returnService) Update(ctx context.Context, id Identity, returnID uuid.UUID, req *model.UpdateReturnRequest) (*ReturnView, error) {
	r, err := s.owned(ctx, id, returnID)
	if err != nil {
		return nil, err
	}

	if r.Status != model.ReturnRequested {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition,
			"Return request can only be edited while it is still requested")
	}

	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.PickupAddress != nil {
		if err := validateAddress(req.PickupAddress); err != nil {
			return nil, err
		}
		r.PickupAddress = *req.PickupAddress
	}
	r.UpdatedAt = time.Now()

	if err := s.returnRepo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update return request: %w", err)
	}
	return view(r), nil
}

// Cancel cancels the caller's return request while it is still cancellable.
func (s *returnService) Cancel(ctx context.Context, id Identity, returnID uuid.UUID) (*ReturnView, error) {
	r, err := s.owned(ctx, id, returnID)
	if err != nil {
		return nil, err
	}

	if err := returns.Transition(r, model.ReturnCancelled, returns.ActorCustomer); err != nil {
		return nil, err
	}

	if err := s.returnRepo.UpdateStatus(ctx, returnID, model.ReturnCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel return request: %w", err)
	}

	s.logger.Info().Str("return_id", returnID.String()).Msg("return request cancelled by customer")
	return view(r), nil
}

// CheckEligibility reports whether an order can still be returned.
func (s *returnService) CheckEligibility(ctx context.Context, id Identity, orderID uuid.UUID) (*model.ReturnEligibility, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != id.UserID {
		return nil, model.ErrOrderNotFound
	}

	elig := s.eligibility(ctx, order)
	return &elig, nil
}

// AdminList retrieves return requests, optionally filtered by status.
func (s *returnService) AdminList(ctx context.Context, status *model.ReturnStatus, limit, offset int) ([]ReturnView, error) {
	limit, offset = clampPage(limit, offset)

	list, err := s.returnRepo.ListAll(ctx, status, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list return requests")
		return nil, fmt.Errorf("failed to list return requests: %w", err)
	}
	return views(list), nil
}

// AdminUpdateStatus performs an admin status transition.
func (s *returnService) AdminUpdateStatus(ctx context.Context, returnID uuid.UUID, status model.ReturnStatus) (*ReturnView, error) {
	r, err := s.returnRepo.GetByID(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to get return request: %w", err)
	}
	if r == nil {
		return nil, model.ErrReturnNotFound
	}

	if err := returns.Transition(r, status, returns.ActorAdmin); err != nil {
		return nil, err
	}

	if err := s.returnRepo.UpdateStatus(ctx, returnID, status); err != nil {
		return nil, fmt.Errorf("failed to update return status: %w", err)
	}

	s.logger.Info().
		Str("return_id", returnID.String()).
		Str("status", string(status)).
		Msg("return status updated")

	return view(r), nil
}

// eligibility applies the return rules to an order: it must be delivered,
// within the return window, and not already have an open return.
func (s *returnService) eligibility(ctx context.Context, order *model.Order) model.ReturnEligibility {
	if order.Status != model.OrderDelivered {
		return model.ReturnEligibility{Eligible: false, Reason: "Only delivered orders can be returned"}
	}
	if time.Since(order.UpdatedAt) > returnWindow {
		return model.ReturnEligibility{Eligible: false, Reason: "The 30-day return window for this order has closed"}
	}

	exists, err := s.returnRepo.ExistsForOrder(ctx, order.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to check existing returns")
		return model.ReturnEligibility{Eligible: false, Reason: "Unable to verify return eligibility, try again"}
	}
	if exists {
		return model.ReturnEligibility{Eligible: false, Reason: "A return request already exists for this order"}
	}

	return model.ReturnEligibility{Eligible: true}
}

// owned fetches a return request and confirms the caller owns it.
func (s *returnService) owned(ctx context.Context, id Identity, returnID uuid.UUID) (*model.ReturnRequest, error) {
	r, err := s.returnRepo.GetByID(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to get return request: %w", err)
	}
	if r == nil || r.UserID != id.UserID {
		return nil, model.ErrReturnNotFound
	}
	return r, nil
}

// validateReturnRequest checks the structural fields of a new return and
// that every returned line exists in the order with enough quantity.
func validateReturnRequest(req *model.CreateReturnRequest, order *model.Order) error {
	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "At least one item is required")
	}
	if req.Reason == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "A return reason is required")
	}
	switch req.Type {
	case model.ReturnRefund, model.ReturnExchange, model.ReturnStoreCredit:
	default:
		return model.NewDomainError(model.ErrCodeMissingField, "Return type must be refund, exchange, or store_credit")
	}
	if err := validateAddress(&req.PickupAddress); err != nil {
		return err
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
		found := false
		for _, line := range order.Items {
			if line.ProductID == item.ProductID {
				found = true
				if item.Quantity > line.Quantity {
					return model.NewDomainError(model.ErrCodeInvalidQuantity,
						fmt.Sprintf("Cannot return more units of %s than were ordered", line.Name))
				}
				break
			}
		}
		if !found {
			return model.NewDomainError(model.ErrCodeProductNotFound,
				fmt.Sprintf("Product %s is not part of this order", item.ProductID))
		}
	}
	return nil
}

// refundAmount prices the returned items at their ordered unit prices,
// scaled by the ratio the customer actually paid after discounts.
func refundAmount(items []model.ReturnItem, order *model.Order) decimal.Decimal {
	gross := decimal.Zero
	for _, item := range items {
		for _, line := range order.Items {
			if line.ProductID == item.ProductID {
				gross = gross.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
				break
			}
		}
	}

	if order.Subtotal.IsPositive() && order.FinalAmount.LessThan(order.Subtotal) {
		gross = gross.Mul(order.FinalAmount).Div(order.Subtotal)
	}
	return gross.Round(2)
}

// view wraps a return request with its display metadata.
func view(r *model.ReturnRequest) *ReturnView {
	return &ReturnView{
		ReturnRequest: *r,
		Display:       returns.DisplayFor(r.Status),
	}
}

// views wraps a slice of return requests.
func views(list []model.ReturnRequest) []ReturnView {
	out := make([]ReturnView, 0, len(list))
	for i := range list {
		out = append(out, *view(&list[i]))
	}
	return out
}
