package service

import (
	"context"
	"fmt"

	"bloomkart/internal/model"
	"bloomkart/internal/payment"
	"bloomkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	gateway   payment.Gateway
	orderRepo repository.OrderRepository
	currency  string
	logger    zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway payment.Gateway, orderRepo repository.OrderRepository, currency string, logger zerolog.Logger) PaymentService {
	return &paymentService{
		gateway:   gateway,
		orderRepo: orderRepo,
		currency:  currency,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// CreateOrder registers an unpaid order with the gateway and returns the
// checkout handle the frontend needs. Calling it again for the same order
// reuses the existing gateway order.
func (s *paymentService) CreateOrder(ctx context.Context, id Identity, orderID uuid.UUID) (*PaymentOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != id.UserID {
		return nil, model.ErrOrderNotFound
	}

	if order.PaymentStatus == model.PaymentPaid {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition, "Order is already paid")
	}
	if order.Status == model.OrderCancelled {
		return nil, model.NewDomainError(model.ErrCodeInvalidTransition, "Cancelled orders cannot be paid")
	}

	gatewayOrderID := order.GatewayOrderID
	if gatewayOrderID == "" {
		gatewayOrder, err := s.gateway.CreateOrder(ctx, order.FinalAmount, s.currency, order.ID.String())
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("gateway order creation failed")
			return nil, fmt.Errorf("failed to create payment order: %w", err)
		}
		gatewayOrderID = gatewayOrder.ID

		if err := s.orderRepo.SetPayment(ctx, order.ID, gatewayOrderID, "", model.PaymentUnpaid); err != nil {
			return nil, fmt.Errorf("failed to record gateway order: %w", err)
		}
	}

	return &PaymentOrder{
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrderID,
		Key:            s.gateway.KeyID(),
		Amount:         order.FinalAmount.StringFixed(2),
		Currency:       s.currency,
	}, nil
}

// VerifyPayment checks the gateway callback signature and marks the order
// paid. A bad signature is a hard failure and leaves the order unpaid.
func (s *paymentService) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*model.Order, error) {
	if req.GatewayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Gateway order ID, payment ID, and signature are required")
	}

	order, err := s.orderRepo.GetByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("gateway_order_id", req.GatewayOrderID).
			Msg("payment signature verification failed")
		return nil, model.ErrPaymentFailed
	}

	if err := s.orderRepo.SetPayment(ctx, order.ID, req.GatewayOrderID, req.PaymentID, model.PaymentPaid); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	order.GatewayOrderID = req.GatewayOrderID
	order.PaymentID = req.PaymentID
	order.PaymentStatus = model.PaymentPaid

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_id", req.PaymentID).
		Msg("payment verified")

	return order, nil
}
