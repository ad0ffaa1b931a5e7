// Package payment wraps the third-party payment gateway: creating gateway
// orders for checkout and verifying the signature the gateway's callback
// hands back.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Gateway is the payment-provider operations the service needs.
type Gateway interface {
	// CreateOrder registers an order with the gateway and returns its
	// checkout handle.
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error)

	// VerifySignature checks the HMAC signature returned by the
	// gateway's checkout callback.
	VerifySignature(gatewayOrderID, paymentID, signature string) bool

	// KeyID returns the public key identifier the frontend passes to the
	// checkout script.
	KeyID() string
}

// GatewayOrder is the checkout handle returned by the gateway.
type GatewayOrder struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Receipt  string          `json:"receipt"`
}

// Config holds gateway credentials and endpoint.
type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Currency  string
}

// client is an HTTP implementation of Gateway.
type client struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a gateway client with a bounded request timeout.
func NewClient(cfg Config, logger zerolog.Logger) Gateway {
	return &client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: logger.With().Str("component", "payment-gateway").Logger(),
	}
}

// KeyID returns the public key identifier.
func (c *client) KeyID() string {
	return c.cfg.KeyID
}

// createOrderRequest is the gateway's order-creation payload. Amount is in
// the currency's smallest unit.
type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder registers an order with the gateway.
func (c *client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error) {
	if currency == "" {
		currency = c.cfg.Currency
	}

	// Gateways bill in minor units (cents/paise).
	minorUnits := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	body, err := json.Marshal(createOrderRequest{
		Amount:   minorUnits,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("receipt", receipt).Msg("gateway order creation failed")
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("receipt", receipt).
			Bytes("body", payload).
			Msg("gateway rejected order creation")
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var gatewayResp createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&gatewayResp); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	c.logger.Info().
		Str("gateway_order_id", gatewayResp.ID).
		Str("receipt", receipt).
		Int64("amount_minor", gatewayResp.Amount).
		Msg("gateway order created")

	return &GatewayOrder{
		ID:       gatewayResp.ID,
		Amount:   decimal.NewFromInt(gatewayResp.Amount).Div(decimal.NewFromInt(100)),
		Currency: gatewayResp.Currency,
		Receipt:  gatewayResp.Receipt,
	}, nil
}

// VerifySignature checks the callback signature: HMAC-SHA256 over
// "<gatewayOrderID>|<paymentID>" keyed with the secret, hex encoded.
func (c *client) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	expected := SignPayload(gatewayOrderID, paymentID, c.cfg.KeySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayload computes the gateway's callback signature for an order and
// payment ID pair.
func SignPayload(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
