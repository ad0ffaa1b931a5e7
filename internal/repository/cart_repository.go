package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bloomkart/internal/cart"
	"bloomkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements cart.Store using PostgreSQL. Line items and
// applied coupons are kept as JSONB documents alongside the derived totals.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a PostgreSQL-backed cart store for signed-in
// customers.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) cart.Store {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Get returns the cart for an owner key, or nil when none exists.
func (r *cartRepository) Get(ctx context.Context, ownerKey string) (*model.Cart, error) {
	var (
		c           model.Cart
		itemsJSON   []byte
		couponsJSON []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_key, items, applied_coupons,
		       total_quantity, subtotal, total_discount, final_amount,
		       created_at, updated_at
		FROM carts
		WHERE owner_key = $1
	`, ownerKey).Scan(
		&c.ID, &c.OwnerKey, &itemsJSON, &couponsJSON,
		&c.TotalQuantity, &c.Subtotal, &c.TotalDiscount, &c.FinalAmount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	if err := json.Unmarshal(couponsJSON, &c.AppliedCoupons); err != nil {
		return nil, fmt.Errorf("failed to decode applied coupons: %w", err)
	}

	return &c, nil
}

// Save upserts the cart under its owner key.
func (r *cartRepository) Save(ctx context.Context, c *model.Cart) error {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	couponsJSON, err := json.Marshal(c.AppliedCoupons)
	if err != nil {
		return fmt.Errorf("failed to encode applied coupons: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO carts (
			id, owner_key, items, applied_coupons,
			total_quantity, subtotal, total_discount, final_amount,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (owner_key) DO UPDATE SET
			items = EXCLUDED.items,
			applied_coupons = EXCLUDED.applied_coupons,
			total_quantity = EXCLUDED.total_quantity,
			subtotal = EXCLUDED.subtotal,
			total_discount = EXCLUDED.total_discount,
			final_amount = EXCLUDED.final_amount,
			updated_at = EXCLUDED.updated_at
	`, c.ID, c.OwnerKey, itemsJSON, couponsJSON,
		c.TotalQuantity, c.Subtotal, c.TotalDiscount, c.FinalAmount,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("owner_key", c.OwnerKey).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.Debug().
		Str("owner_key", c.OwnerKey).
		Int("items", len(c.Items)).
		Msg("cart saved")

	return nil
}

// Delete removes the cart for an owner key.
func (r *cartRepository) Delete(ctx context.Context, ownerKey string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE owner_key = $1`, ownerKey)
	if err != nil {
		r.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
