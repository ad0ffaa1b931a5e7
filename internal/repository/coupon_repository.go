package repository

import (
	"context"
	"errors"
	"fmt"

	"bloomkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

const couponColumns = `id, code, type, value, max_discount, min_order_value,
	valid_from, valid_to, usage_limit, per_user_limit, used_count,
	is_active, first_time_only, stackable, is_automatic,
	buy_quantity, get_quantity, max_sets, scope, scope_ids,
	created_at, updated_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Type, &c.Value, &c.MaxDiscount, &c.MinOrderValue,
		&c.ValidFrom, &c.ValidTo, &c.UsageLimit, &c.PerUserLimit, &c.UsedCount,
		&c.IsActive, &c.FirstTimeOnly, &c.Stackable, &c.IsAutomatic,
		&c.BuyQuantity, &c.GetQuantity, &c.MaxSets, &c.Scope, &c.ScopeIDs,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const insertCouponQuery = `
	INSERT INTO coupons (
		id, code, type, value, max_discount, min_order_value,
		valid_from, valid_to, usage_limit, per_user_limit, used_count,
		is_active, first_time_only, stackable, is_automatic,
		buy_quantity, get_quantity, max_sets, scope, scope_ids,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
	)
`

func couponArgs(c *model.Coupon) []any {
	return []any{
		c.ID, c.Code, c.Type, c.Value, c.MaxDiscount, c.MinOrderValue,
		c.ValidFrom, c.ValidTo, c.UsageLimit, c.PerUserLimit, c.UsedCount,
		c.IsActive, c.FirstTimeOnly, c.Stackable, c.IsAutomatic,
		c.BuyQuantity, c.GetQuantity, c.MaxSets, c.Scope, c.ScopeIDs,
		c.CreatedAt, c.UpdatedAt,
	}
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	_, err := r.pool.Exec(ctx, insertCouponQuery, couponArgs(c)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn().Str("code", c.Code).Msg("duplicate coupon code")
			return model.NewDomainError(model.ErrCodeInvalidCoupon, "Coupon code already exists")
		}
		r.logger.Error().Err(err).Str("code", c.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().Str("coupon_id", c.ID.String()).Str("code", c.Code).Msg("coupon created")
	return nil
}

// CreateBatch inserts many coupons in one transaction, skipping codes that
// already exist. Returns the number actually inserted.
func (r *couponRepository) CreateBatch(ctx context.Context, coupons []*model.Coupon) (int, error) {
	if len(coupons) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, c := range coupons {
		batch.Queue(insertCouponQuery+" ON CONFLICT (code) DO NOTHING", couponArgs(c)...)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range coupons {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			r.logger.Error().Err(err).Msg("failed to insert coupon in batch")
			return 0, fmt.Errorf("failed to insert coupon batch: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close coupon batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit coupon batch: %w", err)
	}

	r.logger.Info().
		Int("requested", len(coupons)).
		Int("inserted", inserted).
		Msg("coupon batch created")

	return inserted, nil
}

// Update replaces the mutable fields of a coupon.
func (r *couponRepository) Update(ctx context.Context, c *model.Coupon) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE coupons SET
			type = $2, value = $3, max_discount = $4, min_order_value = $5,
			valid_from = $6, valid_to = $7, usage_limit = $8, per_user_limit = $9,
			is_active = $10, first_time_only = $11, stackable = $12, is_automatic = $13,
			buy_quantity = $14, get_quantity = $15, max_sets = $16,
			scope = $17, scope_ids = $18, updated_at = now()
		WHERE id = $1
	`, c.ID, c.Type, c.Value, c.MaxDiscount, c.MinOrderValue,
		c.ValidFrom, c.ValidTo, c.UsageLimit, c.PerUserLimit,
		c.IsActive, c.FirstTimeOnly, c.Stackable, c.IsAutomatic,
		c.BuyQuantity, c.GetQuantity, c.MaxSets, c.Scope, c.ScopeIDs)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

// Delete removes a coupon by ID.
func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}
	return nil
}

// GetByID retrieves a coupon by ID, or nil when absent.
func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}
	return c, nil
}

// GetByCode retrieves a coupon by its code, or nil when absent.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon by code")
		return nil, fmt.Errorf("failed to query coupon by code: %w", err)
	}
	return c, nil
}

// GetByIDs retrieves multiple coupons keyed by ID.
func (r *couponRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Coupon, error) {
	result := make(map[uuid.UUID]*model.Coupon, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query coupons by IDs")
		return nil, fmt.Errorf("failed to query coupons by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		result[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return result, nil
}

// List retrieves coupons with pagination, newest first.
func (r *couponRepository) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list coupons")
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// Stats aggregates redemption history for one coupon.
func (r *couponRepository) Stats(ctx context.Context, id uuid.UUID) (*model.CouponStats, error) {
	coupon, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, nil
	}

	stats := &model.CouponStats{CouponID: id, Code: coupon.Code}
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT user_id), COALESCE(SUM(discount), 0)
		FROM coupon_redemptions
		WHERE coupon_id = $1
	`, id).Scan(&stats.Redemptions, &stats.UniqueUsers, &stats.TotalDiscount)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to aggregate coupon stats")
		return nil, fmt.Errorf("failed to aggregate coupon stats: %w", err)
	}

	return stats, nil
}

// CountRedemptionsByUser counts how often a user has redeemed a coupon.
func (r *couponRepository) CountRedemptionsByUser(ctx context.Context, couponID uuid.UUID, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM coupon_redemptions
		WHERE coupon_id = $1 AND user_id = $2
	`, couponID, userID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).
			Str("coupon_id", couponID.String()).
			Str("user_id", userID).
			Msg("failed to count redemptions")
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}

// RecordRedemption inserts a redemption row and bumps the coupon's used
// counter inside the provided transaction.
func (r *couponRepository) RecordRedemption(ctx context.Context, tx pgx.Tx, couponID uuid.UUID, userID string, orderID uuid.UUID, discount string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO coupon_redemptions (id, coupon_id, user_id, order_id, discount, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, uuid.New(), couponID, userID, orderID, discount)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to record redemption")
		return fmt.Errorf("failed to record redemption: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE coupons SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1
	`, couponID)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", couponID.String()).Msg("failed to increment coupon usage")
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	return nil
}
