package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bloomkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// returnRepository implements the ReturnRepository interface using PostgreSQL.
type returnRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReturnRepository creates a new PostgreSQL-backed return repository.
func NewReturnRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReturnRepository {
	return &returnRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "return").Logger(),
	}
}

const returnColumns = `id, order_id, user_id, items, reason, description, type,
	pickup_address, refund_amount, status, created_at, updated_at`

func scanReturn(row pgx.Row) (*model.ReturnRequest, error) {
	var (
		ret         model.ReturnRequest
		itemsJSON   []byte
		addressJSON []byte
	)
	err := row.Scan(
		&ret.ID, &ret.OrderID, &ret.UserID, &itemsJSON, &ret.Reason,
		&ret.Description, &ret.Type, &addressJSON, &ret.RefundAmount,
		&ret.Status, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &ret.Items); err != nil {
		return nil, fmt.Errorf("failed to decode return items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &ret.PickupAddress); err != nil {
		return nil, fmt.Errorf("failed to decode pickup address: %w", err)
	}
	return &ret, nil
}

// Create inserts a new return request with its items.
func (r *returnRepository) Create(ctx context.Context, ret *model.ReturnRequest) error {
	itemsJSON, err := json.Marshal(ret.Items)
	if err != nil {
		return fmt.Errorf("failed to encode return items: %w", err)
	}
	addressJSON, err := json.Marshal(ret.PickupAddress)
	if err != nil {
		return fmt.Errorf("failed to encode pickup address: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO returns (
			id, order_id, user_id, items, reason, description, type,
			pickup_address, refund_amount, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, ret.ID, ret.OrderID, ret.UserID, itemsJSON, ret.Reason,
		ret.Description, ret.Type, addressJSON, ret.RefundAmount,
		ret.Status, ret.CreatedAt, ret.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("return_id", ret.ID.String()).Msg("failed to create return")
		return fmt.Errorf("failed to create return: %w", err)
	}

	r.logger.Debug().
		Str("return_id", ret.ID.String()).
		Str("order_id", ret.OrderID.String()).
		Msg("return request created")

	return nil
}

// GetByID retrieves a return request, or nil when absent.
func (r *returnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	ret, err := scanReturn(r.pool.QueryRow(ctx, `SELECT `+returnColumns+` FROM returns WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("return_id", id.String()).Msg("failed to query return")
		return nil, fmt.Errorf("failed to query return: %w", err)
	}
	return ret, nil
}

func (r *returnRepository) collectReturns(rows pgx.Rows) ([]model.ReturnRequest, error) {
	defer rows.Close()

	var returns []model.ReturnRequest
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return: %w", err)
		}
		returns = append(returns, *ret)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating returns: %w", err)
	}

	return returns, nil
}

// ListByUser retrieves a user's return requests, newest first.
func (r *returnRepository) ListByUser(ctx context.Context, userID string) ([]model.ReturnRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+returnColumns+`
		FROM returns
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list returns")
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}

	return r.collectReturns(rows)
}

// ListAll retrieves return requests, optionally filtered by status.
func (r *returnRepository) ListAll(ctx context.Context, status *model.ReturnStatus, limit, offset int) ([]model.ReturnRequest, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if status != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT `+returnColumns+`
			FROM returns
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`, *status, limit, offset)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+returnColumns+`
			FROM returns
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list all returns")
		return nil, fmt.Errorf("failed to list all returns: %w", err)
	}

	return r.collectReturns(rows)
}

// Update persists the mutable fields of a return request.
func (r *returnRepository) Update(ctx context.Context, ret *model.ReturnRequest) error {
	addressJSON, err := json.Marshal(ret.PickupAddress)
	if err != nil {
		return fmt.Errorf("failed to encode pickup address: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE returns
		SET description = $2, pickup_address = $3, refund_amount = $4, updated_at = now()
		WHERE id = $1
	`, ret.ID, ret.Description, addressJSON, ret.RefundAmount)
	if err != nil {
		r.logger.Error().Err(err).Str("return_id", ret.ID.String()).Msg("failed to update return")
		return fmt.Errorf("failed to update return: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReturnNotFound
	}
	return nil
}

// UpdateStatus sets the status of a return request.
func (r *returnRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReturnStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE returns SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		r.logger.Error().Err(err).Str("return_id", id.String()).Msg("failed to update return status")
		return fmt.Errorf("failed to update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReturnNotFound
	}
	return nil
}

// ExistsForOrder reports whether a non-cancelled return already exists for
// an order.
func (r *returnRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM returns
			WHERE order_id = $1 AND status <> $2
		)
	`, orderID, model.ReturnCancelled).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to check existing returns")
		return false, fmt.Errorf("failed to check existing returns: %w", err)
	}
	return exists, nil
}
