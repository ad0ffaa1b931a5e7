package repository

import (
	"context"
	"fmt"
	"strings"

	"bloomkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, description, price, category, stock, image_url, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetAll retrieves active products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collectProducts(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}

	return r.collectProducts(rows)
}

// Search retrieves products matching a search query: term against name,
// description, and category, optionally narrowed by category and a price
// window.
func (r *productRepository) Search(ctx context.Context, q model.SearchQuery) ([]model.Product, error) {
	var (
		conditions = []string{"is_active"}
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Term != "" {
		placeholder := arg("%" + q.Term + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE %[1]s OR description ILIKE %[1]s OR category ILIKE %[1]s)", placeholder))
	}
	if q.Category != "" {
		conditions = append(conditions, "category = "+arg(q.Category))
	}
	if q.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*q.MaxPrice))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY name
		LIMIT %s OFFSET %s
	`, productColumns, strings.Join(conditions, " AND "), arg(q.Limit), arg(q.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("term", q.Term).Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return r.collectProducts(rows)
}

// Suggest returns product names matching the term, prefix matches first.
func (r *productRepository) Suggest(ctx context.Context, term string, limit int) ([]string, error) {
	query := `
		SELECT name
		FROM products
		WHERE is_active AND name ILIKE $1
		ORDER BY (name ILIKE $2) DESC, name
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, "%"+term+"%", term+"%", limit)
	if err != nil {
		r.logger.Error().Err(err).Str("term", term).Msg("failed to query suggestions")
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggestions: %w", err)
	}

	return names, nil
}

// Categories returns the distinct categories with product counts.
func (r *productRepository) Categories(ctx context.Context) ([]model.CategoryFacet, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		WHERE is_active
		GROUP BY category
		ORDER BY category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var facets []model.CategoryFacet
	for rows.Next() {
		var f model.CategoryFacet
		if err := rows.Scan(&f.Category, &f.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category facet: %w", err)
		}
		facets = append(facets, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category facets: %w", err)
	}

	return facets, nil
}

// priceBuckets are the fixed storefront price facets.
var priceBuckets = []struct {
	label string
	min   decimal.Decimal
	max   decimal.Decimal
}{
	{"Under $10", decimal.Zero, decimal.NewFromInt(10)},
	{"$10 - $25", decimal.NewFromInt(10), decimal.NewFromInt(25)},
	{"$25 - $50", decimal.NewFromInt(25), decimal.NewFromInt(50)},
	{"$50 - $100", decimal.NewFromInt(50), decimal.NewFromInt(100)},
	{"$100 and up", decimal.NewFromInt(100), decimal.NewFromInt(1_000_000)},
}

// PriceRanges returns the fixed price buckets with product counts.
func (r *productRepository) PriceRanges(ctx context.Context) ([]model.PriceRange, error) {
	query := `
		SELECT COUNT(*)
		FROM products
		WHERE is_active AND price >= $1 AND price < $2
	`

	ranges := make([]model.PriceRange, 0, len(priceBuckets))
	for _, bucket := range priceBuckets {
		var count int
		if err := r.pool.QueryRow(ctx, query, bucket.min, bucket.max).Scan(&count); err != nil {
			r.logger.Error().Err(err).Str("bucket", bucket.label).Msg("failed to count price bucket")
			return nil, fmt.Errorf("failed to count price bucket: %w", err)
		}
		ranges = append(ranges, model.PriceRange{
			Label: bucket.label,
			Min:   bucket.min,
			Max:   bucket.max,
			Count: count,
		})
	}

	return ranges, nil
}

// DecrementStock reduces stock for a product inside a transaction. The
// WHERE clause refuses to drive stock negative.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("insufficient stock")
		return model.ErrOutOfStock
	}

	return nil
}
