package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bloomkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			category VARCHAR(100) NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			type VARCHAR(20) NOT NULL,
			value DECIMAL(10, 2) NOT NULL,
			max_discount DECIMAL(10, 2),
			min_order_value DECIMAL(10, 2),
			valid_from TIMESTAMPTZ NOT NULL,
			valid_to TIMESTAMPTZ NOT NULL,
			usage_limit INTEGER NOT NULL DEFAULT 0,
			per_user_limit INTEGER NOT NULL DEFAULT 0,
			used_count INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			first_time_only BOOLEAN NOT NULL DEFAULT FALSE,
			stackable BOOLEAN NOT NULL DEFAULT FALSE,
			is_automatic BOOLEAN NOT NULL DEFAULT FALSE,
			buy_quantity INTEGER NOT NULL DEFAULT 0,
			get_quantity INTEGER NOT NULL DEFAULT 0,
			max_sets INTEGER NOT NULL DEFAULT 0,
			scope VARCHAR(20) NOT NULL DEFAULT 'all',
			scope_ids TEXT[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS coupon_redemptions (
			id UUID PRIMARY KEY,
			coupon_id UUID NOT NULL REFERENCES coupons(id) ON DELETE CASCADE,
			user_id VARCHAR(100) NOT NULL,
			order_id UUID NOT NULL,
			discount DECIMAL(10, 2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			owner_key VARCHAR(150) NOT NULL UNIQUE,
			items JSONB NOT NULL DEFAULT '[]',
			applied_coupons JSONB NOT NULL DEFAULT '[]',
			total_quantity INTEGER NOT NULL DEFAULT 0,
			subtotal DECIMAL(10, 2) NOT NULL DEFAULT 0,
			total_discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			final_amount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			coupon_codes TEXT[],
			subtotal DECIMAL(10, 2) NOT NULL,
			total_discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			final_amount DECIMAL(10, 2) NOT NULL,
			shipping_address JSONB NOT NULL,
			status VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			gateway_order_id TEXT NOT NULL DEFAULT '',
			payment_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			unit_price DECIMAL(10, 2) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0)
		);

		CREATE TABLE IF NOT EXISTS returns (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL,
			user_id VARCHAR(100) NOT NULL,
			items JSONB NOT NULL DEFAULT '[]',
			reason TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type VARCHAR(20) NOT NULL,
			pickup_address JSONB NOT NULL,
			refund_amount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_returns_order_id ON returns(order_id);
		CREATE INDEX IF NOT EXISTS idx_redemptions_coupon_id ON coupon_redemptions(coupon_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		price    float64
		category string
		stock    int
	}{
		{"P001", "Monstera Deliciosa", 34.99, "indoor", 25},
		{"P002", "Snake Plant", 19.99, "indoor", 40},
		{"P003", "Lavender", 9.99, "outdoor", 60},
		{"P004", "Ceramic Planter", 24.99, "accessories", 15},
		{"P005", "Fiddle Leaf Fig", 54.99, "indoor", 8},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category, stock)
			VALUES ($1, $2, $3, $4, $5)
		`, p.id, p.name, p.price, p.category, p.stock)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedCoupon inserts a single active percentage coupon and returns it.
func SeedCoupon(t *testing.T, pool *pgxpool.Pool, c *model.Coupon) {
	t.Helper()

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO coupons (
			id, code, type, value, max_discount, min_order_value,
			valid_from, valid_to, usage_limit, per_user_limit, used_count,
			is_active, first_time_only, stackable, is_automatic,
			buy_quantity, get_quantity, max_sets, scope, scope_ids,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, now(), now()
		)
	`, c.ID, c.Code, c.Type, c.Value, c.MaxDiscount, c.MinOrderValue,
		c.ValidFrom, c.ValidTo, c.UsageLimit, c.PerUserLimit, c.UsedCount,
		c.IsActive, c.FirstTimeOnly, c.Stackable, c.IsAutomatic,
		c.BuyQuantity, c.GetQuantity, c.MaxSets, c.Scope, c.ScopeIDs)
	if err != nil {
		t.Fatalf("failed to seed coupon %s: %v", c.Code, err)
	}
}

// ActiveCoupon builds a valid percentage coupon for seeding.
func ActiveCoupon(code string, percent int64, stackable bool) *model.Coupon {
	return &model.Coupon{
		ID:        uuid.New(),
		Code:      code,
		Type:      model.CouponPercentage,
		Value:     decimal.NewFromInt(percent),
		ValidFrom: time.Now().Add(-time.Hour),
		ValidTo:   time.Now().Add(24 * time.Hour),
		IsActive:  true,
		Stackable: stackable,
		Scope:     model.ScopeAll,
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"coupon_redemptions", "order_items", "returns", "orders", "carts", "coupons", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
