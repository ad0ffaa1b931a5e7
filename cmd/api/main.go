package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloomkart/internal/cart"
	"bloomkart/internal/config"
	"bloomkart/internal/coupon"
	"bloomkart/internal/database"
	"bloomkart/internal/handler"
	"bloomkart/internal/payment"
	"bloomkart/internal/repository"
	"bloomkart/internal/router"
	"bloomkart/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting bloomkart API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	returnRepo := repository.NewReturnRepository(pool, logger)

	// Cart stores: signed-in carts persist, guest carts live in memory.
	stores := service.CartStores{
		User:  repository.NewCartRepository(pool, logger),
		Guest: cart.NewMemoryStore(),
	}

	// Bulk-import loaders for coupon code files.
	loaders := map[string]coupon.Loader{
		"file": coupon.NewFileLoader(logger),
	}
	if cfg.S3.Enabled {
		s3Loader, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, bulk import limited to local files")
		} else {
			loaders["s3"] = s3Loader
		}
	}

	gateway := payment.NewClient(payment.Config{
		BaseURL:   cfg.Payment.BaseURL,
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		Currency:  cfg.Payment.Currency,
	}, logger)

	// Services
	productService := service.NewProductService(productRepo, logger)
	couponService := service.NewCouponService(couponRepo, orderRepo, stores, loaders, logger)
	cartService := service.NewCartService(productRepo, couponRepo, orderRepo, stores, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, couponRepo, stores, logger)
	returnService := service.NewReturnService(returnRepo, orderRepo, logger)
	paymentService := service.NewPaymentService(gateway, orderRepo, cfg.Payment.Currency, logger)

	// HTTP handlers
	handlers := router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Coupon:  handler.NewCouponHandler(couponService, cartService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Return:  handler.NewReturnHandler(returnService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
	}

	mux := router.New(handlers, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
