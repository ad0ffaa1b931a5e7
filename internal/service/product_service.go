package service

import (
	"context"
	"fmt"
	"strings"

	"bloomkart/internal/model"
	"bloomkart/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves active products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	limit, offset = clampPage(limit, offset)

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product ID is required")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Search retrieves products matching the query and its filters.
func (s *productService) Search(ctx context.Context, q model.SearchQuery) ([]model.Product, error) {
	q.Term = strings.TrimSpace(q.Term)
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)

	products, err := s.productRepo.Search(ctx, q)
	if err != nil {
		s.logger.Error().Err(err).Str("term", q.Term).Msg("product search failed")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	s.logger.Debug().
		Str("term", q.Term).
		Int("count", len(products)).
		Msg("searched products")

	return products, nil
}

// Suggestions returns product-name suggestions for a partial search term.
func (s *productService) Suggestions(ctx context.Context, term string, limit int) ([]string, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return []string{}, nil
	}
	if limit <= 0 || limit > 20 {
		limit = 8
	}

	suggestions, err := s.productRepo.Suggest(ctx, term, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("failed to get suggestions")
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	return suggestions, nil
}

// Categories returns category facets with product counts.
func (s *productService) Categories(ctx context.Context) ([]model.CategoryFacet, error) {
	facets, err := s.productRepo.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return facets, nil
}

// PriceRanges returns price-bucket facets with product counts.
func (s *productService) PriceRanges(ctx context.Context) ([]model.PriceRange, error) {
	ranges, err := s.productRepo.PriceRanges(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get price ranges")
		return nil, fmt.Errorf("failed to get price ranges: %w", err)
	}
	return ranges, nil
}

// clampPage normalises pagination parameters.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
