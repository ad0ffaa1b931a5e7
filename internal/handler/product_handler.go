package handler

import (
	"net/http"

	"bloomkart/internal/model"
	"bloomkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product catalogue and search requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context(), queryInt(r, "limit", 10), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Search handles GET /api/search.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := model.SearchQuery{
		Term:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Limit:    queryInt(r, "limit", 10),
		Offset:   queryInt(r, "offset", 0),
	}

	if raw := r.URL.Query().Get("minPrice"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "Invalid minPrice parameter", h.logger)
			return
		}
		q.MinPrice = &min
	}
	if raw := r.URL.Query().Get("maxPrice"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "Invalid maxPrice parameter", h.logger)
			return
		}
		q.MaxPrice = &max
	}

	products, err := h.service.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Suggestions handles GET /api/search/suggestions.
func (h *ProductHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Suggestions(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", 8))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// Categories handles GET /api/search/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Categories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

// PriceRanges handles GET /api/search/price-ranges.
func (h *ProductHandler) PriceRanges(w http.ResponseWriter, r *http.Request) {
	ranges, err := h.service.PriceRanges(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ranges)
}
