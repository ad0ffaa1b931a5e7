package handler

import (
	"net/http"

	"bloomkart/internal/model"
	"bloomkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CouponHandler handles coupon management and validation requests.
type CouponHandler struct {
	coupons service.CouponService
	cart    service.CartService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(coupons service.CouponService, cart service.CartService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		cart:    cart,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// couponID extracts and parses the {id} path parameter.
func couponID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, model.NewDomainError(model.ErrCodeMissingField, "Invalid coupon ID")
	}
	return id, nil
}

// List handles GET /api/coupons.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context(), queryInt(r, "limit", 10), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

// Create handles POST /api/coupons.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var coupon model.Coupon
	if err := decodeJSON(r, &coupon); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	created, err := h.coupons.Create(r.Context(), &coupon)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetByID handles GET /api/coupons/{id}.
func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	coupon, err := h.coupons.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

// Update handles PUT /api/coupons/{id}.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var coupon model.Coupon
	if err := decodeJSON(r, &coupon); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	coupon.ID = id

	updated, err := h.coupons.Update(r.Context(), &coupon)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/coupons/{id}.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.coupons.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/coupons/{id}/stats.
func (h *CouponHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	stats, err := h.coupons.Stats(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// couponCodeRequest is the payload for validate and apply requests.
type couponCodeRequest struct {
	Code string `json:"code"`
}

// Validate handles POST /api/coupons/validate. It reports whether the code
// would apply to the caller's cart without changing anything.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req couponCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	result, err := h.coupons.Validate(r.Context(), identity(r), req.Code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Apply handles POST /api/coupons/apply: applies the code to the caller's
// cart and returns the full cart.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req couponCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	cart, err := h.cart.ApplyCoupon(r.Context(), identity(r), req.Code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Available handles GET /api/coupons/available.
func (h *CouponHandler) Available(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.Available(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

// BulkImport handles POST /api/coupons/bulk.
func (h *CouponHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	var req service.BulkImportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	result, err := h.coupons.BulkImport(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
