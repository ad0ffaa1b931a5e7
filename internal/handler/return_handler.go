package handler

import (
	"net/http"

	"bloomkart/internal/model"
	"bloomkart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReturnHandler handles return-request endpoints.
type ReturnHandler struct {
	service service.ReturnService
	logger  zerolog.Logger
}

// NewReturnHandler creates a new return handler.
func NewReturnHandler(service service.ReturnService, logger zerolog.Logger) *ReturnHandler {
	return &ReturnHandler{
		service: service,
		logger:  logger.With().Str("handler", "return").Logger(),
	}
}

// returnID extracts and parses the {id} path parameter.
func returnID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, model.NewDomainError(model.ErrCodeMissingField, "Invalid return request ID")
	}
	return id, nil
}

// Create handles POST /api/returns.
func (h *ReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.Create(r.Context(), identity(r), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// ListMine handles GET /api/returns/my-returns.
func (h *ReturnHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListMine(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CheckEligibility handles GET /api/returns/check-eligibility/{orderId}.
func (h *ReturnHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "Invalid order ID", h.logger)
		return
	}

	elig, err := h.service.CheckEligibility(r.Context(), identity(r), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, elig)
}

// GetByID handles GET /api/returns/{id}.
func (h *ReturnHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := returnID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.GetByID(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles PUT /api/returns/{id}.
func (h *ReturnHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := returnID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.UpdateReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.Update(r.Context(), identity(r), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Cancel handles DELETE /api/returns/{id}.
func (h *ReturnHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := returnID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.Cancel(r.Context(), identity(r), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AdminList handles GET /api/returns/admin.
func (h *ReturnHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	var status *model.ReturnStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.ReturnStatus(raw)
		status = &s
	}

	list, err := h.service.AdminList(r.Context(), status, queryInt(r, "limit", 10), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AdminUpdateStatus handles PUT /api/returns/admin/{id}/status.
func (h *ReturnHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := returnID(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.ReturnStatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.AdminUpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
