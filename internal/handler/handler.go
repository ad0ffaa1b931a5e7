package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bloomkart/internal/middleware"
	"bloomkart/internal/model"
	"bloomkart/internal/service"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code. The status
// line is already sent by the time encoding can fail, so a failure here
// cannot be reported to the client.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a generic error response with the given status code.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// become 4xx with their code; anything else is a 500 with the detail kept
// out of the response.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "Something went wrong",
	})
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeCouponNotFound,
		model.ErrCodeOrderNotFound, model.ErrCodeReturnNotFound:
		return http.StatusNotFound
	case model.ErrCodeCouponConflict, model.ErrCodeOutOfStock, model.ErrCodeInvalidTransition:
		return http.StatusConflict
	case model.ErrCodeNotEligible:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid JSON payload")
	}
	return nil
}

// identity extracts the caller identity placed in the context by the
// identity middleware.
func identity(r *http.Request) service.Identity {
	return service.Identity{
		UserID:    middleware.UserID(r.Context()),
		SessionID: middleware.SessionID(r.Context()),
	}
}

// queryInt parses an integer query parameter, falling back to a default.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
