package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"acadswap/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest          = domain.CodeBadRequest
	ErrCodeValidation          = domain.CodeValidation
	ErrCodeUnauthenticated     = domain.CodeUnauthenticated
	ErrCodeUnauthorized        = domain.CodeUnauthorized
	ErrCodeNotFound            = domain.CodeNotFound
	ErrCodeInvalidTransition   = domain.CodeInvalidTransition
	ErrCodeConflict            = domain.CodeConflict
	ErrCodeRateLimited         = domain.CodeRateLimited
	ErrCodeUpstreamUnavailable = domain.CodeUpstreamUnavailable
	ErrCodeInternalError       = domain.CodeInternalError
)

// APIResponse is the standardized envelope for all API responses.
// On success: Success is true and Data is set. On error: Message and Code describe the failure.
// swagger:model APIResponse
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes a successful APIResponse carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes a failed APIResponse with the given code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Message: message, Code: code})
}

// StatusFor maps a domain error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, ErrCodeUnauthorized
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrCodeInvalidTransition
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, ErrCodeUpstreamUnavailable
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteDomainError writes err using StatusFor. Internal errors are logged and answered with a
// generic message; validation errors carry every problem in the message.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, code, "internal server error")
		return
	}
	if status == http.StatusBadGateway {
		logger.WarnContext(r.Context(), "upstream unavailable", "path", r.URL.Path, "err", err)
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		WriteJSONError(w, status, code, verr.Error())
		return
	}
	WriteJSONError(w, status, code, err.Error())
}
