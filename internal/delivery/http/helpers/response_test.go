package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadswap/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"unauthorized", fmt.Errorf("%w: not a party", domain.ErrUnauthorized), http.StatusForbidden, ErrCodeUnauthorized, "unauthorized: not a party"},
		{"transition", fmt.Errorf("complete meetup: %w", domain.ErrInvalidTransition), http.StatusConflict, ErrCodeInvalidTransition, "complete meetup: invalid transition"},
		{"validation", domain.NewValidationError("title is required", "locationName is required"), http.StatusBadRequest, ErrCodeValidation, "title is required; locationName is required"},
		{"not found", fmt.Errorf("meetup m-1: %w", domain.ErrNotFound), http.StatusNotFound, ErrCodeNotFound, "meetup m-1: not found"},
		{"upstream", fmt.Errorf("%w: geocode", domain.ErrUpstreamUnavailable), http.StatusBadGateway, ErrCodeUpstreamUnavailable, "upstream unavailable: geocode"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, ErrCodeInternalError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/meetup/my-meetups", nil)
			WriteDomainError(w, r, logger, tt.err)

			require.Equal(t, tt.wantStatus, w.Code)
			var body APIResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func (r reasonRequest) Validate() []string {
	if strings.TrimSpace(r.Reason) == "" {
		return []string{"reason is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantCode string
	}{
		{"valid", `{"reason":"Changed mind"}`, true, ""},
		{"malformed", `{"reason":`, false, ErrCodeBadRequest},
		{"unknown field", `{"reason":"x","extra":1}`, false, ErrCodeBadRequest},
		{"invalid", `{"reason":"  "}`, false, ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			var req reasonRequest
			ok := DecodeAndValidate(w, r, &req)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body APIResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONSuccess(w, http.StatusCreated, map[string]string{"id": "m-1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"m-1"}}`, w.Body.String())
}
