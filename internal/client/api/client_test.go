package api

import (
	"context"
	"encoding/json"
	"errors"
	"go/parser"
	"go/token"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadswap/internal/domain"
)

const meetupID = "6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f"

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "code": code, "message": message})
}

func TestClient_DoesNotImportServerPackages(t *testing.T) {
	names, err := filepath.Glob("*.go")
	require.NoError(t, err)
	fset := token.NewFileSet()
	for _, name := range names {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			assert.NotContains(t, imp.Path.Value, "internal/delivery", name)
			assert.NotContains(t, imp.Path.Value, "internal/services", name)
		}
	}
}

func TestClient_SendsCredentialAndDecodesEnvelope(t *testing.T) {
	var gotAuth, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.Method + " " + r.URL.RequestURI()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		writeData(w, http.StatusOK, domain.Meetup{ID: meetupID, Status: domain.StatusCancelledBySeller})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	m, err := c.Cancel(context.Background(), "tok-1", meetupID, "Changed mind")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledBySeller, m.Status)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "DELETE /api/meetup/"+meetupID+"/cancel", gotPath)
	assert.JSONEq(t, `{"reason":"Changed mind"}`, gotBody)
}

func TestClient_QueryEncoding(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RequestURI())
		writeData(w, http.StatusOK, []any{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	ctx := context.Background()
	_, err := c.SearchUsers(ctx, "t", "bo b&c")
	require.NoError(t, err)
	_, err = c.Places("t").Search(ctx, "Main Library")
	require.NoError(t, err)
	_, err = c.MyItems(ctx, "t", true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/meetup/search-users?q=bo+b%26c",
		"/api/meetup/search-places?q=Main+Library",
		"/items/user/me?status=active",
	}, got)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		want    error
	}{
		{"invalid transition", http.StatusConflict, domain.CodeInvalidTransition, "meetup is no longer pending", domain.ErrInvalidTransition},
		{"not a party", http.StatusForbidden, domain.CodeUnauthorized, "you are not part of this meetup", domain.ErrUnauthorized},
		{"validation", http.StatusBadRequest, domain.CodeValidation, "scheduledDate cannot be in the past", domain.ErrInvalidInput},
		{"not found", http.StatusNotFound, domain.CodeNotFound, "meetup not found", domain.ErrNotFound},
		{"geocoder down", http.StatusBadGateway, domain.CodeUpstreamUnavailable, "place search is unavailable", domain.ErrUpstreamUnavailable},
		{"rate limited", http.StatusTooManyRequests, domain.CodeRateLimited, "too many requests", ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, tt.status, tt.code, tt.message)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Accept(context.Background(), "t", meetupID)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, UserMessage(err))
		})
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).MyMeetups(context.Background(), "t")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_MissingCredentialMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).CreateMeetup(context.Background(), "", domain.MeetupDraft{})
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Zero(t, calls.Load())
}

func TestClient_CancellationReasonsNeedsNoCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeData(w, http.StatusOK, domain.CancellationReasons)
	}))
	defer srv.Close()

	reasons, err := NewClient(srv.URL, nil).CancellationReasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CancellationReasons, reasons)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).MyMeetups(context.Background(), "t")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewClient(url, nil).MyMeetups(ctx, "t")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_DecodesDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{{
				"id": meetupID, "status": "pending", "title": "",
				"seller": map[string]any{"id": "U1", "firstName": "Sam"},
				"item":   map[string]any{"id": "I1", "title": "Calculator", "price": 500},
			}},
		})
	}))
	defer srv.Close()

	list, err := NewClient(srv.URL, nil).MyMeetups(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Calculator", list[0].DisplayTitle())
	assert.Equal(t, "Sam", list[0].Seller.FirstName)
}
