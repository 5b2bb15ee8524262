package nominatim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadswap/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGeocoder_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "Main Library", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "acadswap-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"lat":"14.6","lon":"120.9","display_name":"Main Library, Manila"},
			{"lat":"n/a","lon":"120.9","display_name":"Broken"}
		]`)
	}))
	defer srv.Close()

	g := NewGeocoder(srv.Client(), srv.URL+"/", "acadswap-test", discardLogger())
	got, err := g.Search(context.Background(), "  Main Library ")
	require.NoError(t, err)
	assert.Equal(t, []domain.PlaceCandidate{{Lat: 14.6, Lng: 120.9, DisplayName: "Main Library, Manila"}}, got)
	assert.Equal(t, domain.Location{Name: "Main Library, Manila", Lat: 14.6, Lng: 120.9}, got[0].Location())
}

func TestGeocoder_UpstreamFailureOpensBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGeocoder(srv.Client(), srv.URL, "", discardLogger())
	for range 5 {
		_, err := g.Search(context.Background(), "Library")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable), "got %v", err)
	}
	assert.Equal(t, int32(3), calls.Load(), "open breaker stops calling upstream")
}

func TestGeocoder_NilLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGeocoder(srv.Client(), srv.URL, "", nil)
	assert.NotPanics(t, func() {
		for range 4 {
			_, err := g.Search(context.Background(), "Library")
			assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		}
	})
}

func TestGeocoder_EmptyQuery(t *testing.T) {
	g := NewGeocoder(nil, "http://127.0.0.1:0", "", discardLogger())
	got, err := g.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
