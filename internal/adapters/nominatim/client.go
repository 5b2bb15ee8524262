// Package nominatim resolves free-text places through an OpenStreetMap Nominatim server.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"acadswap/internal/domain"
)

// DefaultLimit is the number of candidates requested per search.
const DefaultLimit = 5

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type geocoder struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limit     int
	breaker   *gobreaker.CircuitBreaker
	logger    *slog.Logger
}

// NewGeocoder returns a domain.Geocoder calling baseURL/search. Consecutive failures open a
// circuit breaker; while it is open searches fail fast with domain.ErrUpstreamUnavailable.
func NewGeocoder(client *http.Client, baseURL, userAgent string, logger *slog.Logger) domain.Geocoder {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &geocoder{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limit:     DefaultLimit,
		logger:    logger,
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nominatim",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return g
}

func (g *geocoder) Search(ctx context.Context, query string) ([]domain.PlaceCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.PlaceCandidate{}, nil
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.fetch(ctx, query)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: geocode %q: %v", domain.ErrUpstreamUnavailable, query, err)
	}
	return out.([]domain.PlaceCandidate), nil
}

func (g *geocoder) fetch(ctx context.Context, query string) ([]domain.PlaceCandidate, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(g.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status: %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	candidates := make([]domain.PlaceCandidate, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lng, errLng := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLng != nil {
			g.logger.DebugContext(ctx, "skipping geocoder result without coordinates", "display_name", p.DisplayName)
			continue
		}
		candidates = append(candidates, domain.PlaceCandidate{Lat: lat, Lng: lng, DisplayName: p.DisplayName})
	}
	return candidates, nil
}
