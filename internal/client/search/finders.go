package search

import (
	"context"
	"log/slog"
	"time"

	"acadswap/internal/domain"
)

// Lookup thresholds used by the meetup creation form.
const (
	PartyQueryMinLen   = 2
	PartyQuietPeriod   = 300 * time.Millisecond
	PlaceQueryMinLen   = 3
	PlaceQuietPeriod   = 500 * time.Millisecond
	partyResultLimit   = 10
	degradedLookupNote = "lookup failed, showing no results"
)

// UserSearchFunc looks up counterparties for query.
type UserSearchFunc func(ctx context.Context, query string) ([]*domain.User, error)

// Option tunes a finder.
type Option func(*options)

type options struct {
	quiet time.Duration
}

// WithQuietPeriod overrides the default quiet period.
func WithQuietPeriod(d time.Duration) Option {
	return func(o *options) { o.quiet = d }
}

func buildOptions(quiet time.Duration, opts []Option) options {
	o := options{quiet: quiet}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// PartyFinder searches counterparties as the user types, never offering the acting user.
type PartyFinder struct {
	d *Debouncer[[]*domain.User]
}

// NewPartyFinder calls onResults with the newest result list; failures degrade to an empty
// list with a warning.
func NewPartyFinder(lookup UserSearchFunc, selfID string, logger *slog.Logger, onResults func([]*domain.User), opts ...Option) *PartyFinder {
	o := buildOptions(PartyQuietPeriod, opts)
	search := func(ctx context.Context, q string) ([]*domain.User, error) {
		users, err := lookup(ctx, q)
		if err != nil {
			return nil, err
		}
		out := make([]*domain.User, 0, len(users))
		for _, u := range users {
			if u != nil && u.ID != selfID {
				out = append(out, u)
			}
			if len(out) == partyResultLimit {
				break
			}
		}
		return out, nil
	}
	apply := func(r Result[[]*domain.User]) {
		if r.Err != nil {
			logger.Warn(degradedLookupNote, "lookup", "party", "query", r.Query, "error", r.Err)
			onResults([]*domain.User{})
			return
		}
		if r.Value == nil {
			r.Value = []*domain.User{}
		}
		onResults(r.Value)
	}
	return &PartyFinder{d: NewDebouncer(o.quiet, PartyQueryMinLen, search, apply)}
}

// Update feeds the current input text.
func (f *PartyFinder) Update(query string) { f.d.Update(query) }

func (f *PartyFinder) Close() { f.d.Close() }

// LocationResolver geocodes place names as the user types.
type LocationResolver struct {
	d *Debouncer[[]domain.PlaceCandidate]
}

// NewLocationResolver calls onResults with the newest candidates; failures degrade to an
// empty list with a warning so the user can still enter coordinates by hand.
func NewLocationResolver(geocoder domain.Geocoder, logger *slog.Logger, onResults func([]domain.PlaceCandidate), opts ...Option) *LocationResolver {
	o := buildOptions(PlaceQuietPeriod, opts)
	apply := func(r Result[[]domain.PlaceCandidate]) {
		if r.Err != nil {
			logger.Warn(degradedLookupNote, "lookup", "place", "query", r.Query, "error", r.Err)
			onResults([]domain.PlaceCandidate{})
			return
		}
		if r.Value == nil {
			r.Value = []domain.PlaceCandidate{}
		}
		onResults(r.Value)
	}
	return &LocationResolver{d: NewDebouncer(o.quiet, PlaceQueryMinLen, geocoder.Search, apply)}
}

// Update feeds the current input text.
func (l *LocationResolver) Update(query string) { l.d.Update(query) }

func (l *LocationResolver) Close() { l.d.Close() }
