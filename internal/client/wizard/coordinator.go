// Package wizard drives the four-stage meetup creation form: pick an item, pick the other
// party, fill in the details, submit.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"acadswap/internal/client/api"
	"acadswap/internal/client/search"
	"acadswap/internal/domain"
)

// Stage is a step of the creation form.
type Stage int

const (
	StageItem Stage = iota
	StageParty
	StageDetails
	StageSubmit
)

func (s Stage) String() string {
	switch s {
	case StageItem:
		return "item"
	case StageParty:
		return "party"
	case StageDetails:
		return "details"
	case StageSubmit:
		return "submit"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ErrSubmitInFlight is returned when Submit is called while a previous submission is pending.
var ErrSubmitInFlight = errors.New("a submission is already in progress")

// Backend is the server surface the wizard needs. *api.Client satisfies it.
type Backend interface {
	MyItems(ctx context.Context, cred api.Credential, activeOnly bool) ([]*domain.Item, error)
	SearchUsers(ctx context.Context, cred api.Credential, query string) ([]*domain.User, error)
	SearchPlaces(ctx context.Context, cred api.Credential, query string) ([]domain.PlaceCandidate, error)
	CreateMeetup(ctx context.Context, cred api.Credential, draft domain.MeetupDraft) (*domain.Meetup, error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock sets the clock used for local date validation.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLookupOptions passes options to both debounced lookups.
func WithLookupOptions(opts ...search.Option) Option {
	return func(c *Coordinator) { c.lookupOpts = opts }
}

// Coordinator holds the form state for one creation attempt. It is safe for concurrent use;
// lookup results arrive on background goroutines.
type Coordinator struct {
	backend    Backend
	cred       api.Credential
	selfID     string
	logger     *slog.Logger
	now        func() time.Time
	lookupOpts []search.Option

	parties *search.PartyFinder
	places  *search.LocationResolver

	mu           sync.Mutex
	stage        Stage
	items        []*domain.Item
	item         *domain.Item
	partyResults []*domain.User
	party        *domain.User
	placeResults []domain.PlaceCandidate
	title        string
	date         string
	clock        string
	locationName string
	lat, lng     *float64
	notes        string
	submitting   bool
	lastError    string
	created      *domain.Meetup
}

// New returns a Coordinator acting as selfID with cred. Call Close when the form is dismissed.
func New(backend Backend, cred api.Credential, selfID string, logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend: backend,
		cred:    cred,
		selfID:  selfID,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parties = search.NewPartyFinder(
		func(ctx context.Context, q string) ([]*domain.User, error) { return backend.SearchUsers(ctx, cred, q) },
		selfID, logger, c.setPartyResults, c.lookupOpts...)
	c.places = search.NewLocationResolver(placeLookup{backend: backend, cred: cred}, logger, c.setPlaceResults, c.lookupOpts...)
	return c
}

type placeLookup struct {
	backend Backend
	cred    api.Credential
}

func (p placeLookup) Search(ctx context.Context, q string) ([]domain.PlaceCandidate, error) {
	return p.backend.SearchPlaces(ctx, p.cred, q)
}

// Close stops both lookups.
func (c *Coordinator) Close() {
	c.parties.Close()
	c.places.Close()
}

// Load fetches the caller's items. Only active items are offered; a selected item that is
// no longer offered is dropped.
func (c *Coordinator) Load(ctx context.Context) error {
	items, err := c.backend.MyItems(ctx, c.cred, true)
	if err != nil {
		c.fail(err)
		return fmt.Errorf("load items: %w", err)
	}
	items = domain.ActiveItems(items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	if c.item != nil && findItem(items, c.item.ID) == nil {
		c.item = nil
	}
	return nil
}

func findItem(items []*domain.Item, id string) *domain.Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (c *Coordinator) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Items returns the items offered in the first stage.
func (c *Coordinator) Items() []*domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domain.Item(nil), c.items...)
}

// SelectItem picks one of the offered items.
func (c *Coordinator) SelectItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := findItem(c.items, id)
	if it == nil {
		return fmt.Errorf("item %s is not one of your active items: %w", id, domain.ErrInvalidInput)
	}
	c.item = it
	if c.title == "" {
		c.title = it.Title
	}
	return nil
}

// SearchParty feeds the counterparty search box.
func (c *Coordinator) SearchParty(query string) { c.parties.Update(query) }

func (c *Coordinator) setPartyResults(users []*domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partyResults = users
}

func (c *Coordinator) PartyResults() []*domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domain.User(nil), c.partyResults...)
}

// SelectParty picks the counterparty from the latest search results.
func (c *Coordinator) SelectParty(userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range c.partyResults {
		if u.ID == userID && u.ID != c.selfID {
			c.party = u
			return nil
		}
	}
	return fmt.Errorf("user %s is not in the search results: %w", userID, domain.ErrInvalidInput)
}

func (c *Coordinator) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = title
}

// SetSchedule sets the date (YYYY-MM-DD) and time (HH:MM).
func (c *Coordinator) SetSchedule(date, clock string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date, c.clock = date, clock
}

func (c *Coordinator) SetNotes(notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = notes
}

// SearchPlace feeds the location box. Typing replaces the location name and forgets any
// coordinates picked earlier.
func (c *Coordinator) SearchPlace(query string) {
	c.mu.Lock()
	c.locationName = query
	c.lat, c.lng = nil, nil
	c.mu.Unlock()
	c.places.Update(query)
}

func (c *Coordinator) setPlaceResults(places []domain.PlaceCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placeResults = places
}

func (c *Coordinator) PlaceResults() []domain.PlaceCandidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.PlaceCandidate(nil), c.placeResults...)
}

// PickPlace uses the i-th place result as the meetup location.
func (c *Coordinator) PickPlace(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.placeResults) {
		return fmt.Errorf("no place result %d: %w", i, domain.ErrInvalidInput)
	}
	p := c.placeResults[i]
	c.locationName = p.DisplayName
	c.lat, c.lng = &p.Lat, &p.Lng
	return nil
}

// SetLocation enters a location by hand, for when search is unavailable.
func (c *Coordinator) SetLocation(name string, lat, lng float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locationName = name
	c.lat, c.lng = &lat, &lng
}

// Draft returns the creation request built from the current state.
func (c *Coordinator) Draft() domain.MeetupDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftLocked()
}

func (c *Coordinator) draftLocked() domain.MeetupDraft {
	d := domain.MeetupDraft{
		Title:         c.title,
		ScheduledDate: c.date,
		ScheduledTime: c.clock,
		LocationName:  c.locationName,
		Notes:         c.notes,
	}
	if c.item != nil {
		d.ItemID = c.item.ID
	}
	if c.party != nil {
		d.BuyerID = c.party.ID
	}
	if c.lat != nil && c.lng != nil {
		lat, lng := *c.lat, *c.lng
		d.LocationLat, d.LocationLng = &lat, &lng
	}
	return d
}

func (c *Coordinator) problemsLocked(upTo Stage) []string {
	var problems []string
	if c.item == nil {
		problems = append(problems, "select an item")
	}
	if upTo >= StageParty && c.party == nil {
		problems = append(problems, "select who you are meeting")
	}
	if upTo >= StageDetails {
		d := c.draftLocked()
		for _, p := range d.Problems(c.now()) {
			if strings.HasPrefix(p, "itemId") || strings.HasPrefix(p, "buyerId") {
				continue
			}
			problems = append(problems, p)
		}
	}
	return problems
}

// Next advances one stage once the current stage is complete. Selections are kept.
func (c *Coordinator) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageSubmit {
		return nil
	}
	if problems := c.problemsLocked(c.stage); len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}
	c.stage++
	return nil
}

// Back returns to the previous stage. Selections are kept.
func (c *Coordinator) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage > StageItem {
		c.stage--
	}
}

// LastError is the message of the most recent failure, suitable for display.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Created is the meetup created by a successful Submit.
func (c *Coordinator) Created() *domain.Meetup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

func (c *Coordinator) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = api.UserMessage(err)
}

// Submit validates the whole form locally and sends exactly one create request. On any
// failure the form state is left as it was so the user can correct and retry.
func (c *Coordinator) Submit(ctx context.Context) (*domain.Meetup, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if problems := c.problemsLocked(StageDetails); len(problems) > 0 {
		err := domain.NewValidationError(problems...)
		c.lastError = err.Error()
		c.mu.Unlock()
		return nil, err
	}
	c.submitting = true
	c.lastError = ""
	draft := c.draftLocked()
	c.mu.Unlock()

	m, err := c.backend.CreateMeetup(ctx, c.cred, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.lastError = api.UserMessage(err)
		c.logger.Warn("meetup creation rejected", "item_id", draft.ItemID, "buyer_id", draft.BuyerID, "error", err)
		return nil, err
	}
	c.created = m
	return m, nil
}
