// Package memory is an in-process implementation of the storage ports, used for local
// development (STORAGE_DRIVER=memory) and end-to-end tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"acadswap/internal/domain"
)

type ledgerKey struct {
	meetupID string
	userID   string
	reason   string
}

type state struct {
	users   map[string]domain.User
	items   map[string]domain.Item
	meetups map[string]domain.Meetup
	history []domain.ReputationChange
	ledger  map[ledgerKey]struct{}
	// insertion order, used for stable listing
	userOrder   []string
	itemOrder   []string
	meetupOrder []string
}

func (s *state) clone() *state {
	c := &state{
		users:       make(map[string]domain.User, len(s.users)),
		items:       make(map[string]domain.Item, len(s.items)),
		meetups:     make(map[string]domain.Meetup, len(s.meetups)),
		history:     slices.Clone(s.history),
		ledger:      make(map[ledgerKey]struct{}, len(s.ledger)),
		userOrder:   slices.Clone(s.userOrder),
		itemOrder:   slices.Clone(s.itemOrder),
		meetupOrder: slices.Clone(s.meetupOrder),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.meetups {
		c.meetups[k] = v
	}
	for k := range s.ledger {
		c.ledger[k] = struct{}{}
	}
	return c
}

// Store holds users, items, meetups and reputation history behind one mutex.
// Transactions hold the mutex for their whole duration and restore a snapshot on failure.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{st: &state{
		users:   map[string]domain.User{},
		items:   map[string]domain.Item{},
		meetups: map[string]domain.Meetup{},
		ledger:  map[ledgerKey]struct{}{},
	}}
}

// AddUser seeds a user, assigning an ID when empty.
func (s *Store) AddUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, ok := s.st.users[u.ID]; !ok {
		s.st.userOrder = append(s.st.userOrder, u.ID)
	}
	s.st.users[u.ID] = *u
}

// AddItem seeds an item, assigning an ID when empty.
func (s *Store) AddItem(it *domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if _, ok := s.st.items[it.ID]; !ok {
		s.st.itemOrder = append(s.st.itemOrder, it.ID)
	}
	s.st.items[it.ID] = cloneItem(*it)
}

// DeleteUser removes a user, leaving meetups that reference them in place.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.users, id)
	s.st.userOrder = slices.DeleteFunc(s.st.userOrder, func(v string) bool { return v == id })
}

// History returns the reputation changes recorded for userID, oldest first.
func (s *Store) History(userID string) []domain.ReputationChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReputationChange
	for _, c := range s.st.history {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// Users returns the user repository.
func (s *Store) Users() domain.UserRepository { return userRepo{s} }

// Items returns the item repository.
func (s *Store) Items() domain.ItemRepository { return itemRepo{s} }

// Meetups returns a meetup repository operating outside any transaction.
func (s *Store) Meetups() domain.MeetupRepository { return meetupRepo{s: s} }

// Reputation returns a ledger operating outside any transaction.
func (s *Store) Reputation() domain.ReputationLedger { return ledger{s: s} }

// WithinTx runs fn with exclusive access to the store. If fn fails every change it made is discarded.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.TxRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(ctx, txRepos{s}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

type txRepos struct{ s *Store }

func (t txRepos) Meetups() domain.MeetupRepository    { return meetupRepo{s: t.s, inTx: true} }
func (t txRepos) Reputation() domain.ReputationLedger { return ledger{s: t.s, inTx: true} }

func lock(s *Store, inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func cloneItem(it domain.Item) domain.Item {
	it.Images = slices.Clone(it.Images)
	return it
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	defer lock(r.s, false)()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) Search(ctx context.Context, query, excludeID string, limit int) ([]*domain.User, error) {
	defer lock(r.s, false)()
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*domain.User, 0)
	for _, id := range r.s.st.userOrder {
		if limit > 0 && len(out) >= limit {
			break
		}
		u := r.s.st.users[id]
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, &u)
		}
	}
	return out, nil
}

type itemRepo struct{ s *Store }

func (r itemRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	defer lock(r.s, false)()
	it, ok := r.s.st.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	it = cloneItem(it)
	return &it, nil
}

func (r itemRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*domain.Item, error) {
	defer lock(r.s, false)()
	out := make([]*domain.Item, 0)
	for _, id := range r.s.st.itemOrder {
		it := r.s.st.items[id]
		if it.SellerID == sellerID {
			it = cloneItem(it)
			out = append(out, &it)
		}
	}
	return out, nil
}

type meetupRepo struct {
	s    *Store
	inTx bool
}

func (r meetupRepo) Create(ctx context.Context, m *domain.Meetup) error {
	defer lock(r.s, r.inTx)()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, ok := r.s.st.meetups[m.ID]; ok {
		return fmt.Errorf("meetup %s: %w", m.ID, domain.ErrDuplicate)
	}
	r.s.st.meetups[m.ID] = *m
	r.s.st.meetupOrder = append(r.s.st.meetupOrder, m.ID)
	return nil
}

func (r meetupRepo) GetByID(ctx context.Context, id string) (*domain.Meetup, error) {
	defer lock(r.s, r.inTx)()
	m, ok := r.s.st.meetups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r meetupRepo) ListByParty(ctx context.Context, userID string) ([]*domain.MeetupDetails, error) {
	defer lock(r.s, r.inTx)()
	out := make([]*domain.MeetupDetails, 0)
	for _, id := range r.s.st.meetupOrder {
		m := r.s.st.meetups[id]
		if m.SellerID != userID && m.BuyerID != userID {
			continue
		}
		out = append(out, &domain.MeetupDetails{
			Meetup: m,
			Seller: r.party(m.SellerID),
			Buyer:  r.party(m.BuyerID),
			Item:   r.item(m.ItemID),
		})
	}
	slices.SortStableFunc(out, func(a, b *domain.MeetupDetails) int {
		return cmp.Or(
			cmp.Compare(a.ScheduledDate, b.ScheduledDate),
			cmp.Compare(a.ScheduledTime, b.ScheduledTime),
		)
	})
	return out, nil
}

func (r meetupRepo) party(id string) domain.PartySummary {
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.PartySummary{ID: id, FirstName: domain.UnknownFirstName, LastName: domain.UnknownLastName}
	}
	return domain.PartySummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

func (r meetupRepo) item(id string) domain.ItemSummary {
	it, ok := r.s.st.items[id]
	if !ok {
		return domain.ItemSummary{ID: id, Title: domain.UnknownItemTitle, Images: []string{}}
	}
	return domain.ItemSummary{ID: it.ID, Title: it.Title, Price: it.Price, Images: slices.Clone(it.Images)}
}

func (r meetupRepo) UpdateStatus(ctx context.Context, c domain.StatusChange, at time.Time) error {
	defer lock(r.s, r.inTx)()
	m, ok := r.s.st.meetups[c.MeetupID]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Status != c.From {
		return fmt.Errorf("%w: meetup %s is %s, expected %s", domain.ErrInvalidTransition, m.ID, m.Status, c.From)
	}
	m.Apply(c, at)
	r.s.st.meetups[m.ID] = m
	return nil
}

func (r meetupRepo) UpdateSchedule(ctx context.Context, id string, expected domain.MeetupStatus, sched domain.Schedule, at time.Time) error {
	defer lock(r.s, r.inTx)()
	m, ok := r.s.st.meetups[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Status != expected {
		return fmt.Errorf("%w: meetup %s is %s, expected %s", domain.ErrInvalidTransition, id, m.Status, expected)
	}
	m.ScheduledDate = sched.ScheduledDate
	m.ScheduledTime = sched.ScheduledTime
	m.Location = sched.Location
	m.Notes = sched.Notes
	m.UpdatedAt = at
	r.s.st.meetups[id] = m
	return nil
}

type ledger struct {
	s    *Store
	inTx bool
}

func (l ledger) Apply(ctx context.Context, c domain.ReputationChange) error {
	defer lock(l.s, l.inTx)()
	key := ledgerKey{meetupID: c.MeetupID, userID: c.UserID, reason: c.Reason}
	if _, ok := l.s.st.ledger[key]; ok {
		return fmt.Errorf("reputation for meetup %s user %s %q: %w", c.MeetupID, c.UserID, c.Reason, domain.ErrDuplicate)
	}
	u, ok := l.s.st.users[c.UserID]
	if !ok {
		return fmt.Errorf("user %s: %w", c.UserID, domain.ErrNotFound)
	}
	u.ReputationScore = max(0, u.ReputationScore+c.Amount)
	l.s.st.users[u.ID] = u
	l.s.st.ledger[key] = struct{}{}
	l.s.st.history = append(l.s.st.history, c)
	return nil
}
