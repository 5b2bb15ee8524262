// Package search runs as-you-type lookups: each keystroke cancels the pending lookup and
// schedules a new one after a quiet period, and only the newest query's result is applied.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// LookupFunc performs one lookup. It must honour ctx cancellation.
type LookupFunc[T any] func(ctx context.Context, query string) (T, error)

// Result is delivered to the apply callback. Cleared is set when the query was too short
// to look up; Value is then the zero value.
type Result[T any] struct {
	Query   string
	Value   T
	Err     error
	Cleared bool
}

// Debouncer schedules lookups for the latest query. apply runs on the debouncer's goroutines
// and must not call Update or Close synchronously.
type Debouncer[T any] struct {
	quiet  time.Duration
	minLen int
	lookup LookupFunc[T]
	apply  func(Result[T])

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool

	// applyMu orders deliveries so a stale result can never land after a newer one.
	applyMu sync.Mutex
}

// NewDebouncer returns a Debouncer that waits quiet after the last Update before calling lookup
// and skips queries shorter than minLen runes after trimming.
func NewDebouncer[T any](quiet time.Duration, minLen int, lookup LookupFunc[T], apply func(Result[T])) *Debouncer[T] {
	return &Debouncer[T]{quiet: quiet, minLen: minLen, lookup: lookup, apply: apply}
}

// Update records a new query, cancelling whatever was scheduled or in flight.
func (d *Debouncer[T]) Update(query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.stopLocked()
	d.gen++
	gen := d.gen
	if utf8.RuneCountInString(query) < d.minLen {
		d.mu.Unlock()
		d.deliver(gen, Result[T]{Query: query, Cleared: true})
		return
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen, query) })
	d.mu.Unlock()
}

// Close cancels pending and in-flight lookups. Later Updates are ignored.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.gen++
	d.stopLocked()
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer[T]) fire(gen uint64, query string) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	value, err := d.lookup(ctx, query)
	cancel()
	d.deliver(gen, Result[T]{Query: query, Value: value, Err: err})
}

func (d *Debouncer[T]) deliver(gen uint64, r Result[T]) {
	d.applyMu.Lock()
	defer d.applyMu.Unlock()

	d.mu.Lock()
	current := gen == d.gen && !d.closed
	d.mu.Unlock()
	if current {
		d.apply(r)
	}
}
