// Package search drives the debounced search-then-add dialogs (event
// attach, member add) as an explicit state machine, independent of any
// rendering layer. Input changes, debounce expiry, response arrival and
// per-item add actions are the only events.
package search

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// State of a dialog instance.
type State int

const (
	// StateIdle: query too short, nothing requested.
	StateIdle State = iota
	// StateSearching: a request is in flight.
	StateSearching
	// StateResults: last search returned at least one item.
	StateResults
	// StateEmpty: last search returned nothing, or failed.
	StateEmpty
)

// DefaultDebounce is how long input must stay quiescent before a search fires.
const DefaultDebounce = 500 * time.Millisecond

// DefaultMinQueryLen is the minimum trimmed query length that triggers a search.
const DefaultMinQueryLen = 2

// SearchFunc fetches candidates for a query.
type SearchFunc[T any] func(ctx context.Context, query string) ([]T, error)

// ActionFunc runs the per-item add/attach action and returns its data.
type ActionFunc[T any] func(item T) (interface{}, error)

// Options configures a Dialog.
type Options[T any] struct {
	// Search is required.
	Search SearchFunc[T]
	// Match reports whether two items are the same record; required so a
	// successfully added item can be removed from the visible list.
	Match func(a, b T) bool
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// MinQueryLen defaults to DefaultMinQueryLen.
	MinQueryLen int
	// OnError receives transient failures; errors never become dialog state.
	OnError func(error)
}

// Dialog is one dialog instance. All methods are safe for concurrent use.
type Dialog[T any] struct {
	mu      sync.Mutex
	opts    Options[T]
	state   State
	query   string
	results []T
	// seq invalidates in-flight searches; a response whose sequence no
	// longer matches is stale and gets discarded.
	seq   uint64
	timer *time.Timer
}

// NewDialog creates a dialog in the idle state.
func NewDialog[T any](opts Options[T]) *Dialog[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQueryLen <= 0 {
		opts.MinQueryLen = DefaultMinQueryLen
	}
	return &Dialog[T]{opts: opts, state: StateIdle}
}

// Open resets query, results and state; called whenever the dialog is shown.
func (d *Dialog[T]) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopTimerLocked()
	d.seq++
	d.query = ""
	d.results = nil
	d.state = StateIdle
}

// SetQuery records an input change and (re)schedules the debounced search.
// A trimmed query shorter than the minimum forces idle with cleared results.
func (d *Dialog[T]) SetQuery(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.query = query
	d.stopTimerLocked()

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < d.opts.MinQueryLen {
		d.seq++
		d.results = nil
		d.state = StateIdle
		return
	}
	d.timer = time.AfterFunc(d.opts.Debounce, func() { d.runSearch(trimmed) })
}

// Add runs the per-item action. On success the item leaves the visible
// list, the search is re-issued when it was the sole remaining result, and
// the action's data is forwarded to onSuccess.
func (d *Dialog[T]) Add(item T, action ActionFunc[T], onSuccess func(interface{})) error {
	data, err := action(item)
	if err != nil {
		d.notify(err)
		return err
	}

	d.mu.Lock()
	kept := d.results[:0]
	for _, r := range d.results {
		if !d.opts.Match(r, item) {
			kept = append(kept, r)
		}
	}
	d.results = kept
	exhausted := len(kept) == 0
	if exhausted {
		d.state = StateEmpty
	}
	trimmed := strings.TrimSpace(d.query)
	refresh := exhausted && utf8.RuneCountInString(trimmed) >= d.opts.MinQueryLen
	d.mu.Unlock()

	if onSuccess != nil {
		onSuccess(data)
	}
	if refresh {
		d.runSearch(trimmed)
	}
	return nil
}

// State returns the current state.
func (d *Dialog[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Results returns a copy of the visible result list.
func (d *Dialog[T]) Results() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]T, len(d.results))
	copy(out, d.results)
	return out
}

// Query returns the current query text.
func (d *Dialog[T]) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

func (d *Dialog[T]) runSearch(query string) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.state = StateSearching
	d.mu.Unlock()

	results, err := d.opts.Search(context.Background(), query)

	d.mu.Lock()
	if seq != d.seq {
		// A newer search or reset superseded this response.
		d.mu.Unlock()
		return
	}
	if err != nil {
		d.results = nil
		d.state = StateEmpty
		d.mu.Unlock()
		d.notify(err)
		return
	}
	d.results = results
	if len(results) == 0 {
		d.state = StateEmpty
	} else {
		d.state = StateResults
	}
	d.mu.Unlock()
}

func (d *Dialog[T]) stopTimerLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Dialog[T]) notify(err error) {
	if d.opts.OnError != nil {
		d.opts.OnError(err)
	}
}

// DefaultWeightText is the initial weight input of the event-attach variant.
const DefaultWeightText = "1.0"

// ErrInvalidWeight rejects weights outside [0.0, 1.0] before any action runs.
var ErrInvalidWeight = errors.New("weight must be a number between 0.0 and 1.0")

// ParseWeight parses the ancillary weight input of the event-attach variant.
func ParseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
		return 0, ErrInvalidWeight
	}
	if w < 0 || w > 1 {
		return 0, ErrInvalidWeight
	}
	return w, nil
}
