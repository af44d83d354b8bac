package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"fridge-planner/internal/api"
)

// client is the slice of the remote API the autocomplete needs.
type client interface {
	SearchIngredients(ctx context.Context, query string) ([]api.Suggestion, error)
}

const (
	defaultDelay    = 300 * time.Millisecond
	defaultMinChars = 2
)

// Autocomplete debounces ingredient lookups while the user types and drops
// responses that a newer query has superseded. Lookups are best-effort: a
// failed search delivers an empty suggestion list, never an error.
type Autocomplete struct {
	remote   client
	delay    time.Duration
	minChars int

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// NewAutocomplete creates an autocomplete with the stock 300ms quiet period
// and 2-character minimum.
func NewAutocomplete(remote client) *Autocomplete {
	return &Autocomplete{remote: remote, delay: defaultDelay, minChars: defaultMinChars}
}

// Query schedules a lookup for text. deliver runs once with the suggestions
// unless a newer Query call supersedes this one first. Queries shorter than
// the minimum clear the suggestion list immediately.
func (a *Autocomplete) Query(ctx context.Context, text string, deliver func([]api.Suggestion)) {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	text = strings.TrimSpace(text)
	if len([]rune(text)) < a.minChars {
		a.mu.Unlock()
		deliver(nil)
		return
	}

	a.timer = time.AfterFunc(a.delay, func() {
		a.lookup(ctx, seq, text, deliver)
	})
	a.mu.Unlock()
}

func (a *Autocomplete) lookup(ctx context.Context, seq uint64, text string, deliver func([]api.Suggestion)) {
	suggestions, err := a.remote.SearchIngredients(ctx, text)
	if err != nil {
		suggestions = nil
	}

	a.mu.Lock()
	stale := seq != a.seq
	a.mu.Unlock()
	if stale {
		return
	}
	deliver(suggestions)
}
