package search

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matthieukhl/shopctl/internal/models"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke
	// before a search is dispatched.
	DefaultDebounce = 400 * time.Millisecond

	// DefaultLimit caps the results fetched per resource type.
	DefaultLimit = 4
)

// Results groups the top matches per resource type. A resource whose
// lookup failed contributes an empty section instead of an error.
type Results struct {
	Products  []models.Product  `json:"products"`
	Orders    []models.Order    `json:"orders"`
	Customers []models.Customer `json:"customers"`
}

// Empty reports whether no section has any matches.
func (r Results) Empty() bool {
	return len(r.Products) == 0 && len(r.Orders) == 0 && len(r.Customers) == 0
}

// Sources are the three bounded lookups the aggregator fans out to.
type Sources struct {
	Products  func(ctx context.Context, query string, limit int) ([]models.Product, error)
	Orders    func(ctx context.Context, query string, limit int) ([]models.Order, error)
	Customers func(ctx context.Context, query string, limit int) ([]models.Customer, error)
}

// Aggregator turns a keystroke stream into debounced, parallel
// multi-resource lookups. Each dispatched query carries a monotonic
// sequence number; a response is only applied while its sequence is
// still the latest, so a slow response for an abandoned query can
// never overwrite newer results.
type Aggregator struct {
	sources  Sources
	debounce time.Duration
	limit    int
	onUpdate func(Results)

	seq atomic.Uint64

	mu      sync.Mutex
	timer   *time.Timer
	results Results
}

type Option func(*Aggregator)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(a *Aggregator) { a.debounce = d }
}

// WithLimit overrides the per-resource result cap.
func WithLimit(n int) Option {
	return func(a *Aggregator) { a.limit = n }
}

// WithUpdateFunc registers a callback invoked each time a fresh result
// set is applied (including the empty set when the query is cleared).
func WithUpdateFunc(fn func(Results)) Option {
	return func(a *Aggregator) { a.onUpdate = fn }
}

func New(sources Sources, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources:  sources,
		debounce: DefaultDebounce,
		limit:    DefaultLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Query feeds one keystroke's worth of input. An empty or
// whitespace-only query clears the results immediately without any
// lookup; anything else (re)starts the debounce timer.
func (a *Aggregator) Query(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	if query == "" {
		// Invalidate anything still in flight before clearing.
		a.seq.Add(1)
		a.results = Results{}
		if a.onUpdate != nil {
			a.onUpdate(Results{})
		}
		return
	}

	a.timer = time.AfterFunc(a.debounce, func() {
		a.dispatch(ctx, query)
	})
}

// Results returns the most recently applied result set.
func (a *Aggregator) Results() Results {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.results
}

func (a *Aggregator) dispatch(ctx context.Context, query string) {
	seq := a.seq.Add(1)

	res := a.Lookup(ctx, query)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seq.Load() != seq {
		// A newer query was dispatched (or the input was cleared)
		// while this one was in flight. Drop it.
		return
	}
	a.results = res
	if a.onUpdate != nil {
		a.onUpdate(res)
	}
}

// Lookup runs the three resource queries in parallel and merges them,
// tolerating partial failure. It is also used directly for one-shot
// searches where debouncing makes no sense.
func (a *Aggregator) Lookup(ctx context.Context, query string) Results {
	var (
		wg  sync.WaitGroup
		res Results
	)

	if a.sources.Products != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if items, err := a.sources.Products(ctx, query, a.limit); err == nil {
				res.Products = truncate(items, a.limit)
			}
		}()
	}
	if a.sources.Orders != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if items, err := a.sources.Orders(ctx, query, a.limit); err == nil {
				res.Orders = truncate(items, a.limit)
			}
		}()
	}
	if a.sources.Customers != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if items, err := a.sources.Customers(ctx, query, a.limit); err == nil {
				res.Customers = truncate(items, a.limit)
			}
		}()
	}
	wg.Wait()
	return res
}

// truncate trims a slice to the per-resource limit; endpoints honor
// page_size but a misbehaving one must not overflow the dropdown.
func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
