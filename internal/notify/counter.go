package notify

import (
	"context"
	"sync"
)

// FetchFunc returns the server's current unread-notification total.
type FetchFunc func(ctx context.Context) (int, error)

// Counter caches the unread-notification count independently of the
// notification list. The two are fetched separately and may
// transiently disagree; that is accepted.
type Counter struct {
	fetch FetchFunc

	mu    sync.Mutex
	count int
}

func NewCounter(fetch FetchFunc) *Counter {
	return &Counter{fetch: fetch}
}

// Refresh replaces the cached count with the server's value. A failed
// fetch is silent: the cached value is retained.
func (c *Counter) Refresh(ctx context.Context) {
	n, err := c.fetch(ctx)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.count = n
	c.mu.Unlock()
}

// Decrement lowers the count by n, clamping at zero.
func (c *Counter) Decrement(n int) {
	if n <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.count -= n
	if c.count < 0 {
		c.count = 0
	}
}

// Reset zeroes the count, e.g. after "mark all read".
func (c *Counter) Reset() {
	c.mu.Lock()
	c.count = 0
	c.mu.Unlock()
}

func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
