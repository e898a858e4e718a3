// Package query keys upstream requests by their parameters, de-duplicates
// concurrent fetches and serves stale data while revalidating in the
// background.
package query

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/amaumene/cinesearch/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Key identifies one request. The empty key means "do not query".
type Key string

// KeyFor serializes params deterministically (sorted by name). It returns
// the empty key when primary, the parameter a query cannot do without, is empty.
func KeyFor(primary string, params url.Values) Key {
	if primary == "" {
		return ""
	}
	return Key(params.Encode())
}

// Fetcher loads the value for one key
type Fetcher func(ctx context.Context) (any, error)

// Result is what a reader sees for a key
type Result struct {
	Data         any
	Err          error
	IsLoading    bool // Nothing to show yet and a fetch is running
	IsValidating bool // A fetch for this key is running
}

// Options tunes staleness and refresh behaviour
type Options struct {
	StaleTime         time.Duration
	CacheTime         time.Duration
	FetchTimeout      time.Duration
	RevalidateOnFocus bool
	RefreshWhenHidden bool
}

type entry struct {
	data      any
	err       error
	fetchedAt time.Time
}

type reference struct {
	count int
	fetch Fetcher
}

// Cache stores one entry per key. Entries are immutable once stored; a
// completed fetch replaces the entry for its own key only.
type Cache struct {
	opts    Options
	entries *gocache.Cache
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *logrus.Logger
	now     func() time.Time

	mu       sync.Mutex
	inflight map[Key]int // callers attached to the running fetch
	refs     map[Key]*reference
	focused  bool
}

// NewCache creates a cache. Entries expire CacheTime after their last write.
func NewCache(opts Options, m *metrics.Metrics, logger *logrus.Logger) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = time.Minute
	}
	if opts.CacheTime < opts.StaleTime {
		opts.CacheTime = opts.StaleTime
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}

	return &Cache{
		opts:     opts,
		entries:  gocache.New(opts.CacheTime, opts.CacheTime),
		metrics:  m,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[Key]int),
		refs:     make(map[Key]*reference),
		focused:  true,
	}
}

// Get is the non-blocking read. A fresh entry is returned as is; a stale
// entry is returned and revalidated in the background; a missing entry
// starts a fetch and reports loading.
func (c *Cache) Get(ctx context.Context, key Key, fetch Fetcher) Result {
	if key == "" {
		c.metrics.CacheReads.WithLabelValues("idle").Inc()
		return Result{}
	}

	e, ok := c.lookup(key)
	if ok && !c.isStale(e) {
		c.metrics.CacheReads.WithLabelValues("hit").Inc()
		return Result{Data: e.data, Err: e.err, IsValidating: c.isInflight(key)}
	}

	c.start(key, fetch)

	if ok {
		c.metrics.CacheReads.WithLabelValues("stale").Inc()
		return Result{Data: e.data, Err: e.err, IsValidating: true}
	}
	c.metrics.CacheReads.WithLabelValues("miss").Inc()
	return Result{IsLoading: true, IsValidating: true}
}

// Resolve is the blocking read. It returns stored data when present
// (revalidating stale entries in the background) and otherwise waits for
// the single in-flight fetch of key. ctx only bounds the wait; the fetch
// itself keeps running for other readers.
func (c *Cache) Resolve(ctx context.Context, key Key, fetch Fetcher) (any, error) {
	if key == "" {
		c.metrics.CacheReads.WithLabelValues("idle").Inc()
		return nil, nil
	}

	if e, ok := c.lookup(key); ok {
		if c.isStale(e) {
			c.metrics.CacheReads.WithLabelValues("stale").Inc()
			c.start(key, fetch)
		} else {
			c.metrics.CacheReads.WithLabelValues("hit").Inc()
		}
		return e.data, e.err
	}

	c.metrics.CacheReads.WithLabelValues("miss").Inc()
	select {
	case res := <-c.start(key, fetch):
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Revalidate starts a fetch for key regardless of its age
func (c *Cache) Revalidate(key Key, fetch Fetcher) {
	if key == "" {
		return
	}
	c.start(key, fetch)
}

// start attaches to the in-flight fetch for key or launches one. The
// result is written back under key before any waiter is released. Every
// caller holds one in-flight count until its result has been delivered.
func (c *Cache) start(key Key, fetch Fetcher) <-chan singleflight.Result {
	c.mu.Lock()
	if c.inflight[key] > 0 {
		c.metrics.CacheDeduped.Inc()
	}
	c.inflight[key]++
	c.mu.Unlock()

	ch := c.group.DoChan(string(key), func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
		defer cancel()

		data, err := fetch(ctx)
		stored := c.store(key, data, err)
		return stored.data, stored.err
	})

	out := make(chan singleflight.Result, 1)
	go func() {
		res := <-ch

		c.mu.Lock()
		c.inflight[key]--
		if c.inflight[key] <= 0 {
			delete(c.inflight, key)
		}
		c.mu.Unlock()

		out <- res
	}()
	return out
}

// store writes the outcome of a fetch. A failed refresh keeps the data
// that was already there.
func (c *Cache) store(key Key, data any, err error) *entry {
	next := &entry{data: data, err: err, fetchedAt: c.now()}
	if err != nil {
		next.data = nil
		if prev, ok := c.lookup(key); ok {
			next.data = prev.data
		}
		c.logger.WithError(err).WithField("key", string(key)).Debug("Fetch failed")
	}

	c.entries.Set(string(key), next, gocache.DefaultExpiration)
	c.metrics.CacheEntries.Set(float64(c.entries.ItemCount()))
	return next
}

func (c *Cache) lookup(key Key) (*entry, bool) {
	v, ok := c.entries.Get(string(key))
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

func (c *Cache) isStale(e *entry) bool {
	return c.now().Sub(e.fetchedAt) > c.opts.StaleTime
}

func (c *Cache) isInflight(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key] > 0
}

// Peek returns the stored entry without triggering anything
func (c *Cache) Peek(key Key) (Result, bool) {
	e, ok := c.lookup(key)
	if !ok {
		return Result{}, false
	}
	return Result{Data: e.data, Err: e.err, IsValidating: c.isInflight(key)}, true
}

// Invalidate drops the entry for key
func (c *Cache) Invalidate(key Key) {
	c.entries.Delete(string(key))
	c.metrics.CacheEntries.Set(float64(c.entries.ItemCount()))
}

// Len returns the number of stored entries
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}
