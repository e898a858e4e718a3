package query

import (
	"context"
	"sync"
)

// View is a typed snapshot of one observed query
type View[T any] struct {
	Data         T
	HasData      bool
	Err          error
	IsLoading    bool
	IsValidating bool
	// IsPrevious is set when Data belongs to an earlier key and is shown
	// while the current key loads.
	IsPrevious bool
}

// Observer follows one key at a time. With keepPrevious it keeps the last
// successful data visible while a new key loads.
type Observer[T any] struct {
	cache        *Cache
	keepPrevious bool

	mu       sync.Mutex
	key      Key
	fetch    Fetcher
	previous T
	hasPrev  bool
}

// NewObserver creates an observer that is not watching any key yet
func NewObserver[T any](cache *Cache, keepPrevious bool) *Observer[T] {
	return &Observer[T]{cache: cache, keepPrevious: keepPrevious}
}

// Watch switches the observed key. The fetcher is used for the initial
// load and for later refreshes of key.
func (o *Observer[T]) Watch(key Key, fetch Fetcher) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if key == o.key {
		o.fetch = fetch
		if key != "" {
			o.cache.Reference(key, fetch)
			o.cache.Release(key)
		}
		return
	}

	o.cache.Release(o.key)
	o.key = key
	o.fetch = fetch
	o.cache.Reference(key, fetch)

	if key == "" {
		var zero T
		o.previous = zero
		o.hasPrev = false
	}
}

// Key returns the key being observed
func (o *Observer[T]) Key() Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.key
}

// Read returns the current view without blocking
func (o *Observer[T]) Read(ctx context.Context) View[T] {
	key, fetch := o.current()
	return o.ReadKey(ctx, key, fetch)
}

// Wait blocks until the current key has data or an error, or ctx is done
func (o *Observer[T]) Wait(ctx context.Context) View[T] {
	key, fetch := o.current()
	return o.WaitKey(ctx, key, fetch)
}

// ReadKey is Read for a key the caller already holds. The view always
// describes key, even if another caller has since watched a different one.
func (o *Observer[T]) ReadKey(ctx context.Context, key Key, fetch Fetcher) View[T] {
	if key == "" {
		o.cache.Get(ctx, key, fetch)
		return View[T]{}
	}
	return o.view(key, o.cache.Get(ctx, key, fetch))
}

// WaitKey is Wait for a key the caller already holds
func (o *Observer[T]) WaitKey(ctx context.Context, key Key, fetch Fetcher) View[T] {
	if key == "" {
		return View[T]{}
	}

	data, err := o.cache.Resolve(ctx, key, fetch)
	if err != nil && ctx.Err() != nil && data == nil {
		return o.view(key, Result{IsLoading: true, IsValidating: true})
	}

	res := Result{Data: data, Err: err}
	if peek, ok := o.cache.Peek(key); ok {
		res.IsValidating = peek.IsValidating
	}
	return o.view(key, res)
}

func (o *Observer[T]) current() (Key, Fetcher) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.key, o.fetch
}

// view converts a cache result for key. Previous data only stands in for
// the key currently watched.
func (o *Observer[T]) view(key Key, res Result) View[T] {
	o.mu.Lock()
	defer o.mu.Unlock()

	watched := key == o.key

	if data, ok := res.Data.(T); ok && res.Data != nil {
		if watched {
			o.previous = data
			o.hasPrev = true
		}
		return View[T]{
			Data:         data,
			HasData:      true,
			Err:          res.Err,
			IsValidating: res.IsValidating,
		}
	}

	if watched && res.IsLoading && o.keepPrevious && o.hasPrev {
		return View[T]{
			Data:         o.previous,
			HasData:      true,
			IsValidating: true,
			IsPrevious:   true,
		}
	}

	return View[T]{
		Err:          res.Err,
		IsLoading:    res.IsLoading,
		IsValidating: res.IsValidating,
	}
}

// Close stops observing
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cache.Release(o.key)
	o.key = ""
	o.fetch = nil
}
