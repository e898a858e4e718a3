package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/cinesearch/internal/metrics"
	"github.com/amaumene/cinesearch/internal/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(opts Options) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	if opts.StaleTime == 0 {
		opts.StaleTime = time.Minute
	}
	if opts.CacheTime == 0 {
		opts.CacheTime = 5 * time.Minute
	}
	c := NewCache(opts, metrics.Discard(), utils.DiscardLogger())
	c.now = clock.Now
	return c, clock
}

// countingFetcher returns "<prefix>-<n>" where n counts the calls
func countingFetcher(prefix string, calls *atomic.Int32) Fetcher {
	return func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

// gatedFetcher blocks until gate is closed
func gatedFetcher(value string, gate <-chan struct{}, calls *atomic.Int32) Fetcher {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-gate
		return value, nil
	}
}

func TestKeyFor(t *testing.T) {
	a := url.Values{}
	a.Set("s", "batman")
	a.Set("page", "1")
	b := url.Values{}
	b.Set("page", "1")
	b.Set("s", "batman")

	assert.Equal(t, KeyFor("batman", a), KeyFor("batman", b))
	assert.Equal(t, Key("page=1&s=batman"), KeyFor("batman", a))
	assert.Equal(t, Key(""), KeyFor("", a))
}

func TestEmptyKeyIsSuppressed(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32

	res := c.Get(context.Background(), "", countingFetcher("x", &calls))
	assert.Equal(t, Result{}, res)

	data, err := c.Resolve(context.Background(), "", countingFetcher("x", &calls))
	assert.Nil(t, data)
	assert.NoError(t, err)

	c.Reference("", countingFetcher("x", &calls))
	assert.Zero(t, c.RefreshReferenced(ReasonInterval))

	assert.Zero(t, calls.Load())
	assert.Zero(t, c.Len())
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	gate := make(chan struct{})
	fetch := gatedFetcher("batman", gate, &calls)

	res := c.Get(context.Background(), "s=batman", fetch)
	assert.True(t, res.IsLoading)
	assert.True(t, res.IsValidating)

	var wg sync.WaitGroup
	results := make([]any, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := c.Resolve(context.Background(), "s=batman", fetch)
			assert.NoError(t, err)
			results[i] = data
		}(i)
	}

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(c.metrics.CacheDeduped) == float64(len(results))
	}, time.Second, 5*time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, data := range results {
		assert.Equal(t, "batman", data)
	}
}

func TestFreshEntryIsServedWithoutFetching(t *testing.T) {
	c, clock := newTestCache(Options{StaleTime: time.Minute})
	var calls atomic.Int32
	fetch := countingFetcher("v", &calls)

	data, err := c.Resolve(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v-1", data)

	clock.Advance(30 * time.Second)
	res := c.Get(context.Background(), "k", fetch)
	assert.Equal(t, "v-1", res.Data)
	assert.False(t, res.IsLoading)
	assert.False(t, res.IsValidating)
	assert.Equal(t, int32(1), calls.Load())
}

func TestStaleEntryIsServedWhileRevalidating(t *testing.T) {
	c, clock := newTestCache(Options{StaleTime: time.Minute})
	var calls atomic.Int32
	fetch := countingFetcher("v", &calls)

	_, err := c.Resolve(context.Background(), "k", fetch)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	res := c.Get(context.Background(), "k", fetch)
	assert.Equal(t, "v-1", res.Data, "stale data stays visible")
	assert.True(t, res.IsValidating)
	assert.False(t, res.IsLoading)

	require.Eventually(t, func() bool {
		peek, ok := c.Peek("k")
		return ok && peek.Data == "v-2"
	}, time.Second, 5*time.Millisecond)
}

func TestFailedRefreshKeepsPreviousData(t *testing.T) {
	c, _ := newTestCache(Options{})
	boom := errors.New("upstream down")
	fail := atomic.Bool{}
	fetch := func(ctx context.Context) (any, error) {
		if fail.Load() {
			return nil, boom
		}
		return "good", nil
	}

	_, err := c.Resolve(context.Background(), "k", fetch)
	require.NoError(t, err)

	fail.Store(true)
	c.Revalidate("k", fetch)

	require.Eventually(t, func() bool {
		peek, _ := c.Peek("k")
		return peek.Err != nil
	}, time.Second, 5*time.Millisecond)

	peek, _ := c.Peek("k")
	assert.Equal(t, "good", peek.Data)
	assert.ErrorIs(t, peek.Err, boom)
}

func TestFirstFetchErrorHasNoData(t *testing.T) {
	c, _ := newTestCache(Options{})
	boom := errors.New("not found")

	data, err := c.Resolve(context.Background(), "k", func(ctx context.Context) (any, error) {
		return (*string)(nil), boom
	})
	assert.Nil(t, data)
	assert.ErrorIs(t, err, boom)
}

func TestLateResultOnlyUpdatesItsOwnKey(t *testing.T) {
	c, _ := newTestCache(Options{})
	var callsA, callsB atomic.Int32
	gateA := make(chan struct{})

	c.Get(context.Background(), "a", gatedFetcher("slow-a", gateA, &callsA))

	data, err := c.Resolve(context.Background(), "b", countingFetcher("b", &callsB))
	require.NoError(t, err)
	assert.Equal(t, "b-1", data)

	close(gateA)
	require.Eventually(t, func() bool {
		_, ok := c.Peek("a")
		return ok
	}, time.Second, 5*time.Millisecond)

	a, _ := c.Peek("a")
	b, _ := c.Peek("b")
	assert.Equal(t, "slow-a", a.Data)
	assert.Equal(t, "b-1", b.Data)
}

func TestResolveHonoursCallerContext(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	gate := make(chan struct{})
	defer close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Resolve(ctx, "k", gatedFetcher("v", gate, &calls))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32

	_, err := c.Resolve(context.Background(), "k", countingFetcher("v", &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	c.Invalidate("k")
	assert.Zero(t, c.Len())

	res := c.Get(context.Background(), "k", countingFetcher("v", &calls))
	assert.True(t, res.IsLoading)
}

func TestInflightStateClearsAfterOverlappingFetches(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	fetch := countingFetcher("v", &calls)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Revalidate("k", fetch)
				_, err := c.Resolve(context.Background(), "k", fetch)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return !c.isInflight("k")
	}, time.Second, 5*time.Millisecond)

	peek, ok := c.Peek("k")
	require.True(t, ok)
	assert.False(t, peek.IsValidating)

	res := c.Get(context.Background(), "k", fetch)
	assert.False(t, res.IsValidating)
	assert.False(t, res.IsLoading)
}

func TestDedupCountsOnlyAttachedCallers(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	gate := make(chan struct{})
	fetch := gatedFetcher("v", gate, &calls)

	c.Revalidate("k", fetch)
	c.Revalidate("k", fetch)
	close(gate)

	require.Eventually(t, func() bool {
		return !c.isInflight("k")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.CacheDeduped))

	c.Revalidate("k", countingFetcher("w", &calls))
	require.Eventually(t, func() bool {
		return !c.isInflight("k")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.CacheDeduped), "a fetch after the last one finished is not a duplicate")
}
