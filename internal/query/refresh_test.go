package query

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshReferencedRevalidatesObservedKeys(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	fetch := countingFetcher("v", &calls)

	_, err := c.Resolve(context.Background(), "k", fetch)
	require.NoError(t, err)

	assert.Zero(t, c.RefreshReferenced(ReasonInterval), "unreferenced keys are left alone")

	c.Reference("k", fetch)
	assert.Equal(t, 1, c.RefreshReferenced(ReasonInterval))
	require.Eventually(t, func() bool {
		peek, _ := c.Peek("k")
		return peek.Data == "v-2"
	}, time.Second, 5*time.Millisecond)

	c.Release("k")
	assert.Empty(t, c.Referenced())
	assert.Zero(t, c.RefreshReferenced(ReasonInterval))
}

func TestReferencesAreCounted(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	fetch := countingFetcher("v", &calls)

	c.Reference("k", fetch)
	c.Reference("k", fetch)
	c.Release("k")
	assert.Equal(t, []Key{"k"}, c.Referenced())

	c.Release("k")
	assert.Empty(t, c.Referenced())
}

func TestRefreshSkippedWhileUnfocused(t *testing.T) {
	c, _ := newTestCache(Options{})
	var calls atomic.Int32
	c.Reference("k", countingFetcher("v", &calls))

	c.SetFocused(false)
	assert.False(t, c.Focused())
	assert.Zero(t, c.RefreshReferenced(ReasonInterval))

	c.SetFocused(true)
	assert.Equal(t, 1, c.RefreshReferenced(ReasonInterval))
}

func TestRefreshWhenHidden(t *testing.T) {
	c, _ := newTestCache(Options{RefreshWhenHidden: true})
	var calls atomic.Int32
	c.Reference("k", countingFetcher("v", &calls))

	c.SetFocused(false)
	assert.Equal(t, 1, c.RefreshReferenced(ReasonInterval))
}

func TestFocusRegainRevalidatesOnlyWhenEnabled(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c, _ := newTestCache(Options{})
		var calls atomic.Int32
		c.Reference("k", countingFetcher("v", &calls))

		c.SetFocused(false)
		c.SetFocused(true)

		time.Sleep(20 * time.Millisecond)
		assert.Zero(t, calls.Load())
	})

	t.Run("enabled", func(t *testing.T) {
		c, _ := newTestCache(Options{RevalidateOnFocus: true})
		var calls atomic.Int32
		c.Reference("k", countingFetcher("v", &calls))

		c.SetFocused(true)
		time.Sleep(20 * time.Millisecond)
		assert.Zero(t, calls.Load(), "already focused, nothing regained")

		c.SetFocused(false)
		c.SetFocused(true)
		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	})
}
