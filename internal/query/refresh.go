package query

import "github.com/sirupsen/logrus"

// Refresh reasons reported to metrics and logs
const (
	ReasonInterval  = "interval"
	ReasonReconnect = "reconnect"
	ReasonFocus     = "focus"
)

// Reference marks key as observed by a consumer. Referenced keys are the
// ones refreshed on interval, reconnect and focus.
func (c *Cache) Reference(key Key, fetch Fetcher) {
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ref, ok := c.refs[key]
	if !ok {
		ref = &reference{}
		c.refs[key] = ref
	}
	ref.count++
	ref.fetch = fetch
}

// Release drops one reference taken with Reference
func (c *Cache) Release(key Key) {
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ref, ok := c.refs[key]
	if !ok {
		return
	}
	ref.count--
	if ref.count <= 0 {
		delete(c.refs, key)
	}
}

// Referenced returns the keys currently observed
func (c *Cache) Referenced() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(c.refs))
	for key := range c.refs {
		keys = append(keys, key)
	}
	return keys
}

// RefreshReferenced revalidates every observed key. Nothing happens while
// unfocused unless RefreshWhenHidden is set. It returns how many keys were
// revalidated.
func (c *Cache) RefreshReferenced(reason string) int {
	c.mu.Lock()
	if !c.focused && !c.opts.RefreshWhenHidden {
		c.mu.Unlock()
		c.logger.WithField("reason", reason).Debug("Skipping refresh while unfocused")
		return 0
	}

	type pending struct {
		key   Key
		fetch Fetcher
	}
	work := make([]pending, 0, len(c.refs))
	for key, ref := range c.refs {
		work = append(work, pending{key: key, fetch: ref.fetch})
	}
	c.mu.Unlock()

	for _, p := range work {
		c.start(p.key, p.fetch)
	}

	if len(work) > 0 {
		c.metrics.Revalidations.WithLabelValues(reason).Add(float64(len(work)))
		c.logger.WithFields(logrus.Fields{
			"reason": reason,
			"keys":   len(work),
		}).Debug("Revalidating observed queries")
	}
	return len(work)
}

// SetFocused records whether a consumer is looking. Regaining focus
// revalidates observed keys when RevalidateOnFocus is set.
func (c *Cache) SetFocused(focused bool) {
	c.mu.Lock()
	was := c.focused
	c.focused = focused
	c.mu.Unlock()

	if focused && !was && c.opts.RevalidateOnFocus {
		c.RefreshReferenced(ReasonFocus)
	}
}

// Focused reports the last value passed to SetFocused
func (c *Cache) Focused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}
