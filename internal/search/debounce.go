package search

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Debouncer coalesces raw search input so that only the last keystroke of
// a burst reaches the store.
type Debouncer struct {
	wait      time.Duration
	minLength int
	emit      func(term string)

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebouncer creates a debouncer that calls emit with the trimmed term
func NewDebouncer(wait time.Duration, minLength int, emit func(term string)) *Debouncer {
	return &Debouncer{
		wait:      wait,
		minLength: minLength,
		emit:      emit,
	}
}

// Input handles one raw value of the search field. Clearing the field
// emits immediately; input shorter than the minimum length emits nothing.
func (d *Debouncer) Input(raw string) {
	term := strings.TrimSpace(raw)

	d.mu.Lock()
	d.cancelLocked()

	if term == "" {
		d.mu.Unlock()
		d.emit("")
		return
	}
	if utf8.RuneCountInString(term) < d.minLength {
		d.mu.Unlock()
		return
	}

	seq := d.seq
	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// Superseded by a later Input or Stop
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.emit(term)
	})
	d.mu.Unlock()
}

// Pending reports whether a term is waiting for the quiet window to end
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending emission
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
