package search

import "sync"

// Listener is notified after every transition with the previous and new state
type Listener func(prev, next Filters)

// Store serializes intents and notifies listeners in dispatch order
type Store struct {
	// dispatchMu orders transitions together with their notifications
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     Filters
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store holding initial
func NewStore(initial Filters) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// State returns the current filters
func (s *Store) State() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies intent and returns the resulting state. Listeners run
// synchronously and must not call Dispatch.
func (s *Store) Dispatch(intent Intent) Filters {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, intent)
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
