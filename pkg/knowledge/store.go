package knowledge

import "sync"

// Store is the session knowledge base: an ordered, append-only collection of
// items. There is no remove or update; once added an item stays for the
// session. Observers receive the new ordered snapshot after each add.
type Store struct {
	mu        sync.RWMutex
	items     []Item
	observers []func([]Item)
}

// NewStore creates an empty knowledge base.
func NewStore() *Store {
	return &Store{}
}

// Add appends an item. Callers are responsible for producing well-formed
// items before calling; Add itself cannot fail.
func (s *Store) Add(item Item) {
	s.mu.Lock()
	s.items = append(s.items, item)
	snapshot := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// All returns the items in insertion order.
func (s *Store) All() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe registers an observer called with the ordered item sequence
// after every add.
func (s *Store) Subscribe(fn func([]Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) snapshotLocked() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
