package dataset

import "sync"

// Store holds the currently active Dataset. Handlers read the current
// pointer and work on that dataset for the rest of the request; reloads
// swap in a replacement wholesale, so readers never see a torn state.
type Store struct {
	mu sync.RWMutex
	ds *Dataset
}

// NewStore creates a Store seeded with ds.
func NewStore(ds *Dataset) *Store {
	return &Store{ds: ds}
}

// Current returns the active dataset. The returned dataset is immutable and
// stays valid after a concurrent Swap.
func (s *Store) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Swap installs ds as the active dataset.
func (s *Store) Swap(ds *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
}
