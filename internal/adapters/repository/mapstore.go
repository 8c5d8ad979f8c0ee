package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
)

// MapStore is an in-memory Store backed by a map plus an insertion-order
// slice.
//
// Ordering: count DESC, then first appearance ASC (deterministic).
type MapStore struct {
	mu sync.RWMutex

	capacity int
	index    map[string]int // key -> position in tallies
	tallies  []tally        // insertion order
	total    int
}

type tally struct {
	key   string
	count int
}

var _ Store = (*MapStore)(nil)

// NewMapStore creates an empty MapStore.
func NewMapStore(opts ...Option) *MapStore {
	s := &MapStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.index = make(map[string]int, s.capacity)
	s.tallies = make([]tally, 0, s.capacity)
	return s
}

// Add implements Store.
func (s *MapStore) Add(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if i, ok := s.index[key]; ok {
		s.tallies[i].count++
		return
	}
	s.index[key] = len(s.tallies)
	s.tallies = append(s.tallies, tally{key: key, count: 1})
}

// TopN implements Store.
func (s *MapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	s.mu.RLock()
	all := make([]Entry, len(s.tallies))
	for i, t := range s.tallies {
		all[i] = Entry{Key: t.key, Count: t.count, FirstSeen: i}
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b Entry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.FirstSeen, b.FirstSeen)
	})

	if n < len(all) {
		all = all[:n]
	}
	for i := range all {
		all[i].Rank = i + 1
	}
	return all, nil
}

// Count implements Store.
func (s *MapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tallies)
}

// Total implements Store.
func (s *MapStore) Total(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}
