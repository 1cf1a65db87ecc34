// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the accumulator.Accumulator interface.
//
// # Concurrency Model
//
// The store uses sync.Map because a fold is write-heavy on independent keys:
// every task writes its own entry exactly once, possibly from many
// goroutines at the same time, while later tasks read earlier entries.
// sync.Map is optimized for this disjoint-key pattern.
package inmemorystore

import (
	"sync"

	"github.com/specialistvlad/conduit/internal/accumulator"
)

// Store is an in-memory accumulator backed by a sync.Map keyed by task id.
type Store struct {
	entries sync.Map // Key: task id, Value: accumulator.Entry
}

// New creates a new, empty in-memory accumulator.
func New() *Store {
	return &Store{}
}

// From creates a store seeded with the given entries.
func From(entries map[string]accumulator.Entry) *Store {
	s := New()
	for id, e := range entries {
		s.entries.Store(id, e)
	}
	return s
}

// Get retrieves the entry recorded under id.
func (s *Store) Get(id string) (accumulator.Entry, bool) {
	v, ok := s.entries.Load(id)
	if !ok {
		return accumulator.Entry{}, false
	}
	return v.(accumulator.Entry), true
}

// Set records the entry for id, replacing any previous one.
func (s *Store) Set(id string, entry accumulator.Entry) {
	s.entries.Store(id, entry)
}

// Has reports whether an entry exists for id.
func (s *Store) Has(id string) bool {
	_, ok := s.entries.Load(id)
	return ok
}

// Len counts the recorded entries.
func (s *Store) Len() int {
	n := 0
	s.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Snapshot copies all entries into a new map.
func (s *Store) Snapshot() map[string]accumulator.Entry {
	out := make(map[string]accumulator.Entry)
	s.entries.Range(func(k, v any) bool {
		out[k.(string)] = v.(accumulator.Entry)
		return true
	})
	return out
}

var _ accumulator.Accumulator = (*Store)(nil)
