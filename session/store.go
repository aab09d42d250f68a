package session

import "sync"

// DefaultMaxSize is the per-key history cap used when none is configured.
const DefaultMaxSize = 100

// Store is a keyed, append-only, FIFO-capped history. Each key holds at most
// maxSize values; appending beyond the cap evicts the oldest entries. All
// operations are safe for concurrent use. Keys with no entries are absent
// rather than present with an empty list.
type Store[K comparable, V any] struct {
	mu       sync.RWMutex
	maxSize  int
	identity func(V) string
	entries  map[K][]V
}

// New constructs a store capped at maxSize values per key (DefaultMaxSize
// when maxSize is not positive). identity extracts a lookup id from a value
// for Get; it may be nil, in which case Get always reports a miss.
func New[K comparable, V any](maxSize int, identity func(V) string) *Store[K, V] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store[K, V]{
		maxSize:  maxSize,
		identity: identity,
		entries:  make(map[K][]V),
	}
}

// Append adds a value to the key's history, evicting the oldest entries so
// the history never exceeds the cap.
func (s *Store[K, V]) Append(key K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.entries[key], v)
	if len(list) > s.maxSize {
		list = list[len(list)-s.maxSize:]
	}
	s.entries[key] = list
}

// Latest returns the most recently appended value for the key.
func (s *Store[K, V]) Latest(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero V
	list := s.entries[key]
	if len(list) == 0 {
		return zero, false
	}
	return list[len(list)-1], true
}

// Get looks up a value under the key by its identity, newest first.
func (s *Store[K, V]) Get(key K, id string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero V
	if s.identity == nil {
		return zero, false
	}
	list := s.entries[key]
	for i := len(list) - 1; i >= 0; i-- {
		if s.identity(list[i]) == id {
			return list[i], true
		}
	}
	return zero, false
}

// History returns a copy of the key's retained values, oldest first. An
// optional limit restricts the result to the most recent limit values (still
// oldest first).
func (s *Store[K, V]) History(key K, limit ...int) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.entries[key]
	if len(limit) > 0 && limit[0] >= 0 && limit[0] < len(list) {
		list = list[len(list)-limit[0]:]
	}
	out := make([]V, len(list))
	copy(out, list)
	return out
}

// Count returns the number of values retained for the key.
func (s *Store[K, V]) Count(key K) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[key])
}

// Clear removes the key and all of its history.
func (s *Store[K, V]) Clear(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// ClearAll removes every key.
func (s *Store[K, V]) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[K][]V)
}

// Keys returns the keys that currently hold at least one value.
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// TotalCount returns the number of values retained across all keys.
func (s *Store[K, V]) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, list := range s.entries {
		total += len(list)
	}
	return total
}

// MaxSize returns the per-key cap.
func (s *Store[K, V]) MaxSize() int { return s.maxSize }
