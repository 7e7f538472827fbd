// Package snapshot keeps the latest published value of each concern in
// memory. Nothing here outlives the process.
package snapshot

import "sync"

type Store[T any] struct {
	mu   sync.RWMutex
	data T
}

func New[T any](initial T) *Store[T] {
	return &Store[T]{data: initial}
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.data = v
	s.mu.Unlock()
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Update applies fn under the write lock and returns the resulting value, so
// concurrent writers touching different fields never overwrite each other.
func (s *Store[T]) Update(fn func(*T)) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
	return s.data
}
