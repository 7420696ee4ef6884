package cache

import (
	"context"
	"encoding/json"
)

// Store is a typed view over a Cache that encodes values as JSON.
// A nil Store, or one over a nil Cache, never hits and drops writes.
type Store[T any] struct {
	cache Cache
}

// NewStore wraps c. c may be nil to disable caching.
func NewStore[T any](c Cache) *Store[T] {
	return &Store[T]{cache: c}
}

// Enabled reports whether values are actually cached
func (s *Store[T]) Enabled() bool {
	return s != nil && s.cache != nil
}

// Load returns the value stored under key. Entries that no longer decode as T
// are deleted and reported as a miss.
func (s *Store[T]) Load(ctx context.Context, key string) (T, bool) {
	var value T
	if !s.Enabled() {
		return value, false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		s.cache.Delete(ctx, key)
		var zero T
		return zero, false
	}
	return value, true
}

// Save encodes value and stores it under key
func (s *Store[T]) Save(ctx context.Context, key string, value T) error {
	if !s.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.cache.Set(ctx, key, data)
	return nil
}
