package sequence

import (
	"context"
	"sync"
)

// MemoryStore is an in-process CounterStore keyed by (stream, year) with a
// mutex per key. Independent keys never contend. Intended for tests and
// single-process deployments.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[CounterKey]*memoryCounter
}

type memoryCounter struct {
	mu sync.Mutex
	c  Counter
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[CounterKey]*memoryCounter)}
}

// WithLockedCounter implements CounterStore. The map mutex only guards
// entry creation; the per-key mutex serializes read-increment-write so
// unrelated keys proceed in parallel.
func (s *MemoryStore) WithLockedCounter(ctx context.Context, key CounterKey, fn func(c *Counter) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	entry, ok := s.counters[key]
	if !ok {
		entry = &memoryCounter{c: Counter{Stream: string(key.Stream), Year: key.Year}}
		s.counters[key] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.c
	if err := fn(&working); err != nil {
		return err
	}
	entry.c = working
	return nil
}
