// Package dedup provides a bounded seen-set for suppressing duplicate
// event deliveries.
package dedup

import (
	"container/list"
	"sync"
)

// DefaultCapacity bounds the seen-set when no capacity is configured.
const DefaultCapacity = 1000

// Set remembers the most recent event IDs. When full, the oldest entry
// is evicted first. Safe for concurrent use.
type Set struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

// NewSet creates a seen-set holding at most capacity IDs. A
// non-positive capacity falls back to DefaultCapacity.
func NewSet(capacity int) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Set{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

// Seen reports whether id was already recorded, and records it if not.
// Empty IDs are never recorded and never considered duplicates, so
// events without an ID are always processed.
func (s *Set) Seen(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; ok {
		return true
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.index, oldest.Value.(string))
	}

	s.index[id] = s.order.PushBack(id)
	return false
}

// Len returns the number of recorded IDs.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
