// ABOUTME: Bounded set of recently-seen ids used to avoid double-handling events.
// ABOUTME: Fixed capacity with explicit oldest-first eviction; no TTL.

package dedupe

import (
	"container/list"
	"sync"
)

// DefaultCapacity matches the number of slots the construct this replaces
// could track at once.
const DefaultCapacity = 64

// Seen is a thread-safe, fixed-capacity set of recently-seen ids. Marking an
// id at capacity evicts the oldest-marked one. Unlike a hash-to-slot scheme,
// two distinct ids never alias to the same entry.
type Seen struct {
	mu       sync.Mutex
	ids      map[string]*list.Element
	order    *list.List // ids in mark order (oldest at front)
	capacity int
}

// New creates a Seen set. capacity <= 0 uses DefaultCapacity.
func New(capacity int) *Seen {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Seen{
		ids:      make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

// CheckAndMark atomically checks whether id has been seen and marks it if
// not. Returns true if the id was already present.
func (s *Seen) CheckAndMark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return true
	}
	s.markLocked(id)
	return false
}

// Mark records an id as seen, evicting the oldest entry if at capacity.
func (s *Seen) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markLocked(id)
}

func (s *Seen) markLocked(id string) {
	if elem, ok := s.ids[id]; ok {
		s.order.MoveToBack(elem)
		return
	}
	if len(s.ids) >= s.capacity {
		front := s.order.Front()
		if front != nil {
			s.order.Remove(front)
			delete(s.ids, front.Value.(string))
		}
	}
	s.ids[id] = s.order.PushBack(id)
}

// Forget removes an id so a later CheckAndMark treats it as new again.
func (s *Seen) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.ids[id]
	if !ok {
		return
	}
	s.order.Remove(elem)
	delete(s.ids, id)
}

// Len returns the number of ids currently tracked.
func (s *Seen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
