// ABOUTME: Capacity-capped table of live sessions with oldest-first eviction.
// ABOUTME: Reads are frequent (event routing); writes (create/evict) are rare.

package session

import (
	"container/list"
	"log/slog"
	"sync"
)

// DefaultCapacity bounds the number of concurrently live sessions when no
// explicit capacity is configured.
const DefaultCapacity = 20

// DefaultMailboxSize is the default per-session mailbox capacity.
const DefaultMailboxSize = 16

// Table tracks live sessions by id, capped at a fixed capacity. Creating a
// session at capacity evicts the oldest-created one first; the evicted
// session's mailbox is closed so its task exits. Lookups against evicted or
// terminated sessions fail with ErrUnknownSession, never a crash.
type Table[M any] struct {
	mu       sync.RWMutex
	capacity int
	sessions map[string]*Session[M]
	order    *list.List // session ids in creation order (oldest at front)
	logger   *slog.Logger
}

// NewTable creates a session table. capacity <= 0 uses DefaultCapacity.
// Pass nil logger for default.
func NewTable[M any](capacity int, logger *slog.Logger) *Table[M] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Table[M]{
		capacity: capacity,
		sessions: make(map[string]*Session[M]),
		order:    list.New(),
		logger:   logger.With("component", "sessions"),
	}
}

// Create inserts a new session, evicting the oldest-created session first if
// the table is at capacity. mailboxSize <= 0 uses DefaultMailboxSize.
func (t *Table[M]) Create(id, ownerID string, mailboxSize int) *Session[M] {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Evict before inserting so the table never exceeds capacity.
	for len(t.sessions) >= t.capacity {
		t.evictOldestLocked()
	}

	s := newSession[M](id, ownerID, mailboxSize)
	t.sessions[id] = s
	t.order.PushBack(id)

	t.logger.Debug("session created",
		"session_id", id,
		"owner_id", ownerID,
		"total_sessions", len(t.sessions),
	)
	return s
}

// evictOldestLocked removes the oldest-created session and closes its
// mailbox. Must be called with mu held.
func (t *Table[M]) evictOldestLocked() {
	front := t.order.Front()
	if front == nil {
		return
	}
	id, _ := front.Value.(string)
	t.order.Remove(front)

	if s, ok := t.sessions[id]; ok {
		delete(t.sessions, id)
		s.Close()
		t.logger.Debug("session evicted", "session_id", id)
	}
}

// Get returns the session with the given id, if it is still live.
func (t *Table[M]) Get(id string) (*Session[M], bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[id]
	return s, ok
}

// Send routes a message to the session with the given id. Unknown sessions
// and full mailboxes are non-fatal errors; callers typically log and drop.
func (t *Table[M]) Send(id string, m M) error {
	t.mu.RLock()
	s, ok := t.sessions[id]
	t.mu.RUnlock()

	if !ok {
		return ErrUnknownSession
	}
	return s.Send(m)
}

// Remove terminates and forgets a session. Called by the session's own task
// on exit; safe to call for ids that are already gone.
func (t *Table[M]) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[id]
	if !ok {
		return
	}
	delete(t.sessions, id)
	for e := t.order.Front(); e != nil; e = e.Next() {
		if e.Value.(string) == id {
			t.order.Remove(e)
			break
		}
	}
	s.Close()

	t.logger.Debug("session removed",
		"session_id", id,
		"total_sessions", len(t.sessions),
	)
}

// Len returns the number of live sessions.
func (t *Table[M]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}
