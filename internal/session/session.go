// ABOUTME: Generic actor sessions: an owned bounded mailbox plus background task.
// ABOUTME: Sessions represent one ephemeral multi-party interaction each.

package session

import (
	"errors"
	"sync"
	"time"
)

// ErrMailboxFull indicates a message was dropped because the session's
// mailbox was at capacity. Non-fatal: a session under extreme load loses
// updates rather than blocking its producer.
var ErrMailboxFull = errors.New("session mailbox full")

// ErrUnknownSession indicates the session does not exist (never created,
// evicted, or already terminated). Non-fatal: the message is dropped.
var ErrUnknownSession = errors.New("unknown session")

// Session is one ephemeral multi-party interaction: an id, an owner, and a
// bounded mailbox drained by a background task the creator spawns.
type Session[M any] struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time

	mailbox chan M

	closeMu sync.Mutex // protects closed and mailbox close
	closed  bool
}

func newSession[M any](id, ownerID string, mailboxSize int) *Session[M] {
	return &Session[M]{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		mailbox:   make(chan M, mailboxSize),
	}
}

// Mailbox returns the receive side of the session's mailbox. The background
// task owns it; the channel is closed when the session is removed or evicted.
func (s *Session[M]) Mailbox() <-chan M {
	return s.mailbox
}

// Send delivers a message without blocking. Returns ErrUnknownSession if the
// session has terminated, ErrMailboxFull if the mailbox is at capacity.
func (s *Session[M]) Send(m M) error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if s.closed {
		return ErrUnknownSession
	}
	select {
	case s.mailbox <- m:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Close closes the session's mailbox. Safe to call multiple times.
func (s *Session[M]) Close() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.mailbox)
	}
}
