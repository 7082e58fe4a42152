// ABOUTME: Tests for session mailboxes and the bounded session table.

package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	N int
}

func TestSendAndReceive(t *testing.T) {
	tbl := NewTable[ping](0, nil)
	sess := tbl.Create("s1", "owner", 4)

	require.NoError(t, sess.Send(ping{N: 1}))
	require.NoError(t, tbl.Send("s1", ping{N: 2}))

	assert.Equal(t, ping{N: 1}, <-sess.Mailbox())
	assert.Equal(t, ping{N: 2}, <-sess.Mailbox())
}

func TestSendToFullMailbox(t *testing.T) {
	tbl := NewTable[ping](0, nil)
	sess := tbl.Create("s1", "owner", 2)

	require.NoError(t, sess.Send(ping{N: 1}))
	require.NoError(t, sess.Send(ping{N: 2}))

	err := sess.Send(ping{N: 3})
	assert.ErrorIs(t, err, ErrMailboxFull)

	// The earlier messages are intact.
	assert.Equal(t, ping{N: 1}, <-sess.Mailbox())
}

func TestSendAfterClose(t *testing.T) {
	tbl := NewTable[ping](0, nil)
	sess := tbl.Create("s1", "owner", 2)

	sess.Close()
	sess.Close() // idempotent

	assert.ErrorIs(t, sess.Send(ping{N: 1}), ErrUnknownSession)

	_, open := <-sess.Mailbox()
	assert.False(t, open)
}

func TestSendToUnknownSession(t *testing.T) {
	tbl := NewTable[ping](0, nil)
	assert.ErrorIs(t, tbl.Send("missing", ping{}), ErrUnknownSession)
}

func TestRemoveClosesMailbox(t *testing.T) {
	tbl := NewTable[ping](0, nil)
	sess := tbl.Create("s1", "owner", 2)

	tbl.Remove("s1")
	tbl.Remove("s1") // absent is fine

	_, ok := tbl.Get("s1")
	assert.False(t, ok)
	_, open := <-sess.Mailbox()
	assert.False(t, open)
	assert.Equal(t, 0, tbl.Len())
}

func TestCapacityEvictsOldest(t *testing.T) {
	tbl := NewTable[ping](3, nil)

	first := tbl.Create("s1", "owner", 2)
	tbl.Create("s2", "owner", 2)
	tbl.Create("s3", "owner", 2)
	assert.Equal(t, 3, tbl.Len())

	tbl.Create("s4", "owner", 2)
	assert.Equal(t, 3, tbl.Len())

	// The oldest session is gone and its mailbox is closed.
	_, ok := tbl.Get("s1")
	assert.False(t, ok)
	_, open := <-first.Mailbox()
	assert.False(t, open)

	// Sends addressed to the evicted id are dropped with an error.
	assert.ErrorIs(t, tbl.Send("s1", ping{}), ErrUnknownSession)

	// The newer sessions are untouched.
	for _, id := range []string{"s2", "s3", "s4"} {
		_, ok := tbl.Get(id)
		assert.True(t, ok, id)
	}
}

func TestDefaultCapacity(t *testing.T) {
	tbl := NewTable[ping](0, nil)
	for i := 0; i < DefaultCapacity+5; i++ {
		tbl.Create(fmt.Sprintf("s%d", i), "owner", 1)
	}
	assert.Equal(t, DefaultCapacity, tbl.Len())
}
