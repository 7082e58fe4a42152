// ABOUTME: Tests for the type-indexed event bus.

package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackAdded struct {
	Title string
}

type trackRemoved struct {
	Title string
}

func TestPublishReachesAllSubscribersOfType(t *testing.T) {
	b := New(nil)

	var mu sync.Mutex
	var added []string
	var removed []string
	record := func(dst *[]string) func(string) {
		return func(title string) {
			mu.Lock()
			defer mu.Unlock()
			*dst = append(*dst, title)
		}
	}
	addTitle := record(&added)
	removeTitle := record(&removed)

	for i := 0; i < 3; i++ {
		Subscribe(b, func(e trackAdded) { addTitle(e.Title) })
	}
	Subscribe(b, func(e trackRemoved) { removeTitle(e.Title) })

	Publish(b, trackAdded{Title: "ants"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(added) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ants", "ants", "ants"}, added)
	assert.Empty(t, removed, "other event types must not be invoked")
}

func TestPublishWithNoSubscribers(t *testing.T) {
	b := New(nil)
	// Must not block or panic.
	Publish(b, trackRemoved{Title: "nothing"})
}

func TestSubscriberPanicIsContained(t *testing.T) {
	b := New(nil)

	delivered := make(chan struct{})
	Subscribe(b, func(trackAdded) { panic("handler bug") })
	Subscribe(b, func(trackAdded) { close(delivered) })

	Publish(b, trackAdded{Title: "x"})

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("panicking handler must not take down its siblings")
	}
}

func TestSubscriberCount(t *testing.T) {
	b := New(nil)
	assert.Equal(t, 0, SubscriberCount[trackAdded](b))

	Subscribe(b, func(trackAdded) {})
	Subscribe(b, func(trackAdded) {})
	Subscribe(b, func(trackRemoved) {})

	assert.Equal(t, 2, SubscriberCount[trackAdded](b))
	assert.Equal(t, 1, SubscriberCount[trackRemoved](b))
}
