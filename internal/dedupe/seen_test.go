// ABOUTME: Tests for the bounded seen-set.

package dedupe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAndMark(t *testing.T) {
	s := New(4)

	assert.False(t, s.CheckAndMark("m1"), "first sighting is new")
	assert.True(t, s.CheckAndMark("m1"), "second sighting is a duplicate")
	assert.False(t, s.CheckAndMark("m2"))
	assert.Equal(t, 2, s.Len())
}

func TestForget(t *testing.T) {
	s := New(4)

	s.Mark("m1")
	s.Forget("m1")
	assert.False(t, s.CheckAndMark("m1"), "forgotten ids are new again")

	// Forgetting an unknown id is a no-op.
	s.Forget("never-seen")
	assert.Equal(t, 1, s.Len())
}

func TestCapacityEvictsOldestFirst(t *testing.T) {
	s := New(3)

	s.Mark("m1")
	s.Mark("m2")
	s.Mark("m3")
	s.Mark("m4")

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.CheckAndMark("m1"), "oldest entry was evicted")
	assert.True(t, s.CheckAndMark("m3"))
	assert.True(t, s.CheckAndMark("m4"))
}

func TestDistinctIDsNeverCollide(t *testing.T) {
	s := New(128)

	// IDs that would alias under small modular schemes stay distinct here.
	for i := 0; i < 100; i++ {
		assert.False(t, s.CheckAndMark(fmt.Sprintf("%d", i*64)), "id %d must be new", i*64)
	}
	for i := 0; i < 100; i++ {
		assert.True(t, s.CheckAndMark(fmt.Sprintf("%d", i*64)), "id %d is still resident", i*64)
	}
}

func TestMarkRefreshesExisting(t *testing.T) {
	s := New(2)

	s.Mark("m1")
	s.Mark("m2")
	s.Mark("m1") // refresh, not duplicate insert
	s.Mark("m3") // evicts m2, the least recently marked

	assert.True(t, s.CheckAndMark("m1"))
	assert.False(t, s.CheckAndMark("m2"))
}
