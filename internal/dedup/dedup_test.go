package dedup

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_Seen(t *testing.T) {
	s := NewSet(10)

	assert.False(t, s.Seen("a"))
	assert.True(t, s.Seen("a"))
	assert.False(t, s.Seen("b"))
	assert.True(t, s.Seen("a"))
	assert.Equal(t, 2, s.Len())
}

func TestSet_EmptyIDNeverDuplicate(t *testing.T) {
	s := NewSet(10)

	assert.False(t, s.Seen(""))
	assert.False(t, s.Seen(""))
	assert.Equal(t, 0, s.Len())
}

func TestSet_EvictsOldestFirst(t *testing.T) {
	s := NewSet(3)

	for _, id := range []string{"a", "b", "c"} {
		assert.False(t, s.Seen(id))
	}

	// "d" evicts "a", the oldest entry.
	assert.False(t, s.Seen("d"))
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Seen("a"), "evicted ID is processable again")

	// Recording "a" again evicted "b" in turn.
	assert.False(t, s.Seen("b"))
	assert.True(t, s.Seen("d"))
}

func TestSet_DefaultCapacity(t *testing.T) {
	s := NewSet(0)

	for i := 0; i < DefaultCapacity+5; i++ {
		s.Seen(fmt.Sprintf("id-%d", i))
	}
	assert.Equal(t, DefaultCapacity, s.Len())
}

func TestSet_Concurrent(t *testing.T) {
	s := NewSet(100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Seen(fmt.Sprintf("worker-%d-%d", n, j))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Len())
}
