package peripheral

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewUpdateQueue()
	for i := 0; i < 5; i++ {
		q.PushFront(fmt.Sprintf("/obj/%d", i), CharacteristicInterface)
	}

	for i := 0; i < 5; i++ {
		u, ok := q.Pop(false)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("/obj/%d", i), u.ObjectPath)
		assert.Equal(t, CharacteristicInterface, u.InterfaceName)
	}
	_, ok := q.Pop(false)
	assert.False(t, ok)
}

func TestQueuePopKeep(t *testing.T) {
	q := NewUpdateQueue()
	q.PushFront("/obj/a", CharacteristicInterface)
	q.PushFront("/obj/b", DescriptorInterface)

	u, ok := q.Pop(true)
	require.True(t, ok)
	assert.Equal(t, "/obj/a", u.ObjectPath)
	assert.Equal(t, 2, q.Len())

	// peek then commit sees the same entry
	u2, ok := q.Pop(false)
	require.True(t, ok)
	assert.Equal(t, u, u2)
	assert.Equal(t, 1, q.Len())
}

func TestQueueSizeBookkeeping(t *testing.T) {
	q := NewUpdateQueue()
	for i := 0; i < 5; i++ {
		q.PushFront(fmt.Sprintf("/obj/%d", i), CharacteristicInterface)
	}
	q.Pop(false)
	q.Pop(false)
	assert.Equal(t, 3, q.Len())
	assert.False(t, q.Empty())
}

func TestQueueEmptyAndClear(t *testing.T) {
	q := NewUpdateQueue()
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())

	_, ok := q.Pop(false)
	assert.False(t, ok, "popping an empty queue is not an error")

	q.PushFront("/obj/a", CharacteristicInterface)
	q.PushFront("/obj/b", CharacteristicInterface)
	assert.False(t, q.Empty())

	q.Clear()
	assert.True(t, q.Empty())
	assert.Equal(t, 0, q.Len())
}

func TestQueueConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 250

	q := NewUpdateQueue()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.PushFront(fmt.Sprintf("/obj/%d/%d", p, i), CharacteristicInterface)
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())

	// no loss, no duplication, and per-producer order preserved
	seen := make(map[string]bool)
	next := make([]int, producers)
	for {
		u, ok := q.Pop(false)
		if !ok {
			break
		}
		require.False(t, seen[u.ObjectPath], "duplicate entry %s", u.ObjectPath)
		seen[u.ObjectPath] = true

		var p, i int
		fmt.Sscanf(u.ObjectPath, "/obj/%d/%d", &p, &i)
		require.Equal(t, next[p], i, "producer %d entries out of order", p)
		next[p]++
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestQueueWake(t *testing.T) {
	q := NewUpdateQueue()
	select {
	case <-q.Wake():
		t.Fatal("wake before any push")
	default:
	}

	q.PushFront("/obj/a", CharacteristicInterface)
	q.PushFront("/obj/b", CharacteristicInterface)

	select {
	case <-q.Wake():
	default:
		t.Fatal("no wake after push")
	}
}
