package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutQueueEvictsOldestModifyUnderPressure(t *testing.T) {
	q := newOutQueue(2)

	q.Push(Event{Path: "a.go", Operation: OpModify})
	q.Push(Event{Path: "b.go", Operation: OpModify})
	// queue is now full with two modifies; pushing a third modify should
	// evict "a.go" rather than drop the incoming event.
	q.Push(Event{Path: "c.go", Operation: OpModify})

	first, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "b.go", first.Path)

	second, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "c.go", second.Path)

	assert.Equal(t, uint64(1), q.Dropped())
}

func TestOutQueueNeverDropsCreateOrDelete(t *testing.T) {
	q := newOutQueue(1)

	q.Push(Event{Path: "a.go", Operation: OpModify})
	q.Push(Event{Path: "b.go", Operation: OpCreate})
	q.Push(Event{Path: "c.go", Operation: OpDelete})

	// a.go's modify is evicted to make room for the create; the delete then
	// finds no modify to evict and is appended past capacity. Closing the
	// queue lets the loop below drain both events and stop instead of
	// blocking on an empty open queue.
	q.Close()
	var got []Event
	for i := 0; i < 3; i++ {
		e, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, e)
	}

	var ops []Operation
	for _, e := range got {
		ops = append(ops, e.Operation)
	}
	assert.Contains(t, ops, OpCreate)
	assert.Contains(t, ops, OpDelete)
}

func TestOutQueuePopBlocksUntilClose(t *testing.T) {
	q := newOutQueue(4)

	done := make(chan struct{})
	go func() {
		_, ok := q.Pop()
		assert.False(t, ok)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Close")
	}
}
