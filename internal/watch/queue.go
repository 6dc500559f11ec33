package watch

import (
	"log/slog"
	"sync"
)

// outQueue is the bounded outbound event queue spec.md §4.7 names under
// "Backpressure": "if the extractor pool is saturated, events are queued
// in a bounded channel; when the channel is full, the oldest modify
// events for paths with queued newer events are dropped (redundant), but
// create and delete are never dropped." A plain buffered channel cannot
// express the asymmetric drop rule (it can only reject or block), so this
// keeps its own bounded slice and evicts the oldest still-queued modify
// event to make room instead. Redundancy is not checked: the evicted
// modify need not have a newer event queued for its path.
type outQueue struct {
	capacity int
	mu       sync.Mutex
	cond     *sync.Cond
	items    []Event
	closed   bool
	dropped  uint64
}

func newOutQueue(capacity int) *outQueue {
	q := &outQueue{capacity: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues event, evicting the oldest queued modify event if the
// queue is full. create/delete/gitignore-change events are never dropped
// and may push the queue past capacity rather than be discarded. A modify
// that arrives while the full queue holds no modify is itself dropped.
func (q *outQueue) Push(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	if len(q.items) >= q.capacity {
		if idx := q.oldestModifyIndex(); idx >= 0 {
			q.items = append(q.items[:idx], q.items[idx+1:]...)
			q.dropped++
		} else if event.Operation == OpModify {
			q.dropped++
			slog.Warn("watch_queue_full_dropping_modify", slog.String("path", event.Path))
			return
		}
	}

	q.items = append(q.items, event)
	q.cond.Signal()
}

func (q *outQueue) oldestModifyIndex() int {
	for i, e := range q.items {
		if e.Operation == OpModify {
			return i
		}
	}
	return -1
}

// Pop blocks until an event is available or the queue is closed, in which
// case it returns (Event{}, false).
func (q *outQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return Event{}, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, true
}

// Dropped returns the number of modify events discarded under pressure.
func (q *outQueue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close unblocks any pending Pop and prevents further Push.
func (q *outQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
