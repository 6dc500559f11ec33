package textindex

import (
	"context"
	"sync"
	"time"
)

// BatchCount and BatchInterval mirror internal/symbolstore's commit-
// batching bounds (spec.md §4.5 "Writer policy": "Commits batched with
// symbol-store transactions") — both dual-write halves share the same
// count/time trade-off, grounded on the same teacher tick idiom
// (internal/daemon/compaction.go).
const (
	BatchCount    = 100
	BatchInterval = 500 * time.Millisecond
)

// BatchWriter accumulates AddOrReplace documents and flushes them as one
// Bleve batch when either BatchCount pending documents accrue or
// BatchInterval elapses since the oldest pending document, whichever
// happens first — spec.md §4.6 step 7, "enqueue a commit request on the
// index writer; commit occurs on batch boundary".
type BatchWriter struct {
	index    *Index
	count    int
	interval time.Duration

	mu      sync.Mutex
	pending []Document
	timer   *time.Timer

	onFlushErr func(error)
}

// NewBatchWriter builds a BatchWriter over index with the default bounds.
// onFlushErr, if non-nil, receives errors from background flushes
// triggered by the interval timer.
func NewBatchWriter(index *Index, onFlushErr func(error)) *BatchWriter {
	return &BatchWriter{
		index:      index,
		count:      BatchCount,
		interval:   BatchInterval,
		onFlushErr: onFlushErr,
	}
}

// Add queues one document, flushing synchronously once the count bound is
// reached.
func (w *BatchWriter) Add(ctx context.Context, doc Document) error {
	w.mu.Lock()
	w.pending = append(w.pending, doc)
	full := len(w.pending) >= w.count
	if w.timer == nil && !full {
		w.timer = time.AfterFunc(w.interval, w.flushOnTimer)
	}
	var toFlush []Document
	if full {
		toFlush = w.takePendingLocked()
	}
	w.mu.Unlock()

	if toFlush != nil {
		return w.index.AddOrReplaceBatch(ctx, toFlush)
	}
	return nil
}

// SetBatchCount adjusts the pending-count flush threshold at runtime,
// mirroring internal/symbolstore.BatchWriter.SetBatchCount so both
// dual-write halves shrink together under memory pressure. n below 1 is
// clamped to 1.
func (w *BatchWriter) SetBatchCount(n int) {
	if n < 1 {
		n = 1
	}
	w.mu.Lock()
	w.count = n
	w.mu.Unlock()
}

// Flush commits any pending documents immediately, bypassing the timer.
func (w *BatchWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	toFlush := w.takePendingLocked()
	w.mu.Unlock()

	if toFlush == nil {
		return nil
	}
	return w.index.AddOrReplaceBatch(ctx, toFlush)
}

func (w *BatchWriter) flushOnTimer() {
	w.mu.Lock()
	toFlush := w.takePendingLocked()
	w.mu.Unlock()

	if toFlush == nil {
		return
	}
	if err := w.index.AddOrReplaceBatch(context.Background(), toFlush); err != nil && w.onFlushErr != nil {
		w.onFlushErr(err)
	}
}

// takePendingLocked must be called with w.mu held.
func (w *BatchWriter) takePendingLocked() []Document {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if len(w.pending) == 0 {
		return nil
	}
	out := w.pending
	w.pending = nil
	return out
}

// Close flushes any remaining pending documents and stops the timer.
func (w *BatchWriter) Close(ctx context.Context) error {
	return w.Flush(ctx)
}
