package symbolstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// BatchCount and BatchInterval are the default commit-batching bounds
// spec.md §4.4 names: "100 files or 500 ms, whichever first" — grounded
// on the teacher's tick-based batching idiom in internal/daemon/
// compaction.go (timer plus mutex-guarded state, no bespoke queue type).
const (
	BatchCount    = 100
	BatchInterval = 500 * time.Millisecond
)

// FileUpsert is one pending upsert_file call.
type FileUpsert struct {
	File          FileRecord
	Symbols       []*Symbol
	Relationships []*Relationship
}

// UpsertFilesBatch commits each file's symbols and relationships through
// UpsertFile, one transaction per file, and stops at the first failure
// (files before it stay committed) — the throughput side of the count/time trade-off
// the dual-write pipeline (C6) drives via BatchWriter below.
func (s *Store) UpsertFilesBatch(ctx context.Context, batch []FileUpsert) error {
	for _, u := range batch {
		if err := s.UpsertFile(ctx, u.File, u.Symbols, u.Relationships); err != nil {
			return fmt.Errorf("batch upsert %s: %w", u.File.Path, err)
		}
	}
	return nil
}

// BatchWriter accumulates FileUpsert calls and flushes them to the store
// when either BatchCount pending writes accrue or BatchInterval elapses
// since the oldest pending write, whichever happens first.
type BatchWriter struct {
	store    *Store
	count    int
	interval time.Duration

	mu      sync.Mutex
	pending []FileUpsert
	timer   *time.Timer

	onFlushErr func(error)
}

// NewBatchWriter builds a BatchWriter over store with the default bounds.
// onFlushErr, if non-nil, receives errors from background flushes
// triggered by the interval timer (errors from explicit Flush calls are
// returned directly to the caller instead).
func NewBatchWriter(store *Store, onFlushErr func(error)) *BatchWriter {
	return &BatchWriter{
		store:      store,
		count:      BatchCount,
		interval:   BatchInterval,
		onFlushErr: onFlushErr,
	}
}

// Add queues one file upsert, flushing synchronously if the count bound
// is reached.
func (w *BatchWriter) Add(ctx context.Context, u FileUpsert) error {
	w.mu.Lock()
	w.pending = append(w.pending, u)
	full := len(w.pending) >= w.count
	if w.timer == nil && !full {
		w.timer = time.AfterFunc(w.interval, w.flushOnTimer)
	}
	var toFlush []FileUpsert
	if full {
		toFlush = w.takePendingLocked()
	}
	w.mu.Unlock()

	if toFlush != nil {
		return w.store.UpsertFilesBatch(ctx, toFlush)
	}
	return nil
}

// SetBatchCount adjusts the pending-count flush threshold at runtime
// (spec.md §5 "beyond pressure-high... ingest batch size halves", so
// commits happen more often and release buffered rows sooner). n below 1
// is clamped to 1.
func (w *BatchWriter) SetBatchCount(n int) {
	if n < 1 {
		n = 1
	}
	w.mu.Lock()
	w.count = n
	w.mu.Unlock()
}

// Flush commits any pending writes immediately, bypassing the timer.
func (w *BatchWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	toFlush := w.takePendingLocked()
	w.mu.Unlock()

	if toFlush == nil {
		return nil
	}
	return w.store.UpsertFilesBatch(ctx, toFlush)
}

func (w *BatchWriter) flushOnTimer() {
	w.mu.Lock()
	toFlush := w.takePendingLocked()
	w.mu.Unlock()

	if toFlush == nil {
		return
	}
	if err := w.store.UpsertFilesBatch(context.Background(), toFlush); err != nil && w.onFlushErr != nil {
		w.onFlushErr(err)
	}
}

// takePendingLocked must be called with w.mu held.
func (w *BatchWriter) takePendingLocked() []FileUpsert {
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

// Close flushes any remaining pending writes and stops the timer.
func (w *BatchWriter) Close(ctx context.Context) error {
	return w.Flush(ctx)
}
