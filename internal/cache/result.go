package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/standardbeagle/codeengine/internal/plan"
)

// ResultCache memoizes a planner's CompositeResult by
// (snapshot-id, canonical-query, filter-set, sort, limit). Because
// SnapshotID is part of ResultKey, a query against a newer snapshot
// simply misses rather than needing an explicit purge — "invalidated
// implicitly when snapshot-id advances" (spec.md §4.11).
type ResultCache struct {
	lru     *lru.Cache[ResultKey, plan.CompositeResult]
	enabled atomic.Bool
}

// NewResultCache bounds the cache to size entries (default 256).
func NewResultCache(size int) *ResultCache {
	if size <= 0 {
		size = 256
	}
	l, _ := lru.New[ResultKey, plan.CompositeResult](size)
	c := &ResultCache{lru: l}
	c.enabled.Store(true)
	return c
}

func (c *ResultCache) Get(key ResultKey) (plan.CompositeResult, bool) {
	return c.lru.Get(key)
}

// Put is a no-op while the cache is disabled (spec.md §5 memory-pressure
// state machine: "new result-cache inserts are disabled" beyond
// pressure-high) — existing entries remain readable, only growth stops.
func (c *ResultCache) Put(key ResultKey, result plan.CompositeResult) {
	if !c.enabled.Load() {
		return
	}
	c.lru.Add(key, result)
}

// SetInsertsEnabled toggles whether Put accepts new entries.
func (c *ResultCache) SetInsertsEnabled(enabled bool) {
	c.enabled.Store(enabled)
}

// Shrink resizes the underlying LRU down to size entries, evicting the
// least-recently-used entries over the new bound (spec.md §5
// "result-cache bounds shrink" under memory pressure).
func (c *ResultCache) Shrink(size int) {
	if size <= 0 {
		size = 1
	}
	c.lru.Resize(size)
}

func (c *ResultCache) Len() int {
	return c.lru.Len()
}
