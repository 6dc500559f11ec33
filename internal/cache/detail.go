package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/standardbeagle/codeengine/internal/shape"
)

// DetailCache stores a shaped hit set behind a detail handle, evicted by
// TTL (spec.md §4.10) and, under memory pressure, by EvictHalf (spec.md
// §5 "detail cache evicts 50%"). Implements shape.DetailStore.
type DetailCache struct {
	mu     sync.Mutex
	lru    *lru.Cache[uint64, []shape.ShapedHit]
	timers map[uint64]*time.Timer
}

var _ shape.DetailStore = (*DetailCache)(nil)

// NewDetailCache bounds the cache to size entries (default 512).
func NewDetailCache(size int) *DetailCache {
	if size <= 0 {
		size = 512
	}
	l, _ := lru.New[uint64, []shape.ShapedHit](size)
	return &DetailCache{lru: l, timers: make(map[uint64]*time.Timer)}
}

// Put satisfies shape.DetailStore.
func (c *DetailCache) Put(handle uint64, hits []shape.ShapedHit, ttl time.Duration) {
	c.lru.Add(handle, hits)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.timers[handle]; ok {
		t.Stop()
	}
	c.timers[handle] = time.AfterFunc(ttl, func() {
		c.lru.Remove(handle)
		c.mu.Lock()
		delete(c.timers, handle)
		c.mu.Unlock()
	})
}

func (c *DetailCache) Get(handle uint64) ([]shape.ShapedHit, bool) {
	return c.lru.Get(handle)
}

// EvictHalf drops the least-recently-used half of entries.
func (c *DetailCache) EvictHalf() {
	n := c.lru.Len() / 2
	for i := 0; i < n; i++ {
		key, _, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		c.mu.Lock()
		if t, ok := c.timers[key]; ok {
			t.Stop()
			delete(c.timers, key)
		}
		c.mu.Unlock()
	}
}

func (c *DetailCache) Len() int {
	return c.lru.Len()
}
