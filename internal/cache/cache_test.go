package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/shape"
)

func TestParsedQueryCacheRoundTrips(t *testing.T) {
	c := NewParsedQueryCache[bool](4)
	key := ParsedQueryKey{CanonicalQuery: "handler", AnalyzerVersion: "v1"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, true)
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.True(t, got)
}

func TestResultCacheMissesOnNewerSnapshot(t *testing.T) {
	c := NewResultCache(4)
	old := ResultKey{SnapshotID: 1, CanonicalQuery: "q"}
	newer := ResultKey{SnapshotID: 2, CanonicalQuery: "q"}

	c.Put(old, plan.CompositeResult{Hits: []plan.Hit{{Path: "a.go"}}})

	_, ok := c.Get(newer)
	assert.False(t, ok, "a different snapshot-id must miss even for an identical query")

	got, ok := c.Get(old)
	require.True(t, ok)
	assert.Equal(t, "a.go", got.Hits[0].Path)
}

func TestResultCacheSkipsInsertsWhileDisabled(t *testing.T) {
	c := NewResultCache(4)
	c.SetInsertsEnabled(false)

	key := ResultKey{SnapshotID: 1, CanonicalQuery: "q"}
	c.Put(key, plan.CompositeResult{Hits: []plan.Hit{{Path: "a.go"}}})

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestResultCacheShrinkEvictsOverBound(t *testing.T) {
	c := NewResultCache(4)
	for i := 0; i < 4; i++ {
		c.Put(ResultKey{SnapshotID: 1, CanonicalQuery: string(rune('a' + i))}, plan.CompositeResult{})
	}
	require.Equal(t, 4, c.Len())

	c.Shrink(2)
	assert.LessOrEqual(t, c.Len(), 2)
}

func TestDetailCacheRoundTripsAndExpires(t *testing.T) {
	c := NewDetailCache(4)
	hits := []shape.ShapedHit{{Path: "a.go"}}

	c.Put(1, hits, 20*time.Millisecond)
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, hits, got)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get(1)
	assert.False(t, ok, "entry should have expired via TTL")
}

func TestDetailCacheEvictHalf(t *testing.T) {
	c := NewDetailCache(8)
	for i := uint64(0); i < 4; i++ {
		c.Put(i, []shape.ShapedHit{{Path: "a.go"}}, time.Minute)
	}
	require.Equal(t, 4, c.Len())

	c.EvictHalf()
	assert.Equal(t, 2, c.Len())
}
