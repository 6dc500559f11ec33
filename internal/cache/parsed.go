package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ParsedQueryCache memoizes whatever normalization/classification work a
// caller wants to avoid repeating for an identical (query, analyzer
// version) pair — e.g. internal/plan's classify() outcome. Bounded by
// entry count only (spec.md §4.11 "LRU bounded by entry count and total
// bytes" — byte-bounding is left to the caller sizing Value small, since
// classification outcomes here are a few bools, not raw payloads).
type ParsedQueryCache[V any] struct {
	lru *lru.Cache[ParsedQueryKey, V]
}

// NewParsedQueryCache bounds the cache to size entries (default 1024).
func NewParsedQueryCache[V any](size int) *ParsedQueryCache[V] {
	if size <= 0 {
		size = 1024
	}
	l, _ := lru.New[ParsedQueryKey, V](size)
	return &ParsedQueryCache[V]{lru: l}
}

func (c *ParsedQueryCache[V]) Get(key ParsedQueryKey) (V, bool) {
	return c.lru.Get(key)
}

func (c *ParsedQueryCache[V]) Put(key ParsedQueryKey, value V) {
	c.lru.Add(key, value)
}

func (c *ParsedQueryCache[V]) Len() int {
	return c.lru.Len()
}
