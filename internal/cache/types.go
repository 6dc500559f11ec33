// Package cache implements the engine's cache layer (spec.md §4.11):
// three bounded, snapshot-aware LRU caches (parsed-query, result, and
// detail) sitting in front of the planner and shaper. None ever answer a
// request for a snapshot newer than what they hold — a snapshot mismatch
// is treated as a miss and the underlying component is consulted, the
// same compare-and-reject discipline spec.md §4.11 requires.
//
// Grounded on the teacher's internal/embed/cached.go (CachedEmbedder: an
// LRU wrapping an inner computation, keyed by a content hash) and
// internal/scanner/scanner.go's LRU-bounded gitignore matcher cache,
// generalized from single-purpose caches to the three-cache layer here.
package cache

// ResultKey identifies one cached query result (spec.md §4.11 "keyed by
// (snapshot-id, canonical-query, filter-set, sort, limit)").
type ResultKey struct {
	SnapshotID     uint16
	CanonicalQuery string
	FilterSet      string
	Sort           string
	Limit          int
}

// ParsedQueryKey identifies one cached parsed-query artifact (spec.md
// §4.11 "canonical query text + analyzer version").
type ParsedQueryKey struct {
	CanonicalQuery  string
	AnalyzerVersion string
}
