// Package score implements the scoring pipeline (spec.md §4.9): an
// ordered, side-effect-free chain of multiplicative factors applied to a
// text-index hit's base term-similarity score.
//
// Grounded on the teacher's internal/search/reranker.go (the Reranker
// interface shape: a pure scoring step taking a query and a document,
// returning a score) and internal/search/patterns.go (the path/identifier
// classification regexes, reused here for path-relevance and
// interface-heuristic detection instead of query classification).
package score

import "time"

// DocFields is the subset of an indexed document's fields the scoring
// factors read. It mirrors textindex.Document's searchable fields rather
// than importing that package directly, keeping internal/score free of a
// dependency on internal/textindex — the planner (C8) is the one package
// that bridges the two.
type DocFields struct {
	Path           string
	Filename       string
	Extension      string
	TypeNames      []string
	TypeDef        []string
	ContentSymbols []string
	LastModifiedMs int64
}

// Context carries the request-scoped inputs factors need that aren't part
// of the document itself. Now is threaded down from the already-resolved
// request time rather than read from the wall clock inside a factor, so
// recency scoring stays a pure function of (last_modified, now) per
// spec.md's determinism requirement (P4/P9).
type Context struct {
	Now        time.Time
	QueryRaw   string   // lowercased, trimmed original query text
	QueryTerms []string // lowercased query terms, tokenized on whitespace
}

// Factor computes a multiplier applied to a hit's running score. Factors
// are pure: same inputs, same output, no access to anything but their
// arguments (spec.md §4.9 "each factor is pure").
type Factor func(fields DocFields, ctx Context) float64

// minScore/maxScore clamp the composed score to a finite positive range
// (spec.md §4.9 "scores are clamped to a finite positive range").
const (
	minScore = 1e-6
	maxScore = 1e6
)

func clamp(v float64) float64 {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
