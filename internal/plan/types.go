// Package plan implements the query planner (spec.md §4.8):
// classification-driven parallel fan-out across the symbol store and
// inverted index, hierarchical per-branch deadlines, and tier-tagged
// dedup/merge of the results.
//
// Grounded on the teacher's internal/search/engine.go (the hybrid-search
// fan-out shape: one goroutine per retrieval tier, merged under a single
// deadline) and internal/search/classifier.go (the query-shape detection
// that decides which tiers to launch), retargeted from BM25-vs-semantic
// retrieval to the symbol-search/text-search/literal-search tiers of
// spec.md §4.8.
package plan

import (
	"time"

	"github.com/blevesearch/bleve/v2/search"
)

// Kind selects which structured query shape a Query represents (spec.md
// §4.8's query-kind list).
type Kind string

const (
	KindTextSearch      Kind = "text-search"
	KindSymbolSearch    Kind = "symbol-search"
	KindFileSearch      Kind = "file-search"
	KindSimilarFiles    Kind = "similar-files"
	KindDirectorySearch Kind = "directory-search"
	KindRecentFiles     Kind = "recent-files"
	KindSizeAnalysis    Kind = "size-analysis"
)

// Tier tags which retrieval branch produced a hit (spec.md §4.8
// "exact", "scored", "literal").
type Tier string

const (
	TierExact   Tier = "exact"
	TierScored  Tier = "scored"
	TierLiteral Tier = "literal"
)

// Filters expresses spec.md §4.8's low-cost filter set, applied as term
// filters against the text index and as SQL-style predicates against the
// symbol store.
type Filters struct {
	SymbolKind string // extract.Kind value, e.g. "interface"
	Language   string
	PathGlob   string
	DateFrom   time.Time
	DateTo     time.Time
	SizeMin    int64
	SizeMax    int64
}

// Query is the planner-facing request shape (spec.md §4.8
// "plan_and_execute(query, options) -> composite_result").
type Query struct {
	Kind     Kind
	Text     string
	SeedPath string // used by KindSimilarFiles
	Filters  Filters
	Sort     []string
	Limit    int
}

// Options configures branch deadlines and the scoring context.
type Options struct {
	// BranchDeadline bounds each fan-out branch (spec.md §4.8 "default
	// 100ms, configurable").
	BranchDeadline time.Duration
	// Now is the request's resolved time, threaded into scoring so
	// recency stays a pure function of its inputs (spec.md P4/P9).
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.BranchDeadline <= 0 {
		o.BranchDeadline = 100 * time.Millisecond
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// Hit is one merged, tier-tagged result (spec.md §4.8 "each result
// carries its tier tag ... and retained per-tier rank").
type Hit struct {
	Path      string
	StartLine int
	Score     float64
	Tier      Tier
	Rank      int
	Fields    map[string]interface{}
	Locations map[string][]string
}

// CompositeResult is the outcome of PlanAndExecute: merged hits plus a
// flag for whether any branch was cut short by its deadline (spec.md
// §4.8 "partial results are clearly labelled per tier").
type CompositeResult struct {
	Hits    []Hit
	Partial bool
	Facets  search.FacetResults
}
