// Package shape implements the result shaper (spec.md §4.10): progressive
// disclosure over a planner's CompositeResult, token-budgeted between a
// compact summary view and a full per-hit view, with highlight fragments
// and opaque detail handles for resuming a summarized result later.
package shape

import (
	"time"

	"github.com/blevesearch/bleve/v2/search"

	"github.com/standardbeagle/codeengine/internal/plan"
)

// Mode selects the output shape spec.md §4.10 describes.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeFull    Mode = "full"
	ModeAuto    Mode = "auto"
)

// Config controls fragment sizing, token budgeting, and detail-handle TTL.
type Config struct {
	// TokenBudgetDefault is used when a caller omits Options.TokenBudget.
	TokenBudgetDefault int
	// DetailTTL is how long a detail handle stays valid (spec.md §4.10
	// "handles expire after detail-ttl, default 5 minutes").
	DetailTTL time.Duration
	// FragmentSize is the character length of each highlight fragment
	// (spec.md §4.10 "fragment size 100 chars").
	FragmentSize int
	// MaxFragments bounds fragments per hit (spec.md §4.10 "up to N
	// fragments, default 3").
	MaxFragments int
	// SummaryTopK bounds how many hits a summary view carries inline.
	SummaryTopK int
	// Tokenizer overrides the default len/3.5 heuristic (spec.md §4.10
	// "or an exact count when a precise tokenizer is configured").
	Tokenizer Tokenizer
}

func (c Config) withDefaults() Config {
	if c.TokenBudgetDefault <= 0 {
		c.TokenBudgetDefault = 4000
	}
	if c.DetailTTL <= 0 {
		c.DetailTTL = 5 * time.Minute
	}
	if c.FragmentSize <= 0 {
		c.FragmentSize = 100
	}
	if c.MaxFragments <= 0 {
		c.MaxFragments = 3
	}
	if c.SummaryTopK <= 0 {
		c.SummaryTopK = 10
	}
	if c.Tokenizer == nil {
		c.Tokenizer = heuristicTokenizer{}
	}
	return c
}

// Options is the per-call request: a token budget, a requested mode, and
// the identity used to stamp a detail handle if one is minted.
type Options struct {
	TokenBudget int
	Mode        Mode
	SnapshotID  uint16
	Query       string
}

// ShapedHit is one hit after shaping: highlight fragments substituted for
// (or alongside) the raw stored content, ready for the response envelope.
type ShapedHit struct {
	Path      string
	StartLine int
	Score     float64
	Tier      plan.Tier
	Snippets  []string
	Fields    map[string]interface{}
}

// Response is shape's output (spec.md §4.10's `response`).
type Response struct {
	Mode            Mode
	AutoSwitched    bool
	Hits            []ShapedHit
	Total           int
	Partial         bool
	Facets          search.FacetResults
	TokensEstimated int
	DetailHandle    *string
}
