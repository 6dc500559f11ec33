package score

import (
	"strings"
	"time"
)

// Pipeline holds the fixed, ordered factor composition list (spec.md
// §4.9 "the composition order is fixed and documented"). The slice is
// immutable after construction — the spec's concurrency model requires
// "the composite scoring factor list is immutable after startup" (§5) —
// so Pipeline exposes no mutation method once built.
type Pipeline struct {
	factors []Factor
}

// DefaultFactors is the single registration point spec.md §4.9 requires
// ("adding a new factor is a single registration point"), in the mandatory
// order the factor table implies: exact-match and type-definition first
// since they can dominate the score outright, then the relevance/decay
// factors that fine-tune ranking among the rest.
func DefaultFactors() []Factor {
	return []Factor{
		ExactMatchBoost,
		TypeDefinitionBoost,
		FilenameRelevance,
		PathRelevance,
		Recency,
		FileTypeRelevance,
		InterfaceImplementationBoost,
	}
}

// NewPipeline builds a Pipeline from factors, defaulting to
// DefaultFactors when none are given.
func NewPipeline(factors ...Factor) *Pipeline {
	if len(factors) == 0 {
		factors = DefaultFactors()
	}
	return &Pipeline{factors: factors}
}

// Score applies every factor in order to baseScore, multiplicatively, and
// clamps the result to a finite positive range (spec.md §4.9).
func (p *Pipeline) Score(baseScore float64, fields DocFields, ctx Context) float64 {
	score := baseScore
	for _, f := range p.factors {
		score *= f(fields, ctx)
	}
	return clamp(score)
}

// NewContext builds a Context from a raw query string and an
// already-resolved request time, normalizing and tokenizing the query the
// same way for both ExactMatchBoost's whole-query comparisons and the
// term-based factors. Callers pass now explicitly (typically time.Now()
// taken once at planning time) rather than this package reading the wall
// clock itself, keeping factor evaluation a pure function of its inputs
// (spec.md P4/P9).
func NewContext(rawQuery string, now time.Time) Context {
	lower := strings.ToLower(strings.TrimSpace(rawQuery))
	return Context{
		Now:        now,
		QueryRaw:   lower,
		QueryTerms: strings.Fields(lower),
	}
}
