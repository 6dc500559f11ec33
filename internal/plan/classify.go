package plan

import (
	"regexp"
	"strings"
)

// Compiled once at package init, grounded on the teacher's
// internal/search/patterns.go identifier-shape regexes, retargeted here
// from LLM-classification fallback patterns to spec.md §4.8's
// keyword/shape-based routing heuristic.
var (
	camelCasePattern      = regexp.MustCompile(`^[a-z]+([A-Z][a-z0-9]*)+$`)
	pascalCasePattern     = regexp.MustCompile(`^([A-Z][a-z0-9]*){2,}$`)
	snakeCasePattern      = regexp.MustCompile(`^[a-z]+(_[a-z0-9]+)+$`)
	screamingSnakePattern = regexp.MustCompile(`^[A-Z]+(_[A-Z0-9]+)+$`)
	genericPattern        = regexp.MustCompile(`<[A-Za-z_][\w, ]*>`)
	syntacticCharsPattern = regexp.MustCompile(`[(){}\[\]<>:;!@#$%^&*+=|\\]`)
)

// looksLikeSymbol reports whether term has identifier shape (camelCase,
// PascalCase, snake_case, SCREAMING_SNAKE, or generic angle-bracket
// syntax) — spec.md §4.8 "queries containing code tokens (identifier with
// case or generic angle brackets) are routed as symbol-search in parallel
// with text-search".
func looksLikeSymbol(term string) bool {
	if genericPattern.MatchString(term) {
		return true
	}
	if strings.Contains(term, " ") {
		return false
	}
	return camelCasePattern.MatchString(term) ||
		pascalCasePattern.MatchString(term) ||
		snakeCasePattern.MatchString(term) ||
		screamingSnakePattern.MatchString(term)
}

// hasSyntacticChars reports whether text contains characters that tend to
// confuse the text-index's query parser, triggering the optional literal
// tier (spec.md §4.8 "queries containing syntactic characters that
// confuse the query parser").
func hasSyntacticChars(text string) bool {
	return syntacticCharsPattern.MatchString(text)
}

// classify decides which fan-out branches a text-search-shaped query
// should launch. It never returns an error — per spec.md §4.8 "the
// planner never blocks on classification heuristics; misclassification
// degrades but does not break results" — worst case all three branches
// run and dedup discards the redundant ones.
type classification struct {
	runSymbol  bool
	runText    bool
	runLiteral bool
}

func classify(text string) classification {
	text = strings.TrimSpace(text)
	if text == "" {
		return classification{runText: true}
	}

	c := classification{runText: true}
	for _, term := range strings.Fields(text) {
		if looksLikeSymbol(term) {
			c.runSymbol = true
		}
	}
	if genericPattern.MatchString(text) {
		c.runSymbol = true
	}
	if hasSyntacticChars(text) {
		c.runLiteral = true
	}
	return c
}
