package score

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Compiled once at package init, grounded on the teacher's
// internal/search/patterns.go identifier-shape regexes, retargeted here
// from query classification to the interface-implementation heuristic
// (spec.md §4.9 "starts with capital I followed by capital letter").
var interfaceNamePattern = regexp.MustCompile(`^I[A-Z]`)

// testPathPattern matches directory segments or filename suffixes that
// mark a file as test code (spec.md §4.9 path-relevance table row).
var testPathPattern = regexp.MustCompile(`(?i)(^|/)(test|tests|__tests__)(/|$)|[._-]test\.[^/]+$|\.spec\.[^/]+$`)

// domainDirPattern matches directories that conventionally hold primary
// business logic, boosted over incidental code.
var domainDirPattern = regexp.MustCompile(`(?i)/(services?|controllers?|models?|handlers?)/`)

// generatedExtPattern matches build-artifact/generated file extensions,
// de-boosted relative to hand-written source.
var generatedExtPattern = regexp.MustCompile(`(?i)\.(min\.[^.]+|map|lock|generated\.[^.]+)$`)

// ExactMatchBoost implements spec.md §4.9's exact-match row: the
// lowercased query equalling a filename, type name, or content symbol
// multiplies the score by 1.3, with an extra +0.3 when the match is the
// filename specifically.
func ExactMatchBoost(fields DocFields, ctx Context) float64 {
	if ctx.QueryRaw == "" {
		return 1.0
	}
	q := ctx.QueryRaw

	if strings.EqualFold(fields.Filename, q) {
		return 1.6
	}
	for _, n := range fields.TypeNames {
		if strings.EqualFold(n, q) {
			return 1.3
		}
	}
	for _, s := range fields.ContentSymbols {
		if strings.EqualFold(s, q) {
			return 1.3
		}
	}
	return 1.0
}

// TypeDefinitionBoost implements spec.md §4.9's type-definition row: a
// query term matching any entry in type_def (including the synthetic
// "implements <iface>" markers internal/ingest's buildDocument adds)
// multiplies the score by 10, forcing definitions to the top of
// symbol-like queries.
func TypeDefinitionBoost(fields DocFields, ctx Context) float64 {
	for _, term := range ctx.QueryTerms {
		for _, td := range fields.TypeDef {
			if strings.EqualFold(td, term) || strings.Contains(strings.ToLower(td), term) {
				return 10.0
			}
		}
	}
	return 1.0
}

// FilenameRelevance implements spec.md §4.9's filename-relevance row: a
// 1.5 multiplier when any query term appears as a token of the filename.
func FilenameRelevance(fields DocFields, ctx Context) float64 {
	tokens := tokenizeFilename(fields.Filename)
	for _, term := range ctx.QueryTerms {
		for _, tok := range tokens {
			if tok == term {
				return 1.5
			}
		}
	}
	return 1.0
}

func tokenizeFilename(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
}

// PathRelevance implements spec.md §4.9's path-relevance row: test paths
// are de-boosted to 0.15 unless the query itself mentions "test",
// conventional domain directories (services/controllers/models/handlers)
// are boosted 1.2, and a 0.98^depth penalty applies beyond depth 4.
func PathRelevance(fields DocFields, ctx Context) float64 {
	multiplier := 1.0
	path := strings.ToLower(fields.Path)

	if testPathPattern.MatchString(path) && !strings.Contains(ctx.QueryRaw, "test") {
		multiplier *= 0.15
	}
	if domainDirPattern.MatchString(path) {
		multiplier *= 1.2
	}

	depth := strings.Count(strings.Trim(path, "/"), "/") + 1
	if depth > 4 {
		multiplier *= math.Pow(0.98, float64(depth-4))
	}
	return multiplier
}

// Recency implements spec.md §4.9's recency row: boost = 1 + 0.5 *
// exp(-age_days / 14). A pure function of (last_modified, ctx.Now) so
// scoring stays deterministic across runs given the same snapshot and
// request time (spec.md P4/P9).
func Recency(fields DocFields, ctx Context) float64 {
	if fields.LastModifiedMs <= 0 || ctx.Now.IsZero() {
		return 1.0
	}
	ageDays := ctx.Now.Sub(time.UnixMilli(fields.LastModifiedMs)).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return 1 + 0.5*math.Exp(-ageDays/14)
}

// FileTypeRelevance implements spec.md §4.9's file-type-relevance row:
// source extensions get a 1.1 boost, generated/build-artifact extensions
// get a 0.6 de-boost.
func FileTypeRelevance(fields DocFields, ctx Context) float64 {
	if generatedExtPattern.MatchString(strings.ToLower(fields.Path)) {
		return 0.6
	}
	switch strings.ToLower(fields.Extension) {
	case "go", "ts", "tsx", "js", "jsx", "py", "rs", "java", "kt", "c", "cpp", "h", "hpp", "rb", "php", "swift":
		return 1.1
	default:
		return 1.0
	}
}

// InterfaceImplementationBoost implements spec.md §4.9's
// interface/implementation row: if a query term looks like an interface
// name (heuristic: capital I followed by a capital letter) and the
// document's type_def carries a matching "implements <term>" marker, the
// score is boosted 1.2.
func InterfaceImplementationBoost(fields DocFields, ctx Context) float64 {
	for _, term := range ctx.QueryTerms {
		if !interfaceNamePattern.MatchString(term) {
			continue
		}
		marker := "implements " + strings.ToLower(term)
		for _, td := range fields.TypeDef {
			if strings.ToLower(td) == marker {
				return 1.2
			}
		}
	}
	return 1.0
}
