// Package analysis implements the engine's two-member analyzer chain:
// code-analyzer for source text fields and text-analyzer for human text
// fields (the memory/notes store, shared infrastructure per spec §1).
//
// Both are registered as Bleve custom analyzers, grounded on the teacher's
// internal/store/bm25.go custom tokenizer/filter registration, generalized
// from a single flat token stream to the full chain spec.md §4.2 specifies:
// tokenize -> lowercase -> code-word split (original + sub-tokens, positions
// preserved) -> optional synonym expansion -> min-length filter.
package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches runs of letters, digits, and underscores — the
// Unicode-letter/digit/underscore-aware boundary spec.md §4.2 step 1 asks for.
var identifierRegex = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// SplitIdentifiers finds raw identifier-shaped runs in text, the first stage
// of the code-analyzer token stream (tokenize on non-identifier boundaries).
func SplitIdentifiers(text string) []string {
	return identifierRegex.FindAllString(text, -1)
}

// SplitCodeWord splits one raw token into its CamelCase/snake_case/dot
// sub-tokens. Unlike the teacher's SplitCodeToken (which replaces the token),
// this never drops the original: callers combine the original with the
// sub-tokens themselves, per spec.md §4.2 step 3 ("emit both the original
// token and sub-tokens").
func SplitCodeWord(token string) []string {
	if token == "" {
		return nil
	}

	var out []string
	for _, dotPart := range strings.Split(token, ".") {
		if dotPart == "" {
			continue
		}
		for _, underscorePart := range strings.Split(dotPart, "_") {
			if underscorePart == "" {
				continue
			}
			out = append(out, splitCamelCase(underscorePart)...)
		}
	}
	return out
}

// splitCamelCase splits camelCase/PascalCase identifiers, keeping acronym
// runs together ("HTTPHandler" -> ["HTTP", "Handler"]).
func splitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// singleCharWhitelist holds single-character tokens kept despite the
// min-length-2 rule (spec.md §4.2 step 5: "whitelist of single-char
// operators/names").
var singleCharWhitelist = map[string]struct{}{
	"i": {}, "j": {}, "k": {}, "x": {}, "y": {}, "z": {},
	"_": {}, "$": {},
}

// KeepShortToken reports whether a token shorter than 2 runes should
// nonetheless survive the min-length filter.
func KeepShortToken(token string) bool {
	_, ok := singleCharWhitelist[strings.ToLower(token)]
	return ok
}
