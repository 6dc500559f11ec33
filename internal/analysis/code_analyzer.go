package analysis

import (
	"strings"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
)

// Names of the engine's registered Bleve analysis components. Grounded on
// the teacher's CodeTokenizerName/CodeAnalyzerName constants
// (internal/store/bm25.go), extended with the synonym and min-length
// filters spec.md §4.2 adds on top.
const (
	CodeTokenizerName   = "engine_code_tokenizer"
	CodeSynonymFilter   = "engine_code_synonym"
	CodeMinLengthFilter = "engine_code_minlen"
	CodeAnalyzerName    = "engine_code_analyzer"
)

// RegisterCode registers the code-analyzer's tokenizer and filters into a
// Bleve index mapping's component cache. Call once per IndexMapping.
func RegisterCode(synonyms *SynonymMap, synonymsEnabled bool) func(*mapping.IndexMappingImpl) error {
	return func(im *mapping.IndexMappingImpl) error {
		if err := im.AddCustomTokenizer(CodeTokenizerName, map[string]interface{}{
			"type": codeTokenizerType,
		}); err != nil {
			return err
		}
		codeTokenizerSynonyms = synonyms // see constructor below for why this is package state

		filters := []string{lowercase.Name}
		if synonymsEnabled {
			if err := im.AddCustomTokenFilter(CodeSynonymFilter, map[string]interface{}{
				"type": codeSynonymFilterType,
			}); err != nil {
				return err
			}
			filters = append(filters, CodeSynonymFilter)
		}
		if err := im.AddCustomTokenFilter(CodeMinLengthFilter, map[string]interface{}{
			"type": codeMinLengthFilterType,
		}); err != nil {
			return err
		}
		filters = append(filters, CodeMinLengthFilter)

		return im.AddCustomAnalyzer(CodeAnalyzerName, map[string]interface{}{
			"type":          custom.Name,
			"tokenizer":     CodeTokenizerName,
			"token_filters": anySlice(filters),
		})
	}
}

func anySlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// codeTokenizerSynonyms is set once at mapping-build time by RegisterCode
// before the registry invokes the constructor below. Bleve's registry
// constructors take no side-channel, so this mirrors the pattern the
// teacher's codeTokenizerConstructor already uses (package-level
// registration functions closing over shared config).
var codeTokenizerSynonyms *SynonymMap

const codeTokenizerType = "engine_code_tokenizer_type"
const codeSynonymFilterType = "engine_code_synonym_filter_type"
const codeMinLengthFilterType = "engine_code_minlen_filter_type"

func init() {
	_ = registry.RegisterTokenizer(codeTokenizerType, codeTokenizerConstructor)
	_ = registry.RegisterTokenFilter(codeSynonymFilterType, codeSynonymFilterConstructor)
	_ = registry.RegisterTokenFilter(codeMinLengthFilterType, codeMinLengthFilterConstructor)
}

func codeTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return &codeTokenizer{}, nil
}

// codeTokenizer implements step 1-3 of the code-analyzer chain: identifier
// boundary tokenization plus code-word splitting that emits both the
// original token and its sub-tokens, all at the original token's byte
// offsets so phrase queries on the original form keep working (spec.md
// §4.2 step 3).
type codeTokenizer struct{}

func (t *codeTokenizer) Tokenize(input []byte) analysis.TokenStream {
	text := string(input)
	raw := SplitIdentifiers(text)

	var stream analysis.TokenStream
	pos := 1
	offset := 0
	for _, word := range raw {
		start := strings.Index(text[offset:], word)
		if start == -1 {
			start = 0
		} else {
			start += offset
		}
		end := start + len(word)
		offset = end

		// Emit the original token first.
		stream = append(stream, &analysis.Token{
			Term:         []byte(word),
			Start:        start,
			End:          end,
			Position:     pos,
			Type:         analysis.AlphaNumeric,
		})

		subTokens := SplitCodeWord(word)
		if len(subTokens) > 1 {
			for _, sub := range subTokens {
				stream = append(stream, &analysis.Token{
					Term:         []byte(sub),
					Start:        start,
					End:          end,
					Position:     pos,
					Type:         analysis.AlphaNumeric,
				})
			}
		}
		pos++
	}
	return stream
}

func codeSynonymFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	return &synonymFilter{synonyms: codeTokenizerSynonyms}, nil
}

// synonymFilter appends synonym expansions at the same position increment
// as their source token, preserving position increments for phrase queries
// (spec.md §4.2 step 4).
type synonymFilter struct {
	synonyms *SynonymMap
}

func (f *synonymFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	if f.synonyms == nil {
		return input
	}
	out := make(analysis.TokenStream, 0, len(input))
	for _, tok := range input {
		out = append(out, tok)
		for _, syn := range f.synonyms.Expand(string(tok.Term)) {
			out = append(out, &analysis.Token{
				Term:         []byte(syn),
				Start:        tok.Start,
				End:          tok.End,
				Position:     tok.Position,
				Type:         tok.Type,
			})
		}
	}
	return out
}

func codeMinLengthFilterConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.TokenFilter, error) {
	return &minLengthFilter{}, nil
}

// minLengthFilter drops tokens shorter than 2 runes unless whitelisted
// (spec.md §4.2 step 5). No stemming happens on code fields (step 6).
type minLengthFilter struct{}

func (f *minLengthFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	out := make(analysis.TokenStream, 0, len(input))
	for _, tok := range input {
		term := string(tok.Term)
		if len([]rune(term)) >= 2 || KeepShortToken(term) {
			out = append(out, tok)
		}
	}
	return out
}
