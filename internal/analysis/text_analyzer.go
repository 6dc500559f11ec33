package analysis

import (
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

// TextAnalyzerName is the analyzer used by human-text fields — the
// memory/notes store shares this infrastructure per spec.md §1/§9, even
// though that store's index is otherwise independent of the core's.
const TextAnalyzerName = "engine_text_analyzer"

// RegisterText registers the text-analyzer: Unicode tokenize -> lowercase ->
// English stop words -> (optional synonyms, reusing the code analyzer's
// dictionary) -> Porter stemming (spec.md §4.2 "text-analyzer").
func RegisterText(synonymsEnabled bool) func(*mapping.IndexMappingImpl) error {
	return func(im *mapping.IndexMappingImpl) error {
		filters := []interface{}{lowercase.Name, en.StopName}
		if synonymsEnabled {
			filters = append(filters, CodeSynonymFilter)
		}
		filters = append(filters, porter.Name)

		return im.AddCustomAnalyzer(TextAnalyzerName, map[string]interface{}{
			"type":          custom.Name,
			"tokenizer":     unicode.Name,
			"token_filters": filters,
		})
	}
}
