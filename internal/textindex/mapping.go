package textindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/standardbeagle/codeengine/internal/analysis"
)

// BuildMapping constructs the document mapping for Document (spec.md §3):
// stored display fields, analyzed search fields on the code-analyzer, and
// DocValues-only sort/facet fields that are neither stored nor analyzed.
// Grounded on the teacher's createIndexMapping (internal/store/bm25.go),
// generalized from one flat "content" field to the full schema and from
// the teacher's single custom analyzer to internal/analysis's registered
// code- and text-analyzer chain.
func BuildMapping(synonyms *analysis.SynonymMap, synonymsEnabled bool) (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()

	if err := analysis.RegisterCode(synonyms, synonymsEnabled)(im); err != nil {
		return nil, fmt.Errorf("textindex: register code analyzer: %w", err)
	}
	if err := analysis.RegisterText(synonymsEnabled)(im); err != nil {
		return nil, fmt.Errorf("textindex: register text analyzer: %w", err)
	}
	im.DefaultAnalyzer = analysis.CodeAnalyzerName

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	doc.AddFieldMappingsAt("path", storedOnly())
	doc.AddFieldMappingsAt("extension", storedOnly())
	doc.AddFieldMappingsAt("type_info_json", storedOnly())
	doc.AddFieldMappingsAt("symbol_count", storedNumeric())
	doc.AddFieldMappingsAt("method_count", storedNumeric())

	// content is both stored for display and indexed for search (spec.md
	// §3 lists it in both categories).
	doc.AddFieldMappingsAt("content", storedAndAnalyzed(analysis.CodeAnalyzerName))

	doc.AddFieldMappingsAt("content_symbols", analyzedOnly(analysis.CodeAnalyzerName))
	doc.AddFieldMappingsAt("type_names", analyzedOnly(analysis.CodeAnalyzerName))
	doc.AddFieldMappingsAt("type_def", analyzedOnly(analysis.CodeAnalyzerName))
	doc.AddFieldMappingsAt("path_tokens", analyzedOnly(analysis.CodeAnalyzerName))
	doc.AddFieldMappingsAt("filename", analyzedOnly(analysis.CodeAnalyzerName))
	doc.AddFieldMappingsAt("all", analyzedOnly(analysis.CodeAnalyzerName))

	doc.AddFieldMappingsAt("last_modified_dv", docValuesNumeric())
	doc.AddFieldMappingsAt("size_dv", docValuesNumeric())
	doc.AddFieldMappingsAt("extension_dv", docValuesText())
	doc.AddFieldMappingsAt("language_dv", docValuesText())
	doc.AddFieldMappingsAt("kind_facet", docValuesText())

	im.AddDocumentMapping("_default", doc)
	return im, nil
}

// storedOnly mirrors fields bleve shows back in a hit's Fields map but
// never tokenizes or queries against (path, extension, json blobs).
func storedOnly() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Store = true
	fm.Index = false
	fm.IncludeInAll = false
	fm.DocValues = false
	return fm
}

func storedNumeric() *mapping.FieldMapping {
	fm := bleve.NewNumericFieldMapping()
	fm.Store = true
	fm.Index = false
	fm.IncludeInAll = false
	fm.DocValues = false
	return fm
}

// storedAndAnalyzed is both returned in hit Fields and searchable — used
// only by content, which spec.md §3 lists in both categories.
func storedAndAnalyzed(analyzer string) *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Store = true
	fm.Index = true
	fm.Analyzer = analyzer
	fm.IncludeInAll = false
	fm.DocValues = false
	return fm
}

// analyzedOnly is a searchable field: tokenized on analyzer, not stored
// (the caller reconstructs display values from the stored fields above),
// not a DocValue.
func analyzedOnly(analyzer string) *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Store = false
	fm.Index = true
	fm.Analyzer = analyzer
	fm.IncludeInAll = false
	fm.DocValues = false
	return fm
}

// docValuesNumeric is sortable but neither stored nor full-text indexed.
func docValuesNumeric() *mapping.FieldMapping {
	fm := bleve.NewNumericFieldMapping()
	fm.Store = false
	fm.Index = false
	fm.IncludeInAll = false
	fm.DocValues = true
	return fm
}

// docValuesText is a facet/sort-only keyword field (extension, language,
// and the multi-valued kind facet) — indexed but unanalyzed so it sorts
// and facets on the literal value, never stored.
func docValuesText() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Store = false
	fm.Index = true
	fm.Analyzer = "keyword"
	fm.IncludeInAll = false
	fm.DocValues = true
	return fm
}
