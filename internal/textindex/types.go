// Package textindex wraps github.com/blevesearch/bleve/v2 as the engine's
// near-real-time inverted index (spec.md §4.5), grounded on the teacher's
// internal/store/bm25.go (BleveBM25Index): custom analyzer registration,
// corruption detection on open, and auto-recovery by clearing and
// recreating a corrupted index directory.
package textindex

// Document is the per-file record indexed for search (spec.md §3). Field
// names match the schema exactly so the Bleve document mapping built in
// BuildMapping can address them by property path.
type Document struct {
	// Stored for display.
	Path         string `json:"path"`
	Extension    string `json:"extension"`
	Content      string `json:"content"`
	TypeInfoJSON string `json:"type_info_json"`
	SymbolCount  int    `json:"symbol_count"`
	MethodCount  int    `json:"method_count"`

	// Indexed for search. All is a copy of Content/ContentSymbols/
	// TypeNames/Filename/PathTokens, assembled by the caller before
	// indexing — Bleve's own composite "_all" field is disabled on every
	// field mapping below (IncludeInAll: false) so this stays the single
	// source of the cross-field search surface.
	ContentSymbols []string `json:"content_symbols"`
	TypeNames      []string `json:"type_names"`
	TypeDef        []string `json:"type_def"`
	PathTokens     []string `json:"path_tokens"`
	Filename       string   `json:"filename"`
	All            string   `json:"all"`

	// DocValues-only: sortable/facetable, never stored or returned as hit
	// content.
	LastModifiedDV int64    `json:"last_modified_dv"`
	SizeDV         int64    `json:"size_dv"`
	ExtensionDV    string   `json:"extension_dv"`
	LanguageDV     string   `json:"language_dv"`
	KindFacet      []string `json:"kind_facet"`
}

// Field name constants for building queries and sort/facet requests
// against this schema (used by the query planner, C8).
const (
	FieldContent        = "content"
	FieldContentSymbols = "content_symbols"
	FieldTypeNames      = "type_names"
	FieldTypeDef        = "type_def"
	FieldPathTokens     = "path_tokens"
	FieldFilename       = "filename"
	FieldAll            = "all"

	FieldLastModifiedDV = "last_modified_dv"
	FieldSizeDV         = "size_dv"
	FieldExtensionDV    = "extension_dv"
	FieldLanguageDV     = "language_dv"
	FieldKindFacet      = "kind_facet"
)

// FieldBoosts are per-field weights for this schema; the index mapping
// itself carries no boost. The planner (C8) passes them only to
// MoreLikeThis, which sets them on its term queries; Search and the
// planner's other text branches query their fields unweighted.
var FieldBoosts = map[string]float64{
	FieldContentSymbols: 2.5,
	FieldTypeNames:      2.0,
	FieldFilename:       2.0,
	FieldContent:        1.0,
	FieldAll:            0.8,
}
