package symbolstore

import "github.com/standardbeagle/codeengine/internal/extract"

// Symbol and Relationship are the store's persisted shapes. They are the
// extractor pool's own types (internal/extract) — the store adds no
// fields extraction doesn't already produce, so there is no value in a
// parallel struct family.
type Symbol = extract.Symbol
type Relationship = extract.Relationship
type Kind = extract.Kind
type RelationshipType = extract.RelationshipType

// Direction selects which edges get_relationships follows from a symbol.
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
	DirectionBoth Direction = "both"
)

// FileRecord is one row of the files table (spec.md §3 "File record").
type FileRecord struct {
	WorkspaceID  string
	Path         string
	Language     string
	ContentHash  string
	Size         int64
	LastModified int64 // ms since epoch
	SymbolCount  int
}

// Edge is one hop returned by GetRelationships.
type Edge struct {
	SourceSymbolID string
	TargetSymbolID string
	Type           RelationshipType
	Bidirectional  bool
	Depth          int
}
