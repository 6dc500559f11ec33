// Package extract implements the symbol extractor pool: parsing source
// bytes into symbols and relationships via grammar-specific tree-sitter
// extractors, dispatched on file extension (spec.md §4.3).
//
// Grounded on the teacher's internal/chunk package (Parser wrapping
// github.com/smacker/go-tree-sitter, LanguageRegistry, SymbolExtractor),
// generalized from chunk-oriented output to the canonical Symbol/
// Relationship shapes of spec.md §3.
package extract

import "context"

// Kind enumerates the symbol kinds spec.md §3 names.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindMethod    Kind = "method"
	KindFunction  Kind = "function"
	KindField     Kind = "field"
	KindProperty  Kind = "property"
	KindTypeAlias Kind = "type-alias"
	KindModule    Kind = "module"
	KindOther     Kind = "other"
)

// RelationshipType enumerates the edge kinds spec.md §3 names.
type RelationshipType string

const (
	RelCalls      RelationshipType = "calls"
	RelImplements RelationshipType = "implements"
	RelExtends    RelationshipType = "extends"
	RelReferences RelationshipType = "references"
	RelContains   RelationshipType = "contains"
	RelRelatedTo  RelationshipType = "related-to"
)

// Symbol is a named program entity extracted by a grammar. ID is content-
// addressed by the grammar itself via SymbolID at extraction time.
type Symbol struct {
	ID                  string
	Name                string
	Kind                Kind
	Language            string
	FilePath            string
	Signature           string
	StartLine           int
	EndLine             int
	StartCol            int
	EndCol              int
	Modifiers           []string
	BaseType            string
	Interfaces          []string
	DocComment          string
	ContainingSymbolID  string
	containingSymbolIdx int // not set by the walker; containment is carried by ContainingSymbolID
}

// Relationship is a directed edge between two symbols extracted in the
// same pass. Only containment is populated here (spec.md's Non-goals
// exclude semantic validation, so cross-reference resolution — calls,
// implements, extends by name — belongs to a component that can see the
// whole workspace, not a single file's parse).
type Relationship struct {
	SourceSymbolID string
	TargetSymbolID string
	Type           RelationshipType
	Bidirectional  bool
}

// Result is the output of one extraction pass over a file's bytes.
type Result struct {
	Language      string
	FileHash      string
	Symbols       []*Symbol
	Relationships []*Relationship
	Unsupported   bool
	Skipped       bool
	SkipReason    string
}

// Grammar extracts symbols and containment relationships from one
// language's source bytes. The Pool shares one Grammar value per
// extension across all concurrent Extract calls, so implementations must
// be safe for concurrent calls on the same value (treeSitterGrammar
// borrows a parser per call from its sync.Pool).
type Grammar interface {
	Language() string
	Extract(ctx context.Context, path string, source []byte) ([]*Symbol, []*Relationship, error)
}
