package extract

import "context"

// genericGrammar is the fallback for extensions with no tree-sitter
// grammar wired. It never errors and never finds symbols — callers still
// get content indexed for text search (spec.md §4.3: "returns unsupported
// for unknown extensions; file still indexed for text search with no
// symbols"). Grounded on the teacher's CodeChunker.chunkByLines fallback
// path for languages outside its grammar set.
type genericGrammar struct{}

func (genericGrammar) Language() string { return "text" }

func (genericGrammar) Extract(_ context.Context, _ string, _ []byte) ([]*Symbol, []*Relationship, error) {
	return nil, nil, nil
}
