package extract

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// treeSitterGrammar implements Grammar over one languageSpec. Parser
// handles are cached in a sync.Pool keyed by language, grounded on the
// teacher's chunk.Parser (one *sitter.Parser, SetLanguage per call) but
// generalized so concurrent extraction calls don't serialize on a single
// parser: each call borrows a handle, parses, and returns it (spec.md
// §4.3's "thread-local grammar/parser handle... lock-free acquire in the
// common path").
type treeSitterGrammar struct {
	spec *languageSpec
	pool sync.Pool
}

func newTreeSitterGrammar(spec *languageSpec) *treeSitterGrammar {
	g := &treeSitterGrammar{spec: spec}
	g.pool.New = func() interface{} {
		p := sitter.NewParser()
		p.SetLanguage(spec.tsLanguage)
		return p
	}
	return g
}

func (g *treeSitterGrammar) Language() string { return g.spec.name }

func (g *treeSitterGrammar) Extract(ctx context.Context, path string, source []byte) ([]*Symbol, []*Relationship, error) {
	p := g.pool.Get().(*sitter.Parser)
	defer g.pool.Put(p)

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if tree == nil {
		return nil, nil, fmt.Errorf("parse %s: nil tree", path)
	}

	root := convertNode(tree.RootNode())
	w := &walker{spec: g.spec, source: source, path: path, language: g.spec.name}
	w.walk(root, -1)
	return w.symbols, w.relationships, nil
}

// walker performs one containment-tracking depth-first pass over the
// tree, assigning each extracted symbol's ContainingSymbolID to the
// nearest enclosing extracted symbol and emitting a "contains" edge for
// it. There is no semantic resolution beyond syntax (spec.md's Non-goals
// exclude type-checking), so calls/implements/extends are left for a
// component with whole-workspace visibility.
type walker struct {
	spec          *languageSpec
	source        []byte
	path          string
	language      string
	symbols       []*Symbol
	relationships []*Relationship
}

func (w *walker) walk(n *node, containingIdx int) {
	if n == nil {
		return
	}

	idx := containingIdx
	if sym := w.classify(n, containingIdx); sym != nil {
		w.symbols = append(w.symbols, sym)
		idx = len(w.symbols) - 1
		if containingIdx >= 0 {
			parent := w.symbols[containingIdx]
			sym.ContainingSymbolID = parent.ID
			w.relationships = append(w.relationships, &Relationship{
				SourceSymbolID: parent.ID,
				TargetSymbolID: sym.ID,
				Type:           RelContains,
			})
		}
	}

	for _, c := range n.Children {
		w.walk(c, idx)
	}
}

func (w *walker) classify(n *node, containingIdx int) *Symbol {
	spec := w.spec
	var kind Kind
	var matched bool

	switch {
	case matchType(n.Type, spec.methodTypes):
		kind, matched = KindMethod, true
	case matchType(n.Type, spec.functionTypes):
		kind, matched = KindFunction, true
		if containingIdx >= 0 && isTypeLikeKind(w.symbols[containingIdx].Kind) {
			kind = KindMethod
		}
	case matchType(n.Type, spec.classTypes):
		kind, matched = KindClass, true
	case matchType(n.Type, spec.interfaceTypes):
		kind, matched = KindInterface, true
	case matchType(n.Type, spec.enumTypes):
		kind, matched = KindEnum, true
	case matchType(n.Type, spec.typeAliasTypes):
		kind, matched = KindTypeAlias, true
	case matchType(n.Type, spec.fieldTypes):
		kind, matched = fieldKind(containingIdx, w.symbols), true
	case spec.goTypeDecl && n.Type == "type_declaration":
		kind, matched = classifyGoTypeDecl(n), true
	case matchType(n.Type, spec.otherDeclTypes):
		if name, isFn := extractArrowFunctionName(n, w.source); isFn {
			return w.buildSymbol(n, name, KindFunction)
		}
		kind, matched = KindOther, true
	}

	if !matched {
		return nil
	}

	name := spec.nameExtractor(n, w.source)
	if name == "" {
		return nil
	}
	return w.buildSymbol(n, name, kind)
}

func (w *walker) buildSymbol(n *node, name string, kind Kind) *Symbol {
	startLine := int(n.StartRow) + 1
	content := n.content(w.source)
	return &Symbol{
		ID:         SymbolID(w.path, name, startLine, kind),
		Name:       name,
		Kind:       kind,
		Language:   w.language,
		FilePath:   w.path,
		Signature:  extractSignature(content, w.language),
		StartLine:  startLine,
		EndLine:    int(n.EndRow) + 1,
		StartCol:   int(n.StartCol),
		EndCol:     int(n.EndCol),
		DocComment: extractDocComment(n, w.source, w.language),
	}
}

func isTypeLikeKind(k Kind) bool {
	return k == KindClass || k == KindStruct || k == KindInterface
}

func fieldKind(containingIdx int, symbols []*Symbol) Kind {
	if containingIdx >= 0 && symbols[containingIdx].Kind == KindClass {
		return KindProperty
	}
	return KindField
}

// classifyGoTypeDecl distinguishes struct/interface/alias within Go's
// single type_declaration node, grounded on the teacher's extractGoName
// type_spec walk but inspecting the type_spec's type child's own node
// type instead of just its name.
func classifyGoTypeDecl(n *node) Kind {
	spec := n.firstChildOfType("type_spec")
	if spec == nil {
		return KindTypeAlias
	}
	if spec.firstChildOfType("struct_type") != nil {
		return KindStruct
	}
	if spec.firstChildOfType("interface_type") != nil {
		return KindInterface
	}
	return KindTypeAlias
}
