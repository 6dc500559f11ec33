package extract

import "strings"

// Registry dispatches file extensions to a Grammar. All tree-sitter
// grammars are built eagerly at construction time (spec.md §4.3: "grammar
// loading is eager at startup for the configured language set"), grounded
// on the teacher's LanguageRegistry (internal/chunk/languages.go).
type Registry struct {
	byExt   map[string]Grammar
	generic Grammar
}

// NewRegistry builds a registry covering Go, TypeScript, TSX, JavaScript,
// JSX, and Python, falling back to genericGrammar for everything else.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:   make(map[string]Grammar),
		generic: genericGrammar{},
	}
	for _, spec := range allLanguageSpecs {
		g := newTreeSitterGrammar(spec)
		for _, ext := range spec.extensions {
			r.byExt[ext] = g
		}
	}
	return r
}

// Lookup returns the grammar for a file extension (case-insensitive,
// leading dot optional) and whether a dedicated grammar was found — a
// false second value means the generic fallback was returned.
func (r *Registry) Lookup(ext string) (Grammar, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if g, ok := r.byExt[ext]; ok {
		return g, true
	}
	return r.generic, false
}

// SupportedExtensions lists extensions with a dedicated grammar.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
