package ingest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/textindex"
)

// typeKinds are the symbol kinds spec.md §3 treats as "top-level
// definitions" for type_names/type_def (class/interface/struct/enum/
// type-alias) — functions and methods are callable, not type definitions.
var typeKinds = map[extract.Kind]bool{
	extract.KindClass:     true,
	extract.KindInterface: true,
	extract.KindStruct:    true,
	extract.KindEnum:      true,
	extract.KindTypeAlias: true,
}

// typeSummary is the minimal per-symbol shape serialized into
// type_info_json (spec.md §3 "extracted symbols serialized"), kept small
// since the full Symbol rows already live in the symbol store — this
// field exists for display, not re-derivation.
type typeSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Interfaces []string `json:"interfaces,omitempty"`
}

// buildDocument assembles the inverted-index document for one file from
// its extraction result (spec.md §3's Document schema, built at dual-
// write step 5).
func buildDocument(path string, content []byte, lastModified, size int64, result extract.Result) (textindex.Document, error) {
	var (
		contentSymbols []string
		typeNames      []string
		typeDef        []string
		methodCount    int
		summaries      = make([]typeSummary, 0, len(result.Symbols))
	)

	for _, sym := range result.Symbols {
		contentSymbols = append(contentSymbols, sym.Name)
		if sym.Kind == extract.KindMethod {
			methodCount++
		}
		if typeKinds[sym.Kind] {
			typeNames = append(typeNames, sym.Name)
			typeDef = append(typeDef, string(sym.Kind)+" "+sym.Name)
			for _, iface := range sym.Interfaces {
				typeDef = append(typeDef, "implements "+iface)
			}
		}
		summaries = append(summaries, typeSummary{
			ID:         sym.ID,
			Name:       sym.Name,
			Kind:       string(sym.Kind),
			StartLine:  sym.StartLine,
			EndLine:    sym.EndLine,
			Interfaces: sym.Interfaces,
		})
	}

	typeInfoJSON, err := json.Marshal(summaries)
	if err != nil {
		return textindex.Document{}, err
	}

	filename := filepath.Base(path)
	pathTokens := splitPathTokens(path)
	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	all := strings.Join(append(append([]string{string(content)}, contentSymbols...), append(typeNames, append([]string{filename}, pathTokens...)...)...), " ")

	return textindex.Document{
		Path:         path,
		Extension:    ext,
		Content:      string(content),
		TypeInfoJSON: string(typeInfoJSON),
		SymbolCount:  len(result.Symbols),
		MethodCount:  methodCount,

		ContentSymbols: contentSymbols,
		TypeNames:      typeNames,
		TypeDef:        typeDef,
		PathTokens:     pathTokens,
		Filename:       filename,
		All:            all,

		LastModifiedDV: lastModified,
		SizeDV:         size,
		ExtensionDV:    ext,
		LanguageDV:     result.Language,
		KindFacet:      kindFacet(result.Symbols),
	}, nil
}

// splitPathTokens breaks a path into its directory and filename
// components for fuzzy path/filename search (spec.md §3 "path_tokens").
func splitPathTokens(path string) []string {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\' || r == '.' || r == '_' || r == '-'
	})
	return parts
}

// kindFacet lists the distinct symbol kinds present in a file, for
// faceted browsing (spec.md §3 "kind_facet").
func kindFacet(symbols []*extract.Symbol) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sym := range symbols {
		k := string(sym.Kind)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
