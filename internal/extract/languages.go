package extract

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// languageSpec is the per-language node-type table a treeSitterGrammar
// walks against. Grounded on the teacher's chunk.LanguageConfig
// (internal/chunk/languages.go), extended with struct/interface/enum/
// type-alias/field distinctions spec.md §3's Kind enum requires that the
// teacher's flatter SymbolType didn't.
type languageSpec struct {
	name           string
	extensions     []string
	tsLanguage     *sitter.Language
	functionTypes  []string
	methodTypes    []string
	classTypes     []string
	structTypes    []string
	interfaceTypes []string
	enumTypes      []string
	typeAliasTypes []string
	fieldTypes     []string
	otherDeclTypes []string // const/var/assignment style top-level declarations
	nameExtractor  func(n *node, source []byte) string
	goTypeDecl     bool // Go's type_declaration needs child inspection to tell struct/interface/alias apart
}

var goSpec = &languageSpec{
	name:          "go",
	extensions:    []string{".go"},
	tsLanguage:    golang.GetLanguage(),
	functionTypes: []string{"function_declaration"},
	methodTypes:   []string{"method_declaration"},
	fieldTypes:    []string{"field_declaration"},
	otherDeclTypes: []string{
		"const_declaration", "var_declaration",
	},
	goTypeDecl:    true,
	nameExtractor: extractGoName,
}

var typescriptSpec = &languageSpec{
	name:           "typescript",
	extensions:     []string{".ts"},
	tsLanguage:     typescript.GetLanguage(),
	functionTypes:  []string{"function_declaration"},
	methodTypes:    []string{"method_definition"},
	classTypes:     []string{"class_declaration"},
	interfaceTypes: []string{"interface_declaration"},
	enumTypes:      []string{"enum_declaration"},
	typeAliasTypes: []string{"type_alias_declaration"},
	fieldTypes:     []string{"public_field_definition"},
	otherDeclTypes: []string{"lexical_declaration", "variable_declaration"},
	nameExtractor:  extractTSName,
}

var tsxSpec = &languageSpec{
	name:           "tsx",
	extensions:     []string{".tsx"},
	tsLanguage:     tsx.GetLanguage(),
	functionTypes:  typescriptSpec.functionTypes,
	methodTypes:    typescriptSpec.methodTypes,
	classTypes:     typescriptSpec.classTypes,
	interfaceTypes: typescriptSpec.interfaceTypes,
	enumTypes:      typescriptSpec.enumTypes,
	typeAliasTypes: typescriptSpec.typeAliasTypes,
	fieldTypes:     typescriptSpec.fieldTypes,
	otherDeclTypes: typescriptSpec.otherDeclTypes,
	nameExtractor:  extractTSName,
}

var javascriptSpec = &languageSpec{
	name:           "javascript",
	extensions:     []string{".js", ".mjs"},
	tsLanguage:     javascript.GetLanguage(),
	functionTypes:  []string{"function_declaration", "function"},
	methodTypes:    []string{"method_definition"},
	classTypes:     []string{"class_declaration"},
	fieldTypes:     []string{"field_definition"},
	otherDeclTypes: []string{"lexical_declaration", "variable_declaration"},
	nameExtractor:  extractJSName,
}

var jsxSpec = &languageSpec{
	name:           "jsx",
	extensions:     []string{".jsx"},
	tsLanguage:     javascript.GetLanguage(),
	functionTypes:  javascriptSpec.functionTypes,
	methodTypes:    javascriptSpec.methodTypes,
	classTypes:     javascriptSpec.classTypes,
	fieldTypes:     javascriptSpec.fieldTypes,
	otherDeclTypes: javascriptSpec.otherDeclTypes,
	nameExtractor:  extractJSName,
}

var pythonSpec = &languageSpec{
	name:           "python",
	extensions:     []string{".py"},
	tsLanguage:     python.GetLanguage(),
	functionTypes:  []string{"function_definition"},
	classTypes:     []string{"class_definition"},
	otherDeclTypes: []string{"assignment"},
	nameExtractor:  extractPythonName,
}

var allLanguageSpecs = []*languageSpec{
	goSpec, typescriptSpec, tsxSpec, javascriptSpec, jsxSpec, pythonSpec,
}
