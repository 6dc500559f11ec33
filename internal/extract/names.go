package extract

// Per-language name extractors, grounded on the teacher's
// extractGoName/extractTypeScriptName/extractJavaScriptName/
// extractPythonName (internal/chunk/extractor.go), adapted to operate on
// the package's own node type.

func extractGoName(n *node, source []byte) string {
	switch n.Type {
	case "function_declaration":
		if c := n.firstChildOfType("identifier"); c != nil {
			return c.content(source)
		}
	case "method_declaration":
		if c := n.firstChildOfType("field_identifier"); c != nil {
			return c.content(source)
		}
	case "type_declaration":
		if spec := n.firstChildOfType("type_spec"); spec != nil {
			if id := spec.firstChildOfType("type_identifier"); id != nil {
				return id.content(source)
			}
		}
	case "const_declaration":
		if spec := n.firstChildOfType("const_spec"); spec != nil {
			if id := spec.firstChildOfType("identifier"); id != nil {
				return id.content(source)
			}
		}
	case "var_declaration":
		if spec := n.firstChildOfType("var_spec"); spec != nil {
			if id := spec.firstChildOfType("identifier"); id != nil {
				return id.content(source)
			}
		}
	case "field_declaration":
		if id := n.firstChildOfType("field_identifier"); id != nil {
			return id.content(source)
		}
	}
	return ""
}

func extractTSName(n *node, source []byte) string {
	if n.Type == "lexical_declaration" || n.Type == "variable_declaration" {
		if decl := n.firstChildOfType("variable_declarator"); decl != nil {
			if id := decl.firstChildOfType("identifier"); id != nil {
				return id.content(source)
			}
		}
		return ""
	}
	if id := n.firstChildOfType("identifier", "type_identifier", "property_identifier"); id != nil {
		return id.content(source)
	}
	return ""
}

func extractJSName(n *node, source []byte) string {
	if n.Type == "lexical_declaration" || n.Type == "variable_declaration" {
		if decl := n.firstChildOfType("variable_declarator"); decl != nil {
			if id := decl.firstChildOfType("identifier"); id != nil {
				return id.content(source)
			}
		}
		return ""
	}
	if id := n.firstChildOfType("identifier", "property_identifier"); id != nil {
		return id.content(source)
	}
	return ""
}

func extractPythonName(n *node, source []byte) string {
	if id := n.firstChildOfType("identifier"); id != nil {
		return id.content(source)
	}
	return ""
}

// extractArrowFunctionName handles `const f = () => {}` / `const f =
// function() {}` shapes, which the node-type tables alone don't catch
// (grounded on the teacher's extractJSVariableFunctionSymbol).
func extractArrowFunctionName(n *node, source []byte) (name string, isFunction bool) {
	decl := n.firstChildOfType("variable_declarator")
	if decl == nil {
		return "", false
	}
	var hasFn bool
	for _, c := range decl.Children {
		if c.Type == "identifier" {
			name = c.content(source)
		}
		if c.Type == "arrow_function" || c.Type == "function" || c.Type == "function_expression" {
			hasFn = true
		}
	}
	return name, name != "" && hasFn
}
