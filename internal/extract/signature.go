package extract

import "strings"

// extractSignature returns the declaration's first logical line (up to
// the opening brace, or the full line for brace-less forms), grounded on
// the teacher's extractFunctionSignature/extractTypeSignature
// (internal/chunk/extractor.go), generalized across the wider Kind set.
func extractSignature(content, language string) string {
	firstLine, _, _ := strings.Cut(content, "\n")
	firstLine = strings.TrimSpace(firstLine)

	switch language {
	case "python":
		return firstLine
	default:
		if idx := strings.Index(firstLine, "{"); idx != -1 {
			return strings.TrimSpace(firstLine[:idx])
		}
		return firstLine
	}
}

// extractDocComment looks at the line immediately preceding n's start for
// a line comment (grounded on the teacher's extractDocComment). Python
// docstrings live inside the body, not before it, so this intentionally
// returns "" there.
func extractDocComment(n *node, source []byte, language string) string {
	if language == "python" {
		return ""
	}
	if n.StartRow == 0 {
		return ""
	}

	lineStart := int(n.StartByte)
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}
	if lineStart <= 1 {
		return ""
	}

	prevLineEnd := lineStart - 1
	prevLineStart := prevLineEnd - 1
	for prevLineStart > 0 && source[prevLineStart-1] != '\n' {
		prevLineStart--
	}

	prevLine := strings.TrimSpace(string(source[prevLineStart:prevLineEnd]))
	if strings.HasPrefix(prevLine, "//") {
		return strings.TrimPrefix(prevLine, "//")
	}
	return ""
}
