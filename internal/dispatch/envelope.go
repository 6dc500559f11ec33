// Package dispatch is the ambient MCP tool surface spec.md §6 describes
// as out-of-core: a registry of typed request/response operations wired
// to github.com/modelcontextprotocol/go-sdk, each backed by the engine's
// lifecycle.Bundle.
//
// Grounded on the teacher's internal/mcp/server.go registerTools/mcp.AddTool
// pattern (the SDK-native typed-handler registration the teacher actually
// serves traffic through, as opposed to its CallTool/ListTools generic
// string-keyed surface, which this package does not carry forward) and
// internal/mcp/format.go's response-envelope shape.
package dispatch

// Envelope is the tagged-variant response every tool returns (spec.md §6
// "success, mode, error, detail-handle, data").
type Envelope struct {
	Success      bool       `json:"success"`
	Mode         string     `json:"mode,omitempty" jsonschema:"full, summary, or empty when the tool has no shaped result"`
	Error        *ToolError `json:"error,omitempty"`
	DetailHandle *string    `json:"detail_handle,omitempty" jsonschema:"opaque handle for resolve_detail, present when the response was summarized"`
	Data         any        `json:"data,omitempty"`
}

// ToolError is the structured error carried inside a failed Envelope,
// grounded on internal/engineerr's taxonomy rather than a bare string so
// callers can branch on Code and Retryable.
type ToolError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func errEnvelope(err error) Envelope {
	return Envelope{Success: false, Error: toToolError(err)}
}

func dataEnvelope(mode string, handle *string, data any) Envelope {
	return Envelope{Success: true, Mode: mode, DetailHandle: handle, Data: data}
}
