package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/standardbeagle/codeengine/internal/engineerr"
)

// toToolError maps any error surfaced from a handler into the envelope's
// ToolError, preferring an *engineerr.EngineError's own code/retryable
// fields when the error chain carries one (internal/mcp/errors.go's
// MapError does the same kind of translation for the teacher's JSON-RPC
// error codes).
func toToolError(err error) *ToolError {
	if err == nil {
		return nil
	}
	var ee *engineerr.EngineError
	if errors.As(err, &ee) {
		return &ToolError{Code: string(ee.Code), Message: ee.Message, Retryable: ee.Retryable}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &ToolError{Code: string(engineerr.CodeDeadlineExceeded), Message: err.Error(), Retryable: true}
	case errors.Is(err, context.Canceled):
		return &ToolError{Code: string(engineerr.CodeCancelled), Message: err.Error(), Retryable: false}
	default:
		return &ToolError{Code: string(engineerr.CodeIO), Message: err.Error(), Retryable: true}
	}
}

// validationError builds an EngineError for a rejected input, returned
// directly as the handler's error (not wrapped in an Envelope) since the
// MCP SDK treats a non-nil handler error as a protocol-level tool-call
// failure, the same distinction the teacher's NewInvalidParamsError draws
// against its runtime MapError path.
func validationError(format string, args ...any) error {
	return engineerr.New(engineerr.CodeValidation, fmt.Sprintf(format, args...), nil)
}

// backpressureError reports that the engine is refusing new ingest work
// under critical memory pressure (spec.md §5's beyond-pressure-critical
// action; see internal/lifecycle/pressure.go's comment naming this
// package as the owner of surfacing it).
func backpressureError(op string) *ToolError {
	return &ToolError{
		Code:      string(engineerr.CodeBackpressure),
		Message:   fmt.Sprintf("%s refused: engine is under critical memory pressure", op),
		Retryable: true,
	}
}
