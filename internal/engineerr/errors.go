package engineerr

import "fmt"

// EngineError is the structured error type returned across every public
// engine boundary: dispatch responses, ingest failures, query branch errors.
type EngineError struct {
	Code Code
	// Message is the human-readable message.
	Message string
	// Category and Severity are derived from Code.
	Category Category
	Severity Severity
	// Details carries structured context (e.g. "path", "branch", "handle").
	Details map[string]string
	// Recovery lists concrete next actions the caller can take.
	Recovery []string
	// Cause is the wrapped underlying error, if any.
	Cause error
	// Retryable indicates the operation can be retried as-is.
	Retryable bool
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is/errors.As chains to Cause.
func (e *EngineError) Unwrap() error { return e.Cause }

// Is matches on Code, so errors.Is(err, New(CodeNotFound, "", nil)) works.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds an EngineError, deriving category/severity/retryable from code.
func New(code Code, message string, cause error) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Category:  categoryFor(code),
		Severity:  severityFor(code),
		Cause:     cause,
		Retryable: retryableFor(code),
	}
}

// Wrap builds an EngineError from an existing error, reusing its message.
func Wrap(code Code, err error) *EngineError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// WithDetail adds a key/value detail and returns the receiver for chaining.
func (e *EngineError) WithDetail(key, value string) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithRecovery appends a recovery hint and returns the receiver for chaining.
func (e *EngineError) WithRecovery(hint string) *EngineError {
	e.Recovery = append(e.Recovery, hint)
	return e
}

// IsRetryable reports whether err is an EngineError with Retryable set.
func IsRetryable(err error) bool {
	ae, ok := err.(*EngineError)
	return ok && ae.Retryable
}

// IsFatal reports whether err is an EngineError with SeverityFatal.
func IsFatal(err error) bool {
	ae, ok := err.(*EngineError)
	return ok && ae.Severity == SeverityFatal
}

// GetCode extracts the Code from err, or "" if err is not an EngineError.
func GetCode(err error) Code {
	if ae, ok := err.(*EngineError); ok {
		return ae.Code
	}
	return ""
}
