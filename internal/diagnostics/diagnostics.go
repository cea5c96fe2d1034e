package diagnostics

import (
	"fmt"

	"github.com/typestub/typestub/internal/token"
)

type ErrorCode string

const (
	// ErrL001 is a lexical error surfaced verbatim from the tokenizer.
	ErrL001 ErrorCode = "L001"
	// ErrP001 is a grammar violation: a token that cannot extend the parse.
	ErrP001 ErrorCode = "P001"
	// ErrS001 is a construction failure: grammatical input rejected by a
	// builder operation.
	ErrS001 ErrorCode = "S001"
)

// DiagnosticError is the single error channel of the parser. Lexical,
// syntactic and semantic-construction failures all arrive as one of these;
// callers can only tell them apart by Code.
type DiagnosticError struct {
	Code     ErrorCode
	File     string
	Location token.Location
	Message  string
}

func (e *DiagnosticError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: [%s] %s", e.File, e.Location.StartLine, e.Location.StartCol, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: [%s] %s", e.Location.StartLine, e.Location.StartCol, e.Code, e.Message)
}

// NewError builds a located error from the offending token.
func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Location: tok.Loc(),
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewErrorAt builds a located error from an explicit span.
func NewErrorAt(code ErrorCode, loc token.Location, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}
