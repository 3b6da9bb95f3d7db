package runtime

import "fmt"

// Error is a runtime failure: type mismatch, arity mismatch, undefined
// variable or property, calling a non-callable. It aborts the current run at
// the point of failure and reports the offending source line.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a runtime error pinned to a source line.
func NewError(line int, format string, args ...any) *Error {
	return &Error{Line: line, Message: fmt.Sprintf(format, args...)}
}
