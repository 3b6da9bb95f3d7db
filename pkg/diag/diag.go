// Package diag defines the diagnostic records shared by every phase of the
// pipeline. Scanner and parser diagnostics accumulate; resolver and runtime
// diagnostics abort the run that produced them.
package diag

import "fmt"

// Phase identifies the pipeline stage that produced a diagnostic.
type Phase int

const (
	PhaseScan Phase = iota
	PhaseParse
	PhaseResolve
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseParse:
		return "parse"
	case PhaseResolve:
		return "resolve"
	case PhaseRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("unknown_phase_%d", int(p))
	}
}

// Diagnostic is one reported problem, tied to a source line. Where is an
// optional token context such as ` at 'foo'` or ` at end`.
type Diagnostic struct {
	Phase   Phase
	Line    int
	Where   string
	Message string
}

// String renders the diagnostic in the interpreter's terminal report format.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Errorf builds a diagnostic with a formatted message and no token context.
func Errorf(phase Phase, line int, format string, args ...any) Diagnostic {
	return Diagnostic{Phase: phase, Line: line, Message: fmt.Sprintf(format, args...)}
}

// ErrorAt builds a diagnostic pointing at a specific token lexeme.
func ErrorAt(phase Phase, line int, lexeme, message string) Diagnostic {
	where := " at end"
	if lexeme != "" {
		where = fmt.Sprintf(" at '%s'", lexeme)
	}
	return Diagnostic{Phase: phase, Line: line, Where: where, Message: message}
}
