// Package driver wires the pipeline phases together behind the two entry
// points the surrounding tooling uses: Run for whole source files and
// EvalLine for the interactive prompt. It owns diagnostic collection and the
// persistent global environment of a session.
package driver

import (
	"errors"
	"io"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Session holds one interpreter and its global environment. A file run uses a
// fresh session; the REPL keeps one session alive across lines so globals
// persist.
type Session struct {
	interp *interpreter.Interpreter
}

// NewSession creates a session whose print output goes to stdout.
func NewSession(stdout io.Writer) *Session {
	return &Session{interp: interpreter.New(stdout)}
}

// Globals exposes the session's global environment, for completion and host
// inspection.
func (s *Session) Globals() *runtime.Environment {
	return s.interp.Globals()
}

// Run executes a whole source text. Scan diagnostics are exhaustive; with a
// clean scan, parse diagnostics are exhaustive; a resolve or runtime error is
// reported alone and aborts the run at the point of failure. An empty slice
// means the program ran to completion.
func (s *Session) Run(source string) []diag.Diagnostic {
	statements, diags := s.analyze(source)
	if len(diags) != 0 {
		return diags
	}
	if err := s.interp.Interpret(statements); err != nil {
		return []diag.Diagnostic{runtimeDiagnostic(err)}
	}
	return nil
}

// EvalLine executes one interactive line against the persistent globals.
// When the line's final statement is a bare expression, echo holds the string
// form of its value and hasEcho is true. Effects of statements that completed
// before a runtime error persist.
func (s *Session) EvalLine(line string) (echo string, hasEcho bool, diags []diag.Diagnostic) {
	statements, diags := s.analyze(line)
	if len(diags) != 0 {
		return "", false, diags
	}

	var trailing ast.Expr
	if n := len(statements); n > 0 {
		if exprStmt, ok := statements[n-1].(*ast.ExpressionStmt); ok {
			trailing = exprStmt.Expression
			statements = statements[:n-1]
		}
	}

	if err := s.interp.Interpret(statements); err != nil {
		return "", false, []diag.Diagnostic{runtimeDiagnostic(err)}
	}
	if trailing == nil {
		return "", false, nil
	}
	value, err := s.interp.Evaluate(trailing)
	if err != nil {
		return "", false, []diag.Diagnostic{runtimeDiagnostic(err)}
	}
	return runtime.Stringify(value), true, nil
}

// analyze runs scan, parse, and resolve, feeding the resolver's distance
// table to the interpreter on success.
func (s *Session) analyze(source string) ([]ast.Stmt, []diag.Diagnostic) {
	tokens, scanDiags := scanner.New(source).Scan()
	if len(scanDiags) != 0 {
		return nil, scanDiags
	}
	statements, parseDiags := parser.New(tokens).Parse()
	if len(parseDiags) != 0 {
		return nil, parseDiags
	}
	locals, err := resolver.New().Resolve(statements)
	if err != nil {
		return nil, []diag.Diagnostic{resolveDiagnostic(err)}
	}
	s.interp.AddLocals(locals)
	return statements, nil
}

func resolveDiagnostic(err error) diag.Diagnostic {
	var resErr *resolver.Error
	if errors.As(err, &resErr) {
		lexeme := resErr.Token.Lexeme
		if resErr.Token.Type == scanner.EOF {
			lexeme = ""
		}
		return diag.ErrorAt(diag.PhaseResolve, resErr.Token.Line, lexeme, resErr.Message)
	}
	return diag.Errorf(diag.PhaseResolve, 0, "%v", err)
}

func runtimeDiagnostic(err error) diag.Diagnostic {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return diag.Errorf(diag.PhaseRuntime, rtErr.Line, "%s", rtErr.Message)
	}
	return diag.Errorf(diag.PhaseRuntime, 0, "%v", err)
}
