package interpreter

import (
	"errors"
	"io"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Interpreter walks the syntax tree, evaluating expressions and executing
// statements against a chain of environments. One interpreter owns one global
// environment; an interactive session reuses the same interpreter across
// lines so globals persist.
type Interpreter struct {
	globals *runtime.Environment
	locals  map[ast.Expr]int
	stdout  io.Writer
}

// New creates an interpreter whose print statements write to stdout. A nil
// writer discards print output. Native functions are installed in the fresh
// global environment.
func New(stdout io.Writer) *Interpreter {
	if stdout == nil {
		stdout = io.Discard
	}
	i := &Interpreter{
		globals: runtime.NewEnvironment(nil),
		locals:  make(map[ast.Expr]int),
		stdout:  stdout,
	}
	registerNatives(i.globals)
	return i
}

// Globals exposes the global environment (REPL completion, host embedding).
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// AddLocals merges a resolver's scope-distance table. Node identities are
// unique per parse, so tables from successive interactive lines never
// collide.
func (i *Interpreter) AddLocals(locals map[ast.Expr]int) {
	for expr, depth := range locals {
		i.locals[expr] = depth
	}
}

// Interpret executes a resolved statement sequence against the global
// environment. The returned error, if any, is a *runtime.Error carrying the
// offending source line; execution stops at the failing statement and the
// effects of prior statements persist.
func (i *Interpreter) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, i.globals); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate evaluates one resolved expression against the global environment.
// The interactive prompt uses it to echo the value of a trailing bare
// expression.
func (i *Interpreter) Evaluate(expr ast.Expr) (runtime.Value, error) {
	return i.evaluateExpression(expr, i.globals)
}

// lookUpVariable reads a variable using its statically resolved distance,
// falling through to the global environment for unresolved names.
func (i *Interpreter) lookUpVariable(name scanner.Token, expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return env.GetAt(distance, name.Lexeme), nil
	}
	if value, ok := i.globals.Get(name.Lexeme); ok {
		return value, nil
	}
	return nil, runtime.NewError(name.Line, "Undefined variable '%s'.", name.Lexeme)
}

// returnSignal carries a return value up the statement-execution stack to the
// nearest enclosing function invocation. It travels as an error but is not a
// failure; callValue intercepts it.
type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return outside function" }

func asReturn(err error) (returnSignal, bool) {
	var signal returnSignal
	ok := errors.As(err, &signal)
	return signal, ok
}
