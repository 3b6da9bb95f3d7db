// Package resolver performs the static scoping pass between parsing and
// evaluation. It mirrors the block and function nesting the interpreter will
// create at runtime and records, for every variable reference, how many
// frames out its binding lives. That distance is fixed for the life of the
// program; the interpreter never searches scopes by name for resolved
// references, which is what makes closures over shadowed names behave.
package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

// Error is a resolution failure. Unlike scan and parse diagnostics, the first
// resolution error aborts the run: execution would be unsound after one.
type Error struct {
	Token   scanner.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Token.Line, e.Message)
}

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// Resolver tracks a stack of in-progress scopes. Each scope maps a name to
// whether its initializer has finished; a declared-but-undefined entry is how
// self-referential initializers are caught.
type Resolver struct {
	scopes          []map[string]bool
	locals          map[ast.Expr]int
	currentFunction functionKind
	currentClass    classKind
}

// New creates a resolver with an empty (global) scope context.
func New() *Resolver {
	return &Resolver{locals: make(map[ast.Expr]int)}
}

// Resolve walks the statements and returns the scope-distance table keyed by
// expression node identity. References that resolve to no enclosing scope are
// absent from the table and fall through to the global environment at
// runtime.
func (r *Resolver) Resolve(statements []ast.Stmt) (map[ast.Expr]int, error) {
	if err := r.resolveStatements(statements); err != nil {
		return nil, err
	}
	return r.locals, nil
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if err := r.resolveStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		defer r.endScope()
		return r.resolveStatements(s.Statements)
	case *ast.VarStmt:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		if s.Initializer != nil {
			if err := r.resolveExpr(s.Initializer); err != nil {
				return err
			}
		}
		r.define(s.Name)
		return nil
	case *ast.FunctionStmt:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		r.define(s.Name)
		return r.resolveFunction(s, functionPlain)
	case *ast.ExpressionStmt:
		return r.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		return r.resolveExpr(s.Expression)
	case *ast.IfStmt:
		if err := r.resolveExpr(s.Condition); err != nil {
			return err
		}
		if err := r.resolveStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStmt(s.Else)
		}
		return nil
	case *ast.WhileStmt:
		if err := r.resolveExpr(s.Condition); err != nil {
			return err
		}
		return r.resolveStmt(s.Body)
	case *ast.ReturnStmt:
		if r.currentFunction == functionNone {
			return &Error{Token: s.Keyword, Message: "Can't return from top-level code."}
		}
		if s.Value != nil {
			return r.resolveExpr(s.Value)
		}
		return nil
	case *ast.ClassStmt:
		return r.resolveClass(s)
	default:
		return fmt.Errorf("resolver: unsupported statement type %T", stmt)
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) error {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	if err := r.declare(s.Name); err != nil {
		return err
	}
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			return &Error{Token: s.Superclass.Name, Message: "A class can't inherit from itself."}
		}
		r.currentClass = classSubclass
		if err := r.resolveExpr(s.Superclass); err != nil {
			return err
		}
		// Methods of a subclass close over a scope holding `super`.
		r.beginScope()
		defer r.endScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	defer r.endScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		if err := r.resolveFunction(method, kind); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionKind) error {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		if err := r.declare(param); err != nil {
			return err
		}
		r.define(param)
	}
	return r.resolveStatements(fn.Body)
}

func (r *Resolver) resolveExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return nil
	case *ast.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				return &Error{Token: e.Name, Message: "Can't read local variable in its own initializer."}
			}
		}
		r.resolveLocal(e, e.Name)
		return nil
	case *ast.AssignExpr:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		r.resolveLocal(e, e.Name)
		return nil
	case *ast.UnaryExpr:
		return r.resolveExpr(e.Right)
	case *ast.BinaryExpr:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *ast.LogicalExpr:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *ast.CallExpr:
		if err := r.resolveExpr(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := r.resolveExpr(arg); err != nil {
				return err
			}
		}
		return nil
	case *ast.GetExpr:
		// Property names are looked up dynamically; only the object resolves.
		return r.resolveExpr(e.Object)
	case *ast.SetExpr:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		return r.resolveExpr(e.Object)
	case *ast.ThisExpr:
		if r.currentClass == classNone {
			return &Error{Token: e.Keyword, Message: "Can't use 'this' outside of a class."}
		}
		r.resolveLocal(e, e.Keyword)
		return nil
	case *ast.SuperExpr:
		switch r.currentClass {
		case classNone:
			return &Error{Token: e.Keyword, Message: "Can't use 'super' outside of a class."}
		case classPlain:
			return &Error{Token: e.Keyword, Message: "Can't use 'super' in a class with no superclass."}
		}
		r.resolveLocal(e, e.Keyword)
		return nil
	case *ast.GroupingExpr:
		return r.resolveExpr(e.Expression)
	default:
		return fmt.Errorf("resolver: unsupported expression type %T", expr)
	}
}

// resolveLocal records the hop count to the innermost scope declaring name.
// Unresolved names are left to the global environment.
func (r *Resolver) resolveLocal(expr ast.Expr, name scanner.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks a name as existing but not yet initialized in the current
// scope. Redeclaring a name in the same local scope is an error; the global
// scope allows it.
func (r *Resolver) declare(name scanner.Token) error {
	if len(r.scopes) == 0 {
		return nil
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		return &Error{Token: name, Message: "Already a variable with this name in this scope."}
	}
	scope[name.Lexeme] = false
	return nil
}

func (r *Resolver) define(name scanner.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
