package resolver

import (
	"errors"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/scanner"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens, scanDiags := scanner.New(source).Scan()
	if len(scanDiags) != 0 {
		t.Fatalf("scan diagnostics: %v", scanDiags)
	}
	statements, parseDiags := parser.New(tokens).Parse()
	if len(parseDiags) != 0 {
		t.Fatalf("parse diagnostics: %v", parseDiags)
	}
	return statements
}

func resolveSource(t *testing.T, source string) (map[ast.Expr]int, error) {
	t.Helper()
	return New().Resolve(parse(t, source))
}

func expectResolveError(t *testing.T, source, fragment string, line int) {
	t.Helper()
	_, err := resolveSource(t, source)
	if err == nil {
		t.Fatalf("expected resolution error for %q", source)
	}
	var resErr *Error
	if !errors.As(err, &resErr) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	if !strings.Contains(resErr.Message, fragment) {
		t.Fatalf("message %q does not contain %q", resErr.Message, fragment)
	}
	if resErr.Token.Line != line {
		t.Fatalf("error line: got %d want %d", resErr.Token.Line, line)
	}
}

func TestSelfReferentialInitializer(t *testing.T) {
	expectResolveError(t, "var a = 1;\n{\n  var a = a;\n}", "own initializer", 3)
}

func TestDuplicateLocalDeclaration(t *testing.T) {
	expectResolveError(t, "{\n  var a = 1;\n  var a = 2;\n}", "Already a variable", 3)
}

func TestGlobalRedeclarationIsAllowed(t *testing.T) {
	if _, err := resolveSource(t, "var a = 1; var a = 2;"); err != nil {
		t.Fatalf("global redeclaration must resolve: %v", err)
	}
}

func TestTopLevelReturn(t *testing.T) {
	expectResolveError(t, "return 1;", "top-level", 1)
}

func TestThisOutsideClass(t *testing.T) {
	expectResolveError(t, "print this;", "outside of a class", 1)
	expectResolveError(t, "fun f() {\n  return this;\n}", "outside of a class", 2)
}

func TestSuperOutsideClass(t *testing.T) {
	expectResolveError(t, "super.method();", "outside of a class", 1)
}

func TestSuperWithoutSuperclass(t *testing.T) {
	expectResolveError(t, "class A {\n  m() {\n    super.m();\n  }\n}", "no superclass", 3)
}

func TestClassCannotInheritFromItself(t *testing.T) {
	expectResolveError(t, "class A < A {}", "inherit from itself", 1)
}

func TestScopeDistances(t *testing.T) {
	source := `
var global = 1;
{
  var outer = 2;
  {
    var inner = 3;
    print inner;
    print outer;
    print global;
  }
}`
	statements := parse(t, source)
	locals, err := New().Resolve(statements)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	distances := make(map[string]int)
	resolvedNames := make(map[string]bool)
	for expr, depth := range locals {
		if v, ok := expr.(*ast.VariableExpr); ok {
			distances[v.Name.Lexeme] = depth
			resolvedNames[v.Name.Lexeme] = true
		}
	}
	if distances["inner"] != 0 {
		t.Fatalf("inner distance: got %d want 0", distances["inner"])
	}
	if distances["outer"] != 1 {
		t.Fatalf("outer distance: got %d want 1", distances["outer"])
	}
	if resolvedNames["global"] {
		t.Fatalf("global reference must fall through to the global environment")
	}
}

func TestClosureDistanceThroughFunction(t *testing.T) {
	source := `
{
  var captured = 1;
  fun inner() {
    print captured;
  }
}`
	locals, err := New().Resolve(parse(t, source))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	found := false
	for expr, depth := range locals {
		if v, ok := expr.(*ast.VariableExpr); ok && v.Name.Lexeme == "captured" {
			found = true
			// One hop: function body scope -> enclosing block scope.
			if depth != 1 {
				t.Fatalf("captured distance: got %d want 1", depth)
			}
		}
	}
	if !found {
		t.Fatalf("captured reference was not resolved")
	}
}

func TestThisAndSuperResolveInsideMethods(t *testing.T) {
	source := `
class A {
  greet() { return "a"; }
}
class B < A {
  greet() {
    print this;
    return super.greet();
  }
}`
	locals, err := New().Resolve(parse(t, source))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var thisDepth, superDepth = -1, -1
	for expr, depth := range locals {
		switch expr.(type) {
		case *ast.ThisExpr:
			thisDepth = depth
		case *ast.SuperExpr:
			superDepth = depth
		}
	}
	// Method body scope -> this scope (1); -> super scope (2).
	if thisDepth != 1 {
		t.Fatalf("this distance: got %d want 1", thisDepth)
	}
	if superDepth != 2 {
		t.Fatalf("super distance: got %d want 2", superDepth)
	}
}
