package interpreter

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func compile(t *testing.T, source string) ([]ast.Stmt, map[ast.Expr]int) {
	t.Helper()
	tokens, scanDiags := scanner.New(source).Scan()
	if len(scanDiags) != 0 {
		t.Fatalf("scan diagnostics: %v", scanDiags)
	}
	statements, parseDiags := parser.New(tokens).Parse()
	if len(parseDiags) != 0 {
		t.Fatalf("parse diagnostics: %v", parseDiags)
	}
	locals, err := resolver.New().Resolve(statements)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return statements, locals
}

// run executes source and returns the print output lines.
func run(t *testing.T, source string) []string {
	t.Helper()
	statements, locals := compile(t, source)
	var out bytes.Buffer
	interp := New(&out)
	interp.AddLocals(locals)
	if err := interp.Interpret(statements); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if out.Len() == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func expectOutput(t *testing.T, source string, want ...string) {
	t.Helper()
	got := run(t, source)
	if len(got) != len(want) {
		t.Fatalf("output lines: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func expectRuntimeError(t *testing.T, source, fragment string) *runtime.Error {
	t.Helper()
	statements, locals := compile(t, source)
	var out bytes.Buffer
	interp := New(&out)
	interp.AddLocals(locals)
	err := interp.Interpret(statements)
	if err == nil {
		t.Fatalf("expected runtime error for %q", source)
	}
	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	if !strings.Contains(rtErr.Message, fragment) {
		t.Fatalf("message %q does not contain %q", rtErr.Message, fragment)
	}
	return rtErr
}

func TestArithmeticPrecedence(t *testing.T) {
	expectOutput(t, "print 2 + 3 * 4;", "14")
	expectOutput(t, "print (2 + 3) * 4;", "20")
	expectOutput(t, "print 10 - 4 - 3;", "3")
	expectOutput(t, "print 1 + 2 * 3 - 4 / 2;", "5")
	expectOutput(t, "print -3 * -4;", "12")
}

func TestDivisionFollowsFloatSemantics(t *testing.T) {
	expectOutput(t, "print 7 / 2;", "3.5")
	expectOutput(t, "print 1 / 0;", "+Inf")
	expectOutput(t, "print -1 / 0;", "-Inf")
	expectOutput(t, "print 0 / 0;", "NaN")
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `print "foo" + "bar";`, "foobar")
	expectRuntimeError(t, `print "foo" + 1;`, "two numbers or two strings")
	expectRuntimeError(t, `print 1 + "foo";`, "two numbers or two strings")
}

func TestComparisonRequiresNumbers(t *testing.T) {
	expectOutput(t, "print 1 < 2;", "true")
	expectOutput(t, "print 2 <= 2;", "true")
	expectOutput(t, "print 1 > 2;", "false")
	expectRuntimeError(t, `print "a" < "b";`, "Operands must be numbers")
}

func TestEqualityNeverFails(t *testing.T) {
	expectOutput(t, `print 1 == "1";`, "false")
	expectOutput(t, "print nil == nil;", "true")
	expectOutput(t, "print nil == false;", "false")
	expectOutput(t, `print "a" != "b";`, "true")
}

func TestTruthinessInControlFlow(t *testing.T) {
	expectOutput(t, `if (0) print "zero is truthy"; else print "no";`, "zero is truthy")
	expectOutput(t, `if ("") print "empty is truthy";`, "empty is truthy")
	expectOutput(t, `if (nil) print "no"; else print "nil is falsy";`, "nil is falsy")
}

func TestLogicalShortCircuitReturnsOperand(t *testing.T) {
	expectOutput(t, `print "left" or sideEffect();`, "left")
	expectOutput(t, `print nil or "right";`, "right")
	expectOutput(t, `print false and sideEffect();`, "false")
	expectOutput(t, `print 1 and 2;`, "2")
}

func TestShadowing(t *testing.T) {
	expectOutput(t, "var a = 1; { var a = 2; print a; } print a;", "2", "1")
}

func TestClosureSharedStateBetweenCalls(t *testing.T) {
	source := `
fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var a = makeCounter();
print a();
print a();
var b = makeCounter();
print b();
print b();
`
	expectOutput(t, source, "1", "2", "1", "2")
}

func TestClosureCapturesByReference(t *testing.T) {
	source := `
var shared = "before";
fun capture() { print shared; }
shared = "after";
capture();
`
	expectOutput(t, source, "after")
}

func TestClosureOverShadowedName(t *testing.T) {
	// The classic binding test: the closure must keep seeing the binding
	// that was live at its definition site even after a shadowing
	// redeclaration in the surrounding block.
	source := `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}
`
	expectOutput(t, source, "global", "global")
}

func TestWhileLoop(t *testing.T) {
	expectOutput(t, "var i = 0; while (i < 3) { print i; i = i + 1; }", "0", "1", "2")
}

func TestForLoopDesugared(t *testing.T) {
	expectOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0", "1", "2")
}

func TestFunctionReturnAndImplicitNil(t *testing.T) {
	expectOutput(t, "fun f() { return 42; } print f();", "42")
	expectOutput(t, "fun f() {} print f();", "nil")
	expectOutput(t, "fun f() { return; } print f();", "nil")
}

func TestRecursion(t *testing.T) {
	source := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	expectOutput(t, source, "55")
}

func TestArgumentsEvaluateInSourceOrder(t *testing.T) {
	source := `
var trace = "";
fun mark(label) { trace = trace + label; return label; }
fun join(a, b, c) { return a + b + c; }
print join(mark("1"), mark("2"), mark("3"));
print trace;
`
	expectOutput(t, source, "123", "123")
}

func TestArityMismatch(t *testing.T) {
	expectRuntimeError(t, "fun f(a, b) {} f(1);", "Expected 2 arguments but got 1")
	expectRuntimeError(t, "fun f() {} f(1, 2);", "Expected 0 arguments but got 2")
}

func TestCallingNonCallable(t *testing.T) {
	expectRuntimeError(t, `"not a function"();`, "Can only call functions and classes")
	expectRuntimeError(t, "123();", "Can only call functions and classes")
}

func TestUndefinedVariable(t *testing.T) {
	err := expectRuntimeError(t, "print undefinedVar;", "Undefined variable 'undefinedVar'")
	if err.Line != 1 {
		t.Fatalf("error line: got %d want 1", err.Line)
	}
	expectRuntimeError(t, "missing = 1;", "Undefined variable 'missing'")
}

func TestClassInstantiationAndFields(t *testing.T) {
	source := `
class Point {}
var p = Point();
p.x = 3;
p.y = 4;
print p.x + p.y;
print p;
print Point;
`
	expectOutput(t, source, "7", "Point instance", "Point")
}

func TestMethodsBindThis(t *testing.T) {
	source := `
class Greeter {
  init(name) { this.name = name; }
  greet() { return "hello " + this.name; }
}
print Greeter("world").greet();
var method = Greeter("detached").greet;
print method();
`
	expectOutput(t, source, "hello world", "hello detached")
}

func TestInitializerAlwaysReturnsInstance(t *testing.T) {
	source := `
class Early {
  init() {
    this.x = 1;
    return;
    this.x = 2;
  }
}
print Early().x;
var e = Early();
print e.init().x;
`
	expectOutput(t, source, "1", "1")
}

func TestInheritanceAndSuperDispatch(t *testing.T) {
	source := `
class A {
  method() { print "A.method"; }
}
class B < A {
  method() {
    print "B.method";
    super.method();
  }
}
B().method();
`
	expectOutput(t, source, "B.method", "A.method")
}

func TestSuperResolvesFromDefiningClass(t *testing.T) {
	// C inherits test from B; inside B.test, super must mean A (the
	// superclass of the class defining the method), not B (the superclass
	// of the receiver's class).
	source := `
class A {
  say() { print "A"; }
}
class B < A {
  say() { print "B"; }
  test() { super.say(); }
}
class C < B {
  say() { print "C"; }
}
C().test();
`
	expectOutput(t, source, "A")
}

func TestInheritedMethodsAndFieldsShadowMethods(t *testing.T) {
	source := `
class Base {
  value() { return "method"; }
}
class Derived < Base {}
var d = Derived();
print d.value();
d.value = "field";
print d.value;
`
	expectOutput(t, source, "method", "field")
}

func TestUndefinedProperty(t *testing.T) {
	expectRuntimeError(t, "class C {} C().missing;", "Undefined property 'missing'")
}

func TestPropertyAccessOnNonInstance(t *testing.T) {
	expectRuntimeError(t, "var x = 1; x.field;", "Only instances have properties")
	expectRuntimeError(t, `"str".length = 1;`, "Only instances have fields")
}

func TestSuperclassMustBeAClass(t *testing.T) {
	err := expectRuntimeError(t, "var NotAClass = 1;\nclass Sub < NotAClass {}", "Superclass must be a class")
	if err.Line != 2 {
		t.Fatalf("error line: got %d want 2", err.Line)
	}
}

func TestConstructorArity(t *testing.T) {
	expectRuntimeError(t, "class C { init(a) {} } C();", "Expected 1 arguments but got 0")
	expectRuntimeError(t, "class C {} C(1);", "Expected 0 arguments but got 1")
}

func TestClockNative(t *testing.T) {
	statements, locals := compile(t, "var t = clock(); print t >= 0;")
	var out bytes.Buffer
	interp := New(&out)
	interp.AddLocals(locals)
	if err := interp.Interpret(statements); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "true" {
		t.Fatalf("clock output: %q", got)
	}
}

func TestRuntimeErrorStopsExecutionButKeepsPriorEffects(t *testing.T) {
	statements, locals := compile(t, "var a = 1;\nprint a;\nprint missing;\nprint 99;")
	var out bytes.Buffer
	interp := New(&out)
	interp.AddLocals(locals)
	err := interp.Interpret(statements)
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if got := strings.TrimSpace(out.String()); got != "1" {
		t.Fatalf("output before failure: %q", got)
	}
	// The completed declaration persists in the globals.
	if v, ok := interp.Globals().Get("a"); !ok || v != (runtime.NumberValue{Val: 1}) {
		t.Fatalf("global a after failed run: %v %v", v, ok)
	}
}

func TestPrintedNumberRescansToEqualValue(t *testing.T) {
	// Round trip: print a value, scan the printed text as a literal, and
	// compare. Holds for numbers (and trivially strings).
	for _, source := range []string{"1234", "45.67", "0.5"} {
		statements, locals := compile(t, "print "+source+";")
		var out bytes.Buffer
		interp := New(&out)
		interp.AddLocals(locals)
		if err := interp.Interpret(statements); err != nil {
			t.Fatalf("runtime error: %v", err)
		}
		printed := strings.TrimSpace(out.String())
		tokens, diags := scanner.New(printed).Scan()
		if len(diags) != 0 {
			t.Fatalf("re-scan of %q: %v", printed, diags)
		}
		if tokens[0].Type != scanner.Number {
			t.Fatalf("re-scan of %q produced %v", printed, tokens[0].Type)
		}
		original, _ := strconv.ParseFloat(source, 64)
		if tokens[0].Literal != original {
			t.Fatalf("round trip for %s: got %v", source, tokens[0].Literal)
		}
	}
}
