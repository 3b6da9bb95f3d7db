// Package runtime defines the value model and environment chain the
// interpreter evaluates against. Values are a closed set of kinds; callables
// are plain data here and are invoked by the interpreter, which type-switches
// on the callee kind.
package runtime

import (
	"fmt"
	"strconv"

	"lox/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNil
	KindFunction
	KindNativeFunction
	KindClass
	KindBoundMethod
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNil:
		return "nil"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindClass:
		return "class"
	case KindBoundMethod:
		return "bound_method"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NilValue struct{}

func (v NilValue) Kind() Kind { return KindNil }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function: its declaration plus the
// environment active where it was declared. Closures share that environment
// by reference, so mutations of captured variables are visible to every
// closure that captured them.
type FunctionValue struct {
	Declaration   *ast.FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Bind produces the method bound to a specific receiver. The bound method's
// captured environment layers a `this` binding over the method's closure.
func (v *FunctionValue) Bind(instance *InstanceValue) *BoundMethodValue {
	env := NewEnvironment(v.Closure)
	env.Define("this", instance)
	return &BoundMethodValue{Function: v, This: env}
}

// NativeCallContext carries host state into native implementations.
type NativeCallContext struct{}

// NativeFunctionValue is a host-provided builtin such as clock.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  func(ctx *NativeCallContext, args []Value) (Value, error)
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// ClassValue is a class declaration's runtime form. Calling it constructs an
// instance.
type ClassValue struct {
	Name       string
	Superclass *ClassValue
	Methods    map[string]*FunctionValue
}

func (v *ClassValue) Kind() Kind { return KindClass }

// FindMethod walks this class then its superclass chain.
func (v *ClassValue) FindMethod(name string) *FunctionValue {
	if method, ok := v.Methods[name]; ok {
		return method
	}
	if v.Superclass != nil {
		return v.Superclass.FindMethod(name)
	}
	return nil
}

// BoundMethodValue is a user function closed over a receiver. This holds the
// environment frame that binds `this`; the interpreter uses it as the frame
// parent when the method is invoked.
type BoundMethodValue struct {
	Function *FunctionValue
	This     *Environment
}

func (v *BoundMethodValue) Kind() Kind { return KindBoundMethod }

//-----------------------------------------------------------------------------
// Instances
//-----------------------------------------------------------------------------

// InstanceValue is an object created by calling a class. Fields come into
// existence on first assignment.
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

//-----------------------------------------------------------------------------
// Shared semantics
//-----------------------------------------------------------------------------

// Truthy reports the language's truthiness rule: nil and false are falsy,
// everything else (including 0 and "") is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal implements `==`: nil equals only nil, scalars compare by value,
// callables and instances compare by identity. It never fails.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NativeFunctionValue:
		// Natives are singletons registered by name; the Impl field makes the
		// struct itself uncomparable.
		bv, ok := b.(NativeFunctionValue)
		return ok && av.Name == bv.Name
	default:
		// Pointer identity for functions, classes, bound methods, instances.
		return a == b
	}
}

// Stringify renders a value on the print channel: numbers drop a trailing
// `.0`, nil prints as "nil", strings print raw without quotes.
func Stringify(v Value) string {
	switch val := v.(type) {
	case NilValue:
		return "nil"
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case NumberValue:
		return strconv.FormatFloat(val.Val, 'f', -1, 64)
	case StringValue:
		return val.Val
	case *FunctionValue:
		return "<fn " + val.Declaration.Name.Lexeme + ">"
	case NativeFunctionValue:
		return "<native fn>"
	case *ClassValue:
		return val.Name
	case *BoundMethodValue:
		return "<fn " + val.Function.Declaration.Name.Lexeme + ">"
	case *InstanceValue:
		return val.Class.Name + " instance"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
