package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func (i *Interpreter) evaluateCall(e *ast.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(e.Callee, env)
	if err != nil {
		return nil, err
	}
	// Arguments evaluate in source order before dispatch.
	args := make([]runtime.Value, 0, len(e.Arguments))
	for _, argument := range e.Arguments {
		value, err := i.evaluateExpression(argument, env)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return i.callValue(callee, args, e.Paren)
}

// callValue is the single dispatch point for everything invokable: user
// functions, bound methods, classes (construction), and natives. Arity is
// checked before any parameter binds.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, paren scanner.Token) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, fn.Closure, args, paren)
	case *runtime.BoundMethodValue:
		return i.invokeFunction(fn.Function, fn.This, args, paren)
	case *runtime.ClassValue:
		return i.construct(fn, args, paren)
	case runtime.NativeFunctionValue:
		if len(args) != fn.Arity {
			return nil, runtime.NewError(paren.Line, "Expected %d arguments but got %d.", fn.Arity, len(args))
		}
		return fn.Impl(&runtime.NativeCallContext{}, args)
	default:
		return nil, runtime.NewError(paren.Line, "Can only call functions and classes.")
	}
}

// invokeFunction executes a user function body in a fresh frame whose parent
// is the function's captured environment (or the receiver frame for bound
// methods). A return signal surfacing from the body carries the result;
// otherwise the result is nil. Initializers always yield their receiver,
// explicit return value or not.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, parent *runtime.Environment, args []runtime.Value, paren scanner.Token) (runtime.Value, error) {
	params := fn.Declaration.Params
	if len(args) != len(params) {
		return nil, runtime.NewError(paren.Line, "Expected %d arguments but got %d.", len(params), len(args))
	}
	env := runtime.NewEnvironment(parent)
	for idx, param := range params {
		env.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(fn.Declaration.Body, env)
	if err != nil {
		signal, ok := asReturn(err)
		if !ok {
			return nil, err
		}
		if fn.IsInitializer {
			return i.receiverOf(parent), nil
		}
		return signal.value, nil
	}
	if fn.IsInitializer {
		return i.receiverOf(parent), nil
	}
	return runtime.NilValue{}, nil
}

// receiverOf digs `this` out of a bound method's receiver frame.
func (i *Interpreter) receiverOf(parent *runtime.Environment) runtime.Value {
	if this, ok := parent.Get("this"); ok {
		return this
	}
	return runtime.NilValue{}
}

// construct creates an instance and runs the init method, if the class chain
// declares one, with the call's arguments. The instance is the call result
// regardless of what init returns.
func (i *Interpreter) construct(class *runtime.ClassValue, args []runtime.Value, paren scanner.Token) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	initializer := class.FindMethod("init")
	if initializer == nil {
		if len(args) != 0 {
			return nil, runtime.NewError(paren.Line, "Expected 0 arguments but got %d.", len(args))
		}
		return instance, nil
	}
	bound := initializer.Bind(instance)
	if _, err := i.invokeFunction(bound.Function, bound.This, args, paren); err != nil {
		return nil, err
	}
	return instance, nil
}
