package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch e := node.(type) {
	case *ast.LiteralExpr:
		return literalValue(e.Value), nil
	case *ast.GroupingExpr:
		return i.evaluateExpression(e.Expression, env)
	case *ast.VariableExpr:
		return i.lookUpVariable(e.Name, e, env)
	case *ast.AssignExpr:
		return i.evaluateAssignment(e, env)
	case *ast.UnaryExpr:
		return i.evaluateUnary(e, env)
	case *ast.BinaryExpr:
		return i.evaluateBinary(e, env)
	case *ast.LogicalExpr:
		return i.evaluateLogical(e, env)
	case *ast.CallExpr:
		return i.evaluateCall(e, env)
	case *ast.GetExpr:
		return i.evaluateGet(e, env)
	case *ast.SetExpr:
		return i.evaluateSet(e, env)
	case *ast.ThisExpr:
		return i.lookUpVariable(e.Keyword, e, env)
	case *ast.SuperExpr:
		return i.evaluateSuper(e, env)
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression type %T", node)
	}
}

func literalValue(raw any) runtime.Value {
	switch v := raw.(type) {
	case nil:
		return runtime.NilValue{}
	case bool:
		return runtime.BoolValue{Val: v}
	case float64:
		return runtime.NumberValue{Val: v}
	case string:
		return runtime.StringValue{Val: v}
	default:
		return runtime.NilValue{}
	}
}

func (i *Interpreter) evaluateAssignment(e *ast.AssignExpr, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(e.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[e]; ok {
		env.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}
	if i.globals.Assign(e.Name.Lexeme, value) {
		return value, nil
	}
	return nil, runtime.NewError(e.Name.Line, "Undefined variable '%s'.", e.Name.Lexeme)
}

func (i *Interpreter) evaluateUnary(e *ast.UnaryExpr, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluateExpression(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case scanner.Minus:
		number, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtime.NewError(e.Operator.Line, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -number.Val}, nil
	case scanner.Bang:
		return runtime.BoolValue{Val: !runtime.Truthy(right)}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported unary operator %s", e.Operator.Lexeme)
	}
}

// evaluateBinary handles arithmetic, comparison, and equality. Operands
// evaluate left to right before the operator applies. Division follows IEEE
// float semantics; dividing by zero yields an infinity or NaN, not an error.
func (i *Interpreter) evaluateBinary(e *ast.BinaryExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case scanner.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case scanner.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case scanner.Plus:
		if ln, lok := left.(runtime.NumberValue); lok {
			if rn, rok := right.(runtime.NumberValue); rok {
				return runtime.NumberValue{Val: ln.Val + rn.Val}, nil
			}
		}
		if ls, lok := left.(runtime.StringValue); lok {
			if rs, rok := right.(runtime.StringValue); rok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		return nil, runtime.NewError(e.Operator.Line, "Operands must be two numbers or two strings.")
	}

	ln, lok := left.(runtime.NumberValue)
	rn, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtime.NewError(e.Operator.Line, "Operands must be numbers.")
	}
	switch e.Operator.Type {
	case scanner.Minus:
		return runtime.NumberValue{Val: ln.Val - rn.Val}, nil
	case scanner.Star:
		return runtime.NumberValue{Val: ln.Val * rn.Val}, nil
	case scanner.Slash:
		return runtime.NumberValue{Val: ln.Val / rn.Val}, nil
	case scanner.Greater:
		return runtime.BoolValue{Val: ln.Val > rn.Val}, nil
	case scanner.GreaterEqual:
		return runtime.BoolValue{Val: ln.Val >= rn.Val}, nil
	case scanner.Less:
		return runtime.BoolValue{Val: ln.Val < rn.Val}, nil
	case scanner.LessEqual:
		return runtime.BoolValue{Val: ln.Val <= rn.Val}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported binary operator %s", e.Operator.Lexeme)
	}
}

// evaluateLogical short-circuits: the right operand is not evaluated when the
// left already decides, and the result is the deciding operand itself rather
// than a coerced boolean.
func (i *Interpreter) evaluateLogical(e *ast.LogicalExpr, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	if e.Operator.Type == scanner.Or {
		if runtime.Truthy(left) {
			return left, nil
		}
	} else if !runtime.Truthy(left) {
		return left, nil
	}
	return i.evaluateExpression(e.Right, env)
}

func (i *Interpreter) evaluateGet(e *ast.GetExpr, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(e.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtime.NewError(e.Name.Line, "Only instances have properties.")
	}
	// Fields shadow methods.
	if value, ok := instance.Fields[e.Name.Lexeme]; ok {
		return value, nil
	}
	if method := instance.Class.FindMethod(e.Name.Lexeme); method != nil {
		return method.Bind(instance), nil
	}
	return nil, runtime.NewError(e.Name.Line, "Undefined property '%s'.", e.Name.Lexeme)
}

// evaluateSet always writes into the instance's field map; fields are never
// validated against methods.
func (i *Interpreter) evaluateSet(e *ast.SetExpr, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(e.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, runtime.NewError(e.Name.Line, "Only instances have fields.")
	}
	value, err := i.evaluateExpression(e.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Fields[e.Name.Lexeme] = value
	return value, nil
}

// evaluateSuper starts the method search one level above the class whose
// method body contains the super expression (found via the resolved
// distance), not above the receiver's runtime class. That keeps partially
// overriding subclasses from recursing into their own overrides.
func (i *Interpreter) evaluateSuper(e *ast.SuperExpr, env *runtime.Environment) (runtime.Value, error) {
	distance := i.locals[e]
	superclass, _ := env.GetAt(distance, "super").(*runtime.ClassValue)
	if superclass == nil {
		return nil, runtime.NewError(e.Keyword.Line, "Can't use 'super' in a class with no superclass.")
	}
	// The `this` frame sits immediately inside the `super` frame.
	instance, _ := env.GetAt(distance-1, "this").(*runtime.InstanceValue)
	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, runtime.NewError(e.Method.Line, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
