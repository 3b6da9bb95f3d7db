package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) executeStatement(stmt ast.Stmt, env *runtime.Environment) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluateExpression(s.Expression, env)
		return err
	case *ast.PrintStmt:
		value, err := i.evaluateExpression(s.Expression, env)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.stdout, runtime.Stringify(value))
		return nil
	case *ast.VarStmt:
		var value runtime.Value = runtime.NilValue{}
		if s.Initializer != nil {
			var err error
			value, err = i.evaluateExpression(s.Initializer, env)
			if err != nil {
				return err
			}
		}
		env.Define(s.Name.Lexeme, value)
		return nil
	case *ast.BlockStmt:
		return i.executeBlock(s.Statements, runtime.NewEnvironment(env))
	case *ast.IfStmt:
		condition, err := i.evaluateExpression(s.Condition, env)
		if err != nil {
			return err
		}
		if runtime.Truthy(condition) {
			return i.executeStatement(s.Then, env)
		}
		if s.Else != nil {
			return i.executeStatement(s.Else, env)
		}
		return nil
	case *ast.WhileStmt:
		for {
			condition, err := i.evaluateExpression(s.Condition, env)
			if err != nil {
				return err
			}
			if !runtime.Truthy(condition) {
				return nil
			}
			if err := i.executeStatement(s.Body, env); err != nil {
				return err
			}
		}
	case *ast.FunctionStmt:
		fn := &runtime.FunctionValue{Declaration: s, Closure: env}
		env.Define(s.Name.Lexeme, fn)
		return nil
	case *ast.ReturnStmt:
		var value runtime.Value = runtime.NilValue{}
		if s.Value != nil {
			var err error
			value, err = i.evaluateExpression(s.Value, env)
			if err != nil {
				return err
			}
		}
		return returnSignal{value: value}
	case *ast.ClassStmt:
		return i.executeClassDeclaration(s, env)
	default:
		return fmt.Errorf("interpreter: unsupported statement type %T", stmt)
	}
}

// executeBlock runs statements inside the given environment, which is
// discarded when the block exits unless a closure captured it.
func (i *Interpreter) executeBlock(statements []ast.Stmt, env *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClassDeclaration(s *ast.ClassStmt, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if s.Superclass != nil {
		value, err := i.evaluateExpression(s.Superclass, env)
		if err != nil {
			return err
		}
		var ok bool
		superclass, ok = value.(*runtime.ClassValue)
		if !ok {
			return runtime.NewError(s.Superclass.Name.Line, "Superclass must be a class.")
		}
	}

	// The class name is bound before the methods are built so a method body
	// can refer to the class itself.
	env.Define(s.Name.Lexeme, runtime.NilValue{})

	methodEnv := env
	if superclass != nil {
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(s.Methods))
	for _, method := range s.Methods {
		methods[method.Name.Lexeme] = &runtime.FunctionValue{
			Declaration:   method,
			Closure:       methodEnv,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &runtime.ClassValue{
		Name:       s.Name.Lexeme,
		Superclass: superclass,
		Methods:    methods,
	}
	env.Assign(s.Name.Lexeme, class)
	return nil
}
