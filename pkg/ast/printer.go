package ast

import (
	"fmt"
	"strings"

	"lox/interpreter-go/pkg/scanner"
)

// Print renders an expression in parenthesized prefix form, e.g.
// `(* (- 123.0) (group 45.67))`. Used by the parse command and by parser tests
// to assert tree shape without walking nodes by hand.
func Print(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		return printLiteral(e.Value)
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("= "+e.Name.Lexeme, e.Value)
	case *UnaryExpr:
		return parenthesize(e.Operator.Lexeme, e.Right)
	case *BinaryExpr:
		return parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *LogicalExpr:
		return parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *CallExpr:
		return parenthesize("call", append([]Expr{e.Callee}, e.Arguments...)...)
	case *GetExpr:
		return parenthesize(". "+e.Name.Lexeme, e.Object)
	case *SetExpr:
		return parenthesize("= . "+e.Name.Lexeme, e.Object, e.Value)
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return "(super " + e.Method.Lexeme + ")"
	case *GroupingExpr:
		return parenthesize("group", e.Expression)
	default:
		return fmt.Sprintf("<unknown expr %T>", expr)
	}
}

func printLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return scanner.FormatNumberLiteral(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteByte(' ')
		b.WriteString(Print(expr))
	}
	b.WriteByte(')')
	return b.String()
}
