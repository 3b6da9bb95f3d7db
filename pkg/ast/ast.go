// Package ast defines the syntax tree produced by the parser. The node set is
// closed: evaluation and resolution dispatch over these types exhaustively,
// so adding a node without handling it everywhere is caught immediately.
//
// Nodes are immutable once built. Expression nodes are always heap-allocated
// by the parser, so pointer identity serves as the node key for the
// resolver's scope-distance table.
package ast

import "lox/interpreter-go/pkg/scanner"

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// LiteralExpr holds a literal produced by the scanner: float64, string, bool,
// or nil.
type LiteralExpr struct {
	Value any
}

// VariableExpr reads a variable.
type VariableExpr struct {
	Name scanner.Token
}

// AssignExpr writes a previously declared variable.
type AssignExpr struct {
	Name  scanner.Token
	Value Expr
}

// UnaryExpr is `!operand` or `-operand`.
type UnaryExpr struct {
	Operator scanner.Token
	Right    Expr
}

// BinaryExpr covers arithmetic, comparison, and equality operators.
type BinaryExpr struct {
	Left     Expr
	Operator scanner.Token
	Right    Expr
}

// LogicalExpr is `and` / `or` with short-circuit evaluation.
type LogicalExpr struct {
	Left     Expr
	Operator scanner.Token
	Right    Expr
}

// CallExpr invokes a callee. Paren is the closing parenthesis, kept for
// runtime error lines.
type CallExpr struct {
	Callee    Expr
	Paren     scanner.Token
	Arguments []Expr
}

// GetExpr reads a property from an object.
type GetExpr struct {
	Object Expr
	Name   scanner.Token
}

// SetExpr writes a property on an object.
type SetExpr struct {
	Object Expr
	Name   scanner.Token
	Value  Expr
}

// ThisExpr is the `this` keyword inside a method body.
type ThisExpr struct {
	Keyword scanner.Token
}

// SuperExpr is `super.method` inside a subclass method body.
type SuperExpr struct {
	Keyword scanner.Token
	Method  scanner.Token
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Expression Expr
}

func (*LiteralExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}
func (*GroupingExpr) exprNode() {}

// ExpressionStmt evaluates an expression for its side effects.
type ExpressionStmt struct {
	Expression Expr
}

// PrintStmt writes the value of its expression to the output channel.
type PrintStmt struct {
	Expression Expr
}

// VarStmt declares a variable; Initializer may be nil (the variable starts
// as nil).
type VarStmt struct {
	Name        scanner.Token
	Initializer Expr
}

// BlockStmt runs its statements in a fresh child environment.
type BlockStmt struct {
	Statements []Stmt
}

// IfStmt picks a branch on the condition's truthiness; Else may be nil.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// WhileStmt loops while the condition is truthy. `for` loops desugar into
// this node wrapped in blocks; there is no separate for node.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// FunctionStmt declares a named function or a class method.
type FunctionStmt struct {
	Name   scanner.Token
	Params []scanner.Token
	Body   []Stmt
}

// ReturnStmt returns from the nearest enclosing function; Value may be nil.
type ReturnStmt struct {
	Keyword scanner.Token
	Value   Expr
}

// ClassStmt declares a class. Superclass is nil when the class does not
// inherit.
type ClassStmt struct {
	Name       scanner.Token
	Superclass *VariableExpr
	Methods    []*FunctionStmt
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*ClassStmt) stmtNode()      {}
