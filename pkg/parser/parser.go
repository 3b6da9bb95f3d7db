// Package parser turns the scanner's token stream into the syntax tree. It is
// a recursive-descent parser with one function per grammar rule; operator
// precedence is encoded by the order in which the rules call each other. On a
// syntax error the parser records a diagnostic and resynchronizes at the next
// likely statement boundary, so independent errors in one file are all
// reported in a single pass.
package parser

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/scanner"
)

// maxArguments mirrors the language limit on call arity.
const maxArguments = 255

// errSyntax unwinds the rule stack back to the statement level after a
// diagnostic has been recorded.
var errSyntax = errors.New("syntax error")

// Parser consumes a token slice produced by the scanner.
type Parser struct {
	tokens  []scanner.Token
	current int
	diags   []diag.Diagnostic
}

// New creates a parser over a scanned token stream. The stream must end with
// an EOF token.
func New(tokens []scanner.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole stream and returns the statements that parsed
// cleanly plus every syntax diagnostic encountered. A non-empty diagnostic
// slice means the statement list is incomplete and must not be executed.
func (p *Parser) Parse() ([]ast.Stmt, []diag.Diagnostic) {
	var statements []ast.Stmt
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.diags
}

// ParseExpression parses the stream as a single expression, used by the parse
// command to print standalone expression trees.
func (p *Parser) ParseExpression() (ast.Expr, []diag.Diagnostic) {
	expr, err := p.expression()
	if err != nil {
		return nil, p.diags
	}
	return expr, p.diags
}

func (p *Parser) declaration() ast.Stmt {
	var stmt ast.Stmt
	var err error
	switch {
	case p.match(scanner.Class):
		stmt, err = p.classDeclaration()
	case p.match(scanner.Fun):
		stmt, err = p.function("function")
	case p.match(scanner.Var):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(scanner.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}
	var superclass *ast.VariableExpr
	if p.match(scanner.Less) {
		superName, err := p.consume(scanner.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.VariableExpr{Name: superName}
	}
	if _, err := p.consume(scanner.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*ast.FunctionStmt
	for !p.check(scanner.RightBrace) && !p.atEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.consume(scanner.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

func (p *Parser) function(kind string) (*ast.FunctionStmt, error) {
	name, err := p.consume(scanner.Identifier, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.LeftParen, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return nil, err
	}
	var params []scanner.Token
	if !p.check(scanner.RightParen) {
		for {
			if len(params) >= maxArguments {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArguments))
			}
			param, err := p.consume(scanner.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(scanner.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.LeftBrace, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	body, err := p.blockStatements()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(scanner.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expr
	if p.match(scanner.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.VarStmt{Name: name, Initializer: initializer}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(scanner.Print):
		return p.printStatement()
	case p.match(scanner.LeftBrace):
		statements, err := p.blockStatements()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Statements: statements}, nil
	case p.match(scanner.If):
		return p.ifStatement()
	case p.match(scanner.While):
		return p.whileStatement()
	case p.match(scanner.For):
		return p.forStatement()
	case p.match(scanner.Return):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Expression: value}, nil
}

func (p *Parser) blockStatements() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.check(scanner.RightBrace) && !p.atEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(scanner.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(scanner.Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Condition: condition, Body: body}, nil
}

// forStatement desugars `for (init; cond; incr) body` into blocks and a while
// loop; there is no for node at runtime.
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(scanner.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(scanner.Semicolon):
		initializer = nil
	case p.match(scanner.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.check(scanner.Semicolon) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(scanner.RightParen) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.RightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.LiteralExpr{Value: true}
	}
	body = &ast.WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{initializer, body}}
	}
	return body, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var value ast.Expr
	var err error
	if !p.check(scanner.Semicolon) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(scanner.Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expression: expr}, nil
}

// synchronize discards tokens until a probable statement boundary so the
// parser can report further independent errors.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == scanner.Semicolon {
			return
		}
		switch p.peek().Type {
		case scanner.Class, scanner.Fun, scanner.Var, scanner.For,
			scanner.If, scanner.While, scanner.Print, scanner.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) consume(t scanner.TokenType, message string) (scanner.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return scanner.Token{}, p.report(p.peek(), message)
}

// report records a diagnostic against a token and returns the unwinding
// sentinel.
func (p *Parser) report(token scanner.Token, message string) error {
	lexeme := token.Lexeme
	if token.Type == scanner.EOF {
		lexeme = ""
	}
	p.diags = append(p.diags, diag.ErrorAt(diag.PhaseParse, token.Line, lexeme, message))
	return errSyntax
}

func (p *Parser) match(types ...scanner.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t scanner.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) advance() scanner.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == scanner.EOF
}

func (p *Parser) peek() scanner.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() scanner.Token {
	return p.tokens[p.current-1]
}
