package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/scanner"
)

// Precedence climbs from assignment (lowest) through logical or/and,
// equality, comparison, term, factor, unary, and call up to primary.

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(scanner.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value}, nil
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
		}
		// Report but keep parsing; a bad assignment target does not require
		// resynchronization.
		p.report(equals, "Invalid assignment target.")
	}
	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(scanner.Or) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &ast.LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(scanner.And) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, scanner.BangEqual, scanner.EqualEqual)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.term, scanner.Greater, scanner.GreaterEqual, scanner.Less, scanner.LessEqual)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.factor, scanner.Minus, scanner.Plus)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binaryLevel(p.unary, scanner.Slash, scanner.Star)
}

// binaryLevel parses one left-associative binary precedence level.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), types ...scanner.TokenType) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(types...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(scanner.Bang, scanner.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: operator, Right: right}, nil
	}
	return p.call()
}

// call parses chained call and property-access suffixes left to right, so
// `f()(x)` and `a.b.c` associate the way they read.
func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(scanner.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(scanner.Dot):
			name, err := p.consume(scanner.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var arguments []ast.Expr
	if !p.check(scanner.RightParen) {
		for {
			if len(arguments) >= maxArguments {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArguments))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !p.match(scanner.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(scanner.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: callee, Paren: paren, Arguments: arguments}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(scanner.False):
		return &ast.LiteralExpr{Value: false}, nil
	case p.match(scanner.True):
		return &ast.LiteralExpr{Value: true}, nil
	case p.match(scanner.Nil):
		return &ast.LiteralExpr{Value: nil}, nil
	case p.match(scanner.Number, scanner.String):
		return &ast.LiteralExpr{Value: p.previous().Literal}, nil
	case p.match(scanner.Identifier):
		return &ast.VariableExpr{Name: p.previous()}, nil
	case p.match(scanner.This):
		return &ast.ThisExpr{Keyword: p.previous()}, nil
	case p.match(scanner.Super):
		keyword := p.previous()
		if _, err := p.consume(scanner.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(scanner.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &ast.SuperExpr{Keyword: keyword, Method: method}, nil
	case p.match(scanner.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(scanner.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{Expression: expr}, nil
	default:
		return nil, p.report(p.peek(), "Expect expression.")
	}
}
