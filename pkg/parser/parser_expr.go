package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Expression parsing using a Pratt parser.
//
// Precedence levels, loosest first:
//
//	PrecedenceLowest
//	PrecedenceAssign       (=, +=, -=, *=, /=)  right-associative
//	PrecedenceOr           (or)
//	PrecedenceAnd          (and)
//	PrecedenceNot          (not)
//	PrecedenceEquals       (==, !=)
//	PrecedenceLessGreater  (<, >, <=, >=, in)
//	PrecedenceSum          (+, -)
//	PrecedenceProduct      (*, /, %)
//	PrecedencePower        (**)                 right-associative
//	PrecedencePrefix       (-x, !x)
//	PrecedenceCall         (f(x))
//	PrecedenceIndex        (a[i])
//	PrecedenceMember       (a.b)
const (
	_ int = iota
	PrecedenceLowest
	PrecedenceAssign
	PrecedenceOr
	PrecedenceAnd
	PrecedenceNot
	PrecedenceEquals
	PrecedenceLessGreater
	PrecedenceSum
	PrecedenceProduct
	PrecedencePower
	PrecedencePrefix
	PrecedenceCall
	PrecedenceIndex
	PrecedenceMember
)

// Precedence returns the binding power of t as an infix operator, or
// PrecedenceLowest when t is not one.
func Precedence(t TokenType) int {
	switch t {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN:
		return PrecedenceAssign
	case token.OR:
		return PrecedenceOr
	case token.AND:
		return PrecedenceAnd
	case token.EQ, token.NOT_EQ:
		return PrecedenceEquals
	case token.LT, token.GT, token.LT_EQ, token.GT_EQ, token.IN:
		return PrecedenceLessGreater
	case token.PLUS, token.MINUS:
		return PrecedenceSum
	case token.ASTERISK, token.SLASH, token.PERCENT:
		return PrecedenceProduct
	case token.POWER:
		return PrecedencePower
	case token.LPAREN:
		return PrecedenceCall
	case token.LBRACKET:
		return PrecedenceIndex
	case token.DOT:
		return PrecedenceMember
	default:
		return PrecedenceLowest
	}
}

// RightAssociative reports whether an infix operator groups to the right.
func RightAssociative(t TokenType) bool {
	return t == token.POWER || token.IsAssignment(t)
}

func (p *Parser) peekPrecedence() int {
	return Precedence(p.peekToken.Type)
}

func (p *Parser) curPrecedence() int {
	return Precedence(p.curToken.Type)
}

// parseExpression parses an expression whose operators bind tighter than
// precedence. On return the current token is the expression's last token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		p.nextToken()
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// parseInfix parses the operator at the current token applied to left.
func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.curToken.Type {
	case token.LPAREN:
		return p.parseCallExpression(left)
	case token.LBRACKET:
		return p.parseIndexExpression(left)
	case token.DOT:
		return p.parseAttributeExpression(left)
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN:
		return p.parseAssignmentExpression(left)
	default:
		return p.parseInfixExpression(left)
	}
}

// parseInfixExpression parses a binary operator expression.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	if RightAssociative(p.curToken.Type) {
		precedence--
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseAssignmentExpression parses target op value. Only identifiers,
// attributes and index expressions are assignable.
//
//	assignment → target ("=" | "+=" | "-=" | "*=" | "/=") expr
func (p *Parser) parseAssignmentExpression(target ast.Expression) ast.Expression {
	expr := &ast.AssignmentExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Target:   target,
	}

	valid := true
	switch target.(type) {
	case *ast.Identifier, *ast.AttributeExpression, *ast.IndexExpression:
	default:
		p.addErrorAt(target.Pos(), fmt.Sprintf(ErrInvalidAssignment, target.String()))
		valid = false
	}

	p.nextToken()
	expr.Value = p.parseExpression(PrecedenceAssign - 1)
	if expr.Value == nil || !valid {
		return nil
	}
	return expr
}

// parseCallExpression parses an argument list after a callee.
//
//	call → expr "(" [expr ("," expr)* [","]] ")"
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	expr.Arguments = args
	return expr
}

// parseIndexExpression parses a subscript.
//
//	index → expr "[" expr "]"
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	expr.Index = p.parseExpression(PrecedenceLowest)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

// parseAttributeExpression parses member access.
//
//	attribute → expr "." IDENT
func (p *Parser) parseAttributeExpression(object ast.Expression) ast.Expression {
	expr := &ast.AttributeExpression{Token: p.curToken, Object: object}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Attribute = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return expr
}

// parseExpressionList parses comma-separated expressions up to end. The
// current token is the opening delimiter; on success it ends on end.
func (p *Parser) parseExpressionList(end TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(PrecedenceLowest)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) {
			break // trailing comma
		}
		p.nextToken()
		expr := p.parseExpression(PrecedenceLowest)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}
