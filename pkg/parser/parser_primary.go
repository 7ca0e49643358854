package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Primary expression parsing.
//
//	primary → IDENT | INT | FLOAT | STRING | "True" | "False" | "None"
//	        | ("-" | "!" | "not") expr
//	        | "(" expr ")"
//	        | "[" [expr ("," expr)*] "]"
//	        | "{" [expr ":" expr ("," expr ":" expr)*] "}"
//	        | "if" expr block ["else" block]
//	        | "func" "(" params ")" block
//	        | "lambda" [IDENT ("," IDENT)*] ":" expr

// parsePrefix parses the expression that starts at the current token.
func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.INT:
		return p.parseIntegerLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case token.TRUE, token.FALSE:
		return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	case token.NONE:
		return &ast.NoneLiteral{Token: p.curToken}
	case token.MINUS, token.BANG:
		return p.parsePrefixExpression(PrecedencePrefix)
	case token.NOT:
		return p.parsePrefixExpression(PrecedenceNot)
	case token.LPAREN:
		return p.parseGroupedExpression()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseDictLiteral()
	case token.IF:
		return p.parseIfExpression()
	case token.FUNC:
		return p.parseFunctionLiteral()
	case token.LAMBDA:
		return p.parseLambdaExpression()
	default:
		p.addError(fmt.Sprintf(ErrNoPrefixParseFn, p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError(fmt.Sprintf(ErrInvalidInteger, p.curToken.Literal))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(fmt.Sprintf(ErrInvalidFloat, p.curToken.Literal))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

// parsePrefixExpression parses a unary operator and its operand.
func (p *Parser) parsePrefixExpression(precedence int) ast.Expression {
	expr := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseGroupedExpression parses a parenthesized expression. Grouping only
// affects the tree shape; no node is produced for the parentheses.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	expr := p.parseExpression(PrecedenceLowest)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	array.Elements = elements
	return array
}

// parseDictLiteral parses key/value pairs in insertion order. Unlike ( and [,
// braces do not suppress layout tokens, so they are skipped here.
func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken, Pairs: []*ast.DictPair{}}

	p.skipPeekLayout()
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(PrecedenceLowest)
		if key == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(PrecedenceLowest)
		if value == nil {
			return nil
		}
		dict.Pairs = append(dict.Pairs, &ast.DictPair{Key: key, Value: value})

		p.skipPeekLayout()
		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
		p.skipPeekLayout()
	}

	p.nextToken() // consume }
	return dict
}

// parseIfExpression parses a conditional in expression position.
func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	p.nextToken()
	expr.Condition = p.parseExpression(PrecedenceLowest)
	if expr.Condition == nil {
		return nil
	}

	expr.Consequence = p.parseBlock()
	if expr.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		expr.Alternative = p.parseBlock()
		if expr.Alternative == nil {
			return nil
		}
	}

	return expr
}

// parseFunctionLiteral parses an anonymous function.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	fn.Parameters = params

	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseLambdaExpression parses lambda params: expr. The body stops before
// an assignment operator.
func (p *Parser) parseLambdaExpression() ast.Expression {
	lambda := &ast.LambdaExpression{Token: p.curToken, Parameters: []*ast.Identifier{}}

	for !p.peekTokenIs(token.COLON) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		lambda.Parameters = append(lambda.Parameters, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}

	p.nextToken()
	lambda.Body = p.parseExpression(PrecedenceAssign)
	if lambda.Body == nil {
		return nil
	}
	return lambda
}

// parseParameters parses a parameter list. The current token is "(" and on
// success it ends on ")".
//
//	params → [IDENT ("," IDENT)* [","]]
func (p *Parser) parseParameters() ([]*ast.Identifier, bool) {
	params := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break // trailing comma
		}
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}
