// Package ast defines the abstract syntax tree produced by the leapscript parser.
//
// Every node keeps the token it was created from. String renders a canonical,
// single-line-per-statement form that the parser reads back into an equal tree,
// which makes it the basis of round-trip tests. Pretty output lives in pkg/format.
package ast

import (
	"strings"

	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Statement is a node that appears in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node. It owns the top-level statements in source order.
type Program struct {
	Statements []Statement
}

// TokenLiteral returns the literal of the first statement's token.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Pos returns the position of the first statement.
func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// String renders one statement per line.
func (p *Program) String() string {
	lines := make([]string, 0, len(p.Statements))
	for _, s := range p.Statements {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}

// nodeString renders n, treating a nil interface as empty.
func nodeString(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// joinExprs renders expressions separated by ", ".
func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = nodeString(e)
	}
	return strings.Join(parts, ", ")
}

// joinIdents renders identifiers separated by ", ".
func joinIdents(idents []*Identifier) string {
	parts := make([]string, len(idents))
	for i, id := range idents {
		parts[i] = id.Value
	}
	return strings.Join(parts, ", ")
}
