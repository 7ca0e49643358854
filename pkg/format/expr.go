package format

import (
	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/parser"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// precedenceAtom binds tighter than any operator.
const precedenceAtom = parser.PrecedenceMember + 1

// exprPrecedence returns the binding power of the operator at the root of e.
func exprPrecedence(e ast.Expression) int {
	switch n := e.(type) {
	case *ast.AssignmentExpression, *ast.LambdaExpression:
		return parser.PrecedenceAssign
	case *ast.InfixExpression:
		return parser.Precedence(n.Token.Type)
	case *ast.PrefixExpression:
		if n.Operator == "not" {
			return parser.PrecedenceNot
		}
		return parser.PrecedencePrefix
	case *ast.CallExpression:
		return parser.PrecedenceCall
	case *ast.IndexExpression:
		return parser.PrecedenceIndex
	case *ast.AttributeExpression:
		return parser.PrecedenceMember
	default:
		return precedenceAtom
	}
}

// needsParens reports whether child must be parenthesized as an operand of
// an operator with precedence prec. parenOnEqual is set for the operand side
// that does not associate.
func needsParens(child ast.Expression, prec int, parenOnEqual bool) bool {
	cp := exprPrecedence(child)
	return cp < prec || (cp == prec && parenOnEqual)
}

// startsWithBraceOrIf reports whether the printed form of e begins with a
// dict literal or an if expression.
func startsWithBraceOrIf(e ast.Expression) bool {
	for {
		switch n := e.(type) {
		case *ast.DictLiteral, *ast.IfExpression:
			return true
		case *ast.InfixExpression:
			if needsParens(n.Left, exprPrecedence(n), parser.RightAssociative(n.Token.Type)) {
				return false
			}
			e = n.Left
		case *ast.AssignmentExpression:
			e = n.Target
		case *ast.CallExpression:
			if needsParens(n.Function, parser.PrecedenceCall, false) {
				return false
			}
			e = n.Function
		case *ast.IndexExpression:
			if needsParens(n.Left, parser.PrecedenceCall, false) {
				return false
			}
			e = n.Left
		case *ast.AttributeExpression:
			if needsParens(n.Object, parser.PrecedenceCall, false) {
				return false
			}
			e = n.Object
		default:
			return false
		}
	}
}

func (p *Printer) formatExpr(e ast.Expression) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *ast.Identifier:
		p.write(expr.Value)
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.Boolean, *ast.NoneLiteral:
		p.write(expr.String())
	case *ast.StringLiteral:
		p.write(ast.Quote(expr.Value))
	case *ast.PrefixExpression:
		p.formatPrefixExpr(expr)
	case *ast.InfixExpression:
		p.formatInfixExpr(expr)
	case *ast.AssignmentExpression:
		p.formatOperand(expr.Target, parser.PrecedenceAssign, true)
		p.write(" " + expr.Operator + " ")
		p.formatOperand(expr.Value, parser.PrecedenceAssign, false)
	case *ast.CallExpression:
		p.formatOperand(expr.Function, parser.PrecedenceCall, false)
		p.formatExprList("(", expr.Arguments, ")")
	case *ast.IndexExpression:
		p.formatOperand(expr.Left, parser.PrecedenceCall, false)
		p.formatExprList("[", []ast.Expression{expr.Index}, "]")
	case *ast.AttributeExpression:
		p.formatOperand(expr.Object, parser.PrecedenceCall, false)
		p.write("." + expr.Attribute.Value)
	case *ast.ArrayLiteral:
		p.formatExprList("[", expr.Elements, "]")
	case *ast.DictLiteral:
		p.formatDictLiteral(expr)
	case *ast.IfExpression:
		p.formatIfExpr(expr)
	case *ast.FunctionLiteral:
		p.kw(token.FUNC)
		p.formatParams(expr.Parameters)
		p.space()
		p.formatBraceBlock(expr.Body)
	case *ast.LambdaExpression:
		p.formatLambdaExpr(expr)
	default:
		p.write(e.String())
	}
}

// formatOperand prints e, in parentheses when needsParens says so.
func (p *Printer) formatOperand(e ast.Expression, prec int, parenOnEqual bool) {
	if !needsParens(e, prec, parenOnEqual) {
		p.formatExpr(e)
		return
	}
	p.write("(")
	p.parenDepth++
	p.formatExpr(e)
	p.parenDepth--
	p.write(")")
}

func (p *Printer) formatPrefixExpr(expr *ast.PrefixExpression) {
	p.write(expr.Operator)
	if expr.Operator == "not" {
		p.space()
	}
	p.formatOperand(expr.Right, exprPrecedence(expr), false)
}

func (p *Printer) formatInfixExpr(expr *ast.InfixExpression) {
	prec := exprPrecedence(expr)
	rightAssoc := parser.RightAssociative(expr.Token.Type)

	p.formatOperand(expr.Left, prec, rightAssoc)
	p.write(" " + expr.Operator + " ")
	p.formatOperand(expr.Right, prec, !rightAssoc)
}

// formatExprList prints comma-separated expressions between open and close.
func (p *Printer) formatExprList(open string, exprs []ast.Expression, close string) {
	p.write(open)
	p.parenDepth++
	p.formatList(len(exprs), func(i int) {
		p.formatExpr(exprs[i])
	}, ", ", false)
	p.parenDepth--
	p.write(close)
}

func (p *Printer) formatDictLiteral(expr *ast.DictLiteral) {
	p.write("{")
	p.parenDepth++
	p.formatList(len(expr.Pairs), func(i int) {
		pair := expr.Pairs[i]
		p.formatExpr(pair.Key)
		p.write(": ")
		p.formatExpr(pair.Value)
	}, ", ", false)
	p.parenDepth--
	p.write("}")
}

// formatIfExpr prints a conditional expression. Its blocks always use braces.
func (p *Printer) formatIfExpr(expr *ast.IfExpression) {
	p.kw(token.IF)
	p.space()
	p.formatExpr(expr.Condition)
	p.space()
	p.formatBraceBlock(expr.Consequence)
	if expr.Alternative != nil {
		p.space()
		p.kw(token.ELSE)
		p.space()
		p.formatBraceBlock(expr.Alternative)
	}
}

func (p *Printer) formatLambdaExpr(expr *ast.LambdaExpression) {
	p.kw(token.LAMBDA)
	if len(expr.Parameters) > 0 {
		p.space()
		p.formatList(len(expr.Parameters), func(i int) {
			p.write(expr.Parameters[i].Value)
		}, ", ", false)
	}
	p.write(": ")
	p.formatOperand(expr.Body, parser.PrecedenceAssign, true)
}
