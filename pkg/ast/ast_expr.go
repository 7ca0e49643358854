package ast

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapscript/pkg/token"
)

// ---------- Literal Expressions ----------

// Identifier is a name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (*Identifier) expressionNode()        {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral is a 64-bit integer constant.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (*IntegerLiteral) expressionNode()        {}
func (l *IntegerLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *IntegerLiteral) Pos() token.Position  { return l.Token.Pos }

func (l *IntegerLiteral) String() string {
	if l.Token.Literal != "" {
		return l.Token.Literal
	}
	return strconv.FormatInt(l.Value, 10)
}

// FloatLiteral is a 64-bit floating point constant.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (*FloatLiteral) expressionNode()        {}
func (l *FloatLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *FloatLiteral) Pos() token.Position  { return l.Token.Pos }

func (l *FloatLiteral) String() string {
	if l.Token.Literal != "" {
		return l.Token.Literal
	}
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// StringLiteral holds the decoded string contents.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (*StringLiteral) expressionNode()        {}
func (l *StringLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *StringLiteral) Pos() token.Position  { return l.Token.Pos }
func (l *StringLiteral) String() string       { return Quote(l.Value) }

// Quote renders s as a double-quoted literal, escaping backslashes and quotes.
func Quote(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 2)
	out.WriteByte('"')
	for _, r := range s {
		if r == '\\' || r == '"' {
			out.WriteByte('\\')
		}
		out.WriteRune(r)
	}
	out.WriteByte('"')
	return out.String()
}

// Boolean is True or False.
type Boolean struct {
	Token token.Token
	Value bool
}

func (*Boolean) expressionNode()        {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) Pos() token.Position  { return b.Token.Pos }

func (b *Boolean) String() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// NoneLiteral is the None constant.
type NoneLiteral struct {
	Token token.Token
}

func (*NoneLiteral) expressionNode()        {}
func (n *NoneLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NoneLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NoneLiteral) String() string       { return "None" }

// ---------- Operator Expressions ----------

// PrefixExpression is a unary operator applied to its operand: -x, !x, not x.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (*PrefixExpression) expressionNode()        {}
func (e *PrefixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *PrefixExpression) Pos() token.Position  { return e.Token.Pos }

func (e *PrefixExpression) String() string {
	if e.Operator == "not" {
		return "(not " + nodeString(e.Right) + ")"
	}
	return "(" + e.Operator + nodeString(e.Right) + ")"
}

// InfixExpression is a binary operator: a + b, a and b, x in xs.
type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (*InfixExpression) expressionNode()        {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *InfixExpression) Pos() token.Position  { return e.Left.Pos() }

func (e *InfixExpression) String() string {
	return "(" + nodeString(e.Left) + " " + e.Operator + " " + nodeString(e.Right) + ")"
}

// AssignmentExpression is `target op value` where op is = or a compound form.
type AssignmentExpression struct {
	Token    token.Token // the operator token
	Target   Expression
	Operator string
	Value    Expression
}

func (*AssignmentExpression) expressionNode()        {}
func (e *AssignmentExpression) TokenLiteral() string { return e.Token.Literal }
func (e *AssignmentExpression) Pos() token.Position  { return e.Target.Pos() }
func (e *AssignmentExpression) String() string       { return "(" + e.bare() + ")" }

func (e *AssignmentExpression) bare() string {
	return nodeString(e.Target) + " " + e.Operator + " " + nodeString(e.Value)
}

// ---------- Postfix Expressions ----------

// CallExpression applies a function to arguments.
type CallExpression struct {
	Token     token.Token // (
	Function  Expression
	Arguments []Expression
}

func (*CallExpression) expressionNode()        {}
func (e *CallExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) Pos() token.Position  { return e.Function.Pos() }

func (e *CallExpression) String() string {
	return nodeString(e.Function) + "(" + joinExprs(e.Arguments) + ")"
}

// IndexExpression subscripts a value: xs[i].
type IndexExpression struct {
	Token token.Token // [
	Left  Expression
	Index Expression
}

func (*IndexExpression) expressionNode()        {}
func (e *IndexExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpression) Pos() token.Position  { return e.Left.Pos() }

func (e *IndexExpression) String() string {
	return "(" + nodeString(e.Left) + "[" + nodeString(e.Index) + "])"
}

// AttributeExpression selects a member: obj.name.
type AttributeExpression struct {
	Token     token.Token // .
	Object    Expression
	Attribute *Identifier
}

func (*AttributeExpression) expressionNode()        {}
func (e *AttributeExpression) TokenLiteral() string { return e.Token.Literal }
func (e *AttributeExpression) Pos() token.Position  { return e.Object.Pos() }

func (e *AttributeExpression) String() string {
	return nodeString(e.Object) + "." + e.Attribute.Value
}

// ---------- Compound Expressions ----------

// IfExpression is an if/else used for its value.
type IfExpression struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (*IfExpression) expressionNode()        {}
func (e *IfExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IfExpression) Pos() token.Position  { return e.Token.Pos }

func (e *IfExpression) String() string {
	out := "if " + nodeString(e.Condition) + " " + e.Consequence.String()
	if e.Alternative != nil {
		out += " else " + e.Alternative.String()
	}
	return out
}

// FunctionLiteral is an anonymous function: func(a, b) { ... }.
type FunctionLiteral struct {
	Token      token.Token
	Parameters []*Identifier
	Body       *BlockStatement
}

func (*FunctionLiteral) expressionNode()        {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) Pos() token.Position  { return f.Token.Pos }

func (f *FunctionLiteral) String() string {
	return "func(" + joinIdents(f.Parameters) + ") " + f.Body.String()
}

// LambdaExpression is a single-expression function: lambda a, b: a + b.
type LambdaExpression struct {
	Token      token.Token
	Parameters []*Identifier
	Body       Expression
}

func (*LambdaExpression) expressionNode()        {}
func (l *LambdaExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LambdaExpression) Pos() token.Position  { return l.Token.Pos }

func (l *LambdaExpression) String() string {
	if len(l.Parameters) == 0 {
		return "(lambda: " + nodeString(l.Body) + ")"
	}
	return "(lambda " + joinIdents(l.Parameters) + ": " + nodeString(l.Body) + ")"
}

// ArrayLiteral is a list display: [a, b].
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (*ArrayLiteral) expressionNode()        {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() token.Position  { return a.Token.Pos }
func (a *ArrayLiteral) String() string       { return "[" + joinExprs(a.Elements) + "]" }

// DictLiteral is a mapping display. Pairs keep source order.
type DictLiteral struct {
	Token token.Token
	Pairs []*DictPair
}

// DictPair is one key: value entry.
type DictPair struct {
	Key   Expression
	Value Expression
}

func (*DictLiteral) expressionNode()        {}
func (d *DictLiteral) TokenLiteral() string { return d.Token.Literal }
func (d *DictLiteral) Pos() token.Position  { return d.Token.Pos }

func (d *DictLiteral) String() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = nodeString(p.Key) + ": " + nodeString(p.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
