package ast

import (
	"strings"

	"github.com/leapstack-labs/leapscript/pkg/token"
)

// ---------- Statement Types ----------

// LetStatement binds a name: let x = value.
type LetStatement struct {
	Token token.Token // the let token
	Name  *Identifier
	Value Expression
}

func (*LetStatement) statementNode()         {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LetStatement) Pos() token.Position  { return s.Token.Pos }
func (s *LetStatement) String() string       { return "let " + s.Name.Value + " = " + nodeString(s.Value) }

// ReturnStatement returns from a function. Value is nil for a bare return.
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (*ReturnStatement) statementNode()         {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) Pos() token.Position  { return s.Token.Pos }

func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
}

func (*ExpressionStatement) statementNode()         {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) Pos() token.Position  { return s.Token.Pos }

// String renders the expression. Assignments drop their outer parentheses,
// and text that would read back as a block or if statement is parenthesized.
func (s *ExpressionStatement) String() string {
	var out string
	if a, ok := s.Expression.(*AssignmentExpression); ok {
		out = a.bare()
	} else {
		out = nodeString(s.Expression)
	}
	if strings.HasPrefix(out, "{") || strings.HasPrefix(out, "if ") {
		return "(" + out + ")"
	}
	return out
}

// BlockStatement is a sequence of statements delimited by braces or indentation.
type BlockStatement struct {
	Token      token.Token // { or :
	Statements []Statement
}

func (*BlockStatement) statementNode()         {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() token.Position  { return b.Token.Pos }

// String renders the block in brace form on a single line.
func (b *BlockStatement) String() string {
	if b == nil || len(b.Statements) == 0 {
		return "{}"
	}
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// IfStatement is an if/elif/else chain.
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Elifs       []*ElifBranch
	Alternative *BlockStatement // nil without else
}

// ElifBranch is one elif clause of an IfStatement.
type ElifBranch struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
}

func (*IfStatement) statementNode()         {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) Pos() token.Position  { return s.Token.Pos }

func (s *IfStatement) String() string {
	var out strings.Builder
	out.WriteString("if ")
	out.WriteString(nodeString(s.Condition))
	out.WriteString(" ")
	out.WriteString(s.Consequence.String())
	for _, elif := range s.Elifs {
		out.WriteString(" elif ")
		out.WriteString(nodeString(elif.Condition))
		out.WriteString(" ")
		out.WriteString(elif.Consequence.String())
	}
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// WhileStatement loops while the condition holds.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (*WhileStatement) statementNode()         {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) Pos() token.Position  { return s.Token.Pos }

func (s *WhileStatement) String() string {
	return "while " + nodeString(s.Condition) + " " + s.Body.String()
}

// ForStatement iterates: for x in iterable.
type ForStatement struct {
	Token    token.Token
	Iterator *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (*ForStatement) statementNode()         {}
func (s *ForStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForStatement) Pos() token.Position  { return s.Token.Pos }

func (s *ForStatement) String() string {
	return "for " + s.Iterator.Value + " in " + nodeString(s.Iterable) + " " + s.Body.String()
}

// FunctionStatement declares a named function.
type FunctionStatement struct {
	Token      token.Token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (*FunctionStatement) statementNode()         {}
func (s *FunctionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *FunctionStatement) Pos() token.Position  { return s.Token.Pos }

func (s *FunctionStatement) String() string {
	return "func " + s.Name.Value + "(" + joinIdents(s.Parameters) + ") " + s.Body.String()
}

// ClassStatement declares a class with an optional single parent.
type ClassStatement struct {
	Token   token.Token
	Name    *Identifier
	Parent  *Identifier // nil without extends
	Methods []*MethodStatement
}

func (*ClassStatement) statementNode()         {}
func (s *ClassStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ClassStatement) Pos() token.Position  { return s.Token.Pos }

func (s *ClassStatement) String() string {
	var out strings.Builder
	out.WriteString("class ")
	out.WriteString(s.Name.Value)
	if s.Parent != nil {
		out.WriteString(" extends ")
		out.WriteString(s.Parent.Value)
	}
	if len(s.Methods) == 0 {
		out.WriteString(" {}")
		return out.String()
	}
	parts := make([]string, len(s.Methods))
	for i, m := range s.Methods {
		parts[i] = m.String()
	}
	out.WriteString(" { ")
	out.WriteString(strings.Join(parts, "; "))
	out.WriteString(" }")
	return out.String()
}

// MethodStatement is a method inside a class body.
type MethodStatement struct {
	Token      token.Token // method name, or func when spelled with it
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (*MethodStatement) statementNode()         {}
func (s *MethodStatement) TokenLiteral() string { return s.Token.Literal }
func (s *MethodStatement) Pos() token.Position  { return s.Token.Pos }

func (s *MethodStatement) String() string {
	return s.Name.Value + "(" + joinIdents(s.Parameters) + ") " + s.Body.String()
}

// ImportStatement records `import a.b [as c]` or `from a.b import x [as y], ...`.
type ImportStatement struct {
	Token  token.Token // import or from
	Module string      // dotted module path
	Alias  *Identifier // import form only
	Names  []*ImportName
}

// ImportName is one imported name of a from-import.
type ImportName struct {
	Name  *Identifier
	Alias *Identifier
}

func (*ImportStatement) statementNode()         {}
func (s *ImportStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ImportStatement) Pos() token.Position  { return s.Token.Pos }

// IsFrom reports whether this is a from-import.
func (s *ImportStatement) IsFrom() bool {
	return s.Token.Type == token.FROM
}

func (s *ImportStatement) String() string {
	if !s.IsFrom() {
		if s.Alias != nil {
			return "import " + s.Module + " as " + s.Alias.Value
		}
		return "import " + s.Module
	}
	parts := make([]string, len(s.Names))
	for i, n := range s.Names {
		parts[i] = n.String()
	}
	return "from " + s.Module + " import " + strings.Join(parts, ", ")
}

func (n *ImportName) String() string {
	if n.Alias != nil {
		return n.Name.Value + " as " + n.Alias.Value
	}
	return n.Name.Value
}

// TryStatement is try/except/finally.
type TryStatement struct {
	Token   token.Token
	Body    *BlockStatement
	Excepts []*ExceptClause
	Finally *BlockStatement
}

// ExceptClause is one except handler. Type and Name are optional.
type ExceptClause struct {
	Token token.Token
	Type  Expression
	Name  *Identifier
	Body  *BlockStatement
}

func (*TryStatement) statementNode()         {}
func (s *TryStatement) TokenLiteral() string { return s.Token.Literal }
func (s *TryStatement) Pos() token.Position  { return s.Token.Pos }

func (s *TryStatement) String() string {
	var out strings.Builder
	out.WriteString("try ")
	out.WriteString(s.Body.String())
	for _, ex := range s.Excepts {
		out.WriteString(" except")
		if ex.Type != nil {
			out.WriteString(" ")
			out.WriteString(ex.Type.String())
		}
		if ex.Name != nil {
			out.WriteString(" as ")
			out.WriteString(ex.Name.Value)
		}
		out.WriteString(" ")
		out.WriteString(ex.Body.String())
	}
	if s.Finally != nil {
		out.WriteString(" finally ")
		out.WriteString(s.Finally.String())
	}
	return out.String()
}

// PassStatement is the no-op statement.
type PassStatement struct {
	Token token.Token
}

func (*PassStatement) statementNode()         {}
func (s *PassStatement) TokenLiteral() string { return s.Token.Literal }
func (s *PassStatement) Pos() token.Position  { return s.Token.Pos }
func (s *PassStatement) String() string       { return "pass" }

// BreakStatement exits the innermost loop.
type BreakStatement struct {
	Token token.Token
}

func (*BreakStatement) statementNode()         {}
func (s *BreakStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BreakStatement) Pos() token.Position  { return s.Token.Pos }
func (s *BreakStatement) String() string       { return "break" }

// ContinueStatement skips to the next loop iteration.
type ContinueStatement struct {
	Token token.Token
}

func (*ContinueStatement) statementNode()         {}
func (s *ContinueStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ContinueStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ContinueStatement) String() string       { return "continue" }

// RaiseStatement raises an exception. Value is nil for a bare re-raise.
type RaiseStatement struct {
	Token token.Token
	Value Expression
}

func (*RaiseStatement) statementNode()         {}
func (s *RaiseStatement) TokenLiteral() string { return s.Token.Literal }
func (s *RaiseStatement) Pos() token.Position  { return s.Token.Pos }

func (s *RaiseStatement) String() string {
	if s.Value == nil {
		return "raise"
	}
	return "raise " + s.Value.String()
}
