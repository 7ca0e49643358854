package format

import (
	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

func (p *Printer) formatProgram(prog *ast.Program) {
	if prog != nil {
		for i, stmt := range prog.Statements {
			if i > 0 && (isDefinition(stmt) || isDefinition(prog.Statements[i-1])) {
				p.blankLine()
			}
			p.formatStatement(stmt)
			p.newline()
		}
	}
	p.formatRemainingComments()
}

// isDefinition reports whether s is set apart by blank lines at top level.
func isDefinition(s ast.Statement) bool {
	switch s.(type) {
	case *ast.FunctionStatement, *ast.ClassStatement:
		return true
	}
	return false
}

// isSimple reports whether s can carry a trailing comment.
func isSimple(s ast.Statement) bool {
	switch s.(type) {
	case *ast.LetStatement, *ast.ReturnStatement, *ast.RaiseStatement, *ast.ExpressionStatement,
		*ast.PassStatement, *ast.BreakStatement, *ast.ContinueStatement, *ast.ImportStatement:
		return true
	}
	return false
}

func (p *Printer) formatStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		p.formatStatement(stmt)
		p.newline()
	}
}

func (p *Printer) formatStatement(stmt ast.Statement) {
	if stmt == nil {
		return
	}

	p.formatCommentsBefore(stmt.Pos())

	switch s := stmt.(type) {
	case *ast.LetStatement:
		p.kw(token.LET)
		p.space()
		p.write(s.Name.Value)
		p.write(" = ")
		p.formatExpr(s.Value)
	case *ast.ReturnStatement:
		p.kw(token.RETURN)
		if s.Value != nil {
			p.space()
			p.formatExpr(s.Value)
		}
	case *ast.RaiseStatement:
		p.kw(token.RAISE)
		if s.Value != nil {
			p.space()
			p.formatExpr(s.Value)
		}
	case *ast.ExpressionStatement:
		p.formatExpressionStatement(s)
	case *ast.PassStatement:
		p.kw(token.PASS)
	case *ast.BreakStatement:
		p.kw(token.BREAK)
	case *ast.ContinueStatement:
		p.kw(token.CONTINUE)
	case *ast.ImportStatement:
		p.formatImport(s)
	case *ast.BlockStatement:
		p.formatBraceBlock(s)
	case *ast.IfStatement:
		p.formatIf(s)
	case *ast.WhileStatement:
		p.kw(token.WHILE)
		p.space()
		p.formatExpr(s.Condition)
		p.formatBody(s.Body)
	case *ast.ForStatement:
		p.kw(token.FOR)
		p.space()
		p.write(s.Iterator.Value)
		p.space()
		p.kw(token.IN)
		p.space()
		p.formatExpr(s.Iterable)
		p.formatBody(s.Body)
	case *ast.FunctionStatement:
		p.kw(token.FUNC)
		p.space()
		p.write(s.Name.Value)
		p.formatParams(s.Parameters)
		p.formatBody(s.Body)
	case *ast.ClassStatement:
		p.formatClass(s)
	case *ast.TryStatement:
		p.formatTry(s)
	}

	if isSimple(stmt) {
		p.formatTrailingComment(stmt.Pos().Line)
	}
}

// formatExpressionStatement parenthesizes expressions that would otherwise
// read back as a block or an if statement.
func (p *Printer) formatExpressionStatement(s *ast.ExpressionStatement) {
	if !startsWithBraceOrIf(s.Expression) {
		p.formatExpr(s.Expression)
		return
	}
	p.write("(")
	p.parenDepth++
	p.formatExpr(s.Expression)
	p.parenDepth--
	p.write(")")
}

func (p *Printer) formatImport(s *ast.ImportStatement) {
	if !s.IsFrom() {
		p.kw(token.IMPORT)
		p.space()
		p.write(s.Module)
		if s.Alias != nil {
			p.write(" as " + s.Alias.Value)
		}
		return
	}

	p.kw(token.FROM)
	p.space()
	p.write(s.Module)
	p.space()
	p.kw(token.IMPORT)
	p.space()
	p.formatList(len(s.Names), func(i int) {
		p.write(s.Names[i].String())
	}, ", ", false)
}

// ---------- Blocks ----------

// formatBody prints the block that follows a statement header.
func (p *Printer) formatBody(b *ast.BlockStatement) {
	if p.braces() {
		p.space()
		p.formatBraceBlock(b)
		return
	}

	p.write(":")
	p.writeln()
	p.indent()
	if b == nil || len(b.Statements) == 0 {
		p.kw(token.PASS)
		p.writeln()
	} else {
		p.formatStatements(b.Statements)
	}
	p.dedent()
}

// formatBraceBlock prints a block in braces, one statement per line, or on
// one line with "; " separators inside brackets.
func (p *Printer) formatBraceBlock(b *ast.BlockStatement) {
	if b == nil || len(b.Statements) == 0 {
		p.write("{}")
		return
	}

	if p.inline() {
		p.write("{ ")
		p.formatList(len(b.Statements), func(i int) {
			p.formatStatement(b.Statements[i])
		}, "; ", false)
		p.write(" }")
		return
	}

	p.write("{")
	p.writeln()
	p.indent()
	p.formatStatements(b.Statements)
	p.dedent()
	p.write("}")
}

// clause starts a continuation clause such as else or except: after the
// closing brace on the same line, or on a new line after a suite.
func (p *Printer) clause(t token.TokenType) {
	if p.braces() {
		p.space()
	} else {
		p.newline()
	}
	p.kw(t)
}

// ---------- Compound Statements ----------

func (p *Printer) formatIf(s *ast.IfStatement) {
	p.kw(token.IF)
	p.space()
	p.formatExpr(s.Condition)
	p.formatBody(s.Consequence)

	for _, elif := range s.Elifs {
		p.clause(token.ELIF)
		p.space()
		p.formatExpr(elif.Condition)
		p.formatBody(elif.Consequence)
	}

	if s.Alternative != nil {
		p.clause(token.ELSE)
		p.formatBody(s.Alternative)
	}
}

func (p *Printer) formatTry(s *ast.TryStatement) {
	p.kw(token.TRY)
	p.formatBody(s.Body)

	for _, ex := range s.Excepts {
		p.clause(token.EXCEPT)
		if ex.Type != nil {
			p.space()
			p.formatExpr(ex.Type)
		}
		if ex.Name != nil {
			p.space()
			p.kw(token.AS)
			p.space()
			p.write(ex.Name.Value)
		}
		p.formatBody(ex.Body)
	}

	if s.Finally != nil {
		p.clause(token.FINALLY)
		p.formatBody(s.Finally)
	}
}

// formatClass prints a class. Brace style spells the parent with extends and
// methods without func; indentation style uses Class(Parent): and func.
func (p *Printer) formatClass(s *ast.ClassStatement) {
	p.kw(token.CLASS)
	p.space()
	p.write(s.Name.Value)

	braces := p.braces()
	if s.Parent != nil {
		if braces {
			p.write(" extends " + s.Parent.Value)
		} else {
			p.write("(" + s.Parent.Value + ")")
		}
	}

	if braces {
		switch {
		case len(s.Methods) == 0:
			p.write(" {}")
		case p.inline():
			p.write(" { ")
			p.formatList(len(s.Methods), func(i int) {
				p.formatMethod(s.Methods[i])
			}, "; ", false)
			p.write(" }")
		default:
			p.write(" {")
			p.writeln()
			p.indent()
			p.formatMethods(s.Methods)
			p.dedent()
			p.write("}")
		}
		return
	}

	p.write(":")
	p.writeln()
	p.indent()
	if len(s.Methods) == 0 {
		p.kw(token.PASS)
		p.writeln()
	}
	p.formatMethods(s.Methods)
	p.dedent()
}

// formatMethods prints methods separated by blank lines.
func (p *Printer) formatMethods(methods []*ast.MethodStatement) {
	for i, m := range methods {
		if i > 0 {
			p.blankLine()
		}
		p.formatMethod(m)
		p.newline()
	}
}

func (p *Printer) formatMethod(m *ast.MethodStatement) {
	p.formatCommentsBefore(m.Pos())
	if !p.braces() {
		p.kw(token.FUNC)
		p.space()
	}
	p.write(m.Name.Value)
	p.formatParams(m.Parameters)
	p.formatBody(m.Body)
}

func (p *Printer) formatParams(params []*ast.Identifier) {
	p.write("(")
	p.formatList(len(params), func(i int) {
		p.write(params[i].Value)
	}, ", ", false)
	p.write(")")
}
