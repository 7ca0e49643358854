package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Statement parsing.
//
// Every statement parser starts on the statement's first token and leaves
// the current token on its last one. A nil result means nothing was produced,
// either because the token only separates statements or because an error was
// recorded.

// parseStatement dispatches on the current token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.NEWLINE, token.SEMICOLON, token.INDENT, token.DEDENT:
		return nil
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNC:
		if p.peekTokenIs(token.IDENT) {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionStatement()
	case token.CLASS:
		return p.parseClassStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.FROM:
		return p.parseFromImportStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.RAISE:
		return p.parseRaiseStatement()
	case token.PASS:
		stmt := &ast.PassStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.skipSemicolon()
		return stmt
	case token.LBRACE:
		return p.parseBraceBlock()
	default:
		return p.parseExpressionStatement()
	}
}

// skipSemicolon consumes an optional trailing semicolon.
func (p *Parser) skipSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// atSimpleStatementEnd reports whether the peek token ends a simple statement.
func (p *Parser) atSimpleStatementEnd() bool {
	switch p.peekToken.Type {
	case token.NEWLINE, token.SEMICOLON, token.RBRACE, token.DEDENT, token.EOF:
		return true
	}
	return false
}

// parseLetStatement parses a binding.
//
//	let → "let" IDENT "=" expr [";"]
func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression(PrecedenceLowest)
	if stmt.Value == nil {
		return nil
	}

	p.skipSemicolon()
	return stmt
}

// parseReturnStatement parses a return with an optional value.
//
//	return → "return" [expr] [";"]
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if !p.atSimpleStatementEnd() {
		p.nextToken()
		stmt.Value = p.parseExpression(PrecedenceLowest)
		if stmt.Value == nil {
			return nil
		}
	}

	p.skipSemicolon()
	return stmt
}

// parseRaiseStatement parses a raise with an optional value.
//
//	raise → "raise" [expr] [";"]
func (p *Parser) parseRaiseStatement() ast.Statement {
	stmt := &ast.RaiseStatement{Token: p.curToken}

	if !p.atSimpleStatementEnd() {
		p.nextToken()
		stmt.Value = p.parseExpression(PrecedenceLowest)
		if stmt.Value == nil {
			return nil
		}
	}

	p.skipSemicolon()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(PrecedenceLowest)
	if stmt.Expression == nil {
		return nil
	}

	p.skipSemicolon()
	return stmt
}

// parseIfStatement parses a conditional with any number of elif branches.
// In brace style the elif and else keywords follow "}" on the same line; in
// indentation style they start the line after the suite.
//
//	if → "if" expr block ("elif" expr block)* ["else" block]
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(PrecedenceLowest)
	if stmt.Condition == nil {
		return nil
	}

	stmt.Consequence = p.parseBlock()
	if stmt.Consequence == nil {
		return nil
	}

	for p.peekTokenIs(token.ELIF) {
		p.nextToken()
		branch := &ast.ElifBranch{Token: p.curToken}

		p.nextToken()
		branch.Condition = p.parseExpression(PrecedenceLowest)
		if branch.Condition == nil {
			return nil
		}
		branch.Consequence = p.parseBlock()
		if branch.Consequence == nil {
			return nil
		}
		stmt.Elifs = append(stmt.Elifs, branch)
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		stmt.Alternative = p.parseBlock()
		if stmt.Alternative == nil {
			return nil
		}
	}

	return stmt
}

// parseWhileStatement parses a condition loop.
//
//	while → "while" expr block
func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(PrecedenceLowest)
	if stmt.Condition == nil {
		return nil
	}

	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForStatement parses an iteration loop.
//
//	for → "for" IDENT "in" expr block
func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Iterator = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.IN) {
		return nil
	}

	p.nextToken()
	stmt.Iterable = p.parseExpression(PrecedenceLowest)
	if stmt.Iterable == nil {
		return nil
	}

	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseFunctionStatement parses a named function definition.
//
//	func → "func" IDENT "(" params ")" block
func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// ---------- Classes ----------

// parseClassStatement parses a class definition. The parent is written
// either as "extends Parent" or as "(Parent)".
//
//	class  → "class" IDENT [("extends" IDENT) | ("(" IDENT ")")] body
//	body   → "{" member* "}" | ":" INDENT member* DEDENT
//	member → ["func"] IDENT "(" params ")" block | "pass"
func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	switch {
	case p.peekTokenIs(token.IDENT) && p.peekToken.Literal == "extends":
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Parent = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Parent = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	if !p.parseClassBody(stmt) {
		return nil
	}
	return stmt
}

// parseClassBody collects methods into stmt until the body closes.
func (p *Parser) parseClassBody(stmt *ast.ClassStatement) bool {
	var end TokenType
	switch {
	case p.peekTokenIs(token.LBRACE):
		end = token.RBRACE
		p.nextToken()
	case p.peekTokenIs(token.COLON):
		end = token.DEDENT
		p.nextToken()
		if !p.expectPeek(token.INDENT) {
			return false
		}
	default:
		p.addErrorAt(p.peekToken.Pos, fmt.Sprintf(ErrExpectedBlockStart, p.peekToken.Type))
		return false
	}

	p.nextToken()
	for !p.curTokenIs(end) {
		if p.curTokenIs(token.EOF) {
			if end == token.RBRACE {
				p.addError(fmt.Sprintf(ErrExpectedToken, token.RBRACE, token.EOF))
			}
			return true
		}
		if method := p.parseClassMember(); method != nil {
			stmt.Methods = append(stmt.Methods, method)
		}
		p.nextToken()
	}
	return true
}

// parseClassMember parses one entry of a class body. Separators and pass
// produce nothing; any other non-method token is reported and skipped.
func (p *Parser) parseClassMember() *ast.MethodStatement {
	switch p.curToken.Type {
	case token.NEWLINE, token.SEMICOLON, token.INDENT, token.DEDENT, token.PASS:
		return nil
	case token.FUNC:
		return p.parseMethod()
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseMethod()
		}
	}
	p.addError(fmt.Sprintf(ErrUnexpectedInClass, p.curToken.Type))
	return nil
}

// parseMethod parses a method, optionally spelled with a leading func.
func (p *Parser) parseMethod() *ast.MethodStatement {
	method := &ast.MethodStatement{Token: p.curToken}

	if p.curTokenIs(token.FUNC) && !p.expectPeek(token.IDENT) {
		return nil
	}
	method.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	method.Parameters = params

	method.Body = p.parseBlock()
	if method.Body == nil {
		return nil
	}
	return method
}

// ---------- Imports ----------

// parseImportStatement parses a module import.
//
//	import → "import" module ["as" IDENT] [";"]
//	module → IDENT ("." IDENT)*
func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	module, ok := p.parseModulePath()
	if !ok {
		return nil
	}
	stmt.Module = module

	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	p.skipSemicolon()
	return stmt
}

// parseFromImportStatement parses an import of names from a module.
//
//	from → "from" module "import" name ("," name)* [";"]
//	name → IDENT ["as" IDENT]
func (p *Parser) parseFromImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	module, ok := p.parseModulePath()
	if !ok {
		return nil
	}
	stmt.Module = module

	if !p.expectPeek(token.IMPORT) {
		return nil
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := &ast.ImportName{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}

		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			name.Alias = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		}
		stmt.Names = append(stmt.Names, name)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	p.skipSemicolon()
	return stmt
}

// parseModulePath parses a dotted module name after import or from.
func (p *Parser) parseModulePath() (string, bool) {
	if !p.expectPeek(token.IDENT) {
		return "", false
	}
	parts := []string{p.curToken.Literal}

	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return "", false
		}
		parts = append(parts, p.curToken.Literal)
	}
	return strings.Join(parts, "."), true
}

// ---------- Exceptions ----------

// parseTryStatement parses try with at least one except or a finally.
//
//	try    → "try" block except* ["finally" block]
//	except → "except" [expr] ["as" IDENT] block
func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}

	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}

	for p.peekTokenIs(token.EXCEPT) {
		p.nextToken()
		clause := &ast.ExceptClause{Token: p.curToken}

		if !p.peekTokenIs(token.LBRACE) && !p.peekTokenIs(token.COLON) && !p.peekTokenIs(token.AS) {
			p.nextToken()
			clause.Type = p.parseExpression(PrecedenceLowest)
			if clause.Type == nil {
				return nil
			}
		}

		if p.peekTokenIs(token.AS) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			clause.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		}

		clause.Body = p.parseBlock()
		if clause.Body == nil {
			return nil
		}
		stmt.Excepts = append(stmt.Excepts, clause)
	}

	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		stmt.Finally = p.parseBlock()
		if stmt.Finally == nil {
			return nil
		}
	}

	if len(stmt.Excepts) == 0 && stmt.Finally == nil {
		p.addErrorAt(p.peekToken.Pos, ErrExpectedExcept)
		return nil
	}
	return stmt
}

// ---------- Blocks ----------

// parseBlock parses the block that follows a header. The current token is
// the header's last token.
func (p *Parser) parseBlock() *ast.BlockStatement {
	switch {
	case p.peekTokenIs(token.LBRACE):
		p.nextToken()
		return p.parseBraceBlock()
	case p.peekTokenIs(token.COLON):
		p.nextToken()
		return p.parseSuite()
	default:
		p.addErrorAt(p.peekToken.Pos, fmt.Sprintf(ErrExpectedBlockStart, p.peekToken.Type))
		return nil
	}
}

// parseBraceBlock parses statements between "{" and "}". Layout tokens
// inside braces only separate statements. A block left open at EOF is
// reported and keeps the statements collected so far.
func (p *Parser) parseBraceBlock() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(fmt.Sprintf(ErrExpectedToken, token.RBRACE, token.EOF))
			return block
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseSuite parses the block after ":". An indented suite ends on its
// DEDENT; otherwise a single statement on the same line forms the block.
func (p *Parser) parseSuite() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}

	switch p.peekToken.Type {
	case token.INDENT:
		p.nextToken()
		p.nextToken()
		for !p.curTokenIs(token.DEDENT) && !p.curTokenIs(token.EOF) {
			if stmt := p.parseStatement(); stmt != nil {
				block.Statements = append(block.Statements, stmt)
			}
			p.nextToken()
		}
		return block
	case token.NEWLINE, token.EOF:
		p.peekError(token.INDENT)
		return nil
	default:
		p.nextToken()
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		return block
	}
}
