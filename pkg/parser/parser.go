// Package parser turns leapscript source into an abstract syntax tree.
//
// # Usage
//
//	program, err := parser.Parse(src)
//	if err != nil {
//	    // handle error
//	}
//
// Tooling that wants every diagnostic rather than the first uses ParseSource:
//
//	result := parser.ParseSource(src)
//	for _, err := range result.Errors {
//	    fmt.Println(err)
//	}
//
// # Grammar Overview
//
// The parser is a Pratt parser over the token stream produced by Lexer.
// Blocks are written either with braces or with a colon followed by an
// indented suite:
//
//	program    → statement*
//	statement  → let | return | if | while | for | func | class | import
//	           | from | try | raise | pass | break | continue | block | expr
//	block      → "{" statement* "}"
//	           | ":" INDENT statement* DEDENT
//	           | ":" statement
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Parser parses a token sequence into an AST. It never aborts: problems
// are recorded as diagnostics and parsing resumes at the next statement.
type Parser struct {
	tokens []Token
	pos    int // index of the token after peekToken

	curToken  Token // current token
	peekToken Token // lookahead token

	errors []*ParseError
}

// New creates a parser over tokens. An EOF token is appended when the
// sequence does not end with one.
func New(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		eof := Token{Type: token.EOF}
		if len(tokens) > 0 {
			eof.Pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}

	p := &Parser{tokens: tokens}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// Result holds everything produced by parsing one source text.
type Result struct {
	Program  *ast.Program
	Tokens   []Token
	Comments []*token.Comment
	Errors   []error // lexical errors first, then parse errors
}

// ParseSource tokenizes and parses src, collecting every diagnostic.
func ParseSource(src string) *Result {
	tokens, comments, lexErrs := tokenizeWithComments(src)
	p := New(tokens)
	program := p.ParseProgram()

	errs := make([]error, 0, len(lexErrs)+len(p.errors))
	errs = append(errs, lexErrs...)
	errs = append(errs, p.Diagnostics()...)

	return &Result{
		Program:  program,
		Tokens:   tokens,
		Comments: comments,
		Errors:   errs,
	}
}

// Parse parses src and returns the program, or the first diagnostic.
func Parse(src string) (*ast.Program, error) {
	result := ParseSource(src)
	if len(result.Errors) > 0 {
		return nil, result.Errors[0]
	}
	return result.Program, nil
}

// ParseProgram parses statements until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// Errors returns the diagnostic messages in the order they were found.
func (p *Parser) Errors() []string {
	msgs := make([]string, len(p.errors))
	for i, err := range p.errors {
		msgs[i] = err.Message
	}
	return msgs
}

// Diagnostics returns the diagnostics as *ParseError values.
func (p *Parser) Diagnostics() []error {
	errs := make([]error, len(p.errors))
	for i, err := range p.errors {
		errs[i] = err
	}
	return errs
}

// ---------- Token Helpers ----------

// nextToken advances to the next token. At the end it stays on EOF.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
		return
	}
	p.peekToken = p.tokens[len(p.tokens)-1]
}

// curTokenIs returns true if the current token is of the given type.
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the peek token is of the given type.
func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the peek token matches, otherwise records an error.
func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// peekError records that t was expected at the peek position.
func (p *Parser) peekError(t TokenType) {
	p.addErrorAt(p.peekToken.Pos, fmt.Sprintf(ErrExpectedToken, t, p.peekToken.Type))
}

// addError records an error at the current token.
func (p *Parser) addError(msg string) {
	p.addErrorAt(p.curToken.Pos, msg)
}

func (p *Parser) addErrorAt(pos Position, msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     pos,
		Message: msg,
	})
}

// skipPeekLayout advances past NEWLINE, INDENT and DEDENT tokens in peek.
func (p *Parser) skipPeekLayout() {
	for token.IsLayout(p.peekToken.Type) {
		p.nextToken()
	}
}
