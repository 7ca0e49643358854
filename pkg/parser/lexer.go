package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leapscript/pkg/token"
)

// tabWidth is the number of columns a tab contributes to indentation.
const tabWidth = 4

// eof marks the end of input in Lexer.ch. It is not a valid rune, so a NUL
// byte in the source is scanned like any other character.
const eof rune = -1

// Lexer tokenizes leapscript source. It is a pull-based state machine: each
// NextToken call returns one token. Indentation changes are reported as
// synthesized INDENT and DEDENT tokens; several DEDENTs for one line break
// are queued and drained on subsequent calls.
//
// A Lexer is not safe for concurrent use.
type Lexer struct {
	input   string
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
	ch      rune // current char under examination, eof at the end
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based, in runes)

	indents    []int         // indentation stack, strictly increasing, bottom is 0
	indent     int           // indentation width of the line being scanned
	pending    []token.Token // queued layout tokens
	parenDepth int           // open ( and [ suppress layout tokens
	started    bool          // first line's indentation has been measured
	emitted    bool          // a non-layout token has been returned

	// Comments collected during lexing (for the formatter)
	Comments []*token.Comment
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:   input,
		line:    1,
		col:     0,
		indents: []int{0},
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos > len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	l.col++
	l.pos = l.readPos
	if l.readPos == len(l.input) {
		l.ch = eof
		l.readPos++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += w
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// currentPos returns the position of the current character.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token, or a *LexError for a malformed number or
// an unterminated string. After EOF it keeps returning EOF.
func (l *Lexer) NextToken() (token.Token, error) {
	if tok, ok := l.popPending(); ok {
		return tok, nil
	}

	first := !l.started
	if first {
		l.started = true
		l.indent = l.measureIndent()
	}

	crossed, newlinePos := l.skipWhitespace()
	if l.ch == eof {
		l.indent = 0
	}
	if crossed || first {
		if tok, ok := l.resolveIndent(); ok {
			return tok, nil
		}
		if crossed && l.emitted {
			return token.Token{Type: token.NEWLINE, Literal: "\n", Pos: newlinePos}, nil
		}
	}

	pos := l.currentPos()

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case eof:
		if len(l.indents) > 1 {
			l.indent = 0
			if dedent, ok := l.resolveIndent(); ok {
				return dedent, nil
			}
		}
		tok.Type = token.EOF
		tok.Literal = ""
		return tok, nil
	case '=':
		tok = l.twoCharToken(pos, token.ASSIGN, '=', token.EQ)
	case '+':
		tok = l.twoCharToken(pos, token.PLUS, '=', token.PLUS_ASSIGN)
	case '-':
		tok = l.twoCharToken(pos, token.MINUS, '=', token.MINUS_ASSIGN)
	case '!':
		tok = l.twoCharToken(pos, token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = l.twoCharToken(pos, token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.twoCharToken(pos, token.GT, '=', token.GT_EQ)
	case '/':
		tok = l.twoCharToken(pos, token.SLASH, '=', token.SLASH_ASSIGN)
	case '*':
		switch l.peekChar() {
		case '*':
			l.readChar()
			tok = token.Token{Type: token.POWER, Literal: "**", Pos: pos}
		case '=':
			l.readChar()
			tok = token.Token{Type: token.STAR_ASSIGN, Literal: "*=", Pos: pos}
		default:
			tok = l.newToken(token.ASTERISK, "*")
		}
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case '.':
		tok = l.newToken(token.DOT, ".")
	case '(':
		l.parenDepth++
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		l.closeParen()
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		l.parenDepth++
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		l.closeParen()
		tok = l.newToken(token.RBRACKET, "]")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '"', '\'':
		value, err := l.readString()
		if err != nil {
			return token.Token{}, err
		}
		l.emitted = true
		return token.Token{Type: token.STRING, Literal: value, Pos: pos}, nil
	default:
		switch {
		case isLetter(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			l.emitted = true
			return tok, nil
		case isDigit(l.ch):
			numTok, err := l.readNumber()
			if err != nil {
				return token.Token{}, err
			}
			l.emitted = true
			return numTok, nil
		default:
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	l.emitted = true
	return tok, nil
}

// newToken creates a single-character token at the current position.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// twoCharToken returns the two-character form when the next char is second,
// otherwise the single-character form.
func (l *Lexer) twoCharToken(pos token.Position, single token.TokenType, second rune, double token.TokenType) token.Token {
	if l.peekChar() == second {
		first := l.ch
		l.readChar()
		return token.Token{Type: double, Literal: string(first) + string(second), Pos: pos}
	}
	return token.Token{Type: single, Literal: string(l.ch), Pos: pos}
}

func (l *Lexer) closeParen() {
	if l.parenDepth > 0 {
		l.parenDepth--
	}
}

// ---------- Layout ----------

// skipWhitespace skips horizontal whitespace and comments. When it crosses a
// line break outside brackets it measures the indentation of the following
// line. Blank and comment-only lines are skipped entirely, so the measured
// width always belongs to a line that holds a token. The position of the
// first crossed line break is returned.
func (l *Lexer) skipWhitespace() (bool, token.Position) {
	crossed := false
	var at token.Position
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f':
			l.readChar()
		case l.ch == '#' || (l.ch == '/' && l.peekChar() == '/'):
			l.collectComment()
		case l.ch == '\n':
			if l.parenDepth > 0 {
				l.readChar()
				continue
			}
			if !crossed {
				crossed = true
				at = l.currentPos()
			}
			l.readChar()
			l.indent = l.measureIndent()
		default:
			return crossed, at
		}
	}
}

// measureIndent consumes leading spaces and tabs and returns their width.
func (l *Lexer) measureIndent() int {
	width := 0
	for l.ch == ' ' || l.ch == '\t' {
		if l.ch == '\t' {
			width += tabWidth
		} else {
			width++
		}
		l.readChar()
	}
	return width
}

// resolveIndent compares the current line's indentation with the stack.
// It pushes and returns INDENT on increase, or queues one DEDENT per popped
// level on decrease and returns the first. A dedent to a width that was never
// pushed is followed by an INDENT for that width so the stack top always equals
// the current line's indentation. It returns false when the width is unchanged.
func (l *Lexer) resolveIndent() (token.Token, bool) {
	pos := l.currentPos()
	top := l.indents[len(l.indents)-1]

	switch {
	case l.indent > top:
		l.indents = append(l.indents, l.indent)
		return token.Token{Type: token.INDENT, Pos: pos}, true
	case l.indent < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > l.indent {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, token.Token{Type: token.DEDENT, Pos: pos})
		}
		if l.indents[len(l.indents)-1] < l.indent {
			l.indents = append(l.indents, l.indent)
			l.pending = append(l.pending, token.Token{Type: token.INDENT, Pos: pos})
		}
		return l.popPending()
	}
	return token.Token{}, false
}

// popPending removes and returns the oldest queued layout token.
func (l *Lexer) popPending() (token.Token, bool) {
	if len(l.pending) == 0 {
		return token.Token{}, false
	}
	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok, true
}

// Depth returns the number of open indentation levels.
func (l *Lexer) Depth() int {
	return len(l.indents) - 1
}

// collectComment collects a # or // comment up to the end of the line.
func (l *Lexer) collectComment() {
	startPos := l.currentPos()
	startOffset := l.pos
	kind := token.HashComment
	if l.ch == '/' {
		kind = token.SlashComment
	}

	for l.ch != '\n' && l.ch != eof {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Kind: kind,
		Text: strings.TrimRight(l.input[startOffset:l.pos], "\r"),
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// ---------- Literals ----------

// readString reads a string delimited by the current quote character.
// A backslash escapes the matching quote or another backslash; any other
// backslash sequence is kept verbatim.
func (l *Lexer) readString() (string, error) {
	quote := l.ch
	start := l.currentPos()
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != quote {
		if l.ch == eof {
			return "", &LexError{Pos: start, Message: ErrUnterminatedString}
		}
		if l.ch == '\\' && (l.peekChar() == quote || l.peekChar() == '\\') {
			l.readChar() // skip backslash
		}
		result.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // skip closing quote
	return result.String(), nil
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer, or a float when a '.' is followed by a digit.
// The literal must fit the 64-bit integer or float type.
func (l *Lexer) readNumber() (token.Token, error) {
	pos := l.currentPos()
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	literal := l.input[start:l.pos]
	if isFloat {
		if _, err := strconv.ParseFloat(literal, 64); err != nil {
			return token.Token{}, &LexError{Pos: pos, Message: fmt.Sprintf(ErrInvalidFloat, literal)}
		}
		return token.Token{Type: token.FLOAT, Literal: literal, Pos: pos}, nil
	}
	if _, err := strconv.ParseInt(literal, 10, 64); err != nil {
		return token.Token{}, &LexError{Pos: pos, Message: fmt.Sprintf(ErrInvalidInteger, literal)}
	}
	return token.Token{Type: token.INT, Literal: literal, Pos: pos}, nil
}

// isLetter returns true if ch can start an identifier.
func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

// isDigit returns true if ch is an ASCII digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// ---------- Drivers ----------

// Tokenize returns all tokens from the input, ending with EOF. It stops at
// the first lexical failure and returns the tokens read so far with the error.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// TokenizeAll tokenizes the whole input, recording lexical failures and
// continuing after them. The failing text produces no token.
func TokenizeAll(input string) ([]token.Token, []error) {
	tokens, _, errs := tokenizeWithComments(input)
	return tokens, errs
}

func tokenizeWithComments(input string) ([]token.Token, []*token.Comment, []error) {
	l := NewLexer(input)
	var tokens []token.Token
	var errs []error
	for {
		tok, err := l.NextToken()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, l.Comments, errs
		}
	}
}
