// Package token defines the lexical tokens of the leapscript language.
//
// Token types are a closed set of int32 constants so that the parser can
// dispatch on them with plain switch statements.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow the conventional token spelling
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // add, foobar, x
	INT    // 1343456
	FLOAT  // 3.14
	STRING // "hello" or 'hello'

	// Operators
	ASSIGN       // =
	PLUS         // +
	MINUS        // -
	BANG         // !
	ASTERISK     // *
	SLASH        // /
	PERCENT      // %
	POWER        // **
	EQ           // ==
	NOT_EQ       // !=
	LT           // <
	GT           // >
	LT_EQ        // <=
	GT_EQ        // >=
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	STAR_ASSIGN  // *=
	SLASH_ASSIGN // /=

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	FUNC
	LET
	TRUE
	FALSE
	IF
	ELSE
	ELIF
	RETURN
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	NONE
	CLASS
	IMPORT
	FROM
	AS
	TRY
	EXCEPT
	FINALLY
	WITH
	RAISE
	PASS
	YIELD
	LAMBDA
	AND
	OR
	NOT

	// Layout tokens synthesized by the lexer
	INDENT
	DEDENT
	NEWLINE
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	ASSIGN:       "=",
	PLUS:         "+",
	MINUS:        "-",
	BANG:         "!",
	ASTERISK:     "*",
	SLASH:        "/",
	PERCENT:      "%",
	POWER:        "**",
	EQ:           "==",
	NOT_EQ:       "!=",
	LT:           "<",
	GT:           ">",
	LT_EQ:        "<=",
	GT_EQ:        ">=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	STAR_ASSIGN:  "*=",
	SLASH_ASSIGN: "/=",

	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	DOT:       ".",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",

	FUNC:     "func",
	LET:      "let",
	TRUE:     "True",
	FALSE:    "False",
	IF:       "if",
	ELSE:     "else",
	ELIF:     "elif",
	RETURN:   "return",
	WHILE:    "while",
	FOR:      "for",
	IN:       "in",
	BREAK:    "break",
	CONTINUE: "continue",
	NONE:     "None",
	CLASS:    "class",
	IMPORT:   "import",
	FROM:     "from",
	AS:       "as",
	TRY:      "try",
	EXCEPT:   "except",
	FINALLY:  "finally",
	WITH:     "with",
	RAISE:    "raise",
	PASS:     "pass",
	YIELD:    "yield",
	LAMBDA:   "lambda",
	AND:      "and",
	OR:       "or",
	NOT:      "not",

	INDENT:  "INDENT",
	DEDENT:  "DEDENT",
	NEWLINE: "NEWLINE",
}

// keywords maps keyword text to its token type. Lookup is case-sensitive.
var keywords = map[string]TokenType{
	"func":     FUNC,
	"let":      LET,
	"True":     TRUE,
	"False":    FALSE,
	"if":       IF,
	"else":     ELSE,
	"elif":     ELIF,
	"return":   RETURN,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"None":     NONE,
	"class":    CLASS,
	"import":   IMPORT,
	"from":     FROM,
	"as":       AS,
	"try":      TRY,
	"except":   EXCEPT,
	"finally":  FINALLY,
	"with":     WITH,
	"raise":    RAISE,
	"pass":     PASS,
	"yield":    YIELD,
	"lambda":   LAMBDA,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= FUNC && t <= NOT
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= ASSIGN && t <= SLASH_ASSIGN
}

// IsDelimiter returns true if the token type is punctuation.
func IsDelimiter(t TokenType) bool {
	return t >= COMMA && t <= RBRACKET
}

// IsLayout returns true for the synthesized INDENT, DEDENT and NEWLINE tokens.
func IsLayout(t TokenType) bool {
	return t == INDENT || t == DEDENT || t == NEWLINE
}

// IsAssignment returns true for = and the compound assignment operators.
func IsAssignment(t TokenType) bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		return true
	}
	return false
}

// Keywords returns the keyword spellings in declaration order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for t := FUNC; t <= NOT; t++ {
		out = append(out, tokenNames[t])
	}
	return out
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String renders the token for debugging output.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Pos)
}
