package parser

import (
	"errors"
	"fmt"
)

// Diagnostic kinds reported by Kind.
const (
	KindLex   = "lex"
	KindParse = "parse"
)

// Diagnostic is a positioned problem found while reading source. Both
// *LexError and *ParseError implement it.
type Diagnostic interface {
	error
	Position() Position
	Kind() string
	Text() string
}

// AsDiagnostic unwraps err to a Diagnostic.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var d Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position returns where the error was found.
func (e *ParseError) Position() Position { return e.Pos }

// Kind returns KindParse.
func (e *ParseError) Kind() string { return KindParse }

// Text returns the message without position.
func (e *ParseError) Text() string { return e.Message }

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Position returns where the error was found.
func (e *LexError) Position() Position { return e.Pos }

// Kind returns KindLex.
func (e *LexError) Kind() string { return KindLex }

// Text returns the message without position.
func (e *LexError) Text() string { return e.Message }

// Lexer messages
const (
	ErrUnterminatedString = "unterminated string literal"
	ErrInvalidInteger     = "could not parse %q as integer"
	ErrInvalidFloat       = "could not parse %q as float"
)

// Parser messages
const (
	ErrExpectedToken      = "expected next token to be %s, got %s instead"
	ErrNoPrefixParseFn    = "no prefix parse function for %s found"
	ErrInvalidAssignment  = "invalid assignment target %s"
	ErrUnexpectedInClass  = "unexpected token %s in class body"
	ErrExpectedExcept     = "expected except or finally after try block"
	ErrExpectedBlockStart = "expected { or : to start a block, got %s instead"
)
