package parser

import "github.com/leapstack-labs/leapscript/pkg/token"

// Shorthands for the token types the lexer and parser pass around.
type (
	TokenType = token.TokenType
	Token     = token.Token
	Position  = token.Position
)
