package format

import (
	"fmt"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/parser"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Style selects how statement blocks are written.
type Style string

// Supported block styles.
const (
	StyleBrace  Style = "brace"  // if x { ... }
	StyleIndent Style = "indent" // if x: followed by an indented suite
)

const defaultIndentWidth = 4

// Options configures the printer.
type Options struct {
	Style       Style
	IndentWidth int
}

// DefaultOptions returns brace style with four-space indentation.
func DefaultOptions() Options {
	return Options{Style: StyleBrace, IndentWidth: defaultIndentWidth}
}

func (o Options) normalize() Options {
	if o.Style != StyleIndent {
		o.Style = StyleBrace
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = defaultIndentWidth
	}
	return o
}

// ParseStyle converts a configuration value to a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleBrace, StyleIndent:
		return Style(s), nil
	case "":
		return StyleBrace, nil
	default:
		return "", fmt.Errorf("unknown format style %q (expected %q or %q)", s, StyleBrace, StyleIndent)
	}
}

// Program formats a parsed program. Comments, as collected by the lexer,
// are placed before the statement that follows them, or at the end of a
// statement that shares their line.
func Program(prog *ast.Program, comments []*token.Comment, opts Options) string {
	p := newPrinter(opts, comments)
	p.formatProgram(prog)
	return p.String()
}

// Source parses and formats src. Source with diagnostics is not formatted
// and the first diagnostic is returned.
func Source(src string, opts Options) (string, error) {
	result := parser.ParseSource(src)
	if len(result.Errors) > 0 {
		return "", result.Errors[0]
	}
	return Program(result.Program, result.Comments, opts), nil
}
