// Package format pretty-prints leapscript programs in brace or indentation
// style while preserving comments.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/leapscript/pkg/token"
)

// Printer handles program formatting with proper indentation and style.
type Printer struct {
	opts        Options
	output      *bytes.Buffer
	depth       int
	parenDepth  int // inside brackets everything prints on one line
	atLineStart bool
	comments    *commentQueue
}

func newPrinter(opts Options, comments []*token.Comment) *Printer {
	return &Printer{
		opts:        opts.normalize(),
		output:      &bytes.Buffer{},
		atLineStart: true,
		comments:    &commentQueue{comments: comments},
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

// newline ends the current line unless it is already ended.
func (p *Printer) newline() {
	if !p.atLineStart {
		p.writeln()
	}
}

// blankLine ends the current line and leaves exactly one empty line.
func (p *Printer) blankLine() {
	p.newline()
	if p.output.Len() > 0 && !bytes.HasSuffix(p.output.Bytes(), []byte("\n\n")) {
		p.writeln()
	}
}

func (p *Printer) writeIndent() {
	p.output.WriteString(strings.Repeat(" ", p.depth*p.opts.IndentWidth))
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// kw prints keywords based on the token type, separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// inline reports whether output must stay on the current line. Newlines
// inside brackets are not significant to the lexer, so blocks there are
// written with explicit separators.
func (p *Printer) inline() bool {
	return p.parenDepth > 0
}

// braces reports whether blocks are written with braces.
func (p *Printer) braces() bool {
	return p.opts.Style == StyleBrace || p.inline()
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
}
