package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapscript/internal/check"
	"github.com/leapstack-labs/leapscript/internal/cli/output"
	"github.com/leapstack-labs/leapscript/pkg/parser"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Comments bool // also list collected comments
}

// tokenRow is one token in machine output.
type tokenRow struct {
	Type    string `json:"type" yaml:"type"`
	Literal string `json:"literal" yaml:"literal"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

// commentRow is one comment in machine output.
type commentRow struct {
	Text   string `json:"text" yaml:"text"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

type tokensResult struct {
	Tokens   []tokenRow   `json:"tokens" yaml:"tokens"`
	Comments []commentRow `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens <file|->",
		Short: "Print the token stream of a source file",
		Long: `Tokenize a leapscript file and print every token with its position.

Layout tokens (INDENT, DEDENT, NEWLINE) are included, which makes this
useful for debugging indentation. Lexical errors are reported on stderr
and the command fails.`,
		Example: `  # Show tokens of a file
  leapscript tokens main.ls

  # Read from stdin, emit JSON
  echo 'let x = 1' | leapscript tokens - -o json

  # Include comments
  leapscript tokens main.ls --comments`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Comments, "comments", false, "Also list comments")

	return cmd
}

func runTokens(cmd *cobra.Command, arg string, opts *TokensOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	src, err := readSource(cmd, arg)
	if err != nil {
		return err
	}

	lexer := parser.NewLexer(src)
	var toks []token.Token
	var errs []error
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	result := tokensResult{Tokens: make([]tokenRow, len(toks))}
	for i, tok := range toks {
		result.Tokens[i] = tokenRow{
			Type:    tok.Type.String(),
			Literal: tok.Literal,
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
		}
	}
	if opts.Comments {
		for _, c := range lexer.Comments {
			result.Comments = append(result.Comments, commentRow{
				Text:   c.Text,
				Line:   c.Span.Start.Line,
				Column: c.Span.Start.Column,
			})
		}
	}

	if r.IsMachine() {
		if err := r.Data(result); err != nil {
			return err
		}
	} else {
		renderTokens(r, result)
	}

	if len(errs) > 0 {
		renderDiagnostics(r, sourceName(arg), check.Diagnostics(errs))
		return diagnosticsError(len(errs))
	}
	return nil
}

func renderTokens(r *output.Renderer, result tokensResult) {
	rows := make([][]string, len(result.Tokens))
	for i, t := range result.Tokens {
		rows[i] = []string{t.Type, displayLiteral(t.Literal), position(t.Line, t.Column)}
	}
	r.Table([]string{"type", "literal", "position"}, rows)

	if len(result.Comments) == 0 {
		return
	}
	rows = make([][]string, len(result.Comments))
	for i, c := range result.Comments {
		rows[i] = []string{c.Text, position(c.Line, c.Column)}
	}
	r.Table([]string{"comment", "position"}, rows)
}

// displayLiteral makes layout literals visible in a table cell.
func displayLiteral(lit string) string {
	if strings.ContainsAny(lit, "\n\t\r") {
		return strings.Trim(strconv.Quote(lit), `"`)
	}
	return lit
}

func position(line, column int) string {
	return strconv.Itoa(line) + ":" + strconv.Itoa(column)
}
