package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapscript/internal/check"
	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/parser"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse a source file and print its syntax tree",
		Long: `Parse a leapscript file and print the resulting program.

Text output prints the canonical form of each top-level statement, one
per line. JSON and YAML output print the full syntax tree without
positions. Diagnostics are reported on stderr and the command fails.`,
		Example: `  # Print canonical statements
  leapscript parse main.ls

  # Dump the tree as YAML
  leapscript parse main.ls -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0])
		},
	}

	return cmd
}

func runParse(cmd *cobra.Command, arg string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	src, err := readSource(cmd, arg)
	if err != nil {
		return err
	}

	result := parser.ParseSource(src)

	if r.IsMachine() {
		if err := r.Data(ast.Dump(result.Program)); err != nil {
			return err
		}
	} else {
		for _, stmt := range result.Program.Statements {
			r.Println(stmt.String())
		}
	}

	if len(result.Errors) > 0 {
		renderDiagnostics(r, sourceName(arg), check.Diagnostics(result.Errors))
		return diagnosticsError(len(result.Errors))
	}
	return nil
}
