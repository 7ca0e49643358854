package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapscript/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. It publishes
diagnostics as documents change and answers formatting, document symbol
and completion requests. Formatting defaults come from leapscript.yaml;
the editor's tab size overrides the indent width.`,
		Example: `  # Start LSP server (usually called by an editor)
  leapscript lsp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
		Format:  cmdCtx.Cfg.FormatOptions(),
		Version: version,
		Logger:  cmdCtx.Logger,
	})
	return server.Run()
}
