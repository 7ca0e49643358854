package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapscript/internal/cache"
	"github.com/leapstack-labs/leapscript/internal/check"
	"github.com/leapstack-labs/leapscript/internal/cli/config"
	"github.com/leapstack-labs/leapscript/internal/cli/output"
)

// ErrDiagnosticsFound is returned by commands that found lexical or parse
// diagnostics, so the process exits non-zero.
var ErrDiagnosticsFound = errors.New("diagnostics found")

// stdinArg names standard input as a source argument.
const stdinArg = "-"

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// When the root command has not loaded one, it is loaded here from the
// command's flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig("", cmd.Flags())
		if err != nil {
			return nil, err
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// NewChecker builds a checker over the project root.
func (c *CommandContext) NewChecker(store *cache.Cache) *check.Checker {
	return check.New(check.Options{
		Root:     c.Cfg.ProjectRoot,
		Include:  c.Cfg.Include,
		Exclude:  c.Cfg.Exclude,
		Jobs:     c.Cfg.Jobs,
		Debounce: c.Cfg.Watch.Debounce,
		Cache:    store,
		Logger:   c.Logger,
	})
}

// OpenCache opens and migrates the check cache when it is enabled. A cache
// that cannot be opened is reported and checking continues without it.
// The returned cleanup function must be called.
func (c *CommandContext) OpenCache() (*cache.Cache, func()) {
	if !c.Cfg.Cache.Enabled {
		return nil, func() {}
	}

	store := cache.New(c.Logger)
	if err := store.Open(c.Cfg.Cache.Path); err != nil {
		c.Renderer.Warning(fmt.Sprintf("cache disabled: %v", err))
		return nil, func() {}
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		c.Renderer.Warning(fmt.Sprintf("cache disabled: %v", err))
		return nil, func() {}
	}
	return store, func() { _ = store.Close() }
}

// readSource reads the file named by arg, or standard input for "-".
func readSource(cmd *cobra.Command, arg string) (string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", arg, err)
	}
	return string(data), nil
}

// sourceName is the name diagnostics use for arg.
func sourceName(arg string) string {
	if arg == stdinArg {
		return "<stdin>"
	}
	return arg
}

// renderDiagnostics writes one line per diagnostic to stderr.
func renderDiagnostics(r *output.Renderer, name string, diags []cache.Diagnostic) {
	for _, d := range diags {
		r.Error(fmt.Sprintf("%s:%d:%d: %s", name, d.Line, d.Column, d.Message))
	}
}

// diagnosticsError wraps ErrDiagnosticsFound with a count.
func diagnosticsError(n int) error {
	if n == 1 {
		return fmt.Errorf("%w: 1 diagnostic", ErrDiagnosticsFound)
	}
	return fmt.Errorf("%w: %d diagnostics", ErrDiagnosticsFound, n)
}
