package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapscript/internal/check"
	"github.com/leapstack-labs/leapscript/pkg/format"
)

// ErrUnformatted is returned by fmt --check when a file would change.
var ErrUnformatted = errors.New("files are not formatted")

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool // rewrite files in place
	Check bool // list files that would change
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format source files",
		Long: `Format leapscript source files.

Without flags the formatted source is printed to stdout. Directories are
expanded with the include and exclude globs of leapscript.yaml; with no
paths the whole project is formatted. Files with diagnostics are never
rewritten.

The block style (brace or indent) and indent width come from the format
section of leapscript.yaml and can be overridden with --style and --indent.`,
		Example: `  # Print formatted source
  leapscript fmt main.ls

  # Rewrite every project file
  leapscript fmt -w

  # Fail in CI when something is unformatted
  leapscript fmt --check

  # Convert a file to indentation style
  leapscript fmt --style indent -w main.ls`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write result to the source files")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "List files whose formatting differs and fail")
	cmd.Flags().String("style", "", "Block style: brace or indent")
	cmd.Flags().Int("indent", 0, "Indent width in spaces")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	_ = cmd.RegisterFlagCompletionFunc("style", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(format.StyleBrace), string(format.StyleIndent)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	fmtOpts := cmdCtx.Cfg.FormatOptions()

	if len(args) == 1 && args[0] == stdinArg {
		if opts.Write {
			return fmt.Errorf("cannot use -w with stdin")
		}
		src, err := readSource(cmd, stdinArg)
		if err != nil {
			return err
		}
		return formatOne(cmdCtx, sourceName(stdinArg), src, fmtOpts, opts, nil)
	}

	checker := cmdCtx.NewChecker(nil)
	files, err := checker.Discover(args)
	if err != nil {
		return err
	}

	var failed, changed int
	for _, file := range files {
		path := checker.AbsPath(file)
		src, err := readSource(cmd, path)
		if err != nil {
			return err
		}

		err = formatOne(cmdCtx, file, src, fmtOpts, opts, func(formatted string) error {
			changed++
			return writeFormatted(path, formatted)
		})
		switch {
		case errors.Is(err, ErrDiagnosticsFound):
			failed++
		case errors.Is(err, ErrUnformatted):
			changed++
		case err != nil:
			return err
		}
	}

	cmdCtx.Logger.Debug("formatted files", "files", len(files), "changed", changed, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%w: %s could not be formatted", ErrDiagnosticsFound, plural(failed, "file"))
	}
	if opts.Check && changed > 0 {
		return fmt.Errorf("%w: %s", ErrUnformatted, plural(changed, "file"))
	}
	if opts.Write && !r.IsMachine() && changed > 0 {
		r.Success("Formatted " + plural(changed, "file"))
	}
	return nil
}

// formatOne formats a single source. With --check a changed source is
// listed and ErrUnformatted returned; with -w write is called for changed
// sources; otherwise the result is printed.
func formatOne(cmdCtx *CommandContext, name, src string, fmtOpts format.Options, opts *FmtOptions, write func(string) error) error {
	r := cmdCtx.Renderer

	formatted, err := format.Source(src, fmtOpts)
	if err != nil {
		diags := check.CheckSource(src)
		renderDiagnostics(r, name, diags)
		return diagnosticsError(len(diags))
	}

	switch {
	case opts.Check:
		if formatted != src {
			r.Println(name)
			return ErrUnformatted
		}
		return nil
	case opts.Write:
		if formatted == src || write == nil {
			return nil
		}
		return write(formatted)
	default:
		r.Printf("%s", formatted)
		return nil
	}
}

// writeFormatted replaces path with formatted through a temporary file in
// the same directory, so an interrupted write never leaves a truncated file.
func writeFormatted(path, formatted string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if err := writeTemp(tmp, formatted, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeTemp(f *os.File, content string, perm os.FileMode) error {
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
