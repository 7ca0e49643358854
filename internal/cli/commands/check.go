package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapscript/internal/check"
	"github.com/leapstack-labs/leapscript/internal/cli/output"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // re-check files as they change
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check source files for lexical and parse errors",
		Long: `Tokenize and parse every project file and report diagnostics.

Files are discovered with the include and exclude globs of leapscript.yaml
and parsed in parallel. Results are cached by content hash in the check
cache, so unchanged files are not parsed again.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable report

The command fails when any diagnostic is found. With --watch it keeps
running and re-checks files as they are saved.`,
		Example: `  # Check the whole project
  leapscript check

  # Check one directory with 8 workers
  leapscript check src --jobs 8

  # Skip the cache
  leapscript check --no-cache

  # Re-check on save
  leapscript check --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().IntP("jobs", "j", 0, "Number of files parsed in parallel (default: number of CPUs)")
	cmd.Flags().Bool("no-cache", false, "Do not read or write the check cache")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-check files when they change")
	cmd.Flags().Duration("debounce", 0, "Quiet period before a watch re-check (default 200ms)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	store, closeCache := cmdCtx.OpenCache()
	defer closeCache()

	checker := cmdCtx.NewChecker(store)

	if opts.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runWatch(ctx, checker, args, r)
	}

	report, err := checker.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	if err := renderReport(r, report); err != nil {
		return err
	}
	if !report.OK() {
		return diagnosticsError(report.DiagnosticCount())
	}
	return nil
}

func runWatch(ctx context.Context, checker *check.Checker, args []string, r *output.Renderer) error {
	if !r.IsMachine() {
		r.Muted(fmt.Sprintf("Watching %s (press Ctrl+C to stop)", checker.Root()))
	}
	return checker.Watch(ctx, args, func(report *check.Report) {
		if err := renderReport(r, report); err != nil {
			r.Error(err.Error())
		}
	})
}

// renderReport prints diagnostics grouped by file and a summary table.
func renderReport(r *output.Renderer, report *check.Report) error {
	if r.IsMachine() {
		return r.Data(report)
	}

	if report.FailedFiles() > 0 {
		r.Header(2, "diagnostics")
		for _, f := range report.Files {
			if len(f.Diagnostics) == 0 {
				continue
			}
			r.StatusLine(f.Path, "error", plural(len(f.Diagnostics), "diagnostic"))
			for _, d := range f.Diagnostics {
				r.Println(fmt.Sprintf("      %s  %s (%s)", position(d.Line, d.Column), d.Message, d.Kind))
			}
		}
		r.Println()
	}

	r.Header(2, "summary")
	r.Table(
		[]string{"files", "failed", "diagnostics", "cached", "duration"},
		[][]string{{
			strconv.Itoa(len(report.Files)),
			strconv.Itoa(report.FailedFiles()),
			strconv.Itoa(report.DiagnosticCount()),
			strconv.Itoa(report.CachedFiles()),
			report.Duration.Round(time.Millisecond).String(),
		}},
	)

	if prev := report.Previous; prev != nil {
		r.Muted(fmt.Sprintf("previous run: %s, %s", plural(prev.Files, "file"), plural(prev.Diagnostics, "diagnostic")))
	}
	if report.CacheEntries > 0 {
		r.Muted(fmt.Sprintf("cache: %s", plural(report.CacheEntries, "stored result")))
	}

	if report.OK() {
		r.Success(fmt.Sprintf("%s checked, no diagnostics", plural(len(report.Files), "file")))
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
