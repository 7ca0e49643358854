// Package check parses many leapscript files concurrently and aggregates
// their diagnostics. Results are cached by content hash when a cache is
// configured.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapscript/internal/cache"
	"github.com/leapstack-labs/leapscript/pkg/parser"
)

// Diagnostic kinds.
const (
	KindLex   = parser.KindLex
	KindParse = parser.KindParse
)

// Options configures a Checker.
type Options struct {
	Root     string // base for glob matching and reported paths; defaults to "."
	Include  []string
	Exclude  []string
	Jobs     int           // parallel parses; <= 0 uses GOMAXPROCS
	Debounce time.Duration // quiet period before a watch re-check
	Cache    *cache.Cache  // optional
	Logger   *slog.Logger
}

// FileResult holds the diagnostics of one file.
type FileResult struct {
	Path        string             `json:"path" yaml:"path"`
	Diagnostics []cache.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Cached      bool               `json:"cached" yaml:"cached"`
}

// Report aggregates the results of one check run.
type Report struct {
	RunID    string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Files    []FileResult  `json:"files" yaml:"files"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Set by Run when a cache is configured.
	Previous     *cache.Run `json:"previous_run,omitempty" yaml:"previous_run,omitempty"`
	CacheEntries int        `json:"cache_entries,omitempty" yaml:"cache_entries,omitempty"`
}

// DiagnosticCount returns the total number of diagnostics.
func (r *Report) DiagnosticCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// FailedFiles returns the number of files with at least one diagnostic.
func (r *Report) FailedFiles() int {
	n := 0
	for _, f := range r.Files {
		if len(f.Diagnostics) > 0 {
			n++
		}
	}
	return n
}

// CachedFiles returns the number of results served from the cache.
func (r *Report) CachedFiles() int {
	n := 0
	for _, f := range r.Files {
		if f.Cached {
			n++
		}
	}
	return n
}

// OK reports whether no file has diagnostics.
func (r *Report) OK() bool {
	return r.DiagnosticCount() == 0
}

// Checker runs checks over a project tree.
type Checker struct {
	opts   Options
	root   string
	logger *slog.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	root := opts.Root
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Checker{opts: opts, root: root, logger: logger}
}

// Root returns the absolute project root.
func (c *Checker) Root() string {
	return c.root
}

// CheckSource parses src and returns its diagnostics in source order of
// discovery: lexical problems first, then parse problems.
func CheckSource(src string) []cache.Diagnostic {
	return Diagnostics(parser.ParseSource(src).Errors)
}

// Diagnostics converts parser errors to diagnostics.
func Diagnostics(errs []error) []cache.Diagnostic {
	diags := make([]cache.Diagnostic, 0, len(errs))
	for _, err := range errs {
		d, ok := parser.AsDiagnostic(err)
		if !ok {
			diags = append(diags, cache.Diagnostic{Kind: KindParse, Message: err.Error()})
			continue
		}
		pos := d.Position()
		diags = append(diags, cache.Diagnostic{
			Line: pos.Line, Column: pos.Column, Kind: d.Kind(), Message: d.Text(),
		})
	}
	return diags
}

// Run discovers files under paths (the root when empty) and checks them.
// A run over the whole root also prunes cache entries of deleted files.
func (c *Checker) Run(ctx context.Context, paths []string) (*Report, error) {
	files, err := c.Discover(paths)
	if err != nil {
		return nil, err
	}

	var previous *cache.Run
	if c.opts.Cache != nil {
		if previous, err = c.opts.Cache.LatestRun(ctx); err != nil {
			c.logger.Warn("failed to read previous run", slog.String("error", err.Error()))
		}
	}

	report, err := c.CheckFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	report.Previous = previous

	if c.opts.Cache == nil {
		return report, nil
	}
	if len(paths) == 0 {
		if removed, err := c.opts.Cache.Prune(ctx, files); err != nil {
			c.logger.Warn("failed to prune cache", slog.String("error", err.Error()))
		} else if removed > 0 {
			c.logger.Debug("pruned cache entries", slog.Int("removed", removed))
		}
	}
	if n, err := c.opts.Cache.Count(ctx); err != nil {
		c.logger.Warn("failed to count cache entries", slog.String("error", err.Error()))
	} else {
		report.CacheEntries = n
	}
	return report, nil
}

// CheckFiles checks the given files, as returned by Discover, in parallel.
// Results keep the order of files.
func (c *Checker) CheckFiles(ctx context.Context, files []string) (*Report, error) {
	start := time.Now()
	report := &Report{Files: make([]FileResult, len(files))}

	var run *cache.Run
	if c.opts.Cache != nil {
		r, err := c.opts.Cache.BeginRun(ctx)
		if err != nil {
			c.logger.Warn("failed to record run", slog.String("error", err.Error()))
		} else {
			run = r
			report.RunID = r.ID
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Jobs)

	for i, file := range files {
		g.Go(func() error {
			res, err := c.checkFile(gctx, file)
			if err != nil {
				return err
			}
			report.Files[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)

	if run != nil {
		if err := c.opts.Cache.CompleteRun(ctx, run, len(files), report.DiagnosticCount()); err != nil {
			c.logger.Warn("failed to complete run", slog.String("error", err.Error()))
		}
	}

	c.logger.Debug("check finished",
		slog.Int("files", len(files)),
		slog.Int("diagnostics", report.DiagnosticCount()),
		slog.Int("cached", report.CachedFiles()),
		slog.Duration("duration", report.Duration))
	return report, nil
}

func (c *Checker) checkFile(ctx context.Context, file string) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{}, err
	}

	data, err := os.ReadFile(c.AbsPath(file))
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to read %s: %w", file, err)
	}

	hash := cache.HashContent(data)
	if c.opts.Cache != nil {
		diags, hit, err := c.opts.Cache.Lookup(ctx, file, hash)
		if err != nil {
			c.logger.Warn("cache lookup failed", slog.String("path", file), slog.String("error", err.Error()))
		} else if hit {
			return FileResult{Path: file, Diagnostics: diags, Cached: true}, nil
		}
	}

	diags := CheckSource(string(data))
	c.logger.Debug("checked file", slog.String("path", file), slog.Int("diagnostics", len(diags)))

	if c.opts.Cache != nil {
		if err := c.opts.Cache.Store(ctx, file, hash, diags); err != nil {
			c.logger.Warn("cache store failed", slog.String("path", file), slog.String("error", err.Error()))
		}
	}
	return FileResult{Path: file, Diagnostics: diags}, nil
}

// AbsPath resolves a path reported by Discover against the root.
func (c *Checker) AbsPath(file string) string {
	p := filepath.FromSlash(file)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// displayPath returns path relative to the root in slash form, or the
// absolute path when it lies outside the root.
func (c *Checker) displayPath(path string) string {
	abs := path
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	rel, err := filepath.Rel(c.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}
