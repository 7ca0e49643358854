package check

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Watch checks paths once, then re-checks files as they change until ctx
// is cancelled. Every report, the initial one included, is passed to
// onReport on the watching goroutine. Changes arriving within the debounce
// period are checked together.
func (c *Checker) Watch(ctx context.Context, paths []string, onReport func(*Report)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	roots := paths
	if len(roots) == 0 {
		roots = []string{c.root}
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := c.watchDirRecursive(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	report, err := c.Run(ctx, paths)
	if err != nil {
		return err
	}
	onReport(report)

	debounce := c.opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	pending := make(map[string]bool)
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := c.watchDirRecursive(watcher, event.Name); err != nil {
						c.logger.Warn("failed to watch new directory", slog.String("path", event.Name), slog.String("error", err.Error()))
					}
					continue
				}
			}

			rel := c.displayPath(event.Name)
			if !c.matches(rel) {
				continue
			}
			pending[rel] = true
			fire = time.After(debounce)

		case <-fire:
			fire = nil
			files := make([]string, 0, len(pending))
			for f := range pending {
				if _, err := os.Stat(c.AbsPath(f)); err == nil {
					files = append(files, f)
				}
			}
			clear(pending)
			if len(files) == 0 {
				continue
			}
			sort.Strings(files)

			c.logger.Debug("files changed, re-checking", slog.Int("files", len(files)))
			report, err := c.CheckFiles(ctx, files)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Error("re-check failed", slog.String("error", err.Error()))
				continue
			}
			onReport(report)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

// watchDirRecursive adds dir and its subdirectories to the watcher,
// skipping hidden and excluded directories.
func (c *Checker) watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && c.skipDir(d.Name(), c.displayPath(path)) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
