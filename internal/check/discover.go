package check

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands paths into the files to check. Directories are walked
// and filtered by the include and exclude globs, which match slash paths
// relative to the root. Files named explicitly are always included. Hidden
// directories are skipped. The result is sorted and free of duplicates.
func (c *Checker) Discover(paths []string) ([]string, error) {
	if err := validatePatterns(c.opts.Include, "include"); err != nil {
		return nil, err
	}
	if err := validatePatterns(c.opts.Exclude, "exclude"); err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []string{c.root}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		d := c.displayPath(p)
		if !seen[d] {
			seen[d] = true
			files = append(files, d)
		}
	}

	for _, p := range paths {
		if !filepath.IsAbs(p) {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel := c.displayPath(path)
			if d.IsDir() {
				if path != p && c.skipDir(d.Name(), rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if c.matches(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	c.logger.Debug("discovered files", "count", len(files))
	return files, nil
}

// matches reports whether a root-relative slash path is included and not
// excluded.
func (c *Checker) matches(rel string) bool {
	return matchAny(c.opts.Include, rel) && !matchAny(c.opts.Exclude, rel)
}

func (c *Checker) skipDir(name, rel string) bool {
	return strings.HasPrefix(name, ".") || matchAny(c.opts.Exclude, rel)
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string, field string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid %s pattern %q", field, pattern)
		}
	}
	return nil
}
