package config

import (
	"fmt"

	"github.com/leapstack-labs/leapscript/internal/cli/output"
	"github.com/leapstack-labs/leapscript/pkg/format"
)

// maxIndentWidth bounds format.indent_width.
const maxIndentWidth = 16

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !output.ValidMode(c.OutputFormat) {
		return fmt.Errorf("invalid output %q: expected one of %v", c.OutputFormat, output.Modes)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include must list at least one pattern")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required when the cache is enabled")
	}
	if _, err := format.ParseStyle(c.Format.Style); err != nil {
		return err
	}
	if c.Format.IndentWidth < 1 || c.Format.IndentWidth > maxIndentWidth {
		return fmt.Errorf("format.indent_width must be between 1 and %d, got %d", maxIndentWidth, c.Format.IndentWidth)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// FormatOptions converts the format section to formatter options.
func (c *Config) FormatOptions() format.Options {
	style, err := format.ParseStyle(c.Format.Style)
	if err != nil {
		style = format.StyleBrace
	}
	return format.Options{Style: style, IndentWidth: c.Format.IndentWidth}
}
