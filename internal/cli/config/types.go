// Package config loads leapscript CLI configuration.
//
// Values are layered with koanf: built-in defaults, then leapscript.yaml,
// then LEAPSCRIPT_* environment variables, then explicitly set flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool         `koanf:"verbose" yaml:"verbose"`
	OutputFormat string       `koanf:"output" yaml:"output"`
	Include      []string     `koanf:"include" yaml:"include"`
	Exclude      []string     `koanf:"exclude" yaml:"exclude"`
	Jobs         int          `koanf:"jobs" yaml:"jobs"`
	Cache        CacheConfig  `koanf:"cache" yaml:"cache"`
	Format       FormatConfig `koanf:"format" yaml:"format"`
	Watch        WatchConfig  `koanf:"watch" yaml:"watch"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. It is not read from the file.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// CacheConfig controls the check-result cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Path    string `koanf:"path" yaml:"path"`
}

// FormatConfig controls the formatter.
type FormatConfig struct {
	Style       string `koanf:"style" yaml:"style"`
	IndentWidth int    `koanf:"indent_width" yaml:"indent_width"`
}

// WatchConfig controls check --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" yaml:"debounce"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultInclude     = "**/*.ls"
	DefaultExclude     = ".leapscript/**"
	DefaultCachePath   = ".leapscript/cache.db"
	DefaultStyle       = "brace"
	DefaultIndentWidth = 4
	DefaultDebounce    = 200 * time.Millisecond
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"leapscript.yaml", "leapscript.yml"}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Include:      []string{DefaultInclude},
		Exclude:      []string{DefaultExclude},
		Cache:        CacheConfig{Enabled: true, Path: DefaultCachePath},
		Format:       FormatConfig{Style: DefaultStyle, IndentWidth: DefaultIndentWidth},
		Watch:        WatchConfig{Debounce: DefaultDebounce},
	}
}
