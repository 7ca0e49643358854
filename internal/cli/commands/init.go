package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapscript/internal/cli/config"
	"github.com/leapstack-labs/leapscript/internal/cli/output"
)

// initConfig is the layout of a generated leapscript.yaml. Durations are
// written as strings so the file stays readable.
type initConfig struct {
	Include []string            `yaml:"include"`
	Exclude []string            `yaml:"exclude"`
	Jobs    int                 `yaml:"jobs"`
	Cache   config.CacheConfig  `yaml:"cache"`
	Format  config.FormatConfig `yaml:"format"`
	Watch   struct {
		Debounce string `yaml:"debounce"`
	} `yaml:"watch"`
}

const initHeader = `# leapscript project configuration.
# Every key can be overridden with a LEAPSCRIPT_* environment variable,
# e.g. LEAPSCRIPT_FORMAT__STYLE=indent.
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leapscript.yaml with default settings",
		Long: `Initialize a leapscript project by writing leapscript.yaml.

The file lists the default include and exclude globs, the check cache
location, formatter settings and the watch debounce period.`,
		Example: `  # Initialize in current directory
  leapscript init

  # Initialize in a new directory
  leapscript init my-project

  # Force overwrite existing config
  leapscript init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// init runs before a project exists, so it does not load config.
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	data, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Created " + configPath)
	return nil
}

func defaultConfigYAML() ([]byte, error) {
	d := config.Default()
	ic := initConfig{
		Include: d.Include,
		Exclude: d.Exclude,
		Jobs:    d.Jobs,
		Cache:   d.Cache,
		Format:  d.Format,
	}
	ic.Watch.Debounce = d.Watch.Debounce.String()

	body, err := yaml.Marshal(&ic)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte(initHeader), body...), nil
}
