package commands

import (
	"runtime"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display leapscript version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			if info.GoVersion == "" {
				info.GoVersion = runtime.Version()
			}
			if r.IsMachine() {
				return r.Data(info)
			}

			r.Printf("leapscript v%s\n", info.Version)
			r.Println("Tokenizer, parser and formatter for the leapscript language")
			if cmdCtx.Cfg.Verbose {
				r.Muted("commit " + info.GitCommit + ", built " + info.BuildDate + " with " + info.GoVersion)
			}
			return nil
		},
	}
}
