package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapscript/internal/cli/config"
	"github.com/leapstack-labs/leapscript/internal/testutil"
)

// execute runs cmd with args and stdin, with configuration loaded fresh
// from the working directory.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// chdirProject writes files into a temporary project and enters it.
func chdirProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, files)
	t.Chdir(dir)
	return dir
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewTokensCommand(), "tokens <file|->", []string{"comments"}},
		{NewParseCommand(), "parse <file|->", nil},
		{NewFmtCommand(), "fmt [paths...]", []string{"write", "check", "style", "indent"}},
		{NewCheckCommand(), "check [paths...]", []string{"jobs", "no-cache", "watch", "debounce"}},
		{NewLSPCommand("test"), "lsp", nil},
		{NewInitCommand(), "init [directory]", []string{"force"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")

			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 file", plural(1, "file"))
	assert.Equal(t, "0 files", plural(0, "file"))
	assert.Equal(t, "3 diagnostics", plural(3, "diagnostic"))
}
