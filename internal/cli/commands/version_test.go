package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		info    BuildInfo
		wantOut []string
	}{
		{
			name:    "release version",
			info:    BuildInfo{Version: "0.1.0"},
			wantOut: []string{"leapscript v0.1.0", "parser"},
		},
		{
			name:    "dev version",
			info:    BuildInfo{Version: "dev"},
			wantOut: []string{"leapscript vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirProject(t, nil)

			out, _, err := execute(t, NewVersionCommand(tt.info), "")
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "commit")
		})
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	chdirProject(t, nil)
	t.Setenv("LEAPSCRIPT_OUTPUT", "json")

	out, _, err := execute(t, NewVersionCommand(BuildInfo{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2024-01-01"}), "")
	require.NoError(t, err)

	var info BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.NotEmpty(t, info.GoVersion)
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}
