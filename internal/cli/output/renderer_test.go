package output

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty means auto", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit yaml", ModeYAML, false, ModeYAML},
		{"explicit text piped", ModeText, false, ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range Modes {
		assert.True(t, ValidMode(string(m)), "mode %q", m)
	}
	assert.False(t, ValidMode("csv"))
	assert.False(t, ValidMode(""))
}

func TestMarkdownOutputHasNoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeAuto, false)

	r.Header(2, "check summary")
	r.StatusLine("main.ls", "error", "2 diagnostics")
	r.Success("done")
	r.Warning("careful")

	assert.Contains(t, out.String(), "## Check Summary")
	assert.Contains(t, out.String(), "- main.ls (error): 2 diagnostics")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, errOut.String(), "warning: careful")
	assert.False(t, ansiPattern.MatchString(out.String()+errOut.String()))
}

func TestTable(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table([]string{"file", "status"}, [][]string{{"a.ls", "ok"}})

		assert.Contains(t, out.String(), "| File | Status |")
		assert.Contains(t, out.String(), "| a.ls | ok |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"file"}, [][]string{{"a.ls"}})

		assert.Contains(t, out.String(), "a.ls")
		assert.Contains(t, out.String(), "┌")
	})
}

func TestMachineOutput(t *testing.T) {
	payload := map[string]any{"files": 2, "ok": true}

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeJSON, false)
		require.True(t, r.IsMachine())
		require.NoError(t, r.Data(payload))
		assert.JSONEq(t, `{"files": 2, "ok": true}`, out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeYAML, false)
		require.True(t, r.IsMachine())
		require.NoError(t, r.Data(payload))
		assert.Equal(t, "files: 2\nok: true\n", out.String())
	})

	t.Run("text is not machine", func(t *testing.T) {
		r, _, _ := newTestRenderer(ModeText, true)
		assert.False(t, r.IsMachine())
	})
}
