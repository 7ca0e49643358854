package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTokensCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		chdirProject(t, nil)
		t.Setenv("LEAPSCRIPT_OUTPUT", "json")

		out, _, err := execute(t, NewTokensCommand(), "let x = 1", "-")
		require.NoError(t, err)

		var result tokensResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))

		types := make([]string, len(result.Tokens))
		for i, tok := range result.Tokens {
			types[i] = tok.Type
		}
		assert.Equal(t, []string{"let", "IDENT", "=", "INT", "EOF"}, types)
		assert.Equal(t, tokenRow{Type: "IDENT", Literal: "x", Line: 1, Column: 5}, result.Tokens[1])
		assert.Empty(t, result.Comments)
	})

	t.Run("markdown table with comments", func(t *testing.T) {
		dir := chdirProject(t, map[string]string{"main.ls": "x = 1 # note\n"})

		out, _, err := execute(t, NewTokensCommand(), "", dir+"/main.ls", "--comments")
		require.NoError(t, err)

		assert.Contains(t, out, "| Type | Literal | Position |")
		assert.Contains(t, out, "| IDENT | x | 1:1 |")
		assert.Contains(t, out, `| NEWLINE | \n | 1:13 |`)
		assert.Contains(t, out, "| # note | 1:7 |")
	})

	t.Run("lexical error", func(t *testing.T) {
		chdirProject(t, nil)

		_, errOut, err := execute(t, NewTokensCommand(), `let s = "abc`, "-")
		require.ErrorIs(t, err, ErrDiagnosticsFound)
		assert.Contains(t, errOut, "<stdin>:1:9: unterminated string literal")
	})

	t.Run("missing file", func(t *testing.T) {
		chdirProject(t, nil)

		_, _, err := execute(t, NewTokensCommand(), "", "missing.ls")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read missing.ls")
	})
}

func TestParseCommand(t *testing.T) {
	t.Run("canonical statements", func(t *testing.T) {
		chdirProject(t, nil)

		out, _, err := execute(t, NewParseCommand(), "x=1+2*3\nif x { pass }\n", "-")
		require.NoError(t, err)
		assert.Equal(t, "x = (1 + (2 * 3))\nif x { pass }\n", out)
	})

	t.Run("yaml dump", func(t *testing.T) {
		chdirProject(t, nil)
		t.Setenv("LEAPSCRIPT_OUTPUT", "yaml")

		out, _, err := execute(t, NewParseCommand(), "let x = 1", "-")
		require.NoError(t, err)

		var tree map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
		assert.Equal(t, "Program", tree["node"])
		stmts, ok := tree["statements"].([]any)
		require.True(t, ok)
		require.Len(t, stmts, 1)
		assert.Equal(t, "Let", stmts[0].(map[string]any)["node"])
	})

	t.Run("diagnostics", func(t *testing.T) {
		chdirProject(t, nil)

		_, errOut, err := execute(t, NewParseCommand(), "let x 5\n", "-")
		require.ErrorIs(t, err, ErrDiagnosticsFound)
		assert.Contains(t, errOut, "<stdin>:1:7: expected next token to be =, got INT instead")
	})
}

func TestFmtCommand(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		chdirProject(t, nil)

		out, _, err := execute(t, NewFmtCommand(), "x=1\n", "-")
		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", out)
	})

	t.Run("style flag", func(t *testing.T) {
		chdirProject(t, nil)

		out, _, err := execute(t, NewFmtCommand(), "if x {\n    pass\n}\n", "--style", "indent", "-")
		require.NoError(t, err)
		assert.Equal(t, "if x:\n    pass\n", out)
	})

	t.Run("style from config file", func(t *testing.T) {
		chdirProject(t, map[string]string{
			"leapscript.yaml": "format:\n  style: indent\n  indent_width: 2\n",
		})

		out, _, err := execute(t, NewFmtCommand(), "if x { y = 1 }", "-")
		require.NoError(t, err)
		assert.Equal(t, "if x:\n  y = 1\n", out)
	})

	t.Run("check lists unformatted files", func(t *testing.T) {
		chdirProject(t, map[string]string{
			"a.ls": "x = 1\n",
			"b.ls": "y=2\n",
		})

		out, _, err := execute(t, NewFmtCommand(), "", "--check")
		require.ErrorIs(t, err, ErrUnformatted)
		assert.Contains(t, out, "b.ls")
		assert.NotContains(t, out, "a.ls")
	})

	t.Run("write rewrites changed files", func(t *testing.T) {
		dir := chdirProject(t, map[string]string{
			"a.ls":     "x = 1\n",
			"lib/b.ls": "y=2\n",
		})

		out, _, err := execute(t, NewFmtCommand(), "", "-w")
		require.NoError(t, err)
		assert.Contains(t, out, "Formatted 1 file")
		assert.Equal(t, "y = 2\n", readFile(t, dir, "lib/b.ls"))
		assert.Equal(t, "x = 1\n", readFile(t, dir, "a.ls"))
	})

	t.Run("write keeps mode and leaves no temporary files", func(t *testing.T) {
		dir := chdirProject(t, map[string]string{"lib/b.ls": "y=2\n"})
		path := filepath.Join(dir, "lib", "b.ls")
		require.NoError(t, os.Chmod(path, 0o640))

		_, _, err := execute(t, NewFmtCommand(), "", "-w")
		require.NoError(t, err)
		assert.Equal(t, "y = 2\n", readFile(t, dir, "lib/b.ls"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

		entries, err := os.ReadDir(filepath.Join(dir, "lib"))
		require.NoError(t, err)
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.Equal(t, []string{"b.ls"}, names)
	})

	t.Run("write leaves broken files alone", func(t *testing.T) {
		dir := chdirProject(t, map[string]string{"bad.ls": "let x 5\n"})

		_, errOut, err := execute(t, NewFmtCommand(), "", "-w", "bad.ls")
		require.ErrorIs(t, err, ErrDiagnosticsFound)
		assert.Contains(t, errOut, "bad.ls:1:7")
		assert.Equal(t, "let x 5\n", readFile(t, dir, "bad.ls"))
	})

	t.Run("write rejects stdin", func(t *testing.T) {
		chdirProject(t, nil)

		_, _, err := execute(t, NewFmtCommand(), "x = 1\n", "-w", "-")
		assert.Error(t, err)
	})
}
