// Package main provides tests for the leapscript CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapscript/internal/cli"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata")
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "leapscript") {
		t.Errorf("version output should contain 'leapscript', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"tokens", "parse", "fmt", "check", "lsp", "init"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestCheckSampleProject(t *testing.T) {
	t.Chdir(filepath.Join(testdataDir(t), "project"))

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", "--no-cache"})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("check command error = %v\n%s", err, buf.String())
	}

	output := buf.String()
	if !strings.Contains(output, "2 files checked, no diagnostics") {
		t.Errorf("check output should report both sample files, got: %s", output)
	}
}

func TestParseSampleFile(t *testing.T) {
	td := testdataDir(t)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"parse", filepath.Join(td, "project", "lib", "shapes.ls")})

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("parse command error = %v\n%s", err, buf.String())
	}

	output := buf.String()
	for _, expected := range []string{"import math", "class Square extends Shape", "func area(shape)"} {
		if !strings.Contains(output, expected) {
			t.Errorf("parse output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})

			err := cmd.Execute()
			if err != nil {
				t.Errorf("completion %s error = %v", shell, err)
			}

			if buf.Len() == 0 {
				t.Errorf("completion %s should produce output", shell)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	err := cmd.Execute()
	if err == nil {
		t.Error("unknown command should return error")
	}
}
