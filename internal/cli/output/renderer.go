// Package output renders command results for terminals, pipes and machines.
//
// The auto mode picks styled text when stdout is a terminal and markdown
// otherwise. JSON and YAML modes emit machine-readable documents only.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Mode selects how output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"     // text on a TTY, markdown otherwise
	ModeText     Mode = "text"     // styled terminal output
	ModeMarkdown Mode = "markdown" // plain markdown
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists every accepted mode, in the order shown in help text.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML}

// ValidMode reports whether s names a known mode.
func ValidMode(s string) bool {
	for _, m := range Modes {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Renderer writes human and machine output for commands.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
	title  cases.Caser
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}

	lr := lipgloss.NewRenderer(out)
	if !isTTY || mode != ModeText && mode != ModeAuto {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(lr),
		title:  cases.Title(language.English),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// Mode returns the configured mode.
func (r *Renderer) Mode() Mode { return r.mode }

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set.
func (r *Renderer) Styles() *Styles { return r.styles }

// IsMachine reports whether the effective mode is JSON or YAML.
func (r *Renderer) IsMachine() bool {
	m := r.EffectiveMode()
	return m == ModeJSON || m == ModeYAML
}

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header. Markdown uses #-headers, text mode a
// styled title.
func (r *Renderer) Header(level int, text string) {
	text = r.title.String(text)
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("%s %s\n\n", strings.Repeat("#", max(level, 1)), text)
		return
	}
	r.Println(r.styles.Header.Render(text))
}

// StatusLine writes one item with a status marker and optional detail.
// Status is one of success, warning, error or skipped.
func (r *Renderer) StatusLine(name, status, detail string) {
	if r.EffectiveMode() == ModeMarkdown {
		line := fmt.Sprintf("- %s (%s)", name, status)
		if detail != "" {
			line += ": " + detail
		}
		r.Println(line)
		return
	}

	var icon string
	switch status {
	case "success":
		icon = r.styles.Success.Render("✓")
	case "warning":
		icon = r.styles.Warning.Render("!")
	case "error":
		icon = r.styles.Error.Render("✗")
	default:
		icon = r.styles.Muted.Render("-")
	}
	line := fmt.Sprintf("  %s %s", icon, name)
	if detail != "" {
		line += "  " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// Success writes a success message to stdout.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(msg)
		return
	}
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warning writes a warning to stderr.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+msg))
}

// Error writes an error to stderr.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("error: "+msg))
}

// Muted writes de-emphasised text to stdout.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// Table renders rows under a header. Markdown mode produces a markdown
// table, text mode a box-drawn one.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = r.title.String(h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		r.Println("")
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Data writes v in the effective machine mode, JSON unless YAML was asked for.
func (r *Renderer) Data(v any) error {
	if r.EffectiveMode() == ModeYAML {
		return r.YAML(v)
	}
	return r.JSON(v)
}
