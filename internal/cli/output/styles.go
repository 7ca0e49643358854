package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Path    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

// Palette.
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#F57F17", Dark: "#FFD54F"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#64B5F6"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

// newStyles builds the style set on top of a lipgloss renderer, so the
// renderer's colour profile decides whether escape codes are emitted.
func newStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(colorGray),
		Header:  lr.NewStyle().Bold(true).Foreground(colorBlue),
		Path:    lr.NewStyle().Bold(true).Underline(true),
		Success: lr.NewStyle().Foreground(colorGreen),
		Warning: lr.NewStyle().Foreground(colorYellow),
		Error:   lr.NewStyle().Bold(true).Foreground(colorRed),
		Info:    lr.NewStyle().Foreground(colorBlue),
	}
}
