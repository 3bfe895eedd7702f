// Package styles holds the colours and lipgloss styles of the corpus TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette names the colours the search and document views draw with.
type Palette struct {
	Accent  lipgloss.Color // titles, selection background
	Heading lipgloss.Color // result count and field group headers
	Text    lipgloss.Color
	Dim     lipgloss.Color // hints, ids, scroll position
	Path    lipgloss.Color // document paths under titles
	Caution lipgloss.Color // degraded warnings
	Problem lipgloss.Color // errors
	Frame   lipgloss.Color // search input border
	Bar     lipgloss.Color // status bar background
}

// DefaultPalette returns the dark palette used when none is given.
func DefaultPalette() Palette {
	return Palette{
		Accent:  "#7C3AED",
		Heading: "#06B6D4",
		Text:    "#CDD6F4",
		Dim:     "#6C7086",
		Path:    "#A6E3A1",
		Caution: "#F9E2AF",
		Problem: "#F38BA8",
		Frame:   "#45475A",
		Bar:     "#181825",
	}
}

// Styles are the rendered styles shared by the TUI components.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// FieldHeader heads each field group in the result list.
	FieldHeader lipgloss.Style

	// Path renders document paths under result titles.
	Path lipgloss.Style
}

// NewStyles builds the styles for p.
func NewStyles(p Palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		Title:    fg(p.Accent).Bold(true),
		Subtitle: fg(p.Heading).Bold(true),
		Normal:   fg(p.Text),
		Muted:    fg(p.Dim),
		Selected: fg(p.Text).Background(p.Accent).Bold(true),
		Error:    fg(p.Problem),
		Warning:  fg(p.Caution),
		Help:     fg(p.Dim),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),
		StatusBar: fg(p.Dim).Background(p.Bar).Padding(0, 1),

		FieldHeader: fg(p.Heading).Bold(true).Underline(true),
		Path:        fg(p.Path).Italic(true),
	}
}

// DefaultStyles returns the styles of DefaultPalette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}
