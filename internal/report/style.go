package report

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal colour palette.
const (
	colorHeading = "45"  // cyan
	colorMuted   = "245" // light gray
	colorSuccess = "42"  // green
	colorWarning = "214" // orange
	colorError   = "203" // red
)

// palette holds the styles used by the text report. The zero value renders
// plain text.
type palette struct {
	enabled bool
	heading lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	bold    lipgloss.Style
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{}
	}
	return palette{
		enabled: true,
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorHeading)),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted)),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color(colorSuccess)),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarning)),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)),
		bold:    lipgloss.NewStyle().Bold(true),
	}
}

// render applies style when colour is enabled.
func (p palette) render(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

// ColorEnabled reports whether text output to w should be coloured.
// Colour is used only for terminals, and never when noColor is set or the
// NO_COLOR environment variable is present.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
