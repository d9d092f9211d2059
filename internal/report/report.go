// Package report renders the single status line of a harness run.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode selects when ANSI colours are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q: must be one of auto, always, never", s)
	}
}

// Palette holds the styles shared by the status line and the status report.
type Palette struct {
	Good lipgloss.Style
	Warn lipgloss.Style
	Bad  lipgloss.Style
}

// NewPalette builds styles bound to w. ColorAuto leaves terminal detection to
// lipgloss; the other modes force the ANSI or plain profile.
func NewPalette(w io.Writer, mode ColorMode) Palette {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return Palette{
		Good: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warn: r.NewStyle().Foreground(lipgloss.Color("11")),
		Bad:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Reporter writes the OK/FAILED line.
type Reporter struct {
	w       io.Writer
	palette Palette
}

// New creates a Reporter writing to w.
func New(w io.Writer, mode ColorMode) *Reporter {
	return &Reporter{w: w, palette: NewPalette(w, mode)}
}

// Line renders the status line for identity without writing it.
func (r *Reporter) Line(ok bool, identity string) string {
	tag := r.palette.Bad.Render("FAILED")
	if ok {
		tag = r.palette.Good.Render(" OK ")
	}
	return fmt.Sprintf("[%s] %s", tag, identity)
}

// Report writes exactly one line.
func (r *Reporter) Report(ok bool, identity string) error {
	_, err := fmt.Fprintln(r.w, r.Line(ok, identity))
	return err
}
