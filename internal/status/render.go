package status

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/pipesmoke/internal/report"
)

// Render writes lines as "[<tag>] <path>", tags centred in a shared column.
//
// When width is positive, paths that would overflow it are shortened in the
// middle. A blank line follows the report.
func Render(w io.Writer, lines []Line, palette report.Palette, width int) error {
	col := 0
	for _, l := range lines {
		col = max(col, len(l.Tag))
	}
	col += 2

	var b strings.Builder
	for _, l := range lines {
		pad := col - len(l.Tag)
		left := pad / 2
		b.WriteString("[")
		b.WriteString(strings.Repeat(" ", left))
		b.WriteString(paint(palette, l.Level, l.Tag))
		b.WriteString(strings.Repeat(" ", pad-left))
		b.WriteString("] ")
		b.WriteString(crop(l.Path, col, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	_, err := fmt.Fprint(w, b.String())
	return err
}

// RenderResults writes one table row per result: seed, best epoch, best
// validation score and the averaged top-5 score.
func RenderResults(w io.Writer, results []Result) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers("seed", "best", "dev", "top5_beam10", "folder")
	for _, r := range results {
		best := r.BestScore()
		top5 := ""
		if r.Top5 != nil {
			top5 = fmt.Sprintf("%.1f", *r.Top5)
		}
		t.Row(
			r.Seed,
			strconv.Itoa(best.Epoch)+"/"+strconv.Itoa(r.MaxEpoch),
			fmt.Sprintf("%.1f", best.Value),
			top5,
			r.Folder,
		)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func paint(p report.Palette, l Level, tag string) string {
	switch l {
	case Done:
		return p.Good.Render(tag)
	case Partial:
		return p.Warn.Render(tag)
	default:
		return tag
	}
}

// crop elides the middle of path so "[tag] path" fits in width columns.
// Lengths are counted in runes.
func crop(path string, col, width int) string {
	if width <= 0 {
		return path
	}
	runes := []rune(path)
	over := col + 2 + len(runes) - width
	if over <= 0 {
		return path
	}
	half := len(runes) / 2
	cut := over/2 + 4
	lo := max(half-cut, 0)
	hi := min(half+cut, len(runes))
	return string(runes[:lo]) + " ... " + string(runes[hi:])
}
