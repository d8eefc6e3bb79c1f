// Package ui provides rendering helpers shared by the sidebar and the
// dialogs drawn over it.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle greys out the content behind a dialog. Existing ANSI codes are
// stripped first since faint does not combine with colors in most
// terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// Overlay centers box over background, which is dimmed, and returns
// exactly height lines.
func Overlay(background, box string, width, height int) string {
	bg := strings.Split(background, "\n")
	fg := strings.Split(box, "\n")

	boxW := 0
	for _, l := range fg {
		boxW = max(boxW, ansi.StringWidth(l))
	}
	x := max((width-boxW)/2, 0)
	y := max((height-len(fg))/2, 0)

	out := make([]string, height)
	for row := 0; row < height; row++ {
		var line string
		if row < len(bg) {
			line = ansi.Strip(bg[row])
		}
		i := row - y
		if i < 0 || i >= len(fg) {
			out[row] = dim(line)
			continue
		}
		out[row] = splice(line, fg[i], x, boxW)
	}
	return strings.Join(out, "\n")
}

// splice replaces columns [x, x+w) of a plain line with box.
func splice(line, box string, x, w int) string {
	var b strings.Builder
	lw := ansi.StringWidth(line)

	left := ansi.Truncate(line, x, "")
	b.WriteString(dim(left))
	if pad := x - ansi.StringWidth(left); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(box)
	if pad := w - ansi.StringWidth(box); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	if lw > x+w {
		b.WriteString(dim(ansi.Cut(line, x+w, lw)))
	}
	return b.String()
}

func dim(s string) string {
	if s == "" {
		return ""
	}
	return DimStyle.Render(s)
}
