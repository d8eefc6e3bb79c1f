package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated labels.
const Ellipsis = "…"

// Truncate shortens s to at most width display cells, ending in an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Fit truncates s to width and pads it with spaces to exactly width cells.
func Fit(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Columns lays left and right out on one line of width cells, truncating
// left to make room for right.
func Columns(left, right string, width int) string {
	rw := runewidth.StringWidth(right)
	if rw >= width {
		return Truncate(right, width)
	}
	if right == "" {
		return Fit(left, width)
	}
	return Fit(left, width-rw-1) + " " + right
}

// Indent returns the prefix of a tree row at depth.
func Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth)
}
