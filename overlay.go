package main

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt draws overlay over base with its top-left corner at cell (x, y).
// Lines outside the first height rows of base are left untouched.
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRight(baseLines[row], width)
		left := padRight(ansi.Truncate(target, x, ""), x)
		mid := padRight(line, overlayWidth)
		right := ansi.TruncateLeft(target, x+overlayWidth, "")
		baseLines[row] = left + mid + right
	}
	return strings.Join(baseLines, "\n")
}

// overlayCentered places overlay in the middle of a width x height base.
func overlayCentered(base, overlay string, width, height int) string {
	lines := splitLines(overlay)
	x := max(0, (width-maxLineWidth(lines))/2)
	y := max(0, (height-len(lines))/2)
	return overlayAt(base, overlay, x, y, width, height)
}

// ---------------------------------------------------------------------------
// String utilities
// ---------------------------------------------------------------------------

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		m = max(m, ansi.StringWidth(line))
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending an ellipsis if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
