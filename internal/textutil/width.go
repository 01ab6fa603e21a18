package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// DisplayWidth reports the printable width of text accounting for wide runes.
// Zero-width runes count as one column because the renderer draws every rune
// into its own cell.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += RuneWidth(ru)
	}
	return width
}

// RuneWidth is runewidth.RuneWidth clamped to at least one column.
func RuneWidth(ru rune) int {
	if w := runewidth.RuneWidth(ru); w > 0 {
		return w
	}
	return 1
}

// Truncate shortens text to width columns, ending it with an ellipsis when
// anything was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ellipsis
	}
	var b strings.Builder
	used := 0
	for _, ru := range text {
		w := RuneWidth(ru)
		if used+w > width-1 {
			break
		}
		b.WriteRune(ru)
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// PadRight truncates or pads text with spaces to exactly width columns.
func PadRight(text string, width int) string {
	text = Truncate(text, width)
	if gap := width - DisplayWidth(text); gap > 0 {
		text += strings.Repeat(" ", gap)
	}
	return text
}

// Indent returns the prefix for a tree row at depth (1 for top-level rows).
func Indent(depth, step int) string {
	if depth <= 1 || step <= 0 {
		return ""
	}
	return strings.Repeat(" ", (depth-1)*step)
}
