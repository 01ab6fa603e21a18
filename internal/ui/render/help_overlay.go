package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	textutil "github.com/kk-code-lab/rfiles/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	pasteDesc := "Paste staged items here"
	if state != nil && state.Clipboard != nil {
		pasteDesc = fmt.Sprintf("Paste %d staged item(s) here (%s)", len(state.Clipboard.IDs), state.Clipboard.Mode)
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or k/j", desc: "Move cursor"},
				{keys: "←/→ or h/l", desc: "Previous/next cell, collapse/open"},
				{keys: "↵", desc: "Open folder / preview file"},
				{keys: "Backspace", desc: "Parent folder"},
				{keys: "~", desc: "Top folder"},
				{keys: "PgUp/PgDn", desc: "Page"},
				{keys: "g/G", desc: "First / last item"},
			},
		},
		{
			title: "View & Filter",
			entries: []helpOverlayEntry{
				{keys: "v", desc: "Cycle list, grid and tree"},
				{keys: "Tab", desc: "Expand or collapse folder (tree)"},
				{keys: "/", desc: "Filter by name"},
				{keys: "t / c", desc: "Cycle type / content filter"},
				{keys: "Esc", desc: "Close menu, prompt, panel or filter"},
			},
		},
		{
			title: "Selection & Actions",
			entries: []helpOverlayEntry{
				{keys: "Space", desc: "Select or deselect"},
				{keys: "o or m", desc: "Context menu"},
				{keys: "s / S", desc: "Star / share"},
				{keys: "D or Del", desc: "Delete selected"},
				{keys: "y / x", desc: "Stage copy / move"},
				{keys: "p", desc: pasteDesc},
				{keys: "n / r", desc: "New folder / rename"},
			},
		},
		{
			title: "Transfer",
			entries: []helpOverlayEntry{
				{keys: "u", desc: "Upload files"},
				{keys: "U", desc: "Dismiss finished uploads"},
				{keys: "E", desc: "Export listing as CSV"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "Ctrl+Z", desc: "Suspend"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 40)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fill(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	// two columns when everything does not fit in one
	columns := 1
	if len(lines) > h-3 && w >= 100 {
		columns = 2
	}
	perColumn := (len(lines) + columns - 1) / columns
	colWidth := (w - 4) / columns
	for c := 0; c < columns; c++ {
		row := 2
		for _, line := range lines[min(c*perColumn, len(lines)):min((c+1)*perColumn, len(lines))] {
			if row >= h-1 {
				break
			}
			text := textutil.Truncate(strings.TrimRight(line, " "), colWidth-1)
			r.drawTextLine(2+c*colWidth, row, colWidth-1, text, baseStyle)
			row++
		}
	}

	footer := "? toggle · Esc/q close"
	if h > 0 {
		r.drawTextLine(0, h-1, w, textutil.Truncate(footer, w), headerStyle)
	}
}
