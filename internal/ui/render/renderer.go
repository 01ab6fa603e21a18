package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	textutil "github.com/kk-code-lab/rfiles/internal/textutil"
	"github.com/kk-code-lab/rfiles/internal/view"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	widths runeWidths
	now    func() time.Time

	menuBox   box // last drawn context menu; zero when none
	menuItems int
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		now:    time.Now,
	}
}

// SetClock replaces the clock used for relative dates.
func (r *Renderer) SetClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	r.menuBox, r.menuItems = box{}, 0
	w, h := r.screen.Size()
	if state == nil || w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawFilterBar(state, w)
	r.drawItems(state, w)
	if len(state.Uploads) > 0 && h >= 5 {
		r.drawUploads(state, w, h-3)
	}
	r.drawStatusLine(state, w, h)

	if state.Panel != nil {
		r.drawPanel(state, w, h)
	}
	if mv, ok := state.OpenMenu(); ok {
		r.drawMenu(state, mv, w, h)
	}
	if state.Prompt != nil {
		r.drawPrompt(state.Prompt, w, h)
	}

	r.screen.Show()
}

// MenuEntryAt maps a screen cell to a row of the context menu drawn by the
// last Render.
func (r *Renderer) MenuEntryAt(x, y int) (int, bool) {
	b := r.menuBox
	if r.menuItems == 0 || x <= b.x || x >= b.x+b.w-1 {
		return 0, false
	}
	row := y - b.y - 1
	if row < 0 || row >= r.menuItems || row >= b.h-2 {
		return 0, false
	}
	return row, true
}

// drawHeader renders the top bar with the app name and breadcrumb
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	endX := r.drawTextLine(0, 0, w, "rfiles ", headerStyle)
	segments := make([]string, len(state.Breadcrumb))
	for i, n := range state.Breadcrumb {
		segments[i] = textutil.SanitizeTerminalText(n.Name)
	}
	if len(segments) > 0 && endX < w {
		last := segments[len(segments)-1]
		prefix := ""
		if len(segments) > 1 {
			prefix = strings.Join(segments[:len(segments)-1], " › ") + " › "
		}
		lastWidth := r.measureTextWidth(last)
		prefix = fitLeft(prefix, w-endX-lastWidth, r.measureTextWidth)
		endX = r.drawTextLine(endX, 0, w-endX, prefix, headerStyle)
		endX = r.drawTextLine(endX, 0, w-endX, textutil.Truncate(last, w-endX), headerStyle.Bold(true))
	}

	right := r.headerCounts(state)
	if rw := r.measureTextWidth(right); rw > 0 && endX+rw+1 < w {
		r.fill(endX, w-rw, 0, headerStyle)
		r.drawTextLine(w-rw, 0, rw, right, headerStyle)
		return
	}
	r.fill(endX, w, 0, headerStyle)
}

func (r *Renderer) headerCounts(state *statepkg.AppState) string {
	parts := []string{fmt.Sprintf("%d items", len(state.Items)), state.View.Mode.String()}
	if n := state.SelectionCount(); n > 0 {
		parts = append([]string{fmt.Sprintf("%d selected", n)}, parts...)
	}
	return strings.Join(parts, " · ") + " "
}

// fitLeft trims text from the left, keeping its end, to fit width.
func fitLeft(text string, width int, measure func(string) int) string {
	if width <= 0 {
		return ""
	}
	if measure(text) <= width {
		return text
	}
	runes := []rune(text)
	for i := range runes {
		candidate := "…" + string(runes[i:])
		if measure(candidate) <= width {
			return candidate
		}
	}
	return ""
}

// drawFilterBar shows the filter query while typing, otherwise the active
// filters or the column legend.
func (r *Renderer) drawFilterBar(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.MetaFg)
	x := 0
	switch {
	case state.FilterActive:
		textStyle := style.Foreground(r.theme.Foreground)
		x = r.drawTextLine(0, 1, w, "/"+textutil.SanitizeTerminalText(state.View.Query), textStyle)
		cursorStyle := textStyle.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		x = r.drawStyledRune(x, 1, w, '█', cursorStyle)
		if summary := state.FilterSummary(); summary != "" {
			x = r.drawTextLine(x, 1, w-x, "  "+summary, style)
		}
	case state.View.Query != "" || state.FilterSummary() != "":
		text := state.FilterSummary()
		if state.View.Query != "" {
			text = "filter:" + textutil.SanitizeTerminalText(state.View.Query) + " " + text
		}
		x = r.drawTextLine(0, 1, w, text+"(Esc clears)", style)
	default:
		x = r.drawTextLine(0, 1, w, r.columnLegend(state, w), style)
	}
	r.fill(x, w, 1, style)
}

func (r *Renderer) columnLegend(state *statepkg.AppState, w int) string {
	if state.View.Mode == view.ModeGrid {
		return ""
	}
	cols := listColumnsFor(w)
	legend := "    " + textutil.PadRight("Name", cols.name)
	if cols.meta {
		legend += fmt.Sprintf(" %*s  %-*s  %s", sizeColWidth, "Size", ageColWidth, "Modified", "Owner")
	}
	return legend
}

// drawStatusLine renders the message or error line and the key hints below it.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	if h >= 2 {
		y := h - 2
		style := normalStyle
		text := state.StatusMessage
		if state.LastError != nil {
			style = normalStyle.Foreground(r.theme.ErrorFg)
			text = "error: " + state.LastError.Error()
		} else if text == "" {
			text = r.describeCursor(state)
		}
		if clip := state.Clipboard; clip != nil && state.LastError == nil {
			text = fmt.Sprintf("[%s %d] %s", clip.Mode, len(clip.IDs), text)
		}
		text = textutil.Truncate(textutil.SanitizeTerminalText(text), w)
		x := r.drawTextLine(0, y, w, text, style)
		r.fill(x, w, y, style)
	}

	helpText := textutil.SanitizeTerminalText(buildFooterHelpText(state))
	x := r.drawTextLine(0, h-1, w, textutil.Truncate(helpText, w), normalStyle)
	r.fill(x, w, h-1, normalStyle)
}

func (r *Renderer) describeCursor(state *statepkg.AppState) string {
	item, ok := state.CurrentItem()
	if !ok {
		return "empty folder"
	}
	n := item.Node
	if n.IsFolder() {
		return fmt.Sprintf("%s · folder · %d items", textutil.SanitizeTerminalText(n.Name), len(n.ChildIDs))
	}
	info := n.FileType.Info()
	return fmt.Sprintf("%s · %s · %s · %s", textutil.SanitizeTerminalText(n.Name), info.Label,
		textutil.FormatSize(n.SizeBytes), n.ModifiedAt.Local().Format("2006-01-02 15:04"))
}
