package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	textutil "github.com/kk-code-lab/rfiles/internal/textutil"
	"github.com/kk-code-lab/rfiles/internal/upload"
)

// box is a bordered rectangle in screen cells.
type box struct {
	x, y, w, h int
}

func (b box) innerWidth() int { return max(b.w-4, 0) }

func (r *Renderer) drawBox(b box, title string, style tcell.Style) {
	for row := 0; row < b.h; row++ {
		y := b.y + row
		left, right, fillRune := '│', '│', ' '
		switch row {
		case 0:
			left, right, fillRune = '┌', '┐', '─'
		case b.h - 1:
			left, right, fillRune = '└', '┘', '─'
		}
		r.screen.SetContent(b.x, y, left, nil, style)
		for x := b.x + 1; x < b.x+b.w-1; x++ {
			r.screen.SetContent(x, y, fillRune, nil, style)
		}
		r.screen.SetContent(b.x+b.w-1, y, right, nil, style)
	}
	if title != "" && b.w > 4 {
		t := textutil.Truncate(" "+title+" ", b.w-4)
		r.drawTextLine(b.x+2, b.y, b.w-4, t, style.Bold(true))
	}
}

// clampBox moves b inside a w x h screen, shrinking it if needed.
func clampBox(b box, w, h int) box {
	b.w = min(b.w, w)
	b.h = min(b.h, h)
	b.x = min(max(b.x, 0), w-b.w)
	b.y = min(max(b.y, 0), h-b.h)
	return b
}

// menuAnchor is where a keyboard-opened menu appears: just below the
// cursor row, or at the cursor cell in grid mode.
func menuAnchor(state *statepkg.AppState, mv statepkg.MenuView) (int, int) {
	if mv.X >= 0 && mv.Y >= 0 {
		return mv.X, mv.Y
	}
	col, line := state.CursorCell()
	return col*state.View.GridCellWidth + 2, listStartY + line + 1
}

func (r *Renderer) drawMenu(state *statepkg.AppState, mv statepkg.MenuView, w, h int) {
	style := tcell.StyleDefault.Background(r.theme.MenuBg).Foreground(r.theme.MenuFg)
	activeStyle := style.Background(r.theme.MenuActive).Foreground(r.theme.SelectionFg)

	labels := make([]string, len(mv.Items))
	width := textutil.DisplayWidth(textutil.SanitizeTerminalText(mv.Node.Name)) + 2
	for i, kind := range mv.Items {
		info := kind.Info()
		labels[i] = fmt.Sprintf("%c  %s", info.Key, info.Label)
		width = max(width, textutil.DisplayWidth(labels[i]))
	}
	x, y := menuAnchor(state, mv)
	b := clampBox(box{x: x, y: y, w: min(width, 36) + 4, h: len(labels) + 2}, w, h)
	r.drawBox(b, textutil.SanitizeTerminalText(mv.Node.Name), style)
	r.menuBox, r.menuItems = b, len(labels)

	for i, label := range labels {
		row := b.y + 1 + i
		if row >= b.y+b.h-1 {
			break
		}
		itemStyle := style
		if mv.Items[i].Info().Destructive {
			itemStyle = style.Foreground(r.theme.DangerFg)
		}
		if i == mv.Cursor {
			itemStyle = activeStyle
		}
		r.fill(b.x+1, b.x+b.w-1, row, itemStyle)
		r.drawTextLine(b.x+2, row, b.innerWidth(), textutil.Truncate(label, b.innerWidth()), itemStyle)
	}
}

func (r *Renderer) drawPrompt(p *statepkg.Prompt, w, h int) {
	style := tcell.StyleDefault.Background(r.theme.MenuBg).Foreground(r.theme.MenuFg)
	bw := min(max(w*2/3, 30), w)
	b := clampBox(box{x: (w - bw) / 2, y: h/2 - 2, w: bw, h: 4}, w, h)
	r.drawBox(b, p.Kind.Label(), style)

	row := b.y + 1
	r.fill(b.x+1, b.x+b.w-1, row, style)
	input := textutil.SanitizeTerminalText(p.Input)
	// keep the end of long input visible
	input = fitLeft(input, b.innerWidth()-1, textutil.DisplayWidth)
	x := r.drawTextLine(b.x+2, row, b.innerWidth(), input, style)
	r.drawStyledRune(x, row, b.x+b.w-1, '█', style.Foreground(r.theme.SelectionBg))

	hintRow := b.y + 2
	r.fill(b.x+1, b.x+b.w-1, hintRow, style)
	r.drawTextLine(b.x+2, hintRow, b.innerWidth(), "↵ confirm · Esc cancel", style.Foreground(r.theme.MetaFg))
}

// drawPanel shows the side panel on the right half of the item area.
func (r *Renderer) drawPanel(state *statepkg.AppState, w, h int) {
	node, ok := state.PanelNode()
	if !ok {
		return
	}
	style := tcell.StyleDefault.Background(r.theme.PanelBg).Foreground(r.theme.PanelFg)
	bw := min(max(w/2, 32), w)
	b := clampBox(box{x: w - bw, y: 1, w: bw, h: max(h-3, 3)}, w, h)
	r.drawBox(b, state.Panel.Kind.Title(), style)

	lines := r.panelLines(state, state.Panel.Kind, node)
	for i := 0; i < b.h-2; i++ {
		row := b.y + 1 + i
		r.fill(b.x+1, b.x+b.w-1, row, style)
		if i < len(lines) {
			r.drawTextLine(b.x+2, row, b.innerWidth(), textutil.Truncate(lines[i], b.innerWidth()), style)
		}
	}
}

func (r *Renderer) panelLines(state *statepkg.AppState, kind statepkg.PanelKind, n fsutil.Node) []string {
	name := textutil.SanitizeTerminalText(n.Name)
	switch kind {
	case statepkg.PanelPreview:
		return r.previewLines(state, n)
	case statepkg.PanelVoiceNote:
		return []string{name, "", "No voice notes attached yet.", "", "Esc closes this panel."}
	case statepkg.PanelEditHistory:
		return []string{
			name, "",
			fmt.Sprintf("%s  last modified by %s", n.ModifiedAt.Local().Format("2006-01-02 15:04"), textutil.SanitizeTerminalText(n.Owner)),
			"", "Esc closes this panel.",
		}
	case statepkg.PanelReaders:
		readers := "Nobody has opened this yet."
		if n.Shared {
			readers = "Shared by link; readers appear once it is opened."
		}
		return []string{name, "", readers, "", "Esc closes this panel."}
	}
	return nil
}

func (r *Renderer) previewLines(state *statepkg.AppState, n fsutil.Node) []string {
	var path []string
	if crumbs, err := state.Workspace().Store.Path(n.ID); err == nil {
		for _, c := range crumbs {
			path = append(path, textutil.SanitizeTerminalText(c.Name))
		}
	}
	kind := "Folder"
	size := fmt.Sprintf("%d items", len(n.ChildIDs))
	if !n.IsFolder() {
		kind = n.FileType.Info().Label
		size = textutil.FormatSize(n.SizeBytes)
	}
	yesNo := func(v bool) string {
		if v {
			return "yes"
		}
		return "no"
	}
	return []string{
		fmt.Sprintf("%c %s", nodeIcon(n), textutil.SanitizeTerminalText(n.Name)),
		"",
		"Type      " + kind,
		"Size      " + size,
		"Modified  " + n.ModifiedAt.Local().Format("2006-01-02 15:04") + " (" + textutil.FormatAge(n.ModifiedAt, r.now()) + ")",
		"Owner     " + textutil.SanitizeTerminalText(n.Owner),
		"Starred   " + yesNo(n.Starred),
		"Shared    " + yesNo(n.Shared),
		"Path      " + strings.Join(path, " › "),
	}
}

// drawUploads renders the active upload tasks on one row.
func (r *Renderer) drawUploads(state *statepkg.AppState, w, y int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.MetaFg)
	x := r.drawTextLine(0, y, w, "⇪ ", style)
	for i, t := range state.Uploads {
		if x >= w {
			break
		}
		if i > 0 {
			x = r.drawTextLine(x, y, w-x, "  ", style)
		}
		name := textutil.Truncate(textutil.SanitizeTerminalText(t.DisplayName), 18)
		x = r.drawTextLine(x, y, w-x, name+" ", style.Foreground(r.theme.Foreground))
		switch t.Status {
		case upload.StatusCompleted:
			x = r.drawTextLine(x, y, w-x, "done", style.Foreground(r.theme.DoneFg))
		case upload.StatusFailed:
			x = r.drawTextLine(x, y, w-x, "failed", style.Foreground(r.theme.FailedFg))
		default:
			x = r.drawTextLine(x, y, w-x, progressBar(t.Progress, 8)+textutil.FormatPercent(t.Progress), style.Foreground(r.theme.ProgressFg))
		}
	}
	r.fill(x, w, y, style)
}

func progressBar(percent, width int) string {
	filled := min(max(percent, 0), 100) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
