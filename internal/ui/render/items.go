package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"github.com/kk-code-lab/rfiles/internal/search"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	textutil "github.com/kk-code-lab/rfiles/internal/textutil"
	"github.com/kk-code-lab/rfiles/internal/view"
)

const (
	listStartY    = 2
	rowPrefix     = 4 // mark, icon and their spacing
	sizeColWidth  = 9
	ageColWidth   = 10
	ownerColWidth = 10
	flagsWidth    = 3
	treeIndent    = 2
	metaMinWidth  = 64
)

type listColumns struct {
	name int
	meta bool
}

func listColumnsFor(w int) listColumns {
	cols := listColumns{meta: w >= metaMinWidth}
	cols.name = w - rowPrefix - flagsWidth
	if cols.meta {
		cols.name -= 1 + sizeColWidth + 2 + ageColWidth + 2 + ownerColWidth
	}
	cols.name = max(cols.name, 1)
	return cols
}

// folderIcon marks folders in every projection.
const folderIcon = '/'

func nodeIcon(n fsutil.Node) rune {
	if n.IsFolder() {
		return folderIcon
	}
	return n.FileType.Info().Icon
}

func (r *Renderer) drawItems(state *statepkg.AppState, w int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	lines := state.VisibleLines()

	var drawn int
	if state.View.Mode == view.ModeGrid {
		drawn = r.drawGrid(state, w, lines)
	} else {
		drawn = r.drawRows(state, w, lines)
	}
	for y := listStartY + drawn; y < listStartY+lines; y++ {
		r.fill(0, w, y, baseStyle)
	}
	if len(state.Items) == 0 && lines > 0 {
		msg := "(empty)"
		if !state.View.Criteria().IsZero() {
			msg = "(no matches)"
		}
		r.drawTextLine(rowPrefix, listStartY, w-rowPrefix, msg, baseStyle.Foreground(r.theme.MetaFg))
	}
}

func (r *Renderer) rowStyles(state *statepkg.AppState, idx int, n fsutil.Node) (tcell.Style, tcell.Style) {
	base := tcell.StyleDefault.Background(r.theme.Background)
	var style tcell.Style
	switch {
	case idx == state.Cursor:
		style = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	case state.IsSelected(n.ID):
		style = base.Foreground(r.theme.MarkedFg)
	case n.IsFolder():
		style = base.Foreground(r.theme.DirectoryFg)
	default:
		style = base.Foreground(r.theme.FileFg)
	}
	return style, style.Foreground(r.theme.MatchFg).Bold(true)
}

// drawRows renders the list and tree projections. It returns the number of
// rows drawn.
func (r *Renderer) drawRows(state *statepkg.AppState, w, lines int) int {
	cols := listColumnsFor(w)
	end := min(state.ScrollOffset+lines, len(state.Items))
	y := listStartY
	for idx := state.ScrollOffset; idx < end; idx++ {
		item := state.Items[idx]
		n := item.Node
		rowStyle, matchStyle := r.rowStyles(state, idx, n)

		mark := ' '
		if state.IsSelected(n.ID) {
			mark = '●'
		}
		x := r.drawStyledRune(0, y, w, mark, rowStyle)
		x = r.drawStyledRune(x, y, w, ' ', rowStyle)

		nameWidth := cols.name
		if state.View.Mode == view.ModeTree {
			indent := textutil.Indent(item.Depth, treeIndent)
			x = r.drawTextLine(x, y, w-x, indent, rowStyle)
			expander := ' '
			switch {
			case item.Expanded:
				expander = '▾'
			case item.Expandable:
				expander = '▸'
			}
			x = r.drawStyledRune(x, y, w, expander, rowStyle)
			nameWidth = max(nameWidth-textutil.DisplayWidth(indent)-1, 1)
		}

		x = r.drawStyledRune(x, y, w, nodeIcon(n), rowStyle)
		x = r.drawStyledRune(x, y, w, ' ', rowStyle)

		name := textutil.Truncate(textutil.SanitizeTerminalText(n.Name), nameWidth)
		nameEnd := x + nameWidth
		x = r.drawHighlightedText(x, y, min(nameEnd, w), name, search.MatchSpans(name, state.View.Query), rowStyle, matchStyle)
		r.fill(x, min(nameEnd, w), y, rowStyle)
		x = min(nameEnd, w)

		if cols.meta {
			size := ""
			if !n.IsFolder() {
				size = textutil.FormatSize(n.SizeBytes)
			}
			meta := fmt.Sprintf(" %*s  %-*s  %s", sizeColWidth, size,
				ageColWidth, textutil.FormatAge(n.ModifiedAt, r.now()),
				textutil.PadRight(textutil.SanitizeTerminalText(n.Owner), ownerColWidth))
			metaStyle := rowStyle
			if idx != state.Cursor {
				metaStyle = rowStyle.Foreground(r.theme.MetaFg)
			}
			x = r.drawTextLine(x, y, w-x, meta, metaStyle)
		}
		x = r.drawFlags(x, y, w, n, rowStyle, idx == state.Cursor)
		r.fill(x, w, y, rowStyle)
		y++
	}
	return y - listStartY
}

func (r *Renderer) drawFlags(x, y, w int, n fsutil.Node, style tcell.Style, active bool) int {
	x = r.drawStyledRune(x, y, w, ' ', style)
	star, shared := ' ', ' '
	if n.Starred {
		star = '★'
	}
	if n.Shared {
		shared = '⇄'
	}
	starStyle, sharedStyle := style, style
	if !active {
		starStyle = style.Foreground(r.theme.StarFg)
		sharedStyle = style.Foreground(r.theme.SharedFg)
	}
	x = r.drawStyledRune(x, y, w, star, starStyle)
	return r.drawStyledRune(x, y, w, shared, sharedStyle)
}

// drawGrid lays cells out in GridCellWidth columns. It returns the number of
// rows drawn.
func (r *Renderer) drawGrid(state *statepkg.AppState, w, lines int) int {
	columns := state.GridColumns()
	cellWidth := state.View.GridCellWidth
	cells := view.ProjectGrid(state.VisibleNodes(), columns)
	baseStyle := tcell.StyleDefault.Background(r.theme.Background)

	rows := 0
	for idx, cell := range cells {
		row := cell.Row - state.ScrollOffset
		if row < 0 {
			continue
		}
		if row >= lines {
			break
		}
		rows = max(rows, row+1)
		y := listStartY + row
		x0 := cell.Col * cellWidth
		x1 := min(x0+cellWidth, w)
		n := cell.Node
		style, matchStyle := r.rowStyles(state, idx, n)

		mark := ' '
		if state.IsSelected(n.ID) {
			mark = '●'
		}
		x := r.drawStyledRune(x0, y, x1, mark, style)
		x = r.drawStyledRune(x, y, x1, nodeIcon(n), style)
		x = r.drawStyledRune(x, y, x1, ' ', style)
		// one column reserved for the star and one as gutter
		nameWidth := max(x1-x-2, 1)
		name := textutil.Truncate(textutil.SanitizeTerminalText(n.Name), nameWidth)
		x = r.drawHighlightedText(x, y, x+nameWidth, name, search.MatchSpans(name, state.View.Query), style, matchStyle)
		r.fill(x, x1-2, y, style)
		x = max(x, x1-2)
		if n.Starred && x < x1 {
			starStyle := style
			if idx != state.Cursor {
				starStyle = style.Foreground(r.theme.StarFg)
			}
			x = r.drawStyledRune(x, y, x1, '★', starStyle)
		}
		r.fill(x, x1-1, y, style)
		r.fill(max(x, x1-1), x1, y, baseStyle)
	}
	// clear the strip right of the last column
	for row := 0; row < rows; row++ {
		r.fill(columns*cellWidth, w, listStartY+row, baseStyle)
	}
	return rows
}
