package state

import "github.com/kk-code-lab/rfiles/internal/view"

// visibleLines is the number of item rows that fit on screen.
func (s *AppState) visibleLines() int {
	lines := s.ScreenHeight - chromeRows
	if len(s.Uploads) > 0 {
		lines--
	}
	return max(lines, 0)
}

// VisibleLines exposes visibleLines to the renderer.
func (s *AppState) VisibleLines() int {
	return s.visibleLines()
}

// lineCount is the number of screen rows the projection needs.
func (s *AppState) lineCount() int {
	if s.View.Mode == view.ModeGrid {
		return view.GridRows(len(s.Items), s.gridColumns())
	}
	return len(s.Items)
}

// cursorLine is the screen row (before scrolling) holding the cursor.
func (s *AppState) cursorLine() int {
	if s.View.Mode == view.ModeGrid {
		return s.Cursor / s.gridColumns()
	}
	return s.Cursor
}

func (s *AppState) clampScroll() {
	maxOffset := s.lineCount() - s.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ScrollOffset < 0 {
		s.ScrollOffset = 0
	}
	if s.ScrollOffset > maxOffset {
		s.ScrollOffset = maxOffset
	}
}

func (s *AppState) updateScrollVisibility() {
	if len(s.Items) == 0 {
		s.ScrollOffset = 0
		return
	}
	line := s.cursorLine()
	visibleLines := s.visibleLines()

	if line < s.ScrollOffset {
		s.ScrollOffset = line
	} else if line >= s.ScrollOffset+visibleLines {
		s.ScrollOffset = line - visibleLines + 1
	}
	s.clampScroll()
}

func (s *AppState) centerScrollOnSelection() {
	if len(s.Items) == 0 {
		s.ScrollOffset = 0
		return
	}
	s.ScrollOffset = s.cursorLine() - s.visibleLines()/2
	s.clampScroll()
}

// ItemAtLine maps a screen row and column (relative to the item area) to an
// item index, or -1.
func (s *AppState) ItemAtLine(line, x int) int {
	row := s.ScrollOffset + line
	if row < 0 {
		return -1
	}
	idx := row
	if s.View.Mode == view.ModeGrid {
		col := 0
		if s.View.GridCellWidth > 0 {
			col = x / s.View.GridCellWidth
		}
		cols := s.gridColumns()
		if col >= cols {
			return -1
		}
		idx = row*cols + col
	}
	if idx >= len(s.Items) {
		return -1
	}
	return idx
}

// CursorCell returns the cursor's column index (grid only) and its row
// relative to the first visible line.
func (s *AppState) CursorCell() (col, line int) {
	if s.View.Mode == view.ModeGrid {
		col = s.Cursor % s.gridColumns()
	}
	return col, s.cursorLine() - s.ScrollOffset
}
