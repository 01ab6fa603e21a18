package state

import (
	"errors"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"github.com/kk-code-lab/rfiles/internal/search"
	"github.com/kk-code-lab/rfiles/internal/view"
)

// refresh rebuilds the projection for the current folder and view state.
// The cursor stays on the same node when it is still visible.
func (s *AppState) refresh() error {
	prevID := ""
	if item, ok := s.CurrentItem(); ok {
		prevID = item.Node.ID
	}
	return s.refreshKeeping(prevID)
}

// refreshKeeping is refresh with an explicit node to land the cursor on.
func (s *AppState) refreshKeeping(focusID string) error {
	store := s.ws.Store
	if !store.Has(s.CurrentFolderID) {
		s.CurrentFolderID = s.nearestLiveAncestor()
	}

	var items []view.Item
	criteria := s.View.Criteria()
	switch s.View.Mode {
	case view.ModeTree:
		projected, err := view.ProjectTree(store, s.CurrentFolderID, s.ws.Expanded, search.Predicate(criteria))
		if err != nil {
			return err
		}
		items = projected
	default:
		children, err := store.ListChildren(s.CurrentFolderID)
		if err != nil {
			return err
		}
		items = view.ProjectList(search.Filter(children, criteria))
	}

	s.Items = items
	if crumbs, err := store.Path(s.CurrentFolderID); err == nil {
		s.Breadcrumb = crumbs
	}
	s.Uploads = s.ws.Uploads.Active()
	if s.Panel != nil && !store.Has(s.Panel.NodeID) {
		s.Panel = nil
	}

	s.Cursor = s.indexOf(focusID, s.Cursor)
	s.updateScrollVisibility()
	return nil
}

// nearestLiveAncestor walks the last known breadcrumb back to a folder that
// still exists.
func (s *AppState) nearestLiveAncestor() string {
	for i := len(s.Breadcrumb) - 1; i >= 0; i-- {
		if s.ws.Store.Has(s.Breadcrumb[i].ID) {
			return s.Breadcrumb[i].ID
		}
	}
	return s.ws.Store.RootID()
}

// indexOf finds id in the projection. When it is gone the previous index is
// clamped into range instead.
func (s *AppState) indexOf(id string, fallback int) int {
	if len(s.Items) == 0 {
		return 0
	}
	if id != "" {
		for i, it := range s.Items {
			if it.Node.ID == id {
				return i
			}
		}
	}
	if fallback >= len(s.Items) {
		return len(s.Items) - 1
	}
	if fallback < 0 {
		return 0
	}
	return fallback
}

// enterFolder makes id the current folder. focusID, if visible there, gets
// the cursor.
func (s *AppState) enterFolder(id, focusID string) error {
	node, err := s.ws.Store.Get(id)
	if err != nil {
		return err
	}
	if !node.IsFolder() {
		return nil
	}
	prevFolder := s.CurrentFolderID
	s.CurrentFolderID = id
	s.Cursor = 0
	s.ScrollOffset = 0
	if err := s.refreshKeeping(focusID); err != nil {
		s.CurrentFolderID = prevFolder
		_ = s.refresh()
		return err
	}
	s.centerScrollOnSelection()
	return nil
}

// goUp moves to the parent folder with the cursor on the folder just left.
func (s *AppState) goUp() error {
	current, err := s.ws.Store.Get(s.CurrentFolderID)
	if err != nil {
		return err
	}
	if current.IsRoot() {
		return nil
	}
	return s.enterFolder(current.ParentID, current.ID)
}

// parentItemIndex returns the index of the closest tree row above cursor with
// a smaller depth.
func (s *AppState) parentItemIndex() int {
	item, ok := s.CurrentItem()
	if !ok {
		return -1
	}
	for i := s.Cursor - 1; i >= 0; i-- {
		if s.Items[i].Depth < item.Depth {
			return i
		}
	}
	return -1
}

// gridColumns is the number of cells per grid row for the current width.
func (s *AppState) gridColumns() int {
	return view.GridColumns(s.ScreenWidth, s.View.GridCellWidth)
}

// GridColumns exposes the column count the renderer must use.
func (s *AppState) GridColumns() int {
	return s.gridColumns()
}

// rowStep is how far up/down moves the cursor.
func (s *AppState) rowStep() int {
	if s.View.Mode == view.ModeGrid {
		return s.gridColumns()
	}
	return 1
}

func (s *AppState) moveCursor(delta int) bool {
	if len(s.Items) == 0 {
		return false
	}
	next := s.Cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(s.Items) {
		next = len(s.Items) - 1
	}
	if next == s.Cursor {
		return false
	}
	s.Cursor = next
	s.updateScrollVisibility()
	return true
}

// openCurrent enters the folder under the cursor. In tree mode a folder is
// expanded in place instead.
func (s *AppState) openCurrent() error {
	item, ok := s.CurrentItem()
	if !ok || !item.Node.IsFolder() {
		return nil
	}
	if s.View.Mode == view.ModeTree {
		if !item.Expanded {
			s.ws.Expanded.Toggle(item.Node.ID)
			return s.refreshKeeping(item.Node.ID)
		}
		return nil
	}
	return s.enterFolder(item.Node.ID, "")
}

// collapseOrUp is the left-arrow behavior: collapse an open tree folder, jump
// to the parent row, or leave the current folder.
func (s *AppState) collapseOrUp() error {
	if s.View.Mode == view.ModeTree {
		item, ok := s.CurrentItem()
		if ok && item.Expanded {
			s.ws.Expanded.Toggle(item.Node.ID)
			return s.refreshKeeping(item.Node.ID)
		}
		if idx := s.parentItemIndex(); idx >= 0 {
			s.Cursor = idx
			s.updateScrollVisibility()
			return nil
		}
	}
	return s.goUp()
}

// targetNodes are the nodes a bulk action applies to: the selection when it
// is non-empty, otherwise the node under the cursor.
func (s *AppState) targetNodes() []fsutil.Node {
	ids := s.ws.Selection.IDs()
	if len(ids) == 0 {
		if item, ok := s.CurrentItem(); ok {
			return []fsutil.Node{item.Node}
		}
		return nil
	}
	nodes := make([]fsutil.Node, 0, len(ids))
	for _, id := range ids {
		if n, err := s.ws.Store.Get(id); err == nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func isNotFound(err error) bool {
	return errors.Is(err, fsutil.ErrNotFound)
}
