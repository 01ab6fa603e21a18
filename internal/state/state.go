package state

import (
	"errors"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"github.com/kk-code-lab/rfiles/internal/menu"
	"github.com/kk-code-lab/rfiles/internal/search"
	"github.com/kk-code-lab/rfiles/internal/upload"
	"github.com/kk-code-lab/rfiles/internal/view"
)

var errUnavailable = errors.New("not available")

// Rows outside the item area: header, filter line, status and key hints.
// The upload strip takes one more row while uploads are listed.
const chromeRows = 4

// ===== STATE DEFINITIONS =====

// ViewState is the ephemeral presentation state. It is rebuilt from defaults
// on every start.
type ViewState struct {
	Mode          view.Mode
	Query         string
	TypeFilter    search.TypeFilter
	ContentFilter search.TypeFilter
	GridCellWidth int
}

// Criteria collects the active filters.
func (v ViewState) Criteria() search.Criteria {
	return search.Criteria{Query: v.Query, Type: v.TypeFilter, Content: v.ContentFilter}
}

// PromptKind selects what a submitted prompt does.
type PromptKind uint8

const (
	PromptNone PromptKind = iota
	PromptRename
	PromptNewFolder
	PromptUpload
	PromptExport
)

func (k PromptKind) Label() string {
	switch k {
	case PromptRename:
		return "Rename to"
	case PromptNewFolder:
		return "New folder"
	case PromptUpload:
		return "Upload paths (comma separated)"
	case PromptExport:
		return "Export CSV to"
	default:
		return ""
	}
}

// Prompt is a single-line text input.
type Prompt struct {
	Kind   PromptKind
	Input  string
	Target fsutil.Node // rename target, captured when the prompt opened
}

// ClipMode is what paste does with staged nodes.
type ClipMode uint8

const (
	ClipMove ClipMode = iota + 1
	ClipCopy
)

func (m ClipMode) String() string {
	if m == ClipCopy {
		return "copy"
	}
	return "move"
}

// Clip holds nodes staged for paste.
type Clip struct {
	Mode ClipMode
	IDs  []string
}

// MenuView is the render-side copy of the open context menu. X and Y are
// negative when the menu was opened from the keyboard.
type MenuView struct {
	Node   fsutil.Node
	X, Y   int
	Items  []menu.ActionKind
	Cursor int
}

// AppState is the single source of truth
type AppState struct {
	// Navigation
	CurrentFolderID string
	Breadcrumb      []fsutil.Node // root first, ends with the current folder

	// Projection & cursor
	Items        []view.Item
	Cursor       int
	ScrollOffset int
	View         ViewState

	// Filtering
	FilterActive bool // query line has focus

	// Interaction
	Prompt    *Prompt
	Clipboard *Clip
	Panel     *Panel

	// Uploads (snapshot of the active list)
	Uploads []upload.Task

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	HelpVisible bool

	// Status line
	StatusMessage string
	LastError     error

	ExportPath string // default path for the export prompt

	ws *Workspace
}

// NewAppState builds the initial state over ws, showing the root folder.
func NewAppState(ws *Workspace, v ViewState) *AppState {
	if v.GridCellWidth <= 0 {
		v.GridCellWidth = 22
	}
	s := &AppState{
		CurrentFolderID: ws.Store.RootID(),
		View:            v,
		ExportPath:      "rfiles-export.csv",
		ws:              ws,
	}
	s.refreshOrReport()
	return s
}

// refreshOrReport is refresh for callers that cannot return an error; a
// failed projection goes to the status line.
func (s *AppState) refreshOrReport() {
	if err := s.refresh(); err != nil {
		s.setError(err)
	}
}

// Workspace exposes the store and its collaborators to the UI.
func (s *AppState) Workspace() *Workspace {
	return s.ws
}

// CurrentItem returns the item under the cursor.
func (s *AppState) CurrentItem() (view.Item, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return view.Item{}, false
	}
	return s.Items[s.Cursor], true
}

// VisibleNodes returns the nodes of the current projection in display order.
func (s *AppState) VisibleNodes() []fsutil.Node {
	out := make([]fsutil.Node, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.Node
	}
	return out
}

// IsSelected reports whether id is in the selection set.
func (s *AppState) IsSelected(id string) bool {
	return s.ws != nil && s.ws.Selection.Contains(id)
}

// SelectionCount is the size of the selection set.
func (s *AppState) SelectionCount() int {
	if s.ws == nil {
		return 0
	}
	return s.ws.Selection.Len()
}

// OpenMenu returns the open context menu, if any.
func (s *AppState) OpenMenu() (menuView MenuView, ok bool) {
	if s.ws == nil {
		return MenuView{}, false
	}
	m, ok := s.ws.Menu.Current()
	if !ok {
		return MenuView{}, false
	}
	return MenuView{Node: m.Node, X: m.At.X, Y: m.At.Y, Items: m.Items, Cursor: m.Cursor}, true
}

// PanelNode resolves the node shown in the side panel.
func (s *AppState) PanelNode() (fsutil.Node, bool) {
	if s.Panel == nil || s.ws == nil {
		return fsutil.Node{}, false
	}
	n, err := s.ws.Store.Get(s.Panel.NodeID)
	if err != nil {
		return fsutil.Node{}, false
	}
	return n, true
}

// setError records err for the status line; nil clears it.
func (s *AppState) setError(err error) {
	s.LastError = err
	if err != nil {
		s.StatusMessage = ""
	}
}

func (s *AppState) setMessage(msg string) {
	s.StatusMessage = msg
	s.LastError = nil
}
