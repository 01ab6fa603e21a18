package state

import (
	"time"

	"github.com/kk-code-lab/rfiles/internal/menu"
	"github.com/kk-code-lab/rfiles/internal/upload"
	"github.com/kk-code-lab/rfiles/internal/view"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type NavigateLeftAction struct{}  // grid: previous cell; otherwise collapse or go up
type NavigateRightAction struct{} // grid: next cell; otherwise open
type OpenAction struct{}          // enter: open folder or preview file
type GoUpAction struct{}
type GoRootAction struct{}

// GoToFolderAction jumps to a folder on the breadcrumb path.
type GoToFolderAction struct {
	FolderID string
}

// ===== SCROLL ACTIONS =====

type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollToStartAction struct{}
type ScrollToEndAction struct{}

type MouseSelectAction struct {
	Index int
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type CycleViewModeAction struct{}
type SetViewModeAction struct {
	Mode view.Mode
}
type ToggleExpandAction struct{}

// ===== FILTER ACTIONS =====

type FilterStartAction struct{}
type FilterCharAction struct {
	Char rune
}
type FilterBackspaceAction struct{}
type FilterConfirmAction struct{} // leave typing mode, keep the query
type FilterClearAction struct{}
type CycleTypeFilterAction struct{}
type CycleContentFilterAction struct{}

// ===== SELECTION & FLAGS =====

type ToggleSelectAction struct{}
type ClearSelectionAction struct{}
type DeleteSelectionAction struct{}
type ToggleStarAction struct{}
type ToggleShareAction struct{}

// ===== CONTEXT MENU =====

// MenuOpenAction opens the menu for the item at Index (the cursor item when
// Index is negative). At is the invocation point; keyboard opens pass
// {-1,-1}.
type MenuOpenAction struct {
	Index int
	At    menu.Point
}
type MenuMoveAction struct {
	Delta int
}
type MenuChooseAction struct{}
type MenuChooseKeyAction struct {
	Key rune
}
type MenuCloseAction struct{}

// ===== PROMPT =====

type PromptStartAction struct {
	Kind PromptKind
}
type PromptCharAction struct {
	Char rune
}
type PromptBackspaceAction struct{}
type PromptSubmitAction struct{}
type PromptCancelAction struct{}

// ===== CLIPBOARD =====

type StageCopyAction struct{}
type StageMoveAction struct{}
type PasteAction struct{}
type ClearClipboardAction struct{}

// ===== UPLOADS =====

type UploadSubmitAction struct {
	Blobs []upload.Blob
}
type UploadTickAction struct {
	Now time.Time
}
type UploadDismissAction struct{}

// ===== PANELS & EXPORT =====

type ClosePanelAction struct{}
type ExportAction struct {
	Path string
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}

type HelpToggleAction struct{}
type HelpHideAction struct{}
