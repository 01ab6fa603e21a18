package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kk-code-lab/rfiles/internal/export"
	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"github.com/kk-code-lab/rfiles/internal/menu"
	"github.com/kk-code-lab/rfiles/internal/metrics"
	"github.com/kk-code-lab/rfiles/internal/search"
	"github.com/kk-code-lab/rfiles/internal/upload"
	"github.com/kk-code-lab/rfiles/internal/view"
	"go.uber.org/zap"
)

// ===== REDUCER =====

// StateReducer applies actions to state
type StateReducer struct {
	logger         *zap.Logger
	typePresets    []search.TypeFilter
	contentPresets []search.TypeFilter
}

// NewStateReducer creates a new reducer. A nil logger discards output.
func NewStateReducer(logger *zap.Logger) *StateReducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateReducer{
		logger:         logger,
		typePresets:    search.TypePresets(),
		contentPresets: search.ContentPresets(),
	}
}

// Reduce applies an action to state and returns new state
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== NAVIGATION =====

	case NavigateDownAction:
		state.moveCursor(state.rowStep())
		return state, nil

	case NavigateUpAction:
		state.moveCursor(-state.rowStep())
		return state, nil

	case NavigateLeftAction:
		if state.View.Mode == view.ModeGrid {
			state.moveCursor(-1)
			return state, nil
		}
		return state, state.collapseOrUp()

	case NavigateRightAction:
		if state.View.Mode == view.ModeGrid {
			state.moveCursor(1)
			return state, nil
		}
		return state, state.openCurrent()

	case OpenAction:
		item, ok := state.CurrentItem()
		if !ok {
			return state, nil
		}
		if item.Node.IsFolder() {
			if state.View.Mode == view.ModeTree {
				return state, state.enterFolder(item.Node.ID, "")
			}
			return state, state.openCurrent()
		}
		res, err := state.ws.Menu.Execute(menu.ActionPreview, item.Node, menu.Argument{})
		return state, r.afterExecute(state, res, err)

	case GoUpAction:
		return state, state.goUp()

	case GoRootAction:
		if state.CurrentFolderID == state.ws.Store.RootID() {
			return state, nil
		}
		return state, state.enterFolder(state.ws.Store.RootID(), "")

	case GoToFolderAction:
		if a.FolderID == state.CurrentFolderID {
			return state, nil
		}
		// focus the crumb we came from
		focus := ""
		for i, n := range state.Breadcrumb {
			if n.ID == a.FolderID && i+1 < len(state.Breadcrumb) {
				focus = state.Breadcrumb[i+1].ID
			}
		}
		return state, state.enterFolder(a.FolderID, focus)

	// ===== SCROLLING =====

	case ScrollPageUpAction:
		visibleLines := state.visibleLines()
		if visibleLines <= 0 {
			return state, nil
		}
		state.moveCursor(-visibleLines * state.rowStep())
		return state, nil

	case ScrollPageDownAction:
		visibleLines := state.visibleLines()
		if visibleLines <= 0 {
			return state, nil
		}
		state.moveCursor(visibleLines * state.rowStep())
		return state, nil

	case ScrollToStartAction:
		state.moveCursor(-len(state.Items))
		return state, nil

	case ScrollToEndAction:
		state.moveCursor(len(state.Items))
		return state, nil

	case MouseSelectAction:
		if a.Index < 0 || a.Index >= len(state.Items) {
			return state, nil
		}
		state.Cursor = a.Index
		state.updateScrollVisibility()
		return state, nil

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.updateScrollVisibility()
		return state, nil

	case CycleViewModeAction:
		return state, r.setViewMode(state, state.View.Mode.Next())

	case SetViewModeAction:
		return state, r.setViewMode(state, a.Mode)

	case ToggleExpandAction:
		if state.View.Mode != view.ModeTree {
			return state, nil
		}
		item, ok := state.CurrentItem()
		if !ok || !item.Node.IsFolder() {
			return state, nil
		}
		state.ws.Expanded.Toggle(item.Node.ID)
		return state, state.refreshKeeping(item.Node.ID)

	// ===== FILTERING =====

	case FilterStartAction:
		state.FilterActive = true
		return state, nil

	case FilterCharAction:
		if !state.FilterActive {
			return state, nil
		}
		return state, state.appendFilterChar(a.Char)

	case FilterBackspaceAction:
		if !state.FilterActive {
			return state, nil
		}
		return state, state.dropFilterChar()

	case FilterConfirmAction:
		state.FilterActive = false
		return state, nil

	case FilterClearAction:
		return state, state.clearFilter()

	case CycleTypeFilterAction:
		state.View.TypeFilter = search.NextPreset(r.typePresets, state.View.TypeFilter)
		return state, state.recomputeFilter()

	case CycleContentFilterAction:
		state.View.ContentFilter = search.NextPreset(r.contentPresets, state.View.ContentFilter)
		return state, state.recomputeFilter()

	// ===== SELECTION & FLAGS =====

	case ToggleSelectAction:
		item, ok := state.CurrentItem()
		if !ok {
			return state, nil
		}
		if _, err := state.ws.Selection.Toggle(item.Node.ID); err != nil {
			return state, err
		}
		state.moveCursor(1)
		return state, nil

	case ClearSelectionAction:
		state.ws.Selection.Clear()
		return state, nil

	case DeleteSelectionAction:
		return state, r.deleteTargets(state)

	case ToggleStarAction:
		return state, r.toggleFlag(state, "starred",
			func(n fsutil.Node) bool { return n.Starred }, fsutil.SetStarred)

	case ToggleShareAction:
		return state, r.toggleFlag(state, "shared",
			func(n fsutil.Node) bool { return n.Shared }, fsutil.SetShared)

	// ===== CONTEXT MENU =====

	case MenuOpenAction:
		idx := a.Index
		if idx < 0 {
			idx = state.Cursor
		}
		if idx < 0 || idx >= len(state.Items) {
			return state, nil
		}
		state.Cursor = idx
		state.updateScrollVisibility()
		state.ws.Menu.Open(state.Items[idx].Node, a.At)
		return state, nil

	case MenuMoveAction:
		state.ws.Menu.MoveCursor(a.Delta)
		return state, nil

	case MenuChooseAction:
		m, ok := state.ws.Menu.Current()
		if !ok {
			return state, nil
		}
		return state, r.chooseMenuAction(state, m.Selected())

	case MenuChooseKeyAction:
		m, ok := state.ws.Menu.Current()
		if !ok {
			return state, nil
		}
		kind, ok := menu.ActionForKey(a.Key)
		if !ok {
			return state, nil
		}
		for _, offered := range m.Items {
			if offered == kind {
				return state, r.chooseMenuAction(state, kind)
			}
		}
		return state, nil

	case MenuCloseAction:
		state.ws.Menu.Close()
		return state, nil

	// ===== PROMPT =====

	case PromptStartAction:
		return state, r.startPrompt(state, a.Kind)

	case PromptCharAction:
		if state.Prompt != nil {
			state.Prompt.Input += string(a.Char)
		}
		return state, nil

	case PromptBackspaceAction:
		if state.Prompt != nil {
			runes := []rune(state.Prompt.Input)
			if len(runes) > 0 {
				state.Prompt.Input = string(runes[:len(runes)-1])
			}
		}
		return state, nil

	case PromptCancelAction:
		state.Prompt = nil
		return state, nil

	case PromptSubmitAction:
		if state.Prompt == nil {
			return state, nil
		}
		prompt := *state.Prompt
		state.Prompt = nil
		return state, r.submitPrompt(state, prompt)

	// ===== CLIPBOARD =====

	case StageCopyAction, StageMoveAction:
		targets := state.targetNodes()
		if len(targets) == 0 {
			return state, nil
		}
		mode := ClipCopy
		if _, ok := action.(StageMoveAction); ok {
			mode = ClipMove
		}
		r.stage(state, mode, targets)
		return state, nil

	case PasteAction:
		return state, r.paste(state)

	case ClearClipboardAction:
		state.Clipboard = nil
		state.setMessage("clipboard cleared")
		return state, nil

	// ===== UPLOADS =====

	case UploadSubmitAction:
		r.submitUploads(state, a.Blobs)
		return state, state.refresh()

	case UploadTickAction:
		updates := state.ws.Uploads.Advance(a.Now)
		for _, u := range updates {
			if u.Status == upload.StatusCompleted && u.NodeID != "" {
				metrics.SetNodeCount(state.ws.Store.Len())
				return state, state.refresh()
			}
		}
		state.Uploads = state.ws.Uploads.Active()
		state.updateScrollVisibility()
		return state, nil

	case UploadDismissAction:
		for _, t := range state.ws.Uploads.Active() {
			if t.Status.Terminal() {
				_ = state.ws.Uploads.Dismiss(t.ID)
			}
		}
		state.Uploads = state.ws.Uploads.Active()
		state.updateScrollVisibility()
		return state, nil

	// ===== PANELS & EXPORT =====

	case ClosePanelAction:
		state.Panel = nil
		return state, nil

	case ExportAction:
		return state, r.exportVisible(state, a.Path)

	// ===== APPLICATION =====

	case QuitAction, SuspendAction:
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		if state.HelpVisible {
			state.HelpVisible = false
		}
		return state, nil

	default:
		return state, fmt.Errorf("unknown action: %T", action)
	}
}

// ===== PRIVATE HELPER METHODS =====

func (r *StateReducer) setViewMode(state *AppState, mode view.Mode) error {
	if state.View.Mode == mode {
		return nil
	}
	prev := state.View.Mode
	state.View.Mode = mode
	if err := state.refresh(); err != nil {
		state.View.Mode = prev
		_ = state.refresh()
		return err
	}
	state.centerScrollOnSelection()
	state.setMessage(mode.String() + " view")
	return nil
}

// chooseMenuAction runs action from the open menu. Rename, move and copy
// need more input, so they close the menu and continue through the prompt
// or the clipboard.
func (r *StateReducer) chooseMenuAction(state *AppState, action menu.ActionKind) error {
	m, ok := state.ws.Menu.Current()
	if !ok {
		return menu.ErrNoMenu
	}
	node := m.Node
	switch action {
	case menu.ActionRename:
		state.ws.Menu.Close()
		state.Prompt = &Prompt{Kind: PromptRename, Input: node.Name, Target: node}
		return nil
	case menu.ActionMove:
		state.ws.Menu.Close()
		r.stage(state, ClipMove, []fsutil.Node{node})
		return nil
	case menu.ActionCopy:
		state.ws.Menu.Close()
		r.stage(state, ClipCopy, []fsutil.Node{node})
		return nil
	}
	res, err := state.ws.Menu.Choose(action, menu.Argument{})
	return r.afterExecute(state, res, err)
}

// afterExecute folds a dispatcher result back into the state: panels opened
// by handlers, status messages and reprojection after store changes.
func (r *StateReducer) afterExecute(state *AppState, res menu.Result, err error) error {
	panel, msg := state.ws.panels.take()
	if panel != nil {
		state.Panel = panel
	}
	if err != nil {
		if refreshErr := state.refresh(); refreshErr != nil {
			return errors.Join(err, refreshErr)
		}
		return err
	}

	switch res.Action {
	case menu.ActionDelete:
		metrics.SetNodeCount(state.ws.Store.Len())
		state.setMessage(fmt.Sprintf("deleted %d item(s)", len(res.Removed)))
	case menu.ActionRename:
		state.setMessage("renamed to " + res.Node.Name)
	case menu.ActionMove:
		state.setMessage("moved " + res.Node.Name)
	case menu.ActionCopy:
		metrics.SetNodeCount(state.ws.Store.Len())
		state.setMessage("copied to " + res.Node.Name)
	default:
		if msg != "" {
			state.setMessage(msg)
		}
	}
	return state.refresh()
}

func (r *StateReducer) deleteTargets(state *AppState) error {
	if state.ws.Selection.Len() == 0 {
		item, ok := state.CurrentItem()
		if !ok {
			return nil
		}
		res, err := state.ws.Menu.Execute(menu.ActionDelete, item.Node, menu.Argument{})
		return r.afterExecute(state, res, err)
	}

	removed, err := state.ws.DeleteSelection()
	r.logger.Debug("selection deleted", zap.Int("removed", len(removed)), zap.Error(err))
	if refreshErr := state.refresh(); refreshErr != nil {
		return errors.Join(err, refreshErr)
	}
	if err != nil {
		return err
	}
	state.setMessage(fmt.Sprintf("deleted %d item(s)", len(removed)))
	return nil
}

// toggleFlag sets flag on every target unless all of them already carry it,
// in which case it is cleared.
func (r *StateReducer) toggleFlag(state *AppState, name string, get func(fsutil.Node) bool, set func(bool) fsutil.Patch) error {
	targets := state.targetNodes()
	if len(targets) == 0 {
		return nil
	}
	value := false
	for _, n := range targets {
		if !get(n) {
			value = true
			break
		}
	}
	var errs []error
	for _, n := range targets {
		if _, err := state.ws.Store.Update(n.ID, set(value)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := state.refresh(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	verb := "set"
	if !value {
		verb = "cleared"
	}
	state.setMessage(fmt.Sprintf("%s %s on %d item(s)", name, verb, len(targets)))
	return nil
}

func (r *StateReducer) stage(state *AppState, mode ClipMode, nodes []fsutil.Node) {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	state.Clipboard = &Clip{Mode: mode, IDs: ids}
	state.setMessage(fmt.Sprintf("%d item(s) ready to %s, open a folder and press p", len(ids), mode))
}

// paste moves or copies the staged nodes into the current folder through
// the dispatcher. Staged nodes removed in the meantime fail with NotFound.
func (r *StateReducer) paste(state *AppState) error {
	clip := state.Clipboard
	if clip == nil || len(clip.IDs) == 0 {
		return nil
	}
	state.Clipboard = nil

	action := menu.ActionMove
	if clip.Mode == ClipCopy {
		action = menu.ActionCopy
	}
	arg := menu.Argument{TargetID: state.CurrentFolderID}

	var errs []error
	done := 0
	lastID := ""
	for _, id := range clip.IDs {
		node, err := state.ws.Store.Get(id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", action, err))
			continue
		}
		res, err := state.ws.Menu.Execute(action, node, arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		done++
		lastID = res.Node.ID
	}
	metrics.SetNodeCount(state.ws.Store.Len())
	if err := state.refreshKeeping(lastID); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		for _, err := range errs {
			if isNotFound(err) {
				r.logger.Warn("stale clipboard entry", zap.Error(err))
			}
		}
		return errors.Join(errs...)
	}
	state.setMessage(fmt.Sprintf("%s: %d item(s) pasted", clip.Mode, done))
	return nil
}

func (r *StateReducer) startPrompt(state *AppState, kind PromptKind) error {
	p := &Prompt{Kind: kind}
	switch kind {
	case PromptRename:
		item, ok := state.CurrentItem()
		if !ok {
			return nil
		}
		if item.Node.IsRoot() {
			return fmt.Errorf("rename root: %w", fsutil.ErrInvalidOperation)
		}
		p.Input = item.Node.Name
		p.Target = item.Node
	case PromptExport:
		p.Input = state.ExportPath
	case PromptNewFolder, PromptUpload:
	default:
		return nil
	}
	state.ws.Menu.Close()
	state.Prompt = p
	return nil
}

func (r *StateReducer) submitPrompt(state *AppState, p Prompt) error {
	input := strings.TrimSpace(p.Input)
	switch p.Kind {
	case PromptRename:
		res, err := state.ws.Menu.Execute(menu.ActionRename, p.Target, menu.Argument{NewName: input})
		return r.afterExecute(state, res, err)

	case PromptNewFolder:
		if input == "" {
			return nil
		}
		node, err := state.ws.Store.Add(fsutil.Node{
			Name:  input,
			Kind:  fsutil.KindFolder,
			Owner: state.ws.owner,
		}, state.CurrentFolderID)
		if err != nil {
			return err
		}
		metrics.SetNodeCount(state.ws.Store.Len())
		r.logger.Debug("folder created", zap.String("id", node.ID), zap.String("parent", node.ParentID))
		if err := state.refreshKeeping(node.ID); err != nil {
			return err
		}
		state.setMessage("created " + node.Name)
		return nil

	case PromptUpload:
		paths := upload.SplitPaths(input)
		if len(paths) == 0 {
			return nil
		}
		blobs, err := upload.BlobsFromPaths(paths)
		r.submitUploads(state, blobs)
		if refreshErr := state.refresh(); refreshErr != nil {
			return errors.Join(err, refreshErr)
		}
		return err

	case PromptExport:
		if input == "" {
			return nil
		}
		return r.exportVisible(state, input)
	}
	return nil
}

func (r *StateReducer) submitUploads(state *AppState, blobs []upload.Blob) {
	if len(blobs) == 0 {
		return
	}
	tasks := state.ws.Submit(blobs, state.CurrentFolderID)
	failed := 0
	for _, t := range tasks {
		if t.Status == upload.StatusFailed {
			failed++
		}
	}
	msg := fmt.Sprintf("%d upload(s) started", len(tasks)-failed)
	if failed > 0 {
		msg += fmt.Sprintf(", %d rejected", failed)
	}
	state.setMessage(msg)
}

// exportVisible writes the current filtered projection as CSV.
func (r *StateReducer) exportVisible(state *AppState, path string) error {
	if path == "" {
		path = state.ExportPath
	}
	nodes := state.VisibleNodes()
	if err := export.WriteFile(path, nodes); err != nil {
		return err
	}
	state.ExportPath = path
	r.logger.Info("exported", zap.String("path", path), zap.Int("rows", len(nodes)))
	state.setMessage(fmt.Sprintf("exported %d row(s) to %s", len(nodes), path))
	return nil
}
