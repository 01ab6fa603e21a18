package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rfiles/internal/menu"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
)

// keyboardMenuPoint asks the renderer to anchor the menu at the cursor.
var keyboardMenuPoint = menu.Point{X: -1, Y: -1}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the application should stop reading input.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(action statepkg.Action) bool {
	ih.actionChan <- action
	return true
}

// processKeyEvent routes a key to the handler of the innermost mode: help,
// prompt, context menu, filter typing and finally the browser.
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}
	if ih.state == nil {
		return ih.browseKey(ev)
	}
	if ih.state.HelpVisible {
		return ih.helpKey(ev)
	}
	if ih.state.Prompt != nil {
		return ih.promptKey(ev)
	}
	if _, open := ih.state.OpenMenu(); open {
		return ih.menuKey(ev)
	}
	if ih.state.FilterActive {
		return ih.filterKey(ev)
	}
	return ih.browseKey(ev)
}

func (ih *InputHandler) helpKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.HelpHideAction{})
	case tcell.KeyRune:
		r := ev.Rune()
		if r == '?' || r == 'q' || r == 'Q' {
			return ih.emit(statepkg.HelpHideAction{})
		}
	}
	return true
}

func (ih *InputHandler) promptKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.PromptCancelAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.PromptSubmitAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(statepkg.PromptBackspaceAction{})
	case tcell.KeyRune:
		return ih.emit(statepkg.PromptCharAction{Char: ev.Rune()})
	}
	return true
}

func (ih *InputHandler) menuKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.MenuCloseAction{})
	case tcell.KeyUp:
		return ih.emit(statepkg.MenuMoveAction{Delta: -1})
	case tcell.KeyDown, tcell.KeyTab:
		return ih.emit(statepkg.MenuMoveAction{Delta: 1})
	case tcell.KeyEnter:
		return ih.emit(statepkg.MenuChooseAction{})
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'k':
			return ih.emit(statepkg.MenuMoveAction{Delta: -1})
		case 'j':
			return ih.emit(statepkg.MenuMoveAction{Delta: 1})
		case 'q':
			return ih.emit(statepkg.MenuCloseAction{})
		default:
			if _, ok := menu.ActionForKey(r); ok {
				return ih.emit(statepkg.MenuChooseKeyAction{Key: r})
			}
		}
	}
	return true
}

func (ih *InputHandler) filterKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.emit(statepkg.FilterClearAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.FilterConfirmAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(statepkg.FilterBackspaceAction{})
	case tcell.KeyUp:
		return ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		return ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyCtrlT:
		return ih.emit(statepkg.CycleTypeFilterAction{})
	case tcell.KeyRune:
		return ih.emit(statepkg.FilterCharAction{Char: ev.Rune()})
	}
	return true
}

// browseKey handles the default mode.
func (ih *InputHandler) browseKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return ih.escape()
	case tcell.KeyUp:
		return ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		return ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyLeft:
		return ih.emit(statepkg.NavigateLeftAction{})
	case tcell.KeyRight:
		return ih.emit(statepkg.NavigateRightAction{})
	case tcell.KeyEnter:
		return ih.emit(statepkg.OpenAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ih.emit(statepkg.GoUpAction{})
	case tcell.KeyPgUp:
		return ih.emit(statepkg.ScrollPageUpAction{})
	case tcell.KeyPgDn:
		return ih.emit(statepkg.ScrollPageDownAction{})
	case tcell.KeyHome:
		return ih.emit(statepkg.ScrollToStartAction{})
	case tcell.KeyEnd:
		return ih.emit(statepkg.ScrollToEndAction{})
	case tcell.KeyTab:
		return ih.emit(statepkg.ToggleExpandAction{})
	case tcell.KeyDelete:
		return ih.emit(statepkg.DeleteSelectionAction{})
	case tcell.KeyCtrlZ:
		return ih.emit(statepkg.SuspendAction{})
	case tcell.KeyRune:
		return ih.browseRune(ev)
	}
	return true
}

func (ih *InputHandler) browseRune(ev *tcell.EventKey) bool {
	r := ev.Rune()
	if ev.Modifiers()&tcell.ModShift != 0 {
		// Normalize shifted alphabetic runes to reflect user intent (Shift+A => 'A')
		r = unicode.ToUpper(r)
	}
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case '?':
		return ih.emit(statepkg.HelpToggleAction{})
	case 'k':
		return ih.emit(statepkg.NavigateUpAction{})
	case 'j':
		return ih.emit(statepkg.NavigateDownAction{})
	case 'h':
		return ih.emit(statepkg.NavigateLeftAction{})
	case 'l':
		return ih.emit(statepkg.NavigateRightAction{})
	case 'g':
		return ih.emit(statepkg.ScrollToStartAction{})
	case 'G':
		return ih.emit(statepkg.ScrollToEndAction{})
	case '~':
		return ih.emit(statepkg.GoRootAction{})
	case ' ':
		return ih.emit(statepkg.ToggleSelectAction{})
	case 'v':
		return ih.emit(statepkg.CycleViewModeAction{})
	case '/':
		return ih.emit(statepkg.FilterStartAction{})
	case 't':
		return ih.emit(statepkg.CycleTypeFilterAction{})
	case 'c':
		return ih.emit(statepkg.CycleContentFilterAction{})
	case 's':
		return ih.emit(statepkg.ToggleStarAction{})
	case 'S':
		return ih.emit(statepkg.ToggleShareAction{})
	case 'D':
		return ih.emit(statepkg.DeleteSelectionAction{})
	case 'n':
		return ih.emit(statepkg.PromptStartAction{Kind: statepkg.PromptNewFolder})
	case 'r':
		return ih.emit(statepkg.PromptStartAction{Kind: statepkg.PromptRename})
	case 'u':
		return ih.emit(statepkg.PromptStartAction{Kind: statepkg.PromptUpload})
	case 'U':
		return ih.emit(statepkg.UploadDismissAction{})
	case 'E':
		return ih.emit(statepkg.PromptStartAction{Kind: statepkg.PromptExport})
	case 'y':
		return ih.emit(statepkg.StageCopyAction{})
	case 'x':
		return ih.emit(statepkg.StageMoveAction{})
	case 'p':
		return ih.emit(statepkg.PasteAction{})
	case 'o', 'm':
		return ih.emit(statepkg.MenuOpenAction{Index: -1, At: keyboardMenuPoint})
	}
	return true
}

// escape closes the panel, or clears the filter, the selection or the
// clipboard, in that order.
func (ih *InputHandler) escape() bool {
	switch {
	case ih.state == nil:
		return true
	case ih.state.Panel != nil:
		return ih.emit(statepkg.ClosePanelAction{})
	case !ih.state.View.Criteria().IsZero():
		return ih.emit(statepkg.FilterClearAction{})
	case ih.state.SelectionCount() > 0:
		return ih.emit(statepkg.ClearSelectionAction{})
	case ih.state.Clipboard != nil:
		return ih.emit(statepkg.ClearClipboardAction{})
	}
	return true
}
