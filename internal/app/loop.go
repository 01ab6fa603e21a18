package app

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rfiles/internal/menu"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	textutil "github.com/kk-code-lab/rfiles/internal/textutil"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const (
	doubleClickThreshold = 300 * time.Millisecond
	listStartY           = 2
	headerLabel          = "rfiles"
	crumbSeparator       = " › "
)

// Run processes events until quit. The screen stays open; Close releases it.
func (app *Application) Run() {
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- app.screen.PollEvent()
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var tickTimer *time.Timer
	var tickCh <-chan time.Time

	startTicks := func() {
		if tickCh != nil {
			return
		}
		if tickTimer == nil {
			tickTimer = time.NewTimer(app.tickInterval)
		} else {
			tickTimer.Reset(app.tickInterval)
		}
		tickCh = tickTimer.C
	}

	stopTicks := func() {
		if tickTimer == nil || tickCh == nil {
			return
		}
		if !tickTimer.Stop() {
			select {
			case <-tickTimer.C:
			default:
			}
		}
		tickCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.state.Workspace().Uploads.Busy() {
			startTicks()
		} else {
			stopTicks()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-tickCh:
			tickCh = nil
			if app.handleAction(statepkg.UploadTickAction{Now: app.now()}) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopTicks()
	app.logger.Info("application stopped")
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		if !app.handleMouse(ev) {
			app.shouldQuit = true
		}
		return true
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps clicks and the wheel to actions. A right click opens the
// context menu at the pointer.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	state := app.state
	if state == nil || state.HelpVisible || state.Prompt != nil {
		return true
	}
	x, y := ev.Position()
	buttons := ev.Buttons()
	_, menuOpen := state.OpenMenu()

	switch {
	case buttons&tcell.WheelUp != 0:
		if !menuOpen {
			app.actionCh <- statepkg.NavigateUpAction{}
		}
	case buttons&tcell.WheelDown != 0:
		if !menuOpen {
			app.actionCh <- statepkg.NavigateDownAction{}
		}
	case buttons&tcell.Button2 != 0:
		idx := app.itemAt(x, y)
		if idx < 0 {
			return true
		}
		app.lastClickIndex = -1
		app.actionCh <- statepkg.MenuOpenAction{Index: idx, At: menu.Point{X: x, Y: y}}
	case buttons&tcell.Button1 != 0:
		if mv, ok := state.OpenMenu(); ok {
			if row, hit := app.renderer.MenuEntryAt(x, y); hit {
				app.actionCh <- statepkg.MenuMoveAction{Delta: row - mv.Cursor}
				app.actionCh <- statepkg.MenuChooseAction{}
				return true
			}
			app.actionCh <- statepkg.MenuCloseAction{}
			return true
		}
		if y == 0 {
			app.handleBreadcrumbClick(x)
			return true
		}
		idx := app.itemAt(x, y)
		if idx < 0 {
			return true
		}
		now := app.now()
		doubleClick := app.lastClickIndex == idx && now.Sub(app.lastClickTime) <= doubleClickThreshold
		app.lastClickIndex = idx
		app.lastClickTime = now

		app.actionCh <- statepkg.MouseSelectAction{Index: idx}
		if doubleClick {
			app.lastClickIndex = -1
			app.actionCh <- statepkg.OpenAction{}
		}
	}
	return true
}

// itemAt maps a screen cell to an item index, or -1 outside the item area.
func (app *Application) itemAt(x, y int) int {
	lines := app.state.VisibleLines()
	if y < listStartY || y >= listStartY+lines {
		return -1
	}
	return app.state.ItemAtLine(y-listStartY, x)
}

// handleBreadcrumbClick jumps to the clicked breadcrumb folder. Clicks are
// ignored when the breadcrumb was shortened to fit.
func (app *Application) handleBreadcrumbClick(x int) bool {
	crumbs := app.state.Breadcrumb
	if x < 0 || len(crumbs) == 0 {
		return false
	}
	pos := runewidth.StringWidth(headerLabel) + 1
	if x < pos {
		return false
	}

	sepW := runewidth.StringWidth(crumbSeparator)
	totalWidth := 0
	for i, n := range crumbs {
		if i > 0 {
			totalWidth += sepW
		}
		totalWidth += runewidth.StringWidth(textutil.SanitizeTerminalText(n.Name))
	}
	if totalWidth > app.state.ScreenWidth-pos {
		return false
	}

	currentX := pos
	for i, n := range crumbs {
		if i > 0 {
			if x >= currentX && x < currentX+sepW {
				// click on separator -> treat as previous segment
				app.actionCh <- statepkg.GoToFolderAction{FolderID: crumbs[i-1].ID}
				return true
			}
			currentX += sepW
		}
		segW := runewidth.StringWidth(textutil.SanitizeTerminalText(n.Name))
		if x >= currentX && x < currentX+segW {
			app.actionCh <- statepkg.GoToFolderAction{FolderID: n.ID}
			return true
		}
		currentX += segW
	}
	return false
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// dispatch applies action synchronously.
func (app *Application) dispatch(action statepkg.Action) {
	app.handleAction(action)
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
		app.logger.Debug("action failed",
			zap.String("action", fmt.Sprintf("%T", action)),
			zap.Error(err))
	}
	return true
}
