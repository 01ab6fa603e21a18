//go:build !windows

package app

import (
	"os"
	"syscall"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	"go.uber.org/zap"
)

// contSignals are the signals that mean the process was resumed after Ctrl+Z.
func contSignals() []os.Signal {
	return []os.Signal{syscall.SIGCONT}
}

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	app.logger.Debug("suspending to shell")
	// Stop only this process, not the process group of the launching shell.
	_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		app.logger.Warn("resume failed", zap.Error(err))
		return false
	}
	// Re-enable mouse reporting after resume
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.handleAction(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}
