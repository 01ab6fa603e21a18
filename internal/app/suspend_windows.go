//go:build windows

package app

import (
	"errors"
	"os"

	"go.uber.org/zap"
)

var errSuspendUnsupported = errors.New("suspend is not supported on this platform")

func contSignals() []os.Signal {
	return nil
}

// Windows has no SIGTSTP/SIGCONT; the request only reaches the status line.
func (app *Application) suspendToShell() {
	app.logger.Debug("suspend requested", zap.Error(errSuspendUnsupported))
	app.state.LastError = errSuspendUnsupported
}

func (app *Application) resumeAfterStop() bool {
	return false
}
