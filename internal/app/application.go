package app

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rfiles/internal/config"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	"github.com/kk-code-lab/rfiles/internal/upload"
	inputui "github.com/kk-code-lab/rfiles/internal/ui/input"
	renderui "github.com/kk-code-lab/rfiles/internal/ui/render"
	"github.com/kk-code-lab/rfiles/internal/view"
	"go.uber.org/zap"
)

// Options configures NewApplication.
type Options struct {
	Config      config.Config
	Logger      *zap.Logger
	UploadPaths []string // submitted to the root folder on start
	DownloadDir string   // where download writes its CSV; empty means the working directory
}

// Application represents the running app.
type Application struct {
	screen       tcell.Screen
	state        *statepkg.AppState
	reducer      *statepkg.StateReducer
	renderer     *renderui.Renderer
	input        *inputui.InputHandler
	actionCh     chan statepkg.Action
	shouldQuit   bool
	logger       *zap.Logger
	tickInterval time.Duration
	now          func() time.Time

	lastClickIndex int
	lastClickTime  time.Time
}

// NewApplication opens the terminal and builds the workspace.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode, ok := view.ParseMode(cfg.View.Mode)
	if !ok {
		mode = view.ModeList
	}

	dir := opts.DownloadDir
	if dir == "" {
		dir = "."
	}
	ext := newBoundary(dir, logger.Named("boundary"))
	ws, err := statepkg.NewWorkspace(statepkg.WorkspaceOptions{
		Owner:    cfg.Upload.Owner,
		Upload:   cfg.Upload.PipelineConfig(),
		External: ext,
		Logger:   logger,
		SeedDemo: cfg.Demo.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	ext.store = ws.Store

	state := statepkg.NewAppState(ws, statepkg.ViewState{Mode: mode, GridCellWidth: cfg.View.GridCellWidth})
	reducer := statepkg.NewStateReducer(logger.Named("reducer"))
	w, h := screen.Size()
	if _, err := reducer.Reduce(state, statepkg.ResizeAction{Width: w, Height: h}); err != nil {
		return nil, err
	}

	actionCh := make(chan statepkg.Action, 10)
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	tick := cfg.Upload.TickInterval
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	app := &Application{
		screen:         screen,
		state:          state,
		reducer:        reducer,
		renderer:       renderui.NewRenderer(screen),
		input:          inputHandler,
		actionCh:       actionCh,
		logger:         logger,
		tickInterval:   tick,
		now:            time.Now,
		lastClickIndex: -1,
	}

	if len(opts.UploadPaths) > 0 {
		blobs, err := upload.BlobsFromPaths(opts.UploadPaths)
		if err != nil {
			logger.Warn("some upload paths were skipped", zap.Error(err))
			state.LastError = err
		}
		app.dispatch(statepkg.UploadSubmitAction{Blobs: blobs})
	}

	logger.Info("application started",
		zap.String("mode", mode.String()),
		zap.Int("nodes", ws.Store.Len()),
		zap.Int("uploads", len(state.Uploads)))
	return app, nil
}

// State returns the live state. It is only safe to read from the loop goroutine.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.state.Workspace().Uploads.Close()
	close(app.actionCh)
	app.screen.Fini()
	return nil
}
