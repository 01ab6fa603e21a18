package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rfiles/internal/config"
	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	"go.uber.org/zap/zaptest"
)

var appNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	t.Cleanup(func() {
		screen.Fini()
	})
	screen.SetSize(100, 30)
	return screen
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load(config.Options{})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Demo.Seed = false
	cfg.Upload.MinStep, cfg.Upload.MaxStep = 50, 50
	return cfg
}

// newTestApp builds an application over an empty workspace with
// Reports(F1) -> Q1.pdf(N1) and notes.txt(N2) at the root.
func newTestApp(t *testing.T) *Application {
	t.Helper()
	app, err := newApplication(newTestScreen(t), Options{
		Config:      testConfig(t),
		Logger:      zaptest.NewLogger(t),
		DownloadDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	app.now = func() time.Time { return appNow }

	ws := app.state.Workspace()
	root := ws.Store.RootID()
	for _, n := range []struct {
		node   fsutil.Node
		parent string
	}{
		{fsutil.Node{ID: "F1", Name: "Reports", Kind: fsutil.KindFolder}, root},
		{fsutil.Node{ID: "N1", Name: "Q1.pdf", FileType: fsutil.FileTypePDF}, "F1"},
		{fsutil.Node{ID: "N2", Name: "notes.txt", FileType: fsutil.FileTypeDocument}, root},
	} {
		if _, err := ws.Store.Add(n.node, n.parent); err != nil {
			t.Fatalf("add %s: %v", n.node.Name, err)
		}
	}
	// nodes were added behind the state's back; re-project
	app.dispatch(statepkg.SetViewModeAction{Mode: app.state.View.Mode})
	return app
}

// drain returns every action queued by the handlers.
func drain(app *Application) []statepkg.Action {
	var out []statepkg.Action
	for {
		select {
		case a := <-app.actionCh:
			out = append(out, a)
		default:
			return out
		}
	}
}

func TestNewApplicationSeedsDemoAndSizesState(t *testing.T) {
	cfg := testConfig(t)
	cfg.Demo.Seed = true
	cfg.View.Mode = "grid"
	app, err := newApplication(newTestScreen(t), Options{Config: cfg, Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	state := app.State()
	if state.ScreenWidth != 100 || state.ScreenHeight != 30 {
		t.Fatalf("expected screen size 100x30, got %dx%d", state.ScreenWidth, state.ScreenHeight)
	}
	if state.View.Mode.String() != "grid" {
		t.Fatalf("expected grid mode from config, got %s", state.View.Mode)
	}
	if len(state.Items) == 0 {
		t.Fatalf("expected seeded items at the root")
	}
	if err := state.Workspace().Store.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNewApplicationSubmitsUploadPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app, err := newApplication(newTestScreen(t), Options{
		Config:      testConfig(t),
		Logger:      zaptest.NewLogger(t),
		UploadPaths: []string{path, filepath.Join(dir, "missing.txt")},
	})
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	state := app.State()
	if len(state.Uploads) != 1 || state.Uploads[0].DisplayName != "photo.png" {
		t.Fatalf("expected one upload, got %+v", state.Uploads)
	}
	if !errors.Is(state.LastError, os.ErrNotExist) {
		t.Fatalf("expected missing path reported, got %v", state.LastError)
	}
}

func TestUploadTicksMaterializeNode(t *testing.T) {
	app := newTestApp(t)
	ws := app.state.Workspace()
	before := ws.Store.Len()

	dir := t.TempDir()
	path := filepath.Join(dir, "slides.pptx")
	if err := os.WriteFile(path, []byte("pptx"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app.dispatch(statepkg.PromptStartAction{Kind: statepkg.PromptUpload})
	for _, ch := range path {
		app.dispatch(statepkg.PromptCharAction{Char: ch})
	}
	app.dispatch(statepkg.PromptSubmitAction{})
	if !ws.Uploads.Busy() {
		t.Fatalf("expected the pipeline to be busy")
	}

	for i := 1; i <= 2; i++ {
		app.handleAction(statepkg.UploadTickAction{Now: appNow.Add(time.Duration(i) * time.Second)})
	}
	if ws.Store.Len() != before+1 {
		t.Fatalf("expected one new node, got %d -> %d", before, ws.Store.Len())
	}
	found := false
	for _, item := range app.state.Items {
		if item.Node.Name == "slides.pptx" && item.Node.FileType == fsutil.FileTypePowerPoint {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected slides.pptx in the listing, got %+v", app.state.VisibleNodes())
	}
}

type finiCountingScreen struct {
	tcell.SimulationScreen
	finis int
}

func (s *finiCountingScreen) Fini() {
	s.finis++
	s.SimulationScreen.Fini()
}

func TestCloseOwnsScreenTeardown(t *testing.T) {
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("failed to init screen: %v", err)
	}
	sim.SetSize(100, 30)
	screen := &finiCountingScreen{SimulationScreen: sim}
	app, err := newApplication(screen, Options{Config: testConfig(t), Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("new application: %v", err)
	}

	app.shouldQuit = true
	app.Run()
	if screen.finis != 0 {
		t.Fatalf("expected Run to leave the screen open, got %d Fini calls", screen.finis)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if screen.finis != 1 {
		t.Fatalf("expected exactly one Fini, got %d", screen.finis)
	}
}

func TestHandleActionQuitAndErrors(t *testing.T) {
	app := newTestApp(t)

	if !app.handleAction(statepkg.GoToFolderAction{FolderID: "missing"}) {
		t.Fatalf("expected a render after a failed action")
	}
	if !errors.Is(app.state.LastError, fsutil.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on the status line, got %v", app.state.LastError)
	}

	if app.handleAction(statepkg.QuitAction{}) {
		t.Fatalf("quit should not request a render")
	}
	if !app.shouldQuit {
		t.Fatalf("expected quit flag")
	}
	if app.handleAction(nil) {
		t.Fatalf("nil action should be ignored")
	}
}

func TestHandleEventRoutesKeys(t *testing.T) {
	app := newTestApp(t)
	if !app.handleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)) {
		t.Fatalf("expected key events to request a render")
	}
	if acts := drain(app); len(acts) != 1 || acts[0] != (statepkg.NavigateDownAction{}) {
		t.Fatalf("expected NavigateDownAction, got %v", acts)
	}

	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !app.shouldQuit {
		t.Fatalf("expected q to stop the loop")
	}
}
