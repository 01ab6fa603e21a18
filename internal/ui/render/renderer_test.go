package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"github.com/kk-code-lab/rfiles/internal/menu"
	statepkg "github.com/kk-code-lab/rfiles/internal/state"
	"github.com/kk-code-lab/rfiles/internal/upload"
	"github.com/kk-code-lab/rfiles/internal/view"
	"go.uber.org/zap/zaptest"
)

var renderNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func newRenderState(t *testing.T, w, h int) (*statepkg.AppState, *statepkg.StateReducer) {
	t.Helper()
	ws, err := statepkg.NewWorkspace(statepkg.WorkspaceOptions{
		RootName: "Documents",
		Owner:    "admin",
		Upload:   upload.Config{MinStep: 10, MaxStep: 10, GracePeriod: time.Second, Seed: 1},
		Logger:   zaptest.NewLogger(t),
		Clock:    func() time.Time { return renderNow },
	})
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	root := ws.Store.RootID()
	for _, n := range []struct {
		node   fsutil.Node
		parent string
	}{
		{fsutil.Node{ID: "F1", Name: "Reports", Kind: fsutil.KindFolder}, root},
		{fsutil.Node{ID: "N1", Name: "Q1.pdf", FileType: fsutil.FileTypePDF, SizeBytes: 2048}, "F1"},
		{fsutil.Node{ID: "N2", Name: "notes.txt", FileType: fsutil.FileTypeDocument, SizeBytes: 10, Starred: true}, root},
	} {
		if _, err := ws.Store.Add(n.node, n.parent); err != nil {
			t.Fatalf("add %s: %v", n.node.Name, err)
		}
	}
	state := statepkg.NewAppState(ws, statepkg.ViewState{GridCellWidth: 20})
	reducer := statepkg.NewStateReducer(zaptest.NewLogger(t))
	apply(t, reducer, state, statepkg.ResizeAction{Width: w, Height: h})
	return state, reducer
}

func apply(t *testing.T, reducer *statepkg.StateReducer, state *statepkg.AppState, action statepkg.Action) {
	t.Helper()
	if _, err := reducer.Reduce(state, action); err != nil {
		t.Fatalf("reduce %T: %v", action, err)
	}
}

func screenRow(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		cell := cells[y*w+x]
		if len(cell.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(cell.Runes[0])
	}
	return b.String()
}

func screenText(screen tcell.SimulationScreen) string {
	_, _, h := screen.GetContents()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = screenRow(screen, y)
	}
	return strings.Join(rows, "\n")
}

func renderTo(t *testing.T, state *statepkg.AppState, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := newSimScreen(t, w, h)
	r := NewRenderer(screen)
	r.SetClock(func() time.Time { return renderNow })
	r.Render(state)
	return screen
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)

	if got := r.measureTextWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}

	if got := r.measureTextWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestFitLeftKeepsTail(t *testing.T) {
	r := NewRenderer(nil)
	tests := []struct {
		text   string
		width  int
		expect string
	}{
		{"short", 10, "short"},
		{"Documents › Reports › ", 12, "… Reports › "},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := fitLeft(tt.text, tt.width, r.measureTextWidth); got != tt.expect {
			t.Fatalf("fitLeft(%q, %d): expected %q, got %q", tt.text, tt.width, tt.expect, got)
		}
	}
}

func TestClampBoxStaysOnScreen(t *testing.T) {
	b := clampBox(box{x: 75, y: 20, w: 20, h: 8}, 80, 24)
	if b.x != 60 || b.y != 16 || b.w != 20 || b.h != 8 {
		t.Fatalf("unexpected box %+v", b)
	}
	b = clampBox(box{x: -3, y: -1, w: 100, h: 4}, 80, 24)
	if b.x != 0 || b.y != 0 || b.w != 80 {
		t.Fatalf("expected box shrunk to the screen, got %+v", b)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(50, 8); got != "████░░░░" {
		t.Fatalf("expected half bar, got %q", got)
	}
	if got := progressBar(140, 4); got != "████" {
		t.Fatalf("expected clamped bar, got %q", got)
	}
}

func TestRenderListShowsBreadcrumbAndRows(t *testing.T) {
	state, _ := newRenderState(t, 100, 20)
	screen := renderTo(t, state, 100, 20)

	header := screenRow(screen, 0)
	if !strings.Contains(header, "rfiles Documents") {
		t.Fatalf("expected breadcrumb in header, got %q", header)
	}
	if !strings.Contains(header, "2 items · list") {
		t.Fatalf("expected counts in header, got %q", header)
	}
	legend := screenRow(screen, 1)
	if !strings.Contains(legend, "Name") || !strings.Contains(legend, "Owner") {
		t.Fatalf("expected column legend, got %q", legend)
	}
	text := screenText(screen)
	for _, want := range []string{"/ Reports", "notes.txt", "10 B", "admin", "★"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q on screen:\n%s", want, text)
		}
	}
	footer := screenRow(screen, 19)
	if !strings.Contains(footer, "o: actions") {
		t.Fatalf("expected key hints in footer, got %q", footer)
	}
}

func TestRenderMarksSelectedRows(t *testing.T) {
	state, reducer := newRenderState(t, 100, 20)
	apply(t, reducer, state, statepkg.ToggleSelectAction{})
	screen := renderTo(t, state, 100, 20)

	if !strings.Contains(screenRow(screen, 0), "1 selected") {
		t.Fatalf("expected selection count in header, got %q", screenRow(screen, 0))
	}
	cells, w, _ := screen.GetContents()
	marked := false
	for y := listStartY; y < listStartY+2; y++ {
		if c := cells[y*w]; len(c.Runes) > 0 && c.Runes[0] == '●' {
			marked = true
		}
	}
	if !marked {
		t.Fatalf("expected a selection mark:\n%s", screenText(screen))
	}
}

func TestRenderGridAndTree(t *testing.T) {
	state, reducer := newRenderState(t, 80, 20)
	apply(t, reducer, state, statepkg.SetViewModeAction{Mode: view.ModeGrid})
	screen := renderTo(t, state, 80, 20)
	row := screenRow(screen, listStartY)
	if !strings.Contains(row, "Reports") || !strings.Contains(row, "notes.txt") {
		t.Fatalf("expected both cells on the first grid row, got %q", row)
	}

	apply(t, reducer, state, statepkg.SetViewModeAction{Mode: view.ModeTree})
	apply(t, reducer, state, statepkg.ToggleExpandAction{})
	screen = renderTo(t, state, 80, 20)
	text := screenText(screen)
	if !strings.Contains(text, "▾") || !strings.Contains(text, "Q1.pdf") {
		t.Fatalf("expected expanded tree:\n%s", text)
	}
}

func TestRenderHighlightsFilterMatches(t *testing.T) {
	state, reducer := newRenderState(t, 100, 20)
	apply(t, reducer, state, statepkg.FilterStartAction{})
	for _, ch := range "note" {
		apply(t, reducer, state, statepkg.FilterCharAction{Char: ch})
	}
	screen := renderTo(t, state, 100, 20)

	if bar := screenRow(screen, 1); !strings.HasPrefix(bar, "/note█") {
		t.Fatalf("expected query line, got %q", bar)
	}
	if strings.Contains(screenText(screen), "Reports") {
		t.Fatalf("expected Reports filtered out")
	}
	if !strings.Contains(screenRow(screen, 19), "Esc: clear filter") {
		t.Fatalf("expected filter hints, got %q", screenRow(screen, 19))
	}
}

func TestRenderMenuOverlay(t *testing.T) {
	state, reducer := newRenderState(t, 80, 24)
	apply(t, reducer, state, statepkg.NavigateDownAction{})
	apply(t, reducer, state, statepkg.MenuOpenAction{Index: -1, At: menu.Point{X: -1, Y: -1}})
	screen := renderTo(t, state, 80, 24)

	text := screenText(screen)
	for _, want := range []string{"p  Preview", "x  Delete", "w  Who read this", "notes.txt"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in menu:\n%s", want, text)
		}
	}
	if !strings.Contains(screenRow(screen, 23), "Esc: close menu") {
		t.Fatalf("expected menu hints, got %q", screenRow(screen, 23))
	}
}

func TestRenderPromptAndPanel(t *testing.T) {
	state, reducer := newRenderState(t, 100, 24)
	apply(t, reducer, state, statepkg.PromptStartAction{Kind: statepkg.PromptNewFolder})
	for _, ch := range "Drafts" {
		apply(t, reducer, state, statepkg.PromptCharAction{Char: ch})
	}
	text := screenText(renderTo(t, state, 100, 24))
	if !strings.Contains(text, "New folder") || !strings.Contains(text, "Drafts█") {
		t.Fatalf("expected prompt box:\n%s", text)
	}
	apply(t, reducer, state, statepkg.PromptCancelAction{})

	apply(t, reducer, state, statepkg.NavigateDownAction{})
	apply(t, reducer, state, statepkg.OpenAction{})
	if state.Panel == nil {
		t.Fatalf("expected preview panel to open")
	}
	text = screenText(renderTo(t, state, 100, 24))
	for _, want := range []string{"Preview", "Document", "Starred   yes", "Path      Documents › notes.txt"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in panel:\n%s", want, text)
		}
	}
}

func TestRenderUploadStrip(t *testing.T) {
	state, reducer := newRenderState(t, 100, 20)
	apply(t, reducer, state, statepkg.UploadSubmitAction{Blobs: []upload.Blob{{Name: "photo.png", SizeBytes: 300, MimeType: "image/png"}}})
	apply(t, reducer, state, statepkg.UploadTickAction{Now: renderNow.Add(time.Second)})
	screen := renderTo(t, state, 100, 20)

	strip := screenRow(screen, 17)
	if !strings.HasPrefix(strip, "⇪ photo.png") || !strings.Contains(strip, "10%") {
		t.Fatalf("expected upload progress strip, got %q", strip)
	}
}

func TestRenderHelpOverlay(t *testing.T) {
	state, reducer := newRenderState(t, 80, 40)
	apply(t, reducer, state, statepkg.HelpToggleAction{})
	screen := renderTo(t, state, 80, 40)

	if !strings.Contains(screenRow(screen, 0), "Help") {
		t.Fatalf("expected help title, got %q", screenRow(screen, 0))
	}
	if !strings.Contains(screenText(screen), "Cycle list, grid and tree") {
		t.Fatalf("expected help entries:\n%s", screenText(screen))
	}
}

func TestRenderShowsErrors(t *testing.T) {
	state, _ := newRenderState(t, 80, 20)
	state.LastError = fsutil.ErrNotFound
	screen := renderTo(t, state, 80, 20)
	if row := screenRow(screen, 18); !strings.HasPrefix(row, "error: ") {
		t.Fatalf("expected error on the status line, got %q", row)
	}
}
