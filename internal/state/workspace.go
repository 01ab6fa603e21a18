package state

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"github.com/kk-code-lab/rfiles/internal/menu"
	"github.com/kk-code-lab/rfiles/internal/metrics"
	"github.com/kk-code-lab/rfiles/internal/selection"
	"github.com/kk-code-lab/rfiles/internal/upload"
	"github.com/kk-code-lab/rfiles/internal/view"
	"go.uber.org/zap"
)

// External performs the context actions that leave the application.
type External interface {
	Download(node fsutil.Node) (string, error)
	Share(node fsutil.Node) (string, error)
}

// WorkspaceOptions configures NewWorkspace.
type WorkspaceOptions struct {
	RootName string
	Owner    string
	Upload   upload.Config
	External External
	Logger   *zap.Logger
	Clock    func() time.Time
	NewID    func() string // node and task ids; nil uses uuids
	SeedDemo bool
}

// Workspace wires the file store to everything that reads or writes it.
// It is passed explicitly to the reducer; there is no package-level instance.
type Workspace struct {
	Store     *fsutil.Store
	Selection *selection.Set
	Expanded  *view.ExpandedSet
	Menu      *menu.Dispatcher
	Uploads   *upload.Pipeline

	owner  string
	panels *panelRouter
	logger *zap.Logger
	now    func() time.Time
}

func NewWorkspace(opts WorkspaceOptions) (*Workspace, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	rootName := opts.RootName
	if rootName == "" {
		rootName = "My Files"
	}

	storeOpts := []fsutil.Option{fsutil.WithClock(now)}
	uploadOpts := []upload.Option{upload.WithLogger(logger.Named("upload"))}
	if opts.NewID != nil {
		storeOpts = append(storeOpts, fsutil.WithIDGenerator(opts.NewID))
		uploadOpts = append(uploadOpts, upload.WithIDGenerator(opts.NewID))
	}

	ws := &Workspace{
		Store:    fsutil.NewStore(rootName, storeOpts...),
		Expanded: view.NewExpandedSet(),
		owner:    opts.Owner,
		logger:   logger,
		now:      now,
	}
	ws.Selection = selection.New(ws.Store.Has)
	ws.Store.OnRemove(ws.Selection.Prune)
	ws.Store.OnRemove(ws.Expanded.Prune)
	ws.Store.OnRemove(func(removed []string) {
		logger.Debug("nodes removed", zap.Strings("ids", removed))
	})

	ws.panels = &panelRouter{external: opts.External}
	ws.Menu = menu.NewDispatcher(ws.Store, ws.panels,
		menu.WithLogger(logger.Named("menu")),
		menu.WithObserver(func(action menu.ActionKind, err error) {
			metrics.RecordMenuAction(action.String(), err)
		}),
	)

	uploadOpts = append(uploadOpts, upload.WithCompletion(ws.materialize))
	pipeline, err := upload.New(opts.Upload, uploadOpts...)
	if err != nil {
		return nil, err
	}
	ws.Uploads = pipeline

	if opts.SeedDemo {
		if err := fsutil.SeedDemo(ws.Store, opts.Owner, now()); err != nil {
			return nil, fmt.Errorf("seed demo: %w", err)
		}
	}
	metrics.SetNodeCount(ws.Store.Len())
	return ws, nil
}

// materialize turns a finished upload into a file node. The destination is
// the folder that was open at submit time, or the root if it is gone.
func (ws *Workspace) materialize(task upload.Task) (string, error) {
	parentID := task.FolderID
	if parent, err := ws.Store.Get(parentID); err != nil || !parent.IsFolder() {
		parentID = ws.Store.RootID()
	}
	node, err := ws.Store.Add(fsutil.Node{
		Name:       task.DisplayName,
		Kind:       fsutil.KindFile,
		FileType:   fsutil.DetectFileType(task.DisplayName, task.MimeType),
		SizeBytes:  task.SizeBytes,
		ModifiedAt: task.CompletedAt,
		Owner:      ws.owner,
	}, parentID)
	if err != nil {
		return "", err
	}
	metrics.RecordUploadCompleted(task.SizeBytes)
	metrics.SetNodeCount(ws.Store.Len())
	return node.ID, nil
}

// Submit hands blobs to the upload pipeline for folderID.
func (ws *Workspace) Submit(blobs []upload.Blob, folderID string) []upload.Task {
	tasks := ws.Uploads.Submit(blobs, folderID, ws.now())
	for _, t := range tasks {
		metrics.RecordUploadSubmitted(t.Status.String())
	}
	return tasks
}

// DeleteSelection removes every selected node, shallowest first, and clears
// the selection. Ids already removed as descendants of an earlier one are
// skipped.
func (ws *Workspace) DeleteSelection() ([]string, error) {
	var removed []string
	var firstErr error
	for _, id := range ws.selectionByDepth() {
		if !ws.Store.Has(id) {
			continue
		}
		ids, err := ws.Store.Remove(id)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed = append(removed, ids...)
	}
	ws.Selection.Clear()
	metrics.SetNodeCount(ws.Store.Len())
	return removed, firstErr
}

// selectionByDepth orders the selected ids so ancestors come before their
// descendants. Ids at the same depth keep their sorted order.
func (ws *Workspace) selectionByDepth() []string {
	ids := ws.Selection.IDs()
	depth := make(map[string]int, len(ids))
	for _, id := range ids {
		if path, err := ws.Store.Path(id); err == nil {
			depth[id] = len(path)
		}
	}
	slices.SortStableFunc(ids, func(a, b string) int {
		return cmp.Compare(depth[a], depth[b])
	})
	return ids
}

// PanelKind names the side panels opened from the context menu.
type PanelKind uint8

const (
	PanelNone PanelKind = iota
	PanelPreview
	PanelVoiceNote
	PanelEditHistory
	PanelReaders
)

func (k PanelKind) Title() string {
	switch k {
	case PanelPreview:
		return "Preview"
	case PanelVoiceNote:
		return "Voice notes"
	case PanelEditHistory:
		return "Edit history"
	case PanelReaders:
		return "Readers"
	default:
		return ""
	}
}

// Panel is an open side panel for one node.
type Panel struct {
	Kind   PanelKind
	NodeID string
}

// panelRouter implements menu.Handlers. In-app panels are recorded for the
// reducer to pick up; download and share go to External.
type panelRouter struct {
	external External
	pending  *Panel
	message  string
}

func (p *panelRouter) open(kind PanelKind, id string) error {
	p.pending = &Panel{Kind: kind, NodeID: id}
	return nil
}

func (p *panelRouter) Preview(node fsutil.Node) error { return p.open(PanelPreview, node.ID) }
func (p *panelRouter) AttachVoiceNote(id string) error {
	return p.open(PanelVoiceNote, id)
}
func (p *panelRouter) ShowEditHistory(id string) error {
	return p.open(PanelEditHistory, id)
}
func (p *panelRouter) ShowReaders(id string) error { return p.open(PanelReaders, id) }

func (p *panelRouter) Download(node fsutil.Node) error {
	if p.external == nil {
		return fmt.Errorf("download %q: %w", node.Name, errUnavailable)
	}
	msg, err := p.external.Download(node)
	p.message = msg
	return err
}

func (p *panelRouter) Share(node fsutil.Node) error {
	if p.external == nil {
		return fmt.Errorf("share %q: %w", node.Name, errUnavailable)
	}
	msg, err := p.external.Share(node)
	p.message = msg
	return err
}

// take returns and clears whatever the last action produced.
func (p *panelRouter) take() (*Panel, string) {
	panel, msg := p.pending, p.message
	p.pending, p.message = nil, ""
	return panel, msg
}
