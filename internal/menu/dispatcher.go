package menu

import (
	"errors"
	"fmt"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"go.uber.org/zap"
)

// ErrNoMenu is returned by Choose when no menu is open.
var ErrNoMenu = errors.New("no context menu is open")

// Point is where the menu was invoked, in screen cells.
type Point struct {
	X, Y int
}

// Menu is an open context menu. Node is the snapshot taken at open time.
type Menu struct {
	Node   fsutil.Node
	At     Point
	Items  []ActionKind
	Cursor int
}

// Selected returns the entry under the cursor.
func (m *Menu) Selected() ActionKind {
	return m.Items[m.Cursor]
}

// Argument carries the extra input some actions need.
type Argument struct {
	NewName  string // rename
	TargetID string // move, copy
}

// Result describes what an executed action changed.
type Result struct {
	Action  ActionKind
	NodeID  string
	Node    fsutil.Node // renamed, moved or copied node
	Removed []string    // ids removed by delete
}

// Handlers receive the actions whose effects live outside the store.
type Handlers interface {
	Preview(node fsutil.Node) error
	Download(node fsutil.Node) error
	Share(node fsutil.Node) error
	AttachVoiceNote(nodeID string) error
	ShowEditHistory(nodeID string) error
	ShowReaders(nodeID string) error
}

// Store is the subset of the node store the dispatcher mutates.
type Store interface {
	Get(id string) (fsutil.Node, error)
	Remove(id string) ([]string, error)
	Update(id string, patch fsutil.Patch) (fsutil.Node, error)
	Copy(id, targetParentID string) (fsutil.Node, error)
}

// Observer is told about every executed action.
type Observer func(action ActionKind, err error)

type Option func(*Dispatcher)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithObserver(fn Observer) Option {
	return func(d *Dispatcher) {
		d.observe = fn
	}
}

// Dispatcher owns the single open menu.
type Dispatcher struct {
	store    Store
	handlers Handlers
	logger   *zap.Logger
	observe  Observer
	open     *Menu
}

func NewDispatcher(store Store, handlers Handlers, opts ...Option) *Dispatcher {
	d := &Dispatcher{store: store, handlers: handlers, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open shows a menu for node at point, closing any menu already open.
func (d *Dispatcher) Open(node fsutil.Node, at Point) *Menu {
	if d.open != nil {
		d.logger.Debug("context menu replaced",
			zap.String("previous", d.open.Node.ID),
			zap.String("node", node.ID))
	}
	d.open = &Menu{Node: node, At: at, Items: ItemsFor(node)}
	return d.open
}

// ItemsFor lists the actions offered for node. The root cannot be deleted,
// moved, copied or renamed.
func ItemsFor(node fsutil.Node) []ActionKind {
	items := Actions()
	if !node.IsRoot() {
		return items
	}
	out := items[:0]
	for _, k := range items {
		switch k {
		case ActionDelete, ActionRename, ActionMove, ActionCopy:
			continue
		}
		out = append(out, k)
	}
	return out
}

// Current returns the open menu, if any.
func (d *Dispatcher) Current() (*Menu, bool) {
	return d.open, d.open != nil
}

func (d *Dispatcher) Close() {
	d.open = nil
}

// MoveCursor moves the highlighted entry by delta, clamped to the menu.
func (d *Dispatcher) MoveCursor(delta int) {
	if d.open == nil {
		return
	}
	d.open.Cursor = min(max(d.open.Cursor+delta, 0), len(d.open.Items)-1)
}

// Choose runs action against the open menu's snapshot and closes the menu.
// The menu closes even when the action fails.
func (d *Dispatcher) Choose(action ActionKind, arg Argument) (Result, error) {
	if d.open == nil {
		return Result{Action: action}, ErrNoMenu
	}
	snapshot := d.open.Node
	d.open = nil
	return d.Execute(action, snapshot, arg)
}

// Execute runs action for snapshot without a menu. A snapshot whose node no
// longer exists fails with fs.ErrNotFound.
func (d *Dispatcher) Execute(action ActionKind, snapshot fsutil.Node, arg Argument) (res Result, err error) {
	res = Result{Action: action, NodeID: snapshot.ID}
	defer func() {
		if d.observe != nil {
			d.observe(action, err)
		}
		if err != nil {
			d.logger.Info("context action failed",
				zap.Stringer("action", action),
				zap.String("node", snapshot.ID),
				zap.Error(err))
			return
		}
		d.logger.Debug("context action",
			zap.Stringer("action", action),
			zap.String("node", snapshot.ID))
	}()

	current, err := d.store.Get(snapshot.ID)
	if err != nil {
		return res, fmt.Errorf("%s: %w", action, err)
	}

	switch action {
	case ActionPreview:
		err = d.handlers.Preview(current)
	case ActionDownload:
		err = d.handlers.Download(current)
	case ActionShare:
		err = d.handlers.Share(current)
	case ActionAttachVoiceNote:
		err = d.handlers.AttachVoiceNote(current.ID)
	case ActionShowEditHistory:
		err = d.handlers.ShowEditHistory(current.ID)
	case ActionShowReaders:
		err = d.handlers.ShowReaders(current.ID)
	case ActionDelete:
		res.Removed, err = d.store.Remove(current.ID)
	case ActionRename:
		if arg.NewName == "" {
			return res, fmt.Errorf("rename: empty name: %w", fsutil.ErrInvalidOperation)
		}
		res.Node, err = d.store.Update(current.ID, fsutil.Rename(arg.NewName))
	case ActionMove:
		if arg.TargetID == "" {
			return res, fmt.Errorf("move: no target: %w", fsutil.ErrInvalidOperation)
		}
		res.Node, err = d.store.Update(current.ID, fsutil.MoveTo(arg.TargetID))
	case ActionCopy:
		target := arg.TargetID
		if target == "" {
			target = current.ParentID
		}
		res.Node, err = d.store.Copy(current.ID, target)
	default:
		return res, fmt.Errorf("action %d: %w", action, fsutil.ErrInvalidOperation)
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", action, err)
	}
	return res, nil
}
