package view

import (
	"errors"
	"fmt"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
)

// ErrCycle reports a tree that loops back on itself. It also matches
// fs.ErrCycleDetected.
var ErrCycle = fmt.Errorf("tree projection: %w", fsutil.ErrCycleDetected)

// Item is one visual unit of a projection.
type Item struct {
	Node       fsutil.Node
	Depth      int  // path length from the render root; 0 in flat projections
	Expandable bool // folder with at least one child
	Expanded   bool
}

// Cell places an item in a grid.
type Cell struct {
	Item
	Row int
	Col int
}

// Source is the read side of the node store used by the tree projection.
type Source interface {
	Get(id string) (fsutil.Node, error)
	ListChildren(folderID string) ([]fsutil.Node, error)
	Len() int
}

// ProjectList renders one row per node, in input order.
func ProjectList(nodes []fsutil.Node) []Item {
	items := make([]Item, len(nodes))
	for i, n := range nodes {
		items[i] = Item{Node: n, Expandable: n.IsFolder() && len(n.ChildIDs) > 0}
	}
	return items
}

// ProjectGrid lays nodes out row-major across columns.
func ProjectGrid(nodes []fsutil.Node, columns int) []Cell {
	columns = max(columns, 1)
	cells := make([]Cell, len(nodes))
	for i, item := range ProjectList(nodes) {
		cells[i] = Cell{Item: item, Row: i / columns, Col: i % columns}
	}
	return cells
}

// GridColumns is how many cells of cellWidth fit in width.
func GridColumns(width, cellWidth int) int {
	if cellWidth <= 0 {
		return 1
	}
	return max(width/cellWidth, 1)
}

// GridRows is the number of rows ProjectGrid produces.
func GridRows(count, columns int) int {
	columns = max(columns, 1)
	return (count + columns - 1) / columns
}

// ProjectTree renders the subtree under rootID in pre-order. Folders are
// collapsed unless expanded contains them. Folders are always shown; files
// only when include accepts them (nil accepts all). The render root itself is
// not emitted, so its children sit at depth 1.
func ProjectTree(src Source, rootID string, expanded *ExpandedSet, include func(fsutil.Node) bool) ([]Item, error) {
	root, err := src.Get(rootID)
	if err != nil {
		return nil, err
	}
	if !root.IsFolder() {
		return nil, fmt.Errorf("tree root %q: %w", rootID, fsutil.ErrInvalidOperation)
	}

	p := treeProjector{
		src:      src,
		expanded: expanded,
		include:  include,
		limit:    src.Len(),
		onPath:   map[string]bool{rootID: true},
	}
	if err := p.walk(rootID, 1); err != nil {
		return nil, err
	}
	return p.items, nil
}

type treeProjector struct {
	src      Source
	expanded *ExpandedSet
	include  func(fsutil.Node) bool
	limit    int
	onPath   map[string]bool
	items    []Item
}

func (p *treeProjector) walk(folderID string, depth int) error {
	if depth > p.limit {
		return fmt.Errorf("folder %q at depth %d: %w", folderID, depth, ErrCycle)
	}
	children, err := p.src.ListChildren(folderID)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return fmt.Errorf("dangling child of %q: %w", folderID, err)
		}
		return err
	}
	for _, child := range children {
		if p.onPath[child.ID] {
			return fmt.Errorf("folder %q reached twice: %w", child.ID, ErrCycle)
		}
		if !child.IsFolder() {
			if p.include == nil || p.include(child) {
				p.items = append(p.items, Item{Node: child, Depth: depth})
			}
			continue
		}

		open := p.expanded.Contains(child.ID)
		p.items = append(p.items, Item{
			Node:       child,
			Depth:      depth,
			Expandable: len(child.ChildIDs) > 0,
			Expanded:   open,
		})
		if !open {
			continue
		}
		p.onPath[child.ID] = true
		if err := p.walk(child.ID, depth+1); err != nil {
			return err
		}
		delete(p.onPath, child.ID)
	}
	return nil
}
