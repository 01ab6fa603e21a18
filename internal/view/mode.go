// Package view turns node sequences into grid, list and tree projections.
// Projections only read the store.
package view

import "strings"

// Mode selects a projection.
type Mode uint8

const (
	ModeList Mode = iota
	ModeGrid
	ModeTree
	modeCount
)

var modeNames = [...]string{
	ModeList: "list",
	ModeGrid: "grid",
	ModeTree: "tree",
}

var _ = [1]struct{}{}[len(modeNames)-int(modeCount)]

func (m Mode) String() string {
	if m >= modeCount {
		return modeNames[ModeList]
	}
	return modeNames[m]
}

// Next cycles list -> grid -> tree -> list.
func (m Mode) Next() Mode {
	return (m + 1) % modeCount
}

// ParseMode accepts the names printed by String, ignoring case.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return ModeList, false
}

// ExpandedSet records which folders are open in the tree projection.
type ExpandedSet struct {
	ids map[string]struct{}
}

func NewExpandedSet(ids ...string) *ExpandedSet {
	e := &ExpandedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		e.ids[id] = struct{}{}
	}
	return e
}

// Toggle flips membership and reports whether id is now expanded.
func (e *ExpandedSet) Toggle(id string) bool {
	if _, ok := e.ids[id]; ok {
		delete(e.ids, id)
		return false
	}
	e.ids[id] = struct{}{}
	return true
}

func (e *ExpandedSet) Contains(id string) bool {
	if e == nil {
		return false
	}
	_, ok := e.ids[id]
	return ok
}

func (e *ExpandedSet) Len() int {
	if e == nil {
		return 0
	}
	return len(e.ids)
}

// Prune forgets removed folders.
func (e *ExpandedSet) Prune(removed []string) {
	for _, id := range removed {
		delete(e.ids, id)
	}
}
