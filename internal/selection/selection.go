// Package selection tracks which nodes are marked, independent of what is
// currently visible.
package selection

import (
	"fmt"
	"slices"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
)

// Set holds selected node ids. It never contains an id its lookup reports as
// missing; deletions reach it through Prune.
type Set struct {
	ids    map[string]struct{}
	exists func(id string) bool
}

// New returns an empty selection. exists is consulted before an id is added.
func New(exists func(id string) bool) *Set {
	return &Set{ids: make(map[string]struct{}), exists: exists}
}

// Toggle flips membership of id. Selecting an id that does not exist fails
// with fs.ErrNotFound and leaves the set unchanged.
func (s *Set) Toggle(id string) (selected bool, err error) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false, nil
	}
	if s.exists != nil && !s.exists(id) {
		return false, fmt.Errorf("select %q: %w", id, fsutil.ErrNotFound)
	}
	s.ids[id] = struct{}{}
	return true, nil
}

// Clear empties the set.
func (s *Set) Clear() {
	clear(s.ids)
}

// Prune drops every removed id from the set. It matches fs.RemoveListener.
func (s *Set) Prune(removed []string) {
	for _, id := range removed {
		delete(s.ids, id)
	}
}

func (s *Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids sorted for stable output.
func (s *Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
