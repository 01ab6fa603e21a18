// Package search narrows node sequences by name and file type.
package search

import (
	"slices"
	"strings"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"golang.org/x/text/cases"
)

// TypeFilter restricts nodes to a set of file types. The zero value passes
// everything.
type TypeFilter struct {
	name  string
	types []fsutil.FileType
}

// All passes every node.
func All() TypeFilter {
	return TypeFilter{}
}

// OnlyTypes passes files whose type is one of types.
func OnlyTypes(name string, types ...fsutil.FileType) TypeFilter {
	if len(types) == 0 {
		return All()
	}
	return TypeFilter{name: name, types: slices.Clone(types)}
}

// IsAll reports whether the filter passes everything.
func (f TypeFilter) IsAll() bool {
	return f.types == nil
}

// Name is the stable identifier of the filter ("all" for the pass-through filter).
func (f TypeFilter) Name() string {
	if f.IsAll() {
		return "all"
	}
	return f.name
}

// Allows reports whether n passes the filter. Folders carry no file type, so
// they only pass the pass-through filter.
func (f TypeFilter) Allows(n fsutil.Node) bool {
	if f.IsAll() {
		return true
	}
	if n.IsFolder() {
		return false
	}
	return slices.Contains(f.types, n.FileType)
}

// Criteria combines every active filter. All of them must match.
type Criteria struct {
	Query   string
	Type    TypeFilter
	Content TypeFilter
}

// IsZero reports whether the criteria pass everything.
func (c Criteria) IsZero() bool {
	return c.Query == "" && c.Type.IsAll() && c.Content.IsAll()
}

// Filter returns the nodes matching c, preserving input order. A node matches
// the query when its name contains it, ignoring case. The result is a new
// slice; nodes is not modified.
func Filter(nodes []fsutil.Node, c Criteria) []fsutil.Node {
	if c.IsZero() {
		return slices.Clone(nodes)
	}

	m := newMatcher(c)
	out := make([]fsutil.Node, 0, len(nodes))
	for _, n := range nodes {
		if m.match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Predicate returns a reusable match function for c.
func Predicate(c Criteria) func(fsutil.Node) bool {
	if c.IsZero() {
		return func(fsutil.Node) bool { return true }
	}
	return newMatcher(c).match
}

type matcher struct {
	criteria Criteria
	fold     cases.Caser
	query    string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{criteria: c, fold: cases.Fold()}
	if c.Query != "" {
		m.query = m.fold.String(c.Query)
	}
	return m
}

func (m *matcher) match(n fsutil.Node) bool {
	if !m.criteria.Type.Allows(n) || !m.criteria.Content.Allows(n) {
		return false
	}
	if m.query == "" {
		return true
	}
	return strings.Contains(m.fold.String(n.Name), m.query)
}
