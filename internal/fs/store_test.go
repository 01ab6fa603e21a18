package fs

import (
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	counter := 0
	base := []Option{
		WithRootID("root"),
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("gen-%d", counter)
		}),
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }),
	}
	return NewStore("Documents", append(base, opts...)...)
}

func mustAdd(t *testing.T, s *Store, node Node, parentID string) Node {
	t.Helper()
	stored, err := s.Add(node, parentID)
	if err != nil {
		t.Fatalf("add %q: %v", node.Name, err)
	}
	return stored
}

// reportsTree builds root -> Reports(F1) -> Q1.pdf(N1), Q2.pdf(N2).
func reportsTree(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := newTestStore(t, opts...)
	mustAdd(t, s, Node{ID: "F1", Name: "Reports", Kind: KindFolder}, "root")
	mustAdd(t, s, Node{ID: "N1", Name: "Q1.pdf", FileType: FileTypePDF, SizeBytes: 2 << 20}, "F1")
	mustAdd(t, s, Node{ID: "N2", Name: "Q2.pdf", FileType: FileTypePDF, SizeBytes: 3 << 20}, "F1")
	return s
}

func childIDs(t *testing.T, s *Store, folderID string) []string {
	t.Helper()
	children, err := s.ListChildren(folderID)
	if err != nil {
		t.Fatalf("list children of %s: %v", folderID, err)
	}
	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	return ids
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	s := reportsTree(t)
	mustAdd(t, s, Node{ID: "N3", Name: "Q3.pdf", FileType: FileTypePDF}, "F1")

	got := childIDs(t, s, "F1")
	want := []string{"N1", "N2", "N3"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected children %v, got %v", want, got)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestAddAssignsIDAndParent(t *testing.T) {
	s := newTestStore(t)
	stored := mustAdd(t, s, Node{Name: "notes.txt"}, "root")
	if stored.ID != "gen-1" {
		t.Fatalf("expected generated id gen-1, got %q", stored.ID)
	}
	if stored.ParentID != "root" {
		t.Fatalf("expected parent root, got %q", stored.ParentID)
	}
	if stored.ModifiedAt.IsZero() {
		t.Fatalf("expected ModifiedAt to default to the store clock")
	}
}

func TestAddRejections(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		parent  string
		wantErr error
	}{
		{name: "missing parent", node: Node{Name: "a"}, parent: "nope", wantErr: ErrInvalidParent},
		{name: "file parent", node: Node{Name: "a"}, parent: "N1", wantErr: ErrInvalidParent},
		{name: "duplicate id", node: Node{ID: "N1", Name: "dup"}, parent: "root", wantErr: ErrInvalidOperation},
		{name: "empty name", node: Node{Name: "  "}, parent: "root", wantErr: ErrInvalidOperation},
		{name: "file with children", node: Node{Name: "f", ChildIDs: []string{"x"}}, parent: "root", wantErr: ErrInvalidOperation},
		{name: "negative size", node: Node{Name: "f", SizeBytes: -1}, parent: "root", wantErr: ErrInvalidOperation},
		{name: "unknown file type", node: Node{Name: "f", FileType: FileType(200)}, parent: "root", wantErr: ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := reportsTree(t)
			before := s.Len()
			if _, err := s.Add(tt.node, tt.parent); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if s.Len() != before {
				t.Fatalf("expected store size %d to be unchanged, got %d", before, s.Len())
			}
			if err := s.Validate(); err != nil {
				t.Fatalf("store corrupted after rejected add: %v", err)
			}
		})
	}
}

func TestGetAndListChildrenNotFound(t *testing.T) {
	s := reportsTree(t)
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.ListChildren("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing folder, got %v", err)
	}
	if _, err := s.ListChildren("N1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a file, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := reportsTree(t)
	f1, err := s.Get("F1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	f1.ChildIDs[0] = "tampered"
	f1.Name = "tampered"

	again, _ := s.Get("F1")
	if again.ChildIDs[0] != "N1" || again.Name != "Reports" {
		t.Fatalf("mutating a returned node must not affect the store, got %+v", again)
	}
}

func TestRemoveScenario(t *testing.T) {
	s := reportsTree(t)

	removed, err := s.Remove("F1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if want := []string{"N1", "N2", "F1"}; !slices.Equal(removed, want) {
		t.Fatalf("expected post-order %v, got %v", want, removed)
	}
	if slices.Contains(childIDs(t, s, "root"), "F1") {
		t.Fatalf("root still lists F1")
	}
	if _, err := s.Get("N1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected N1 to be gone, got %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRemoveNotifiesListeners(t *testing.T) {
	var reported [][]string
	s := reportsTree(t, WithRemoveListener(func(ids []string) {
		reported = append(reported, ids)
	}))

	if _, err := s.Remove("N2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(reported) != 1 || !slices.Equal(reported[0], []string{"N2"}) {
		t.Fatalf("expected one report of [N2], got %v", reported)
	}
}

func TestRemoveRootAndMissing(t *testing.T) {
	s := reportsTree(t)
	if _, err := s.Remove("root"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation removing root, got %v", err)
	}
	if _, err := s.Remove("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRenameStarShare(t *testing.T) {
	s := reportsTree(t)
	updated, err := s.Update("N1", Rename("Q1 final.pdf"))
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Name != "Q1 final.pdf" {
		t.Fatalf("expected new name, got %q", updated.Name)
	}
	if _, err := s.Update("N1", SetStarred(true)); err != nil {
		t.Fatalf("star: %v", err)
	}
	if _, err := s.Update("N1", SetShared(true)); err != nil {
		t.Fatalf("share: %v", err)
	}
	got, _ := s.Get("N1")
	if !got.Starred || !got.Shared {
		t.Fatalf("expected starred and shared, got %+v", got)
	}
	if _, err := s.Update("N1", Rename("")); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected empty rename to fail, got %v", err)
	}
}

func TestUpdateMove(t *testing.T) {
	s := reportsTree(t)
	mustAdd(t, s, Node{ID: "F2", Name: "Archive", Kind: KindFolder}, "root")

	if _, err := s.Update("N1", MoveTo("F2")); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := childIDs(t, s, "F1"); !slices.Equal(got, []string{"N2"}) {
		t.Fatalf("expected old parent to keep [N2], got %v", got)
	}
	if got := childIDs(t, s, "F2"); !slices.Equal(got, []string{"N1"}) {
		t.Fatalf("expected new parent to hold [N1], got %v", got)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestUpdateMoveRejections(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		target  string
		wantErr error
	}{
		{name: "into itself", id: "F1", target: "F1", wantErr: ErrCycleDetected},
		{name: "into descendant", id: "F1", target: "G1", wantErr: ErrCycleDetected},
		{name: "into a file", id: "N2", target: "N1", wantErr: ErrInvalidParent},
		{name: "missing target", id: "N2", target: "ghost", wantErr: ErrNotFound},
		{name: "root", id: "root", target: "F1", wantErr: ErrInvalidOperation},
		{name: "missing node", id: "ghost", target: "F1", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := reportsTree(t)
			mustAdd(t, s, Node{ID: "G1", Name: "Nested", Kind: KindFolder}, "F1")
			if _, err := s.Update(tt.id, MoveTo(tt.target)); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err := s.Validate(); err != nil {
				t.Fatalf("store corrupted after rejected move: %v", err)
			}
		})
	}
}

func TestUpdateRejectsWholePatchOnInvalidMove(t *testing.T) {
	s := reportsTree(t)
	name := "renamed"
	target := "N1"
	if _, err := s.Update("N2", Patch{Name: &name, ParentID: &target}); err == nil {
		t.Fatalf("expected move into a file to fail")
	}
	got, _ := s.Get("N2")
	if got.Name != "Q2.pdf" {
		t.Fatalf("rejected patch must not partially apply, name is %q", got.Name)
	}
}

func TestCopyFolderCreatesFreshSubtree(t *testing.T) {
	s := reportsTree(t)
	mustAdd(t, s, Node{ID: "F2", Name: "Archive", Kind: KindFolder}, "root")

	copied, err := s.Copy("F1", "F2")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.ID == "F1" || copied.ParentID != "F2" {
		t.Fatalf("expected a fresh folder under F2, got %+v", copied)
	}
	kids := childIDs(t, s, copied.ID)
	if len(kids) != 2 || slices.Contains(kids, "N1") || slices.Contains(kids, "N2") {
		t.Fatalf("expected two fresh children, got %v", kids)
	}
	if s.Len() != 8 {
		t.Fatalf("expected 8 nodes after copy, got %d", s.Len())
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestCopyNameClash(t *testing.T) {
	s := reportsTree(t)
	first, err := s.Copy("N1", "F1")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	second, err := s.Copy("N1", "F1")
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if first.Name != "Q1.pdf (copy)" || second.Name != "Q1.pdf (copy 2)" {
		t.Fatalf("unexpected copy names %q and %q", first.Name, second.Name)
	}
}

func TestCopyIntoOwnSubtreeFails(t *testing.T) {
	s := reportsTree(t)
	if _, err := s.Copy("F1", "F1"); !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestWalkTerminatesWithinNodeCount(t *testing.T) {
	s := newTestStore(t)
	parent := "root"
	for i := 0; i < 20; i++ {
		folder := mustAdd(t, s, Node{Name: fmt.Sprintf("level-%d", i), Kind: KindFolder}, parent)
		mustAdd(t, s, Node{Name: fmt.Sprintf("file-%d.txt", i)}, folder.ID)
		parent = folder.ID
	}

	steps := 0
	maxDepth := 0
	err := s.Walk(s.RootID(), func(_ Node, depth int) error {
		steps++
		if depth > maxDepth {
			maxDepth = depth
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if steps != s.Len() {
		t.Fatalf("expected %d steps, got %d", s.Len(), steps)
	}
	if maxDepth != 21 {
		t.Fatalf("expected max depth 21, got %d", maxDepth)
	}
}

func TestWalkDetectsCorruptedCycle(t *testing.T) {
	s := reportsTree(t)
	// Corrupt the arena directly: F1 lists root as a child.
	s.nodes["F1"].ChildIDs = append(s.nodes["F1"].ChildIDs, "root")

	err := s.Walk(s.RootID(), func(Node, int) error { return nil })
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected Validate to reject the corrupted tree")
	}
}

func TestPath(t *testing.T) {
	s := reportsTree(t)
	chain, err := s.Path("N2")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	var names []string
	for _, n := range chain {
		names = append(names, n.Name)
	}
	if want := []string{"Documents", "Reports", "Q2.pdf"}; !slices.Equal(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestSeedDemoIsValid(t *testing.T) {
	s := NewStore("Documents")
	if err := SeedDemo(s, "admin", time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if s.Len() < 10 {
		t.Fatalf("expected a populated store, got %d nodes", s.Len())
	}
}
