package selection

import (
	"errors"
	"reflect"
	"testing"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
)

func TestToggleTwiceRestoresSet(t *testing.T) {
	sel := New(func(string) bool { return true })
	if _, err := sel.Toggle("a"); err != nil {
		t.Fatalf("toggle a: %v", err)
	}
	before := sel.IDs()

	for _, id := range []string{"b", "a"} {
		if _, err := sel.Toggle(id); err != nil {
			t.Fatalf("first toggle %s: %v", id, err)
		}
		if _, err := sel.Toggle(id); err != nil {
			t.Fatalf("second toggle %s: %v", id, err)
		}
		if got := sel.IDs(); !reflect.DeepEqual(got, before) {
			t.Fatalf("toggle pair on %s: expected %v, got %v", id, before, got)
		}
	}
}

func TestToggleRejectsUnknownID(t *testing.T) {
	sel := New(func(id string) bool { return id == "known" })
	selected, err := sel.Toggle("ghost")
	if !errors.Is(err, fsutil.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if selected || sel.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", sel.IDs())
	}
}

func TestPruneAndClear(t *testing.T) {
	sel := New(nil)
	for _, id := range []string{"F", "A", "G", "B", "keep"} {
		if _, err := sel.Toggle(id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	sel.Prune([]string{"A", "B", "G", "F", "not-selected"})
	if got := sel.IDs(); !reflect.DeepEqual(got, []string{"keep"}) {
		t.Fatalf("expected [keep], got %v", got)
	}
	sel.Clear()
	if sel.Len() != 0 || sel.Contains("keep") {
		t.Fatalf("expected cleared selection, got %v", sel.IDs())
	}
}

func TestStoreRemovePrunesSelection(t *testing.T) {
	store := fsutil.NewStore("root", fsutil.WithRootID("root"))
	sel := New(store.Has)
	store.OnRemove(sel.Prune)

	mustAdd := func(n fsutil.Node, parent string) {
		t.Helper()
		if _, err := store.Add(n, parent); err != nil {
			t.Fatalf("add %s: %v", n.ID, err)
		}
	}
	mustAdd(fsutil.Node{ID: "F", Name: "F", Kind: fsutil.KindFolder}, "root")
	mustAdd(fsutil.Node{ID: "A", Name: "A"}, "F")
	mustAdd(fsutil.Node{ID: "G", Name: "G", Kind: fsutil.KindFolder}, "F")
	mustAdd(fsutil.Node{ID: "B", Name: "B"}, "G")
	mustAdd(fsutil.Node{ID: "other", Name: "other"}, "root")

	for _, id := range []string{"F", "A", "G", "B", "other"} {
		if _, err := sel.Toggle(id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if _, err := store.Remove("F"); err != nil {
		t.Fatalf("remove F: %v", err)
	}
	for _, id := range []string{"F", "A", "G", "B"} {
		if store.Has(id) {
			t.Fatalf("expected %s to be removed from the store", id)
		}
		if sel.Contains(id) {
			t.Fatalf("expected %s to be pruned from the selection", id)
		}
	}
	if !sel.Contains("other") {
		t.Fatalf("expected unrelated selection to survive")
	}
}
