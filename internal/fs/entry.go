package fs

import (
	"slices"
	"time"
)

// Kind distinguishes files from folders.
type Kind uint8

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node is a single file or folder in the virtual hierarchy. Relationships are
// stored as id values only; the Store is the arena that resolves them.
type Node struct {
	ID         string
	Name       string
	Kind       Kind
	FileType   FileType // files only
	SizeBytes  int64    // files only
	ModifiedAt time.Time
	Owner      string
	Starred    bool
	Shared     bool
	ParentID   string   // empty only for the root
	ChildIDs   []string // folders only, display order
}

// IsFolder reports whether the node can own children.
func (n Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// IsRoot reports whether the node is the store root.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// clone returns a copy that shares no slices with n.
func (n Node) clone() Node {
	n.ChildIDs = slices.Clone(n.ChildIDs)
	return n
}

// Patch describes field-level changes applied by Store.Update. Nil fields
// are left untouched.
type Patch struct {
	Name       *string
	Starred    *bool
	Shared     *bool
	ParentID   *string
	ModifiedAt *time.Time
}

// Rename builds a patch that only changes the name.
func Rename(name string) Patch {
	return Patch{Name: &name}
}

// MoveTo builds a patch that only changes the parent.
func MoveTo(parentID string) Patch {
	return Patch{ParentID: &parentID}
}

// SetStarred builds a patch that only changes the starred flag.
func SetStarred(v bool) Patch {
	return Patch{Starred: &v}
}

// SetShared builds a patch that only changes the shared flag.
func SetShared(v bool) Patch {
	return Patch{Shared: &v}
}
