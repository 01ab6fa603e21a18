package fs

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RemoveListener is told about every id removed from the store, in the
// post-order they were removed.
type RemoveListener func(removed []string)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides uuid-based id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source used for ModifiedAt.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithRootID fixes the id of the root folder.
func WithRootID(id string) Option {
	return func(s *Store) {
		s.rootID = id
	}
}

// WithRemoveListener registers a listener at construction time.
func WithRemoveListener(fn RemoveListener) Option {
	return func(s *Store) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}

// Store is the canonical in-memory tree. Nodes live in a flat table keyed by
// id; parent and children are id values, never pointers. Callers serialize
// their own mutations.
type Store struct {
	nodes     map[string]*Node
	rootID    string
	newID     func() string
	now       func() time.Time
	listeners []RemoveListener
}

// NewStore creates a store holding only a root folder.
func NewStore(rootName string, opts ...Option) *Store {
	s := &Store{
		nodes: make(map[string]*Node),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rootID == "" {
		s.rootID = s.newID()
	}
	if strings.TrimSpace(rootName) == "" {
		rootName = "/"
	}
	s.nodes[s.rootID] = &Node{
		ID:         s.rootID,
		Name:       rootName,
		Kind:       KindFolder,
		ModifiedAt: s.now(),
	}
	return s
}

// OnRemove registers a listener for removed ids.
func (s *Store) OnRemove(fn RemoveListener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// RootID returns the id of the root folder.
func (s *Store) RootID() string {
	return s.rootID
}

// Len returns the number of nodes including the root.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Has reports whether id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Get returns a copy of the node.
func (s *Store) Get(id string) (Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return n.clone(), nil
}

// ListChildren resolves a folder's children in stored order.
func (s *Store) ListChildren(folderID string) ([]Node, error) {
	folder, ok := s.nodes[folderID]
	if !ok || !folder.IsFolder() {
		return nil, fmt.Errorf("list children of %q: %w", folderID, ErrNotFound)
	}
	out := make([]Node, 0, len(folder.ChildIDs))
	for _, childID := range folder.ChildIDs {
		if child, ok := s.nodes[childID]; ok {
			out = append(out, child.clone())
		}
	}
	return out, nil
}

// Add appends node to parentID's children. An empty node.ID is assigned a
// fresh id. The stored copy is returned.
func (s *Store) Add(node Node, parentID string) (Node, error) {
	parent, ok := s.nodes[parentID]
	if !ok || !parent.IsFolder() {
		return Node{}, fmt.Errorf("add %q under %q: %w", node.Name, parentID, ErrInvalidParent)
	}
	if err := validateNewNode(node); err != nil {
		return Node{}, fmt.Errorf("add %q: %w", node.Name, err)
	}
	if node.ID == "" {
		node.ID = s.newID()
	}
	if _, exists := s.nodes[node.ID]; exists {
		return Node{}, fmt.Errorf("add %q: duplicate id %q: %w", node.Name, node.ID, ErrInvalidOperation)
	}

	if node.IsFolder() {
		node.SizeBytes = 0
		node.FileType = FileTypeOther
	}
	if node.ModifiedAt.IsZero() {
		node.ModifiedAt = s.now()
	}
	node.ParentID = parentID
	node.ChildIDs = nil

	stored := node
	s.nodes[node.ID] = &stored
	parent.ChildIDs = append(parent.ChildIDs, node.ID)
	return stored.clone(), nil
}

func validateNewNode(node Node) error {
	if strings.TrimSpace(node.Name) == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidOperation)
	}
	if node.Kind != KindFile && node.Kind != KindFolder {
		return fmt.Errorf("unknown kind %d: %w", node.Kind, ErrInvalidOperation)
	}
	if len(node.ChildIDs) > 0 {
		return fmt.Errorf("children must be added individually: %w", ErrInvalidOperation)
	}
	if node.Kind == KindFile {
		if node.SizeBytes < 0 {
			return fmt.Errorf("negative size %d: %w", node.SizeBytes, ErrInvalidOperation)
		}
		if !node.FileType.Valid() {
			return fmt.Errorf("unknown file type %d: %w", node.FileType, ErrInvalidOperation)
		}
	}
	return nil
}

// Remove deletes id and, for folders, every descendant (post-order). The
// removed ids are returned and reported to every RemoveListener.
func (s *Store) Remove(id string) ([]string, error) {
	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	if id == s.rootID {
		return nil, fmt.Errorf("remove root: %w", ErrInvalidOperation)
	}
	parent, ok := s.nodes[node.ParentID]
	if !ok {
		return nil, fmt.Errorf("remove %q: parent %q: %w", id, node.ParentID, ErrNotFound)
	}

	removed, err := s.subtreePostOrder(id)
	if err != nil {
		return nil, fmt.Errorf("remove %q: %w", id, err)
	}

	parent.ChildIDs = slices.DeleteFunc(parent.ChildIDs, func(childID string) bool {
		return childID == id
	})
	for _, removedID := range removed {
		delete(s.nodes, removedID)
	}

	for _, listener := range s.listeners {
		listener(slices.Clone(removed))
	}
	return removed, nil
}

// subtreePostOrder lists id and its descendants, children before parents.
func (s *Store) subtreePostOrder(id string) ([]string, error) {
	type frame struct {
		id   string
		next int
	}
	var out []string
	stack := []frame{{id: id}}
	limit := len(s.nodes)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		node := s.nodes[top.id]
		if node != nil && top.next < len(node.ChildIDs) {
			child := node.ChildIDs[top.next]
			top.next++
			stack = append(stack, frame{id: child})
			if len(stack) > limit {
				return nil, ErrCycleDetected
			}
			continue
		}
		if node != nil {
			out = append(out, top.id)
		}
		stack = stack[:len(stack)-1]
	}
	return out, nil
}

// Update applies patch to id. A parent change moves the node to the end of
// the new parent's children.
func (s *Store) Update(id string, patch Patch) (Node, error) {
	node, ok := s.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Node{}, fmt.Errorf("rename %q: empty name: %w", id, ErrInvalidOperation)
	}

	var newParent *Node
	if patch.ParentID != nil && *patch.ParentID != node.ParentID {
		target := *patch.ParentID
		if id == s.rootID {
			return Node{}, fmt.Errorf("move root: %w", ErrInvalidOperation)
		}
		p, ok := s.nodes[target]
		if !ok {
			return Node{}, fmt.Errorf("move %q to %q: %w", id, target, ErrNotFound)
		}
		if !p.IsFolder() {
			return Node{}, fmt.Errorf("move %q to %q: %w", id, target, ErrInvalidParent)
		}
		if s.isAncestorOrSelf(id, target) {
			return Node{}, fmt.Errorf("move %q into its own subtree: %w", id, ErrCycleDetected)
		}
		newParent = p
	}

	touched := false
	if patch.Name != nil && *patch.Name != node.Name {
		node.Name = *patch.Name
		touched = true
	}
	if patch.Starred != nil {
		node.Starred = *patch.Starred
	}
	if patch.Shared != nil {
		node.Shared = *patch.Shared
	}
	if newParent != nil {
		if oldParent, ok := s.nodes[node.ParentID]; ok {
			oldParent.ChildIDs = slices.DeleteFunc(oldParent.ChildIDs, func(childID string) bool {
				return childID == id
			})
		}
		newParent.ChildIDs = append(newParent.ChildIDs, id)
		node.ParentID = newParent.ID
		touched = true
	}
	switch {
	case patch.ModifiedAt != nil:
		node.ModifiedAt = *patch.ModifiedAt
	case touched:
		node.ModifiedAt = s.now()
	}
	return node.clone(), nil
}

// Copy duplicates id (and its subtree) under targetParentID with fresh ids.
// Copies are neither starred nor shared.
func (s *Store) Copy(id, targetParentID string) (Node, error) {
	src, ok := s.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("copy %q: %w", id, ErrNotFound)
	}
	if id == s.rootID {
		return Node{}, fmt.Errorf("copy root: %w", ErrInvalidOperation)
	}
	target, ok := s.nodes[targetParentID]
	if !ok {
		return Node{}, fmt.Errorf("copy %q to %q: %w", id, targetParentID, ErrNotFound)
	}
	if !target.IsFolder() {
		return Node{}, fmt.Errorf("copy %q to %q: %w", id, targetParentID, ErrInvalidParent)
	}
	if src.IsFolder() && s.isAncestorOrSelf(id, targetParentID) {
		return Node{}, fmt.Errorf("copy %q into its own subtree: %w", id, ErrCycleDetected)
	}

	order, err := s.subtreePostOrder(id)
	if err != nil {
		return Node{}, fmt.Errorf("copy %q: %w", id, err)
	}
	ids := make(map[string]string, len(order))
	for _, oldID := range order {
		ids[oldID] = s.newID()
	}

	now := s.now()
	copies := make([]*Node, 0, len(order))
	for _, oldID := range order {
		c := s.nodes[oldID].clone()
		c.ID = ids[oldID]
		if oldID == id {
			c.ParentID = targetParentID
			c.Name = s.copyName(target, c.Name)
		} else {
			c.ParentID = ids[c.ParentID]
		}
		for i, childID := range c.ChildIDs {
			c.ChildIDs[i] = ids[childID]
		}
		c.Starred = false
		c.Shared = false
		c.ModifiedAt = now
		copies = append(copies, &c)
	}
	for _, c := range copies {
		s.nodes[c.ID] = c
	}
	target.ChildIDs = append(target.ChildIDs, ids[id])
	return s.nodes[ids[id]].clone(), nil
}

func (s *Store) copyName(target *Node, name string) string {
	taken := make(map[string]struct{}, len(target.ChildIDs))
	for _, childID := range target.ChildIDs {
		if child, ok := s.nodes[childID]; ok {
			taken[child.Name] = struct{}{}
		}
	}
	if _, clash := taken[name]; !clash {
		return name
	}
	candidate := name + " (copy)"
	for n := 2; ; n++ {
		if _, clash := taken[candidate]; !clash {
			return candidate
		}
		candidate = fmt.Sprintf("%s (copy %d)", name, n)
	}
}

// isAncestorOrSelf reports whether ancestorID is id or lies on id's parent chain.
func (s *Store) isAncestorOrSelf(ancestorID, id string) bool {
	cur := id
	for steps := 0; cur != "" && steps <= len(s.nodes); steps++ {
		if cur == ancestorID {
			return true
		}
		node, ok := s.nodes[cur]
		if !ok {
			return false
		}
		cur = node.ParentID
	}
	return false
}

// Path returns the chain of nodes from the root down to id.
func (s *Store) Path(id string) ([]Node, error) {
	var chain []Node
	cur := id
	for cur != "" {
		node, ok := s.nodes[cur]
		if !ok {
			return nil, fmt.Errorf("path of %q: %w", id, ErrNotFound)
		}
		chain = append(chain, node.clone())
		if len(chain) > len(s.nodes) {
			return nil, fmt.Errorf("path of %q: %w", id, ErrCycleDetected)
		}
		cur = node.ParentID
	}
	slices.Reverse(chain)
	return chain, nil
}

// Walk visits rootID and its descendants in pre-order. depth is the path
// length from rootID. The walk never takes more than Len() steps.
func (s *Store) Walk(rootID string, fn func(node Node, depth int) error) error {
	if _, ok := s.nodes[rootID]; !ok {
		return fmt.Errorf("walk %q: %w", rootID, ErrNotFound)
	}
	type item struct {
		id    string
		depth int
	}
	stack := []item{{id: rootID}}
	steps := 0
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := s.nodes[it.id]
		if !ok {
			continue
		}
		steps++
		if steps > len(s.nodes) {
			return fmt.Errorf("walk %q: %w", rootID, ErrCycleDetected)
		}
		if err := fn(node.clone(), it.depth); err != nil {
			return err
		}
		for i := len(node.ChildIDs) - 1; i >= 0; i-- {
			stack = append(stack, item{id: node.ChildIDs[i], depth: it.depth + 1})
		}
	}
	return nil
}

// Validate checks the tree invariants: a single root, unique ids, files
// without children, consistent back-references and no cycles.
func (s *Store) Validate() error {
	root, ok := s.nodes[s.rootID]
	if !ok {
		return fmt.Errorf("root %q missing: %w", s.rootID, ErrNotFound)
	}
	if root.ParentID != "" || !root.IsFolder() {
		return fmt.Errorf("root must be a parentless folder: %w", ErrInvalidOperation)
	}

	seenAsChild := make(map[string]int, len(s.nodes))
	for key, node := range s.nodes {
		if key != node.ID {
			return fmt.Errorf("node stored under %q has id %q: %w", key, node.ID, ErrInvalidOperation)
		}
		if node.ParentID == "" && key != s.rootID {
			return fmt.Errorf("second root %q: %w", key, ErrInvalidOperation)
		}
		if node.Kind == KindFile && len(node.ChildIDs) > 0 {
			return fmt.Errorf("file %q owns children: %w", key, ErrInvalidOperation)
		}
		for _, childID := range node.ChildIDs {
			child, ok := s.nodes[childID]
			if !ok {
				return fmt.Errorf("child %q of %q: %w", childID, key, ErrNotFound)
			}
			if child.ParentID != key {
				return fmt.Errorf("child %q of %q points at parent %q: %w", childID, key, child.ParentID, ErrInvalidParent)
			}
			seenAsChild[childID]++
		}
	}
	for key := range s.nodes {
		if key == s.rootID {
			continue
		}
		if seenAsChild[key] != 1 {
			return fmt.Errorf("node %q listed %d times by its parent: %w", key, seenAsChild[key], ErrInvalidParent)
		}
		if !s.isAncestorOrSelf(s.rootID, key) {
			return fmt.Errorf("node %q does not reach the root: %w", key, ErrCycleDetected)
		}
	}
	return nil
}
