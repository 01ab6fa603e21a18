package fs

import "errors"

var (
	// ErrNotFound is returned when an id is absent from the store.
	ErrNotFound = errors.New("node not found")
	// ErrInvalidParent is returned when a parent is missing or is not a folder.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrInvalidOperation is returned for structural violations such as removing the root.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrCycleDetected is returned when a move or copy would place a folder inside itself.
	ErrCycleDetected = errors.New("cycle detected")
)
