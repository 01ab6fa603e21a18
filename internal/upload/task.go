// Package upload simulates file uploads as tracked tasks that advance on
// explicit ticks.
package upload

import (
	"errors"
	"time"
)

// ErrInvalidBlob marks a submitted blob that failed validation.
var ErrInvalidBlob = errors.New("invalid upload blob")

// ErrUnknownTask is returned for ids that are not in the active list.
var ErrUnknownTask = errors.New("unknown upload task")

// Status is the lifecycle stage of a task.
type Status uint8

const (
	StatusQueued Status = iota
	StatusUploading
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusUploading:
		return "uploading"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the task will not change any more.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Blob is an external file offered for upload.
type Blob struct {
	Name      string `validate:"required,notblank,max=255"`
	SizeBytes int64  `validate:"gte=0"`
	MimeType  string `validate:"omitempty,max=255"`
}

// Task tracks one blob through the pipeline.
type Task struct {
	ID          string
	DisplayName string
	SizeBytes   int64
	MimeType    string
	FolderID    string // destination folder at submit time
	Progress    int    // 0..100
	Status      Status
	SubmittedAt time.Time
	CompletedAt time.Time
	NodeID      string // node created on completion
	Err         error
}

// Update is published to subscribers on every change of a task.
type Update struct {
	TaskID   string
	Progress int
	Status   Status
	NodeID   string
}

func (t *Task) update() Update {
	return Update{TaskID: t.ID, Progress: t.Progress, Status: t.Status, NodeID: t.NodeID}
}
