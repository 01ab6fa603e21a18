// Package menu builds per-node context menus and routes the chosen action.
package menu

// ActionKind identifies a context menu entry.
type ActionKind uint8

const (
	ActionPreview ActionKind = iota
	ActionDownload
	ActionShare
	ActionDelete
	ActionRename
	ActionMove
	ActionCopy
	ActionAttachVoiceNote
	ActionShowEditHistory
	ActionShowReaders
	actionCount
)

// ActionInfo describes how an action is shown.
type ActionInfo struct {
	Name        string // metrics and log label
	Label       string
	Key         rune // menu accelerator
	Destructive bool
}

var actionTable = [...]ActionInfo{
	ActionPreview:         {Name: "preview", Label: "Preview", Key: 'p'},
	ActionDownload:        {Name: "download", Label: "Download", Key: 'd'},
	ActionShare:           {Name: "share", Label: "Share…", Key: 's'},
	ActionDelete:          {Name: "delete", Label: "Delete", Key: 'x', Destructive: true},
	ActionRename:          {Name: "rename", Label: "Rename…", Key: 'r'},
	ActionMove:            {Name: "move", Label: "Move to…", Key: 'm'},
	ActionCopy:            {Name: "copy", Label: "Make a copy", Key: 'c'},
	ActionAttachVoiceNote: {Name: "voice_note", Label: "Attach voice note", Key: 'v'},
	ActionShowEditHistory: {Name: "edit_history", Label: "Edit history", Key: 'h'},
	ActionShowReaders:     {Name: "readers", Label: "Who read this", Key: 'w'},
}

var _ = [1]struct{}{}[len(actionTable)-int(actionCount)]

// Actions returns every entry in menu order.
func Actions() []ActionKind {
	out := make([]ActionKind, actionCount)
	for i := range out {
		out[i] = ActionKind(i)
	}
	return out
}

func (k ActionKind) Info() ActionInfo {
	if k >= actionCount {
		return ActionInfo{Name: "unknown", Label: "?"}
	}
	return actionTable[k]
}

func (k ActionKind) String() string {
	return k.Info().Name
}

// ActionForKey resolves a menu accelerator.
func ActionForKey(r rune) (ActionKind, bool) {
	for i, info := range actionTable {
		if info.Key == r {
			return ActionKind(i), true
		}
	}
	return 0, false
}
