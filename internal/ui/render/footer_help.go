package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rfiles/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := contextualHelpSegments(state)
	segments = append(segments, persistentHelpSegments(state)...)

	return segments
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	if _, open := state.OpenMenu(); open {
		return []string{
			"↑↓: choose",
			"↵: run",
			"key: run action",
			"Esc: close menu",
		}
	}
	switch {
	case state.Prompt != nil:
		return []string{
			"type: " + promptHint(state.Prompt.Kind),
			"↵: confirm",
			"Esc: cancel",
		}
	case state.FilterActive:
		return []string{
			"type: filter",
			"↵: keep filter",
			"Esc: clear filter",
			"t/c: type/content",
		}
	case state.Panel != nil:
		return []string{
			"Esc: close panel",
			"↑↓: move",
			"o: actions",
		}
	default:
		return []string{
			"↑/↓/↵/←: navigate",
			"␣: select",
			"o: actions",
			"/: filter",
			"v: view",
			"n: new folder",
			"u: upload",
		}
	}
}

func persistentHelpSegments(state *statepkg.AppState) []string {
	if state.Prompt != nil || state.FilterActive {
		return nil
	}
	if _, open := state.OpenMenu(); open {
		return nil
	}

	segments := []string{}
	if state.SelectionCount() > 0 {
		segments = append(segments, "D: delete", "y/x: copy/cut", "Esc: deselect")
	}
	if state.Clipboard != nil {
		segments = append(segments, "p: paste here")
	}
	segments = append(segments, "?: help", "q: quit")
	return segments
}

func promptHint(kind statepkg.PromptKind) string {
	switch kind {
	case statepkg.PromptUpload:
		return "paths"
	case statepkg.PromptExport:
		return "file"
	default:
		return "name"
	}
}
