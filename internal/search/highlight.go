package search

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// MatchSpan marks a matched rune range [Start, End) in a name.
type MatchSpan struct {
	Start int
	End   int
}

// MatchSpans returns the non-overlapping rune ranges of name that match query,
// ignoring case. An empty query has no spans.
func MatchSpans(name, query string) []MatchSpan {
	if query == "" || name == "" {
		return nil
	}
	fold := cases.Fold()
	needle := fold.String(query)
	if needle == "" {
		return nil
	}

	// offsets[i] is the byte offset in folded where rune i of name starts.
	var folded strings.Builder
	offsets := make([]int, 0, len(name))
	for _, r := range name {
		offsets = append(offsets, folded.Len())
		folded.WriteString(fold.String(string(r)))
	}
	haystack := folded.String()
	runeAt := func(byteOff int) int {
		// last rune whose folded form starts at or before byteOff
		return sort.Search(len(offsets), func(i int) bool { return offsets[i] > byteOff }) - 1
	}

	var spans []MatchSpan
	for from := 0; from <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(needle)
		spans = append(spans, MatchSpan{Start: runeAt(start), End: runeAt(end-1) + 1})
		from = end
	}
	return MergeMatchSpans(spans)
}

// MergeMatchSpans joins sorted spans that touch or overlap.
func MergeMatchSpans(spans []MatchSpan) []MatchSpan {
	if len(spans) == 0 {
		return nil
	}
	merged := make([]MatchSpan, 0, len(spans))
	current := spans[0]
	for _, next := range spans[1:] {
		if next.Start <= current.End {
			current.End = max(current.End, next.End)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
