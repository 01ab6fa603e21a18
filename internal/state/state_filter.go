package state

import (
	"github.com/kk-code-lab/rfiles/internal/search"
)

// recomputeFilter reprojects after a filter change, keeping the cursor on
// the same node when it still matches and scrolling back to the top
// otherwise.
func (s *AppState) recomputeFilter() error {
	prevID := ""
	if item, ok := s.CurrentItem(); ok {
		prevID = item.Node.ID
	}
	if err := s.refreshKeeping(prevID); err != nil {
		return err
	}
	if item, ok := s.CurrentItem(); !ok || item.Node.ID != prevID {
		s.Cursor = 0
		s.ScrollOffset = 0
		s.updateScrollVisibility()
	}
	return nil
}

func (s *AppState) appendFilterChar(ch rune) error {
	s.View.Query += string(ch)
	return s.recomputeFilter()
}

func (s *AppState) dropFilterChar() error {
	runes := []rune(s.View.Query)
	if len(runes) == 0 {
		return nil
	}
	s.View.Query = string(runes[:len(runes)-1])
	return s.recomputeFilter()
}

// clearFilter resets every filter and leaves filter mode.
func (s *AppState) clearFilter() error {
	s.FilterActive = false
	if s.View.Criteria().IsZero() {
		return nil
	}
	s.View.Query = ""
	s.View.TypeFilter = search.All()
	s.View.ContentFilter = search.All()
	if err := s.recomputeFilter(); err != nil {
		return err
	}
	s.centerScrollOnSelection()
	return nil
}

// FilterSummary renders the active filters for the filter bar. It is empty
// when nothing is filtered.
func (s *AppState) FilterSummary() string {
	summary := ""
	if !s.View.TypeFilter.IsAll() {
		summary += "type:" + s.View.TypeFilter.Name() + " "
	}
	if !s.View.ContentFilter.IsAll() {
		summary += "content:" + s.View.ContentFilter.Name() + " "
	}
	return summary
}
