package dashboard

import (
	"github.com/yigit/interviewportal/internal/pkg/helpers"
)

// State is the pagination position of the grid. Index is 0-based.
type State struct {
	Index int
	Size  int
	Total int
}

// NewState builds a state, falling back to the first page of the default size
func NewState(index, size int) State {
	if !helpers.IsAllowedPageSize(size) {
		size = helpers.DefaultPageSize
	}
	if index < 0 {
		index = 0
	}
	return State{Index: index, Size: size}
}

// Skip is the number of records before the page
func (s State) Skip() int {
	skip, _ := helpers.CalculateSkipLimit(s.Index, s.Size)
	return skip
}

// Limit is the page size sent to the API
func (s State) Limit() int {
	_, limit := helpers.CalculateSkipLimit(s.Index, s.Size)
	return limit
}

// TotalPages is ceil(Total/Size)
func (s State) TotalPages() int {
	return helpers.TotalPages(s.Total, s.Size)
}

// SetSize changes the page size and returns to the first page. Other sizes are ignored.
func (s State) SetSize(size int) State {
	if !helpers.IsAllowedPageSize(size) {
		return s
	}
	s.Size = size
	s.Index = 0
	return s
}

// CanPrev reports whether an earlier page exists
func (s State) CanPrev() bool { return s.Index > 0 }

// CanNext reports whether a later page exists
func (s State) CanNext() bool { return s.Index < s.TotalPages()-1 }

func (s State) First() State {
	s.Index = 0
	return s
}

func (s State) Prev() State {
	if s.CanPrev() {
		s.Index--
	}
	return s
}

func (s State) Next() State {
	if s.CanNext() {
		s.Index++
	}
	return s
}

func (s State) Last() State {
	if pages := s.TotalPages(); pages > 0 {
		s.Index = pages - 1
	}
	return s
}

// Window returns the 1-based record range shown, e.g. 11 and 20 for "11 - 20 of 45"
func (s State) Window() (start, end int) {
	return helpers.CalculateWindow(s.Index, s.Size, s.Total)
}

// PageNumber is the 1-based page shown in "Page n of m", 0 when there are no pages
func (s State) PageNumber() int {
	if s.TotalPages() == 0 {
		return 0
	}
	return s.Index + 1
}
