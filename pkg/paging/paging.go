// Package paging holds client side paging state of lists, and derives query
// parameters for the term server from them.
package paging

import "github.com/termcurator/curate/pkg/api/types/pfs"

// TypeFilter narrows a record list by workflow status.
const (
	// records whose workflow status is "new" or "needs review"
	TypeNew = "N"

	// records whose workflow status is "ready for publication" or "reviewed"
	TypeReady = "R"
)

// State is paging/sorting/filtering state of one list.
//
// Page is 1-origin. State is a value: setters return an updated copy.
type State struct {
	Page          int
	PageSize      int
	SortField     string
	SortAscending bool
	Filter        string
	TypeFilter    string
}

// New returns State at the first page, sorted ascending by sortField.
func New(pageSize int, sortField string) State {
	if pageSize < 1 {
		pageSize = 1
	}
	return State{
		Page:          1,
		PageSize:      pageSize,
		SortField:     sortField,
		SortAscending: true,
	}
}

func (s State) Equal(o State) bool {
	return s == o
}

// WithFilter replaces the filter and goes back to the first page.
func (s State) WithFilter(filter string) State {
	s.Filter = filter
	s.Page = 1
	return s
}

// WithTypeFilter replaces the type filter and goes back to the first page.
func (s State) WithTypeFilter(typeFilter string) State {
	s.TypeFilter = typeFilter
	s.Page = 1
	return s
}

// WithSort replaces sorting.
//
// Sorting changes order of whole list, so it goes back to the first page.
func (s State) WithSort(field string, ascending bool) State {
	s.SortField = field
	s.SortAscending = ascending
	s.Page = 1
	return s
}

// WithPage moves to page. Pages less than 1 are treated as 1.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// WithPageSize changes page size and goes back to the first page.
func (s State) WithPageSize(size int) State {
	if size < 1 {
		size = 1
	}
	s.PageSize = size
	s.Page = 1
	return s
}

// Reset goes back to the first page, keeping sorting and filters.
func (s State) Reset() State {
	return s.WithPage(1)
}

// Next moves to the next page.
func (s State) Next() State {
	return s.WithPage(s.Page + 1)
}

// HasMore tells whether pages after the current one exist, for totalCount items.
func (s State) HasMore(totalCount int) bool {
	return totalCount > s.PageSize*s.normalizedPage()
}

// Pages is the number of pages for totalCount items. It is at least 1.
func (s State) Pages(totalCount int) int {
	if s.PageSize < 1 || totalCount <= 0 {
		return 1
	}
	return (totalCount + s.PageSize - 1) / s.PageSize
}

func (s State) normalizedPage() int {
	if s.Page < 1 {
		return 1
	}
	return s.Page
}

// QueryParams is Derive(s).
func (s State) QueryParams() pfs.Params {
	return Derive(s)
}

// Derive computes query parameters for the term server from paging state.
//
// queryRestriction is Filter, plus a workflow status clause when TypeFilter is
// TypeNew or TypeReady. The clause is joined with " AND " only when Filter is not empty:
//
//	{Filter: "status:active", TypeFilter: "N"} -> "status:active AND  workflowStatus:N*"
//	{Filter: "", TypeFilter: "R"}              -> " workflowStatus:R*"
//
// Other TypeFilter values add nothing.
func Derive(s State) pfs.Params {
	page := s.normalizedPage()
	return pfs.Params{
		StartIndex:       (page - 1) * s.PageSize,
		MaxResults:       s.PageSize,
		SortField:        s.SortField,
		Ascending:        s.SortAscending,
		QueryRestriction: Restriction(s.Filter, s.TypeFilter),
	}
}

// Restriction builds query restriction from a filter and a type filter.
func Restriction(filter string, typeFilter string) string {
	switch typeFilter {
	case TypeNew, TypeReady:
	default:
		return filter
	}

	restriction := filter
	if restriction != "" {
		restriction += " AND "
	}
	return restriction + " workflowStatus:" + typeFilter + "*"
}

// ListResult is a page of items and the number of items in the whole list.
type ListResult[T any] struct {
	Items      []T
	TotalCount int
}

// Empty is ListResult with no items.
func Empty[T any]() ListResult[T] {
	return ListResult[T]{Items: []T{}}
}

// HasMore tells whether pages after the one of s exist.
//
// Only TotalCount is used. The number of Items does not matter.
func (l ListResult[T]) HasMore(s State) bool {
	return s.HasMore(l.TotalCount)
}
