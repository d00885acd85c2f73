// Package pfs defines paging/filtering/sorting parameters the term server accepts.
package pfs

// Params is the query parameter shape for paged finds.
type Params struct {
	StartIndex       int    `json:"startIndex"`
	MaxResults       int    `json:"maxResults"`
	SortField        string `json:"sortField,omitempty"`
	Ascending        bool   `json:"ascending"`
	QueryRestriction string `json:"queryRestriction,omitempty"`
}

func (p Params) Equal(o Params) bool {
	return p == o
}

// All is Params which does not limit results.
//
// The term server treats negative MaxResults as "no limit".
func All() Params {
	return Params{StartIndex: 0, MaxResults: -1, Ascending: true}
}
