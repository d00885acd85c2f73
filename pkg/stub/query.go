package stub

import (
	"sort"
	"strconv"
	"strings"

	"github.com/termcurator/curate/pkg/api/types/pfs"
)

// row is the searchable fields of an item, by field name.
type row map[string]string

// term is a condition in a query restriction.
//
// The query language is a small subset of the one the term server understands:
//
//   - terms are separated by spaces, and all of them should be satisfied ("AND" is optional).
//   - "NOT" negates the next term.
//   - "field:value" matches when the field equals to value, ignoring case.
//   - "field:value*" matches when the field starts with value.
//   - "field:[* TO *]" and "field:*" match when the field has any value.
//   - a term without field matches when any field contains it.
type term struct {
	not    bool
	field  string
	value  string
	prefix bool
	exists bool
}

func parseQuery(q string) []term {
	q = strings.ReplaceAll(q, "[* TO *]", "[*TO*]")

	terms := []term{}
	not := false
	for _, tok := range strings.Fields(q) {
		switch strings.ToUpper(tok) {
		case "AND":
			continue
		case "NOT":
			not = !not
			continue
		}

		t := term{not: not}
		not = false

		field, value, ok := strings.Cut(tok, ":")
		if !ok {
			t.value = strings.ToLower(strings.Trim(tok, `"`))
			terms = append(terms, t)
			continue
		}
		t.field = field
		value = strings.Trim(value, `"`)
		switch {
		case value == "[*TO*]" || value == "*":
			t.exists = true
		case strings.HasSuffix(value, "*"):
			t.prefix = true
			t.value = strings.ToLower(strings.TrimSuffix(value, "*"))
		default:
			t.value = strings.ToLower(value)
		}
		terms = append(terms, t)
	}
	return terms
}

func (t term) match(r row) bool {
	return t.not != t.hit(r)
}

func (t term) hit(r row) bool {
	if t.field == "" {
		for _, v := range r {
			if strings.Contains(strings.ToLower(v), t.value) {
				return true
			}
		}
		return false
	}

	v, ok := r[t.field]
	switch {
	case t.exists:
		return ok && v != ""
	case t.prefix:
		return strings.HasPrefix(strings.ToLower(v), t.value)
	default:
		return strings.ToLower(v) == t.value
	}
}

func matchAll(terms []term, r row) bool {
	for _, t := range terms {
		if !t.match(r) {
			return false
		}
	}
	return true
}

// lessField compares values of a field, as numbers when both are.
func lessField(a, b string) bool {
	na, erra := strconv.ParseInt(a, 10, 64)
	nb, errb := strconv.ParseInt(b, 10, 64)
	if erra == nil && errb == nil {
		return na < nb
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

// query filters, sorts and slices items as params say.
//
// # Returns
//
// - []T: items in the requested page.
//
// - int: count of items matching the restriction, regardless of the page.
func query[T any](items []T, rowOf func(T) row, params pfs.Params) ([]T, int) {
	terms := parseQuery(params.QueryRestriction)

	type indexed struct {
		item T
		row  row
	}
	hits := []indexed{}
	for _, it := range items {
		r := rowOf(it)
		if matchAll(terms, r) {
			hits = append(hits, indexed{item: it, row: r})
		}
	}

	if params.SortField != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			a, b := hits[i].row[params.SortField], hits[j].row[params.SortField]
			if params.Ascending {
				return lessField(a, b)
			}
			return lessField(b, a)
		})
	}

	total := len(hits)
	start := min(max(params.StartIndex, 0), total)
	end := total
	if 0 <= params.MaxResults {
		end = min(start+params.MaxResults, total)
	}

	page := make([]T, 0, end-start)
	for _, h := range hits[start:end] {
		page = append(page, h.item)
	}
	return page, total
}
