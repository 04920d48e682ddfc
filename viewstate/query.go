package viewstate

import (
	"sort"
	"strings"
)

// Query identifies one cached resource collection: a resource kind plus its
// filter parameters. Two queries are equal iff their kinds match and their
// filters are equal regardless of construction order; equality is realised
// by the canonical sorted-key encoding in Key.
type Query struct {
	Kind   Kind
	Filter map[string]string
}

// NewQuery builds a query over a copy of filter, so later mutation of the
// caller's map cannot alias a cache key.
func NewQuery(kind Kind, filter map[string]string) Query {
	if len(filter) == 0 {
		return Query{Kind: kind}
	}
	copied := make(map[string]string, len(filter))
	for k, v := range filter {
		copied[k] = v
	}
	return Query{Kind: kind, Filter: copied}
}

// Key returns the canonical encoding used as the literal cache-map key.
// Filter keys are sorted and empty-valued parameters are dropped, so
// {search: ""} and an absent search produce the same key.
func (q Query) Key() string {
	if len(q.Filter) == 0 {
		return string(q.Kind)
	}

	keys := make([]string, 0, len(q.Filter))
	for k, v := range q.Filter {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return string(q.Kind)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(q.Kind))
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(q.Filter[k])
	}
	return b.String()
}
