package search

import "errors"

var ErrUnsupportedQuery = errors.New("unsupported query")

// Query is a node of a query tree.
type Query interface {
	Source() map[string]any
}

type MatchAll struct{}

func (MatchAll) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// Match is a full-text match against an analysed field.
type Match struct {
	Field string
	Query string
}

func (m Match) Source() map[string]any {
	return map[string]any{
		"match": map[string]any{
			m.Field: map[string]any{"query": m.Query},
		},
	}
}

// QueryString runs a query_string query, e.g. "Doe*" for a prefix search.
type QueryString struct {
	Query        string
	DefaultField string
}

func (q QueryString) Source() map[string]any {
	return map[string]any{
		"query_string": map[string]any{
			"query":         q.Query,
			"default_field": q.DefaultField,
		},
	}
}

// Range bounds a numeric field. Nil bounds are left open.
type Range struct {
	Field string
	Gt    *float64
	Gte   *float64
	Lt    *float64
	Lte   *float64
}

func (r Range) Source() map[string]any {
	bounds := map[string]any{}
	if r.Gt != nil {
		bounds["gt"] = *r.Gt
	}
	if r.Gte != nil {
		bounds["gte"] = *r.Gte
	}
	if r.Lt != nil {
		bounds["lt"] = *r.Lt
	}
	if r.Lte != nil {
		bounds["lte"] = *r.Lte
	}
	return map[string]any{
		"range": map[string]any{r.Field: bounds},
	}
}

// Bool combines clauses: Must and Filter are ANDed, MustNot excludes.
type Bool struct {
	Must    []Query
	Filter  []Query
	MustNot []Query
}

func (b Bool) Source() map[string]any {
	clauses := map[string]any{}
	if len(b.Must) > 0 {
		clauses["must"] = sources(b.Must)
	}
	if len(b.Filter) > 0 {
		clauses["filter"] = sources(b.Filter)
	}
	if len(b.MustNot) > 0 {
		clauses["must_not"] = sources(b.MustNot)
	}
	return map[string]any{"bool": clauses}
}

func sources(qs []Query) []map[string]any {
	out := make([]map[string]any, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Source())
	}
	return out
}

func Float(v float64) *float64 {
	return &v
}
