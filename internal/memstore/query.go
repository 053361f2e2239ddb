package memstore

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BRO3886/user-search/internal/search"
)

func matches(q search.Query, doc map[string]any) (bool, error) {
	switch q := q.(type) {
	case nil, search.MatchAll, *search.MatchAll:
		return true, nil
	case *search.Match:
		return matches(*q, doc)
	case *search.QueryString:
		return matches(*q, doc)
	case *search.Range:
		return matches(*q, doc)
	case *search.Bool:
		return matches(*q, doc)
	case search.Match:
		return matchTokens(doc[q.Field], tokens(q.Query), false), nil
	case search.QueryString:
		term := strings.TrimSpace(q.Query)
		if term == "*" {
			return true, nil
		}
		prefix := strings.HasSuffix(term, "*")
		return matchTokens(doc[q.DefaultField], tokens(strings.TrimSuffix(term, "*")), prefix), nil
	case search.Range:
		v, ok := number(doc[q.Field])
		if !ok {
			return false, nil
		}
		return (q.Gt == nil || v > *q.Gt) &&
			(q.Gte == nil || v >= *q.Gte) &&
			(q.Lt == nil || v < *q.Lt) &&
			(q.Lte == nil || v <= *q.Lte), nil
	case search.Bool:
		for _, c := range append(append([]search.Query{}, q.Must...), q.Filter...) {
			ok, err := matches(c, doc)
			if err != nil || !ok {
				return false, err
			}
		}
		for _, c := range q.MustNot {
			ok, err := matches(c, doc)
			if err != nil || ok {
				return false, err
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %T", search.ErrUnsupportedQuery, q)
	}
}

// matchTokens reports whether any query token matches a token of the field.
func matchTokens(field any, query []string, prefix bool) bool {
	s, ok := field.(string)
	if !ok {
		return false
	}
	for _, want := range query {
		for _, have := range tokens(s) {
			if have == want || (prefix && strings.HasPrefix(have, want)) {
				return true
			}
		}
	}
	return false
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
