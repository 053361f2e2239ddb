package handler

import (
	"net/http"
	"strconv"

	"github.com/BRO3886/user-search/internal/errors"
	"github.com/BRO3886/user-search/internal/search"
)

func pageWindow(r *http.Request) (int, int, error) {
	from, err := intParam(r, "from", search.DefaultFrom)
	if err != nil {
		return 0, 0, err
	}
	size, err := intParam(r, "size", search.DefaultSize)
	if err != nil {
		return 0, 0, err
	}
	if from < 0 {
		return 0, 0, errors.New(errors.ErrInvalidInput, "from must be non-negative", nil)
	}
	if size <= 0 {
		return 0, 0, errors.New(errors.ErrInvalidInput, "size must be positive", nil)
	}
	return from, size, nil
}

// userSearchQuery builds: firstName matches AND lastName starts with AND
// age >= the given age. Parameters left out add no clause.
func userSearchQuery(r *http.Request) (search.Query, error) {
	q := r.URL.Query()
	var query search.Bool

	if firstName := q.Get("firstName"); firstName != "" {
		query.Must = append(query.Must, search.Match{Field: "firstName", Query: firstName})
	}
	if lastName := q.Get("lastName"); lastName != "" {
		query.Must = append(query.Must, search.QueryString{Query: lastName + "*", DefaultField: "lastName"})
	}
	if q.Has("age") {
		age, err := strconv.Atoi(q.Get("age"))
		if err != nil {
			return nil, errors.New(errors.ErrInvalidInput, "age must be an integer", err)
		}
		query.Filter = append(query.Filter, search.Range{Field: "age", Gte: search.Float(float64(age))})
	}

	if len(query.Must) == 0 && len(query.Filter) == 0 {
		return search.MatchAll{}, nil
	}
	return query, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrInvalidInput, name+" must be an integer", err)
	}
	return v, nil
}
