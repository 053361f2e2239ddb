package search

import (
	"context"
	"encoding/json"
)

const (
	DefaultFrom = 0
	DefaultSize = 20
)

// Store is the document store behind every entity service. Write methods
// report whether the store acknowledged the operation; errors are reserved
// for transport faults and malformed responses.
type Store interface {
	Get(ctx context.Context, index, id string) (json.RawMessage, bool, error)
	Search(ctx context.Context, index string, req *Request) (*Result, error)
	Upsert(ctx context.Context, index, id string, doc any) (bool, error)
	Delete(ctx context.Context, index, id string) (bool, error)
	Ping(ctx context.Context) error
}

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

type Sort struct {
	Field string
	Order Order
}

type Request struct {
	From  *int
	Size  *int
	Sort  []Sort
	Query Query
}

// Option configures a search request.
type Option func(*Request)

func WithFrom(from int) Option {
	return func(r *Request) {
		r.From = &from
	}
}

func WithSize(size int) Option {
	return func(r *Request) {
		r.Size = &size
	}
}

func WithSort(field string, order Order) Option {
	return func(r *Request) {
		r.Sort = append(r.Sort, Sort{Field: field, Order: order})
	}
}

func WithQuery(q Query) Option {
	return func(r *Request) {
		r.Query = q
	}
}

func NewRequest(opts ...Option) *Request {
	r := &Request{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Body renders the request as an OpenSearch _search body.
func (r *Request) Body() map[string]any {
	body := map[string]any{}
	if r.From != nil {
		body["from"] = *r.From
	}
	if r.Size != nil {
		body["size"] = *r.Size
	}
	if len(r.Sort) > 0 {
		sorts := make([]map[string]any, 0, len(r.Sort))
		for _, s := range r.Sort {
			sorts = append(sorts, map[string]any{
				s.Field: map[string]any{
					"order": string(s.Order),
					// an empty index has no mapping to sort on yet
					"unmapped_type": "long",
				},
			})
		}
		body["sort"] = sorts
	}
	if r.Query != nil {
		body["query"] = r.Query.Source()
	}
	return body
}

type Hit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type Result struct {
	Total int64
	Hits  []Hit
}
