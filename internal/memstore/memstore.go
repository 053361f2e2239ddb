// Package memstore keeps documents in process memory. It evaluates the same
// query tree the OpenSearch store sends over the wire, closely enough for
// local runs and tests.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/BRO3886/user-search/internal/search"
)

type Store struct {
	mu    sync.RWMutex
	store map[string]map[string]json.RawMessage
}

var _ search.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		store: make(map[string]map[string]json.RawMessage),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Get(ctx context.Context, index, id string) (json.RawMessage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.store[index][id]
	return doc, ok, nil
}

func (s *Store) Upsert(ctx context.Context, index, id string, doc any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store[index] == nil {
		s.store[index] = make(map[string]json.RawMessage)
	}
	s.store[index][id] = raw
	return true, nil
}

// Delete of an unknown id is acknowledged, as search engines do.
func (s *Store) Delete(ctx context.Context, index, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.store[index]; ok {
		delete(bucket, id)
	}
	return true, nil
}

type candidate struct {
	id     string
	raw    json.RawMessage
	fields map[string]any
}

func (s *Store) Search(ctx context.Context, index string, req *search.Request) (*search.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]candidate, 0, len(s.store[index]))
	for id, raw := range s.store[index] {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			s.mu.RUnlock()
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		ok, err := matches(req.Query, fields)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		if ok {
			matched = append(matched, candidate{id: id, raw: raw, fields: fields})
		}
	}
	s.mu.RUnlock()

	// map iteration is random, give unsorted results a stable order
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].id < matched[j].id
	})
	if len(req.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(req.Sort, matched[i].fields, matched[j].fields)
		})
	}

	from, size := search.DefaultFrom, search.DefaultSize
	if req.From != nil {
		from = *req.From
	}
	if req.Size != nil {
		size = *req.Size
	}

	result := &search.Result{Total: int64(len(matched)), Hits: []search.Hit{}}
	if from < 0 || size < 0 {
		return nil, fmt.Errorf("invalid page window from=%d size=%d", from, size)
	}
	if from >= len(matched) {
		return result, nil
	}
	end := len(matched)
	if size < end-from {
		end = from + size
	}
	for _, c := range matched[from:end] {
		result.Hits = append(result.Hits, search.Hit{ID: c.id, Source: c.raw})
	}
	return result, nil
}

func less(sorts []search.Sort, a, b map[string]any) bool {
	for _, s := range sorts {
		av, aok := number(a[s.Field])
		bv, bok := number(b[s.Field])
		switch {
		case aok && !bok:
			return true
		case !aok && bok:
			return false
		case !aok && !bok, av == bv:
			continue
		}
		if s.Order == search.Desc {
			return av > bv
		}
		return av < bv
	}
	return false
}
