// Package service maps CRUD and search verbs for any bound entity type onto
// a search.Store.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/BRO3886/user-search/internal/search"
	"github.com/BRO3886/user-search/internal/types"
)

// EntityService is what the HTTP and ingest layers depend on.
type EntityService[T types.Entity] interface {
	Get(ctx context.Context, id int) (T, bool, error)
	GetAll(ctx context.Context, from, size int) ([]T, error)
	Search(ctx context.Context, criteria ...search.Option) ([]T, error)
	AddOrUpdate(ctx context.Context, entity T) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	Ping(ctx context.Context) error
}

type Service[T types.Entity] struct {
	store  search.Store
	index  string
	logger *slog.Logger
}

var _ EntityService[*types.User] = (*Service[*types.User])(nil)

// New binds a service to the index registered for T. It fails when T has no
// binding; callers treat that as a start-up fault.
func New[T types.Entity](store search.Store, logger *slog.Logger) (*Service[T], error) {
	binding, err := types.BindingFor[T]()
	if err != nil {
		return nil, err
	}
	return &Service[T]{
		store:  store,
		index:  binding.Index,
		logger: logger.With("component", "service", "index", binding.Index),
	}, nil
}

func (s *Service[T]) Index() string {
	return s.index
}

func (s *Service[T]) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service[T]) Get(ctx context.Context, id int) (T, bool, error) {
	var entity T
	raw, found, err := s.store.Get(ctx, s.index, strconv.Itoa(id))
	if err != nil || !found {
		return entity, false, err
	}
	if err := json.Unmarshal(raw, &entity); err != nil {
		return entity, false, err
	}
	return entity, true, nil
}

// GetAll returns one page of entities, newest id first.
func (s *Service[T]) GetAll(ctx context.Context, from, size int) ([]T, error) {
	return s.Search(ctx,
		search.WithFrom(from),
		search.WithSize(size),
		search.WithSort("id", search.Desc),
	)
}

// Search runs the caller's criteria as given and keeps the store's order.
func (s *Service[T]) Search(ctx context.Context, criteria ...search.Option) ([]T, error) {
	result, err := s.store.Search(ctx, s.index, search.NewRequest(criteria...))
	if err != nil {
		return nil, err
	}

	entities := make([]T, 0, len(result.Hits))
	for _, hit := range result.Hits {
		var entity T
		if err := json.Unmarshal(hit.Source, &entity); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// AddOrUpdate replaces the document at entity's id. An entity without an id
// is first given max(id)+1. That allocation is a read followed by a write
// and is not atomic: concurrent writers can be handed the same id.
func (s *Service[T]) AddOrUpdate(ctx context.Context, entity T) (bool, error) {
	if entity.GetId() == 0 {
		id, err := s.nextID(ctx)
		if err != nil {
			return false, err
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		entity.SetId(id)
		s.logger.DebugContext(ctx, "allocated id", "id", id)
	}

	return s.store.Upsert(ctx, s.index, strconv.Itoa(entity.GetId()), entity)
}

// Delete reports true for ids that do not exist.
func (s *Service[T]) Delete(ctx context.Context, id int) (bool, error) {
	return s.store.Delete(ctx, s.index, strconv.Itoa(id))
}

func (s *Service[T]) nextID(ctx context.Context) (int, error) {
	last, err := s.GetAll(ctx, 0, 1)
	if err != nil {
		return 0, err
	}
	if len(last) == 0 {
		return 1, nil
	}
	return last[0].GetId() + 1, nil
}
