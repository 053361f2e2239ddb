package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BRO3886/user-search/internal/memstore"
	"github.com/BRO3886/user-search/internal/service"
	"github.com/BRO3886/user-search/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newUserService(t *testing.T) *service.Service[*types.User] {
	t.Helper()
	svc, err := service.New[*types.User](memstore.New(), discard)
	require.NoError(t, err)
	return svc
}

func event(op string, user string) []byte {
	return []byte(fmt.Sprintf(`{"op":%q,"user":%s,"ts_ms":%d}`, op, user, time.Now().Add(-time.Minute).UnixMilli()))
}

func TestHandlerUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	handle := Handler(svc, discard)

	require.NoError(t, handle(ctx, event("upsert", `{"firstName":"Jane","lastName":"Doe","age":30}`)))
	require.NoError(t, handle(ctx, event("upsert", `{"id":10,"firstName":"John"}`)))

	jane, found, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Jane", jane.FirstName)

	require.NoError(t, handle(ctx, event("delete", `{"id":10}`)))
	_, found, err = svc.Get(ctx, 10)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandlerDropsBadEvents(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)
	handle := Handler(svc, discard)

	assert.NoError(t, handle(ctx, []byte(`not json`)))
	assert.NoError(t, handle(ctx, event("merge", `{"id":1}`)))
	assert.NoError(t, handle(ctx, event("delete", `{}`)))
	assert.NoError(t, handle(ctx, []byte(fmt.Sprintf(`{"op":"upsert","user":{"id":1},"ts_ms":%d}`,
		time.Now().Add(time.Hour).UnixMilli()))))

	users, err := svc.GetAll(ctx, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, users)
}

type failingService struct {
	service.EntityService[*types.User]
	err error
	ok  bool
}

func (s failingService) AddOrUpdate(context.Context, *types.User) (bool, error) {
	return s.ok, s.err
}

func TestHandlerReturnsStoreFaults(t *testing.T) {
	boom := errors.New("cluster unreachable")
	handle := Handler(failingService{err: boom}, discard)

	assert.ErrorIs(t, handle(context.Background(), event("upsert", `{"id":1}`)), boom)
}

func TestHandlerAcksRejectedWrites(t *testing.T) {
	handle := Handler(failingService{ok: false}, discard)

	assert.NoError(t, handle(context.Background(), event("upsert", `{"id":1}`)))
}
