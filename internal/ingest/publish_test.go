package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	topic string
	key   string
	data  string
}

type fakeEnqueuer struct {
	sent []sent
	fail map[string]error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, topic, key string, data []byte) error {
	if err := f.fail[key]; err != nil {
		return err
	}
	f.sent = append(f.sent, sent{topic, key, string(data)})
	return nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestPublish(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	past := now.Add(-time.Second).UnixMilli()
	future := now.Add(time.Hour).UnixMilli()

	input := strings.Join([]string{
		fmt.Sprintf(`{"op":"upsert","user":{"firstName":"Jane"},"ts_ms":%d}`, past),
		``,
		`{broken`,
		fmt.Sprintf(`{"op":"upsert","user":{"id":4},"ts_ms":%d}`, future),
		fmt.Sprintf(`{"op":"delete","user":{"id":3},"ts_ms":%d}`, past),
		fmt.Sprintf(`{"op":"upsert","user":{"id":9},"ts_ms":%d}`, past),
	}, "\n")

	enq := &fakeEnqueuer{fail: map[string]error{"9": errors.New("broker down")}}
	p := NewPublisher(enq, "user-events", discard)
	p.now = func() time.Time { return now }

	stats, err := p.Publish(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Stats{Enqueued: 2, Skipped: 2, Failed: 1}, stats)

	require.Len(t, enq.sent, 2)
	assert.Equal(t, "user-events", enq.sent[0].topic)
	assert.Empty(t, enq.sent[0].key)
	assert.Equal(t, "3", enq.sent[1].key)
	assert.Contains(t, enq.sent[1].data, `"op":"delete"`)
}

func TestPublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enq := &fakeEnqueuer{}
	_, err := NewPublisher(enq, "user-events", discard).Publish(ctx, strings.NewReader("{}\n{}"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, enq.sent)
}
