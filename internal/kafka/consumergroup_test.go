package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string {
	return "user-events"
}

func (c *fakeClaim) Partition() int32 {
	return 0
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage {
	return c.messages
}

func newClaim(values ...string) *fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(values))
	for i, v := range values {
		ch <- &sarama.ConsumerMessage{Topic: "user-events", Offset: int64(i), Value: []byte(v)}
	}
	close(ch)
	return &fakeClaim{messages: ch}
}

func TestConsumeClaimMarksHandledMessages(t *testing.T) {
	var seen []string
	h := NewConsumerGroupHandler(func(ctx context.Context, data []byte) error {
		seen = append(seen, string(data))
		return nil
	}, discard)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, newClaim("a", "b", "c")))
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Equal(t, []int64{0, 1, 2}, session.marked)
}

func TestConsumeClaimStopsOnError(t *testing.T) {
	boom := errors.New("store down")
	h := NewConsumerGroupHandler(func(ctx context.Context, data []byte) error {
		if string(data) == "b" {
			return boom
		}
		return nil
	}, discard)

	session := &fakeSession{ctx: context.Background()}
	assert.ErrorIs(t, h.ConsumeClaim(session, newClaim("a", "b", "c")), boom)
	assert.Equal(t, []int64{0}, session.marked)
}

func TestConsumeClaimRecoversPanic(t *testing.T) {
	h := NewConsumerGroupHandler(func(ctx context.Context, data []byte) error {
		panic("bad message")
	}, discard)

	session := &fakeSession{ctx: context.Background()}
	assert.ErrorContains(t, h.ConsumeClaim(session, newClaim("a")), "bad message")
	assert.Empty(t, session.marked)
}

func TestConsumeClaimStopsOnSessionEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := NewConsumerGroupHandler(func(ctx context.Context, data []byte) error { return nil }, discard)

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}
	assert.NoError(t, h.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}
