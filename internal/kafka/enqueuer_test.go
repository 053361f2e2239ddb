package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/BRO3886/user-search/internal/config"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSyncEnqueue(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewConfig(WithSyncProducer()).Sarama())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "user-events" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "7" {
			return errors.New("wrong key " + string(key))
		}
		return nil
	})

	enq := NewSyncEnqueuer(producer, discard)
	require.NoError(t, enq.Enqueue(context.Background(), "user-events", "7", []byte(`{"op":"upsert"}`)))
	require.NoError(t, enq.Close())
}

func TestSyncEnqueueFails(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewConfig(WithSyncProducer()).Sarama())
	producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	enq := NewSyncEnqueuer(producer, discard)
	err := enq.Enqueue(context.Background(), "user-events", "", []byte(`{}`))
	assert.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
	require.NoError(t, enq.Close())
}

func TestEnqueueCancelled(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewConfig(WithSyncProducer()).Sarama())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enq := NewSyncEnqueuer(producer, discard)
	assert.ErrorIs(t, enq.Enqueue(ctx, "user-events", "", []byte(`{}`)), context.Canceled)
	require.NoError(t, enq.Close())
}

func TestAsyncEnqueue(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, NewConfig().Sarama())
	producer.ExpectInputAndSucceed()
	producer.ExpectInputAndFail(sarama.ErrMessageSizeTooLarge)

	enq := NewAsyncEnqueuer(producer, discard)
	require.NoError(t, enq.Enqueue(context.Background(), "user-events", "1", []byte(`{}`)))
	assert.ErrorIs(t, enq.Enqueue(context.Background(), "user-events", "1", []byte(`{}`)), sarama.ErrMessageSizeTooLarge)
	require.NoError(t, enq.Close())
}

func TestNewConfig(t *testing.T) {
	c := NewConfig(
		WithBrokers("a:9092", "b:9092"),
		WithTopics("user-events"),
		WithConsumeOldest(),
		WithSyncProducer(),
	)

	assert.True(t, c.Sync())
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Brokers())
	assert.Equal(t, "user-events", c.Group())
	assert.Equal(t, sarama.OffsetOldest, c.Sarama().Consumer.Offsets.Initial)
	assert.Equal(t, sarama.WaitForAll, c.Sarama().Producer.RequiredAcks)

	c = NewConfig(WithTopics("user-events"), WithConsumerGroup("user-indexer"))
	assert.Equal(t, "user-indexer", c.Group())
	assert.False(t, c.Sync())
}

type fakeAdmin struct {
	sarama.ClusterAdmin
	err    error
	detail *sarama.TopicDetail
}

func (a *fakeAdmin) CreateTopic(topic string, detail *sarama.TopicDetail, validateOnly bool) error {
	a.detail = detail
	return a.err
}

func TestCreateTopic(t *testing.T) {
	admin := &fakeAdmin{}
	require.NoError(t, createTopic(admin, "user-events", 0, discard))
	assert.Equal(t, int32(1), admin.detail.NumPartitions)

	admin = &fakeAdmin{err: &sarama.TopicError{Err: sarama.ErrTopicAlreadyExists}}
	assert.NoError(t, createTopic(admin, "user-events", 3, discard))

	admin = &fakeAdmin{err: &sarama.TopicError{Err: sarama.ErrInvalidPartitions}}
	assert.Error(t, createTopic(admin, "user-events", 3, discard))
}

func TestFromConfig(t *testing.T) {
	var c config.Config
	c.Kafka.Brokers = []string{"kafka:9092"}
	c.Kafka.Topic.Name = "user-events"
	c.Kafka.ConsumerGroup = "user-indexer"
	c.Kafka.Retry.Max = 7
	c.Kafka.Retry.Backoff = 250

	k := FromConfig(&c, WithSyncProducer())
	assert.True(t, k.Sync())
	assert.Equal(t, []string{"kafka:9092"}, k.Brokers())
	assert.Equal(t, []string{"user-events"}, k.Topics())
	assert.Equal(t, "user-indexer", k.Group())
	assert.Equal(t, 7, k.Sarama().Producer.Retry.Max)
	assert.Equal(t, 250*time.Millisecond, k.Sarama().Producer.Retry.Backoff)
	assert.Equal(t, "user-search", k.Sarama().ClientID)
}
