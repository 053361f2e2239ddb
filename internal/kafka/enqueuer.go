package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BRO3886/user-search/internal/queue"
	"github.com/IBM/sarama"
)

type Enqueuer struct {
	syncProducer  sarama.SyncProducer
	asyncProducer sarama.AsyncProducer
	logger        *slog.Logger
}

var _ queue.Enqueuer = (*Enqueuer)(nil)

// NewEnqueuer dials the brokers with a sync or async producer depending on c.
func NewEnqueuer(c *Config, logger *slog.Logger) (*Enqueuer, error) {
	if c.Sync() {
		p, err := sarama.NewSyncProducer(c.Brokers(), c.Sarama())
		if err != nil {
			return nil, err
		}
		return NewSyncEnqueuer(p, logger), nil
	}

	p, err := sarama.NewAsyncProducer(c.Brokers(), c.Sarama())
	if err != nil {
		return nil, err
	}
	return NewAsyncEnqueuer(p, logger), nil
}

func NewSyncEnqueuer(p sarama.SyncProducer, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{syncProducer: p, logger: logger.With("component", "kafka")}
}

// NewAsyncEnqueuer expects p to be configured with Return.Successes and
// Return.Errors enabled; Enqueue waits for one of them per message.
func NewAsyncEnqueuer(p sarama.AsyncProducer, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{asyncProducer: p, logger: logger.With("component", "kafka")}
}

func (k *Enqueuer) Enqueue(ctx context.Context, topic, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	if k.syncProducer != nil {
		return k.enqueueSync(ctx, msg)
	}
	return k.enqueueAsync(ctx, msg)
}

func (k *Enqueuer) enqueueSync(ctx context.Context, msg *sarama.ProducerMessage) error {
	partition, offset, err := k.syncProducer.SendMessage(msg)
	if err != nil {
		return err
	}
	k.logger.DebugContext(ctx, "message sent", "topic", msg.Topic, "partition", partition, "offset", offset)
	return nil
}

func (k *Enqueuer) enqueueAsync(ctx context.Context, msg *sarama.ProducerMessage) error {
	select {
	case k.asyncProducer.Input() <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case sent := <-k.asyncProducer.Successes():
		if sent == nil {
			return errors.New("kafka: producer closed")
		}
		k.logger.DebugContext(ctx, "message sent", "topic", sent.Topic, "partition", sent.Partition, "offset", sent.Offset)
		return nil
	case perr := <-k.asyncProducer.Errors():
		if perr == nil {
			return errors.New("kafka: producer closed")
		}
		return perr.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *Enqueuer) Close() error {
	if k.syncProducer != nil {
		return k.syncProducer.Close()
	}
	return k.asyncProducer.Close()
}
