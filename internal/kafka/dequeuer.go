package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BRO3886/user-search/internal/queue"
	"github.com/IBM/sarama"
)

const (
	defaultConsumeBackoff = 2 * time.Second
	maxConsumeFailures    = 5
)

type Dequeuer struct {
	group   sarama.ConsumerGroup
	backoff time.Duration
	logger  *slog.Logger
}

var _ queue.Dequeuer = (*Dequeuer)(nil)

func NewDequeuer(c *Config, logger *slog.Logger) (*Dequeuer, error) {
	group, err := sarama.NewConsumerGroup(c.Brokers(), c.Group(), c.Sarama())
	if err != nil {
		return nil, err
	}
	return NewGroupDequeuer(group, c.Sarama().Consumer.Retry.Backoff, logger), nil
}

// NewGroupDequeuer waits backoff between failed Consume calls; zero means
// the default of two seconds.
func NewGroupDequeuer(group sarama.ConsumerGroup, backoff time.Duration, logger *slog.Logger) *Dequeuer {
	if backoff <= 0 {
		backoff = defaultConsumeBackoff
	}
	return &Dequeuer{group: group, backoff: backoff, logger: logger.With("component", "kafka")}
}

// Dequeue consumes topic until ctx is cancelled. Consume returns on every
// rebalance, so it is called in a loop. Failed calls are retried after the
// backoff; the error is returned once maxConsumeFailures happen in a row.
func (k *Dequeuer) Dequeue(ctx context.Context, topic string, handler queue.MessageHandler) error {
	h := NewConsumerGroupHandler(handler, k.logger)
	failures := 0
	for {
		err := k.group.Consume(ctx, []string{topic}, h)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
			return nil
		}
		if err == nil {
			failures = 0
			k.logger.InfoContext(ctx, "consumer group rebalanced", "topic", topic)
			continue
		}

		failures++
		k.logger.ErrorContext(ctx, "consume failed", "topic", topic, "attempt", failures, "error", err)
		if failures >= maxConsumeFailures {
			return err
		}
		select {
		case <-time.After(k.backoff):
		case <-ctx.Done():
			return nil
		}
	}
}

func (k *Dequeuer) Close() error {
	return k.group.Close()
}
