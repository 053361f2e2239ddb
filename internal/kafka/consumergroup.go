package kafka

import (
	"fmt"
	"log/slog"

	"github.com/BRO3886/user-search/internal/queue"
	"github.com/IBM/sarama"
)

type ConsumerGroupHandler struct {
	handler queue.MessageHandler
	logger  *slog.Logger
}

func NewConsumerGroupHandler(handler queue.MessageHandler, logger *slog.Logger) sarama.ConsumerGroupHandler {
	return &ConsumerGroupHandler{
		handler: handler,
		logger:  logger,
	}
}

// Cleanup implements sarama.ConsumerGroupHandler.
func (c *ConsumerGroupHandler) Cleanup(session sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim implements sarama.ConsumerGroupHandler. A handler error stops
// the claim without marking the message, so it is redelivered.
func (c *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) (err error) {
	ctx := session.Context()
	c.logger.InfoContext(ctx, "consuming claim", "topic", claim.Topic(), "partition", claim.Partition())
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "panic handling message", "panic", r)
			err = fmt.Errorf("kafka: panic handling message: %v", r)
		}
	}()

	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := c.handler(ctx, message.Value); err != nil {
				c.logger.ErrorContext(ctx, "error handling message",
					"topic", message.Topic, "partition", message.Partition, "offset", message.Offset, "error", err)
				return err
			}
			session.MarkMessage(message, "")
		case <-ctx.Done():
			return nil
		}
	}
}

// Setup implements sarama.ConsumerGroupHandler.
func (c *ConsumerGroupHandler) Setup(session sarama.ConsumerGroupSession) error {
	return nil
}
