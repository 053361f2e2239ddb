package queue

import "context"

// Enqueuer publishes data to topic. Messages sharing a key keep their order.
type Enqueuer interface {
	Enqueue(ctx context.Context, topic, key string, data []byte) error
	Close() error
}

// MessageHandler processes one message. A non-nil error leaves the message
// unacknowledged.
type MessageHandler func(ctx context.Context, data []byte) error

type Dequeuer interface {
	Dequeue(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}
