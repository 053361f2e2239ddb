package kafka

import (
	"time"

	"github.com/BRO3886/user-search/internal/config"
	"github.com/IBM/sarama"
)

type Config struct {
	cfg     *sarama.Config
	brokers []string
	topics  []string
	group   string
	sync    bool
}

type Option func(*Config)

func WithSyncProducer() Option {
	return func(c *Config) {
		c.sync = true
		c.cfg.Producer.RequiredAcks = sarama.WaitForAll
	}
}

func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Config) {
		if maxRetries > 0 {
			c.cfg.Producer.Retry.Max = maxRetries
		}
		if backoff > 0 {
			c.cfg.Producer.Retry.Backoff = backoff
			c.cfg.Consumer.Retry.Backoff = backoff
		}
	}
}

func WithBrokers(brokers ...string) Option {
	return func(c *Config) {
		c.brokers = brokers
	}
}

func WithTopics(topics ...string) Option {
	return func(c *Config) {
		c.topics = topics
	}
}

func WithConsumerGroup(group string) Option {
	return func(c *Config) {
		c.group = group
	}
}

func WithConsumeOldest() Option {
	return func(c *Config) {
		c.cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
}

func WithClientID(id string) Option {
	return func(c *Config) {
		c.cfg.ClientID = id
	}
}

func NewConfig(opts ...Option) *Config {
	s := sarama.NewConfig()
	s.Version = sarama.V2_8_0_0
	s.Producer.RequiredAcks = sarama.WaitForLocal
	s.Producer.Return.Successes = true
	s.Producer.Return.Errors = true
	// keyed by user id so events for one user stay ordered
	s.Producer.Partitioner = sarama.NewHashPartitioner
	cfg := &Config{
		cfg: s,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// FromConfig builds the client settings for the import topic; opts are
// applied after the file settings.
func FromConfig(c *config.Config, opts ...Option) *Config {
	base := []Option{
		WithClientID("user-search"),
		WithBrokers(c.Kafka.Brokers...),
		WithTopics(c.Kafka.Topic.Name),
		WithConsumerGroup(c.Kafka.ConsumerGroup),
		WithRetry(c.Kafka.Retry.Max, time.Duration(c.Kafka.Retry.Backoff)*time.Millisecond),
	}
	return NewConfig(append(base, opts...)...)
}

func (c *Config) Sync() bool {
	return c.sync
}

func (c *Config) Topics() []string {
	return c.topics
}

func (c *Config) Group() string {
	if c.group == "" && len(c.topics) > 0 {
		return c.topics[0]
	}
	return c.group
}

func (c *Config) Brokers() []string {
	return c.brokers
}

func (c *Config) Sarama() *sarama.Config {
	return c.cfg
}
