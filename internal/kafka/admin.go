package kafka

import (
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
)

// EnsureTopic creates topic with the given partition count unless the
// cluster already has it.
func EnsureTopic(c *Config, topic string, partitions int, logger *slog.Logger) error {
	admin, err := sarama.NewClusterAdmin(c.Brokers(), c.Sarama())
	if err != nil {
		return err
	}
	defer admin.Close()
	return createTopic(admin, topic, partitions, logger)
}

func createTopic(admin sarama.ClusterAdmin, topic string, partitions int, logger *slog.Logger) error {
	if partitions <= 0 {
		partitions = 1
	}
	err := admin.CreateTopic(topic, &sarama.TopicDetail{
		NumPartitions:     int32(partitions),
		ReplicationFactor: 1,
	}, false)

	var topicErr *sarama.TopicError
	if errors.As(err, &topicErr) && topicErr.Err == sarama.ErrTopicAlreadyExists {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("topic created", "component", "kafka", "topic", topic, "partitions", partitions)
	return nil
}
