package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/config"
	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

// kafkaSource replays post events from a bridged firehose topic. It
// satisfies the same Source contract as the live HTTP stream, which makes
// backfills and local runs use the identical ingestion path.
type kafkaSource struct {
	consumer *kafka.Consumer
	topic    string
}

func newKafkaSource(_ config.IngestConfig) (*kafkaSource, error) {
	broker := getEnv("KAFKA_BROKER", "localhost:29092")
	groupID := getEnv("KAFKA_CONSUMER_GROUP_ID", "rtta-ingest-group")
	topic := getEnv("KAFKA_FIREHOSE_TOPIC", "post-firehose")

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  broker,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
		"isolation.level":    "read_committed",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaSource] failed to create consumer: %w", err)
	}

	return &kafkaSource{consumer: c, topic: topic}, nil
}

func (s *kafkaSource) Connect(_ context.Context) error {
	if err := s.consumer.SubscribeTopics([]string{s.topic}, nil); err != nil {
		return fmt.Errorf("[KafkaSource] failed to subscribe to topic: %w", err)
	}
	slog.Info("[KafkaSource] Subscribed to firehose topic",
		slog.String("topic", s.topic))
	return nil
}

func (s *kafkaSource) Next(ctx context.Context) (*models.StreamEvent, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		msg, err := s.consumer.ReadMessage(time.Second)
		if err != nil {
			if kafkaErr, ok := err.(kafka.Error); ok {
				if kafkaErr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kafkaErr.Code() == kafka.ErrAllBrokersDown {
					return nil, fmt.Errorf("[KafkaSource] all brokers down: %w", err)
				}
			}
			return nil, fmt.Errorf("[KafkaSource] read failed: %w", err)
		}

		var event models.StreamEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Warn("[KafkaSource] Skipping malformed event",
				slog.String("error", err.Error()))
			s.commit(msg)
			continue
		}

		s.commit(msg)
		return &event, nil
	}
}

func (s *kafkaSource) commit(msg *kafka.Message) {
	if _, err := s.consumer.CommitMessage(msg); err != nil {
		slog.Warn("[KafkaSource] Failed to commit offset",
			slog.String("error", err.Error()),
			slog.Int("partition", int(msg.TopicPartition.Partition)))
	}
}

func (s *kafkaSource) Close() {
	if s.consumer != nil {
		if err := s.consumer.Close(); err != nil {
			slog.Warn("[KafkaSource] Failed to close consumer",
				slog.String("error", err.Error()))
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
