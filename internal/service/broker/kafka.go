package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	producer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	for _, broker := range brokers {
		if err := createTopic(topic, broker); err != nil {
			return nil, err
		}
	}

	producer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaPublisher{producer: producer}, nil
}

func (p *KafkaPublisher) SendMessage(ctx context.Context, key, value []byte) error {
	err := p.producer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

func createTopic(topic, broker string) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("failed to connect to kafka broker: %w", err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		if errors.Is(err, kafka.TopicAlreadyExists) {
			slog.Info("kafka topic already exists", "topic", topic)
			return nil
		}
		return fmt.Errorf("failed to create kafka topic '%s': %w", topic, err)
	}

	slog.Info("kafka topic created", "topic", topic)
	return nil
}
