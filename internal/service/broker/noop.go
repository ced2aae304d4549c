package broker

import "context"

// NopPublisher is used when no brokers are configured, so local runs and
// tests do not need Kafka.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

func (NopPublisher) SendMessage(_ context.Context, _, _ []byte) error { return nil }

func (NopPublisher) Close() error { return nil }
