package broker

import "context"

// Publisher carries user and note lifecycle events to downstream consumers.
type Publisher interface {
	SendMessage(ctx context.Context, key, value []byte) error
	Close() error
}
