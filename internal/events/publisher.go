package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends transaction change events to TransactionEventsStream.
type Publisher struct {
	client *redis.Client
	maxLen int64
}

// NewPublisher creates a publisher. maxLen caps the stream length
// approximately; 0 keeps every entry.
func NewPublisher(client *redis.Client, maxLen int64) *Publisher {
	return &Publisher{client: client, maxLen: maxLen}
}

// Publish wraps data in an Event of eventType and appends it. The entry keeps
// the type next to the JSON body so consumers can filter without decoding.
func (p *Publisher) Publish(ctx context.Context, eventType string, data any) error {
	body, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: TransactionEventsStream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]any{
			"type":  eventType,
			"event": body,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}

	slog.Debug("event published", "type", eventType, "id", id)
	return nil
}
