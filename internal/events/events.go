// Package events publishes transaction change events to a Redis stream and
// consumes them back for the `budget events` command.
package events

import (
	"context"
	"time"
)

// Event types
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// TransactionEventsStream is the Redis stream every change is appended to.
const TransactionEventsStream = "transaction.events"

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// TransactionChangedEvent is the payload of created and updated events.
type TransactionChangedEvent struct {
	TransactionID int64   `json:"transactionId"`
	Title         string  `json:"title"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Type          string  `json:"type"`
	Date          string  `json:"date"`
}

type TransactionDeletedEvent struct {
	TransactionID int64 `json:"transactionId"`
}

// Nop discards every event. It stands in for Publisher when Redis is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
