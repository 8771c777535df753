package events

import (
	"context"
	"encoding/json"
	"time"

	"feedbridge/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const Topic = "store-events"

// Event types published by the API and consumed by the worker.
const (
	TypeAppUninstalled = "app/uninstalled"
	TypeProductUpdated = "product/updated"
	TypeStoreInstalled = "store/installed"
)

type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	StoreID   string                 `json:"store_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher writes store events to Kafka. Publishing is best-effort from the
// API's point of view: callers log failures and move on.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType, storeID string, data map[string]interface{}) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		StoreID:   storeID,
		Data:      data,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(storeID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
