package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// EventPublisher delivers domain events. Services construct the event
// payload; the publisher owns the envelope and the transport.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close() error
}

// KafkaEventPublisher publishes events to a Kafka topic through
// watermill.
type KafkaEventPublisher struct {
	publisher *kafka.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaEventPublisher connects a watermill Kafka publisher to the
// given brokers and topic.
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaEventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}, nil
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType string, data any) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", eventType)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	p.logger.Debug("event published", "event_id", event.ID, "event_type", eventType)
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (p *MockEventPublisher) Publish(ctx context.Context, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (p *MockEventPublisher) GetPublishedEvents() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// ClearEvents resets the recorded events.
func (p *MockEventPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func (p *MockEventPublisher) Close() error { return nil }
