package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published on the swap lifecycle topic
const (
	TypeRequestCreated   = "swap_request.created"
	TypeRequestAccepted  = "swap_request.accepted"
	TypeRequestRejected  = "swap_request.rejected"
	TypeRequestCancelled = "swap_request.cancelled"
	TypeSwapCompleted    = "swap.completed"
)

// Event is the payload published for each swap lifecycle transition
type Event struct {
	Type        string    `json:"type"`
	ItemID      string    `json:"item_id"`
	RequestID   string    `json:"request_id,omitempty"`
	SwapID      string    `json:"swap_id,omitempty"`
	OwnerID     string    `json:"owner_id,omitempty"`
	RequesterID string    `json:"requester_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher emits swap lifecycle events. Publishing happens after the
// transactional boundary commits and must never influence its outcome.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NoopPublisher discards events; used when Kafka is disabled and in tests
type NoopPublisher struct{}

// Publish discards the event
func (NoopPublisher) Publish(ctx context.Context, event Event) {}

// KafkaPublisher publishes events to a Kafka topic with retry
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish sends the event, retrying transient failures with exponential
// backoff. Failures are logged, never surfaced to the caller.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.ItemID),
		Value: value,
		Time:  event.OccurredAt,
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	err = backoff.Retry(func() error {
		return p.writer.WriteMessages(ctx, msg)
	}, policy)
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("item_id", event.ItemID),
			zap.Error(err))
		return
	}

	p.logger.Debug("Published event", zap.String("type", event.Type), zap.String("item_id", event.ItemID))
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
