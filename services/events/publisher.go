// Package events announces slot changes to downstream consumers over Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// Event types.
const (
	TemplateCreated = "slots.template.created"
	TemplateUpdated = "slots.template.updated"
	TemplateDeleted = "slots.template.deleted"
	OverrideCreated = "slots.override.created"
	OverrideUpdated = "slots.override.updated"
	OverrideDeleted = "slots.override.deleted"
	BlockedCreated  = "slots.blocked.created"
	BlockedUpdated  = "slots.blocked.updated"
	BlockedDeleted  = "slots.blocked.deleted"
)

// SlotChange describes one committed mutation. Weeks lists the Mondays whose
// availability changed; it is empty when every week of the artist is affected.
type SlotChange struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	ArtistID   string    `json:"artistId"`
	RecordID   string    `json:"recordId"`
	Weeks      []string  `json:"weeks,omitempty"`
	AllWeeks   bool      `json:"allWeeks"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, change SlotChange) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes SlotChange events keyed by artist id, so all changes
// of one artist land on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return newKafkaPublisher(w, topic, logger)
}

func newKafkaPublisher(w messageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{writer: w, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, change SlotChange) error {
	if change.EventID == "" {
		change.EventID = uuid.New().String()
	}
	if change.OccurredAt.IsZero() {
		change.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal slot change: %w", err)
	}

	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(change.EventID)},
		{Key: "event_type", Value: []byte(change.Type)},
	}
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	msg := kafka.Message{
		Key:     []byte(change.ArtistID),
		Value:   payload,
		Headers: carrier.headers,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", change.Type, p.topic, err)
	}
	p.logger.Debug("Published slot change",
		zap.String("type", change.Type), zap.String("artistID", change.ArtistID), zap.String("eventID", change.EventID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, SlotChange) error { return nil }
func (NoopPublisher) Close() error                              { return nil }

// SplitBrokers parses a comma separated broker list.
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
