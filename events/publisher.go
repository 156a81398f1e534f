// Package events publishes snapshot-written notifications for downstream
// consumers (dashboards, alerting).
package events

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"agroclima.app/config"
)

// SnapshotEvent notifies consumers that a subscriber's daily snapshot was written
type SnapshotEvent struct {
	UserID          string   `json:"usuario_id"`
	Date            string   `json:"data"`
	City            string   `json:"city"`
	Region          string   `json:"region"`
	HeatStressIndex *float64 `json:"heat_stress_index,omitempty"`
	HeatStressTier  *string  `json:"heat_stress_tier,omitempty"`
}

// Publisher defines the interface for snapshot event publishing
type Publisher interface {
	SnapshotWritten(ctx context.Context, event SnapshotEvent) error
	Close() error
}

// KafkaPublisher produces snapshot events to a Kafka topic
type KafkaPublisher struct {
	writer *kafkago.Writer
}

// NewKafkaPublisher creates a Kafka producer for the configured topic
func NewKafkaPublisher(cfg *config.EventsConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
		},
	}
}

// SnapshotWritten serializes and publishes one snapshot event
func (p *KafkaPublisher) SnapshotWritten(ctx context.Context, event SnapshotEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize snapshot event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.UserID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("snapshot_written")},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards all events; used when event publishing is disabled
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) SnapshotWritten(ctx context.Context, event SnapshotEvent) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}

// Ensure implementations satisfy the interface
var _ Publisher = (*KafkaPublisher)(nil)
var _ Publisher = (*NoopPublisher)(nil)

// NewPublisher selects the publisher implementation from configuration
func NewPublisher(cfg *config.EventsConfig) Publisher {
	if !cfg.Enabled {
		return NewNoopPublisher()
	}
	return NewKafkaPublisher(cfg)
}
