package events

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the part of *kgo.Client used by KafkaSink.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publishes events to a topic. The record key is the event kind
// and the value is the JSON envelope without the log prefix.
type KafkaSink struct {
	producer Producer
	topic    string
}

// NewKafkaSink returns a sink writing to topic through producer.
func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

// DialKafka creates a franz-go client for brokers.
func DialKafka(brokers []string, topic string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RecordRetries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("events: kafka client: %w", err)
	}
	return client, nil
}

// Emit produces e and waits for the broker acknowledgement.
func (s *KafkaSink) Emit(ctx context.Context, e Event) error {
	value, err := e.JSON()
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPublish, err)
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(e.Event),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "standard", Value: []byte(e.Standard)},
			{Key: "version", Value: []byte(e.Version)},
		},
	}
	if err := s.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("%w: kafka: %w", ErrPublish, err)
	}
	return nil
}
