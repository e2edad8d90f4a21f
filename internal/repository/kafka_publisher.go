package repository

import (
	"context"

	"github.com/gannontraynor/marketPulse/internal/domain/models"
	domrepo "github.com/gannontraynor/marketPulse/internal/domain/repository"
	pkgkafka "github.com/gannontraynor/marketPulse/pkg/kafka"
)

// KafkaPublisher emits regime transition events, keyed by symbol so a
// partition preserves per-symbol ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed transition publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishTransitions(ctx context.Context, events []models.TransitionEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, ev := range events {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(ev.Symbol),
			Value: ev,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
