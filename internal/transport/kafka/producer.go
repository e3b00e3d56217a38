package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// Publisher writes moderation events to one topic, keyed by target id.
type Publisher struct {
	logger   logx.Logger
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a synchronous producer.
func NewPublisher(logger logx.Logger, brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka publisher: brokers and topic are required")
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 0

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return newPublisher(logger, p, topic), nil
}

func newPublisher(logger logx.Logger, p sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{logger: logger.With(logx.String("topic", topic)), producer: p, topic: topic}
}

// Publish sends ev and waits for the broker acknowledgement.
func (p *Publisher) Publish(ctx context.Context, ev domain.ModerationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(FromDomain(ev))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(ev.TargetID),
		Value:     sarama.ByteEncoder(b),
		Timestamp: ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("send event %s: %w", ev.EventID, err)
	}
	p.logger.Debug("moderation event published",
		logx.String("event_id", ev.EventID),
		logx.Int("partition", int(partition)),
		logx.Any("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer
func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. It stands in when Kafka is not configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, domain.ModerationEvent) error { return nil }
