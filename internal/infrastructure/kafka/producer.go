package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// Publish writes event as JSON keyed by key
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

// PublishEvent wraps data in an Event envelope and publishes it keyed by
// aggregateID so one aggregate's events stay ordered within a partition.
func (p *Producer) PublishEvent(ctx context.Context, aggregateID, aggregateType, eventType string, data any) error {
	event, err := NewEvent(aggregateID, aggregateType, eventType, data)
	if err != nil {
		return err
	}
	return p.Publish(ctx, aggregateID, event)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
