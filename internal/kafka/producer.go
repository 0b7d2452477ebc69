package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"award-registration/internal/logger"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Confirmations are published one at a time on the callback path, so the
// writer flushes immediately and gives up quickly.
const (
	batchTimeout = 10 * time.Millisecond
	maxAttempts  = 3
	writeTimeout = 2 * time.Second
)

type Producer struct {
	Writer MessageWriter
	log    *logger.Logger
}

// NewProducer returns a producer whose messages name their own topic.
func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           batchTimeout,
		MaxAttempts:            maxAttempts,
		WriteTimeout:           writeTimeout,
	}
	return &Producer{Writer: writer, log: log}
}

// Publish streams value as JSON to topic, keyed so that events about the same
// payment land on one partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	msgBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", topic, err)
	}

	if err := p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: msgBytes,
	}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	if p.log != nil {
		p.log.LogKafka("PUBLISHED", topic, fmt.Sprintf("key=%s bytes=%d", key, len(msgBytes)))
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
